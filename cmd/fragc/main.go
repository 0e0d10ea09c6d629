// Command fragc inspects the fragc core library, SPIR-V binaries and
// translator settings.
//
// Usage:
//
//	fragc core [-c settings.toml] [-o core.spv]   # Dump the core library IR
//	fragc dis shader.spv                          # Disassemble SPIR-V
//	fragc config init settings.toml               # Write default settings
//	fragc config check settings.toml              # Validate a settings file
//	fragc version
package main

import (
	"fmt"
	"os"

	"github.com/ComedicChimera/olive"
	"github.com/pkg/errors"
	"github.com/pterm/pterm"

	"github.com/gogpu/fragc/config"
	"github.com/gogpu/fragc/corelib"
	"github.com/gogpu/fragc/diag"
	"github.com/gogpu/fragc/ir"
	"github.com/gogpu/fragc/spirv"
)

const fragcVersion = "0.1.0-dev"

var infoStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)

func main() {
	cli := olive.NewCLI("fragc", "fragc is a tool for inspecting fragc translations", true)

	coreCmd := cli.AddSubcommand("core", "dump the core library", true)
	coreCmd.AddStringArg("config", "c", "the settings file to build the core library with", false)
	coreCmd.AddStringArg("output", "o", "also encode the core library as SPIR-V to this file", false)

	disCmd := cli.AddSubcommand("dis", "disassemble a SPIR-V binary", true)
	disCmd.AddPrimaryArg("input", "the SPIR-V file to disassemble", true)

	configCmd := cli.AddSubcommand("config", "manage translator settings", true)
	initCmd := configCmd.AddSubcommand("init", "write the default settings", true)
	initCmd.AddPrimaryArg("path", "the settings file to create", true)
	checkCmd := configCmd.AddSubcommand("check", "validate a settings file", true)
	checkCmd.AddPrimaryArg("path", "the settings file to validate", true)

	cli.AddSubcommand("version", "print the fragc version", false)

	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		diag.PrintFatal(os.Stderr, "CLI Usage Error", err)
		os.Exit(2)
	}

	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "core":
		err = execCoreCommand(subResult)
	case "dis":
		err = execDisCommand(subResult)
	case "config":
		err = execConfigCommand(subResult)
	case "version":
		printInfo("fragc Version", fragcVersion)
	}
	if err != nil {
		diag.PrintFatal(os.Stderr, "Error", err)
		os.Exit(1)
	}
}

func printInfo(tag, msg string) {
	fmt.Println(infoStyleBG.Sprint(tag) + " " + diag.InfoColorFG.Sprint(msg))
}

func execCoreCommand(result *olive.ArgParseResult) error {
	settings := config.Default()
	if path, ok := result.Arguments["config"]; ok {
		s, err := config.Load(path.(string))
		if err != nil {
			return err
		}
		settings = s
	}

	core := corelib.New(settings)
	if err := ir.Dump(os.Stdout, core.Library); err != nil {
		return errors.Wrap(err, "dumping core library")
	}

	if out, ok := result.Arguments["output"]; ok {
		data, err := spirv.Encode(core.Library)
		if err != nil {
			return err
		}
		if err := os.WriteFile(out.(string), data, 0o644); err != nil {
			return errors.Wrapf(err, "writing %s", out)
		}
		printInfo("Encoded", fmt.Sprintf("%s (%d bytes)", out, len(data)))
	}
	return nil
}

func execDisCommand(result *olive.ArgParseResult) error {
	path, _ := result.PrimaryArg()
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "reading %s", path)
	}
	text, err := spirv.Disassemble(data)
	if err != nil {
		return errors.Wrapf(err, "in %s", path)
	}
	fmt.Print(text)
	return nil
}

func execConfigCommand(result *olive.ArgParseResult) error {
	subcmdName, subResult, ok := result.Subcommand()
	if !ok {
		return errors.New("expected a config subcommand: init or check")
	}
	path, _ := subResult.PrimaryArg()

	switch subcmdName {
	case "init":
		if _, err := os.Stat(path); err == nil {
			diag.PrintWarning(os.Stderr, "Overwriting", path)
		}
		if err := config.Default().Save(path); err != nil {
			return err
		}
		printInfo("Created", path)
	case "check":
		s, err := config.Load(path)
		if err != nil {
			return err
		}
		printInfo("Valid", fmt.Sprintf("%s (%d type, %d function, %d field attributes)",
			path, len(s.TypeAttributes), len(s.FunctionAttributes), len(s.FieldAttributes)))
	}
	return nil
}
