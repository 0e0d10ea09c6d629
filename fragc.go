// Package fragc translates shading-language fragments into a SPIR-V shaped
// IR and encodes them as SPIR-V binaries.
//
// fragc does not parse source text. A host front end parses and resolves
// symbols against the core library, then hands the resulting tree over:
//
//	core := corelib.New(nil)
//	tree := host.Parse(source, core) // *syntax.Tree
//	spirvBytes, err := fragc.Compile(tree, core)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// When translation fails the returned error is a *diag.List holding every
// diagnostic; use diag.List.PrintAll to show them.
//
// For lower-level access use the frontend, check, ir and spirv packages.
package fragc

import (
	"github.com/pkg/errors"

	"github.com/gogpu/fragc/config"
	"github.com/gogpu/fragc/corelib"
	"github.com/gogpu/fragc/diag"
	"github.com/gogpu/fragc/frontend"
	"github.com/gogpu/fragc/ir"
	"github.com/gogpu/fragc/spirv"
	"github.com/gogpu/fragc/syntax"
)

// Options configures translation and encoding.
type Options struct {
	// Settings overrides the core library's settings when non-nil.
	Settings *config.Settings

	// Dependencies are searched, in order, before the core library.
	Dependencies []*ir.Library

	// Sink, if set, receives every diagnostic as it is reported.
	Sink diag.Sink

	// SPIRVVersion is the target SPIR-V version (default: 1.3)
	SPIRVVersion spirv.Version

	// Debug emits OpName and OpMemberName
	Debug bool
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{
		SPIRVVersion: spirv.Version1_3,
		Debug:        true,
	}
}

// Translate lowers tree into a library using default options.
func Translate(tree *syntax.Tree, core *corelib.Core) (*ir.Library, error) {
	return TranslateWithOptions(tree, core, DefaultOptions())
}

// TranslateWithOptions lowers tree into a library that depends on
// opts.Dependencies and core.
//
// The pipeline is:
//  1. Collect and declare every struct, enum and template instance
//  2. Pre-walk members and function signatures
//  3. Walk function bodies into structured blocks
//  4. Check stage requirements and call cycles
func TranslateWithOptions(tree *syntax.Tree, core *corelib.Core, opts Options) (*ir.Library, error) {
	if tree == nil || tree.Library == nil {
		return nil, errors.New("fragc: tree has no library")
	}
	if core == nil {
		return nil, errors.New("fragc: nil core library")
	}
	settings := opts.Settings
	if settings == nil {
		settings = core.Settings
	}

	deps := ir.NewModule(opts.Dependencies...)
	deps.Add(core.Library)

	tr := frontend.New(frontend.Options{
		Settings: settings,
		Builtins: Builtins(core),
		Sink:     opts.Sink,
	})
	lib, ok := tr.Translate(tree, deps)
	if !ok {
		return nil, tr.Errors()
	}
	return lib, nil
}

// Builtins returns the core symbols the translator needs.
func Builtins(core *corelib.Core) frontend.Builtins {
	return frontend.Builtins{
		Void: core.Void,
		Bool: core.Bool,
		Int:  core.Int,
		Real: core.Real,
	}
}

// Compile translates tree and encodes it as SPIR-V using default options.
func Compile(tree *syntax.Tree, core *corelib.Core) ([]byte, error) {
	return CompileWithOptions(tree, core, DefaultOptions())
}

// CompileWithOptions translates tree and encodes the library as SPIR-V.
func CompileWithOptions(tree *syntax.Tree, core *corelib.Core, opts Options) ([]byte, error) {
	lib, err := TranslateWithOptions(tree, core, opts)
	if err != nil {
		return nil, err
	}
	data, err := spirv.EncodeWithOptions(lib, spirv.Options{
		Version: opts.SPIRVVersion,
		Debug:   opts.Debug,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "encoding %s", lib.Name)
	}
	return data, nil
}
