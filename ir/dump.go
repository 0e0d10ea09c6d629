package ir

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes a human-readable disassembly of lib to w. Ids are assigned in
// the order nodes are printed, so output is stable for a given library.
func Dump(w io.Writer, lib *Library) error {
	d := &dumper{ids: make(map[Node]int)}
	d.library(lib)
	_, err := io.WriteString(w, d.sb.String())
	return err
}

// DumpString returns Dump's output as a string.
func DumpString(lib *Library) string {
	var sb strings.Builder
	_ = Dump(&sb, lib)
	return sb.String()
}

type dumper struct {
	sb  strings.Builder
	ids map[Node]int
}

func (d *dumper) id(n Node) string {
	switch v := n.(type) {
	case nil:
		return "<nil>"
	case *Literal:
		return v.String()
	}
	id, ok := d.ids[n]
	if !ok {
		id = len(d.ids) + 1
		d.ids[n] = id
	}
	return fmt.Sprintf("%%%d", id)
}

func (d *dumper) printf(format string, args ...any) {
	fmt.Fprintf(&d.sb, format, args...)
}

func (d *dumper) library(lib *Library) {
	d.printf("; Library: %s\n", lib.Name)
	for _, t := range lib.Types {
		d.typeDecl(t)
	}
	for _, c := range lib.Constants {
		d.op(c, "")
	}
	for _, c := range lib.SpecConstants {
		d.op(c, "")
	}
	for _, g := range lib.Globals {
		d.op(g.Instance, "")
	}
	for _, f := range lib.Functions {
		d.function(f)
	}
	for _, ep := range lib.EntryPoints {
		d.printf("               OpEntryPoint %s %s %q", ep.Stage, d.id(ep.Function), ep.Name)
		for _, v := range ep.Interface {
			d.printf(" %s", d.id(v))
		}
		d.printf("\n")
		for _, m := range ep.Modes {
			d.printf("               OpExecutionMode %s %d", d.id(ep.Function), m.Mode)
			for _, lit := range m.Literals {
				d.printf(" %d", lit)
			}
			d.printf("\n")
		}
	}
}

func (d *dumper) typeDecl(t *Type) {
	d.printf("%10s = ", d.id(t))
	switch t.Base {
	case BasePointer:
		d.printf("OpTypePointer %s %s", t.StorageClass, d.id(t.Deref))
	case BaseVector, BaseMatrix:
		d.printf("OpType%s %s %d", t.Base, d.id(t.Component), t.Components)
	default:
		d.printf("OpType%s", t.Base)
		for _, p := range t.Params {
			d.printf(" %s", d.id(p))
		}
	}
	d.printf(" ; %s\n", t.Name)
}

func (d *dumper) function(f *Function) {
	d.printf("%10s = OpFunction %s %s ; %s\n", d.id(f), d.id(f.ReturnType()), d.id(f.Type), f.Name)
	for _, p := range f.Parameters {
		d.op(p, "")
	}
	for _, b := range f.Blocks {
		d.printf("%10s = OpLabel ; %s", d.id(b), b.Name)
		if b.Kind != BlockPlain {
			d.printf(" (%s merge=%s", b.Kind, d.id(b.Merge))
			if b.Continue != nil {
				d.printf(" continue=%s", d.id(b.Continue))
			}
			d.printf(")")
		}
		d.printf("\n")
		for _, op := range b.Locals {
			d.op(op, "  ")
		}
		for _, op := range b.Ops {
			d.op(op, "  ")
		}
	}
	d.printf("               OpFunctionEnd\n")
}

func (d *dumper) op(op *Op, indent string) {
	if op.Result != nil {
		d.printf("%s%10s = %s %s", indent, d.id(op), op.Code, d.id(op.Result))
	} else {
		d.printf("%s             %s", indent, op.Code)
	}
	for _, a := range op.Args {
		d.printf(" %s", d.id(a))
	}
	if op.Debug.Name != "" {
		d.printf(" ; %s", op.Debug.Name)
	}
	d.printf("\n")
}
