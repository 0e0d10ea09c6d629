package syntax

import "fmt"

// Span represents a source code location span.
type Span struct {
	Start  Position
	End    Position
	Source string // Source file name or identifier
}

// Position represents a position in source code.
type Position struct {
	Line   int
	Column int
	Offset int
}

// IsZero reports whether the span carries no location.
func (s Span) IsZero() bool {
	return s.Start.Line == 0 && s.Source == ""
}

// String formats the span as "source:line:column".
func (s Span) String() string {
	switch {
	case s.IsZero():
		return "<unknown>"
	case s.Source == "":
		return fmt.Sprintf("%d:%d", s.Start.Line, s.Start.Column)
	default:
		return fmt.Sprintf("%s:%d:%d", s.Source, s.Start.Line, s.Start.Column)
	}
}

// At returns a single-position span, handy for hosts and tests.
func At(source string, line, column int) Span {
	p := Position{Line: line, Column: column}
	return Span{Start: p, End: p, Source: source}
}
