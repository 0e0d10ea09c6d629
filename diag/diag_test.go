package diag

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/fragc/syntax"
)

func TestList_ErrorTriggered(t *testing.T) {
	var l List
	if l.ErrorTriggered() {
		t.Fatal("expected empty list to not be triggered")
	}
	l.Add(syntax.At("a.frag", 1, 2), "short", "full message")
	if !l.ErrorTriggered() {
		t.Fatal("expected list to be triggered")
	}
	if got := l.Error(); got != "a.frag:1:2: full message" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestList_Forward(t *testing.T) {
	var seen []*Error
	l := List{Forward: SinkFunc(func(e *Error) { seen = append(seen, e) })}
	l.Addf(syntax.Span{}, "Type '%s' cannot be copied.", "Buffer")
	l.Addf(syntax.Span{}, "second")
	if len(seen) != 2 {
		t.Fatalf("expected 2 forwarded errors, got %d", len(seen))
	}
	if seen[0].Short != "Type 'Buffer' cannot be copied." {
		t.Errorf("unexpected short message %q", seen[0].Short)
	}
	if !strings.Contains(l.Error(), "and 1 more errors") {
		t.Errorf("expected summary with count, got %q", l.Error())
	}
}

func TestList_AsError(t *testing.T) {
	l := &List{}
	l.Addf(syntax.Span{}, "boom")
	var err error = l
	var target *List
	if !errors.As(err, &target) || target.Len() != 1 {
		t.Errorf("expected errors.As to recover the list")
	}
}

func TestPrint_IncludesMessagesAndStack(t *testing.T) {
	e := &Error{
		Span:      syntax.At("a.frag", 4, 1),
		Short:     "Invalid shader stage combination",
		Full:      "'A.Main' requires shader stage Vertex",
		CallStack: []syntax.Span{syntax.At("a.frag", 5, 3), syntax.At("b.frag", 9, 2)},
	}
	var buf bytes.Buffer
	Print(&buf, e)
	out := buf.String()
	for _, want := range []string{"Invalid shader stage combination", "requires shader stage Vertex", "a.frag:5:3", "b.frag:9:2"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}
