package output

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"
)

type captureReporter struct {
	infos  []string
	errors []string
}

func (c *captureReporter) Info(text string)  { c.infos = append(c.infos, text) }
func (c *captureReporter) Error(text string) { c.errors = append(c.errors, text) }

func TestLogOutputPrefix(t *testing.T) {
	want := Indent + Indent + strings.Repeat(" ", utf8.RuneCountInString(LogConnector)+1)
	if got := LogOutputPrefix(); got != want {
		t.Fatalf("LogOutputPrefix() = %q, want %q", got, want)
	}
}

func TestPlainSplitsStreams(t *testing.T) {
	var out, errOut bytes.Buffer
	p := &Plain{Out: &out, Err: &errOut}

	p.Info("There are no notifications")
	p.Error("HTTP 401\nBad credentials\n")
	p.Info("   ")

	if got := out.String(); got != "  • There are no notifications\n" {
		t.Fatalf("out = %q", got)
	}
	want := "  • HTTP 401\n" + LogOutputPrefix() + "Bad credentials\n"
	if got := errOut.String(); got != want {
		t.Fatalf("err = %q, want %q", got, want)
	}
}

func TestTracedForwards(t *testing.T) {
	next := &captureReporter{}
	r := Traced{Next: next}
	r.Info("a")
	r.Error("b")
	if len(next.infos) != 1 || next.infos[0] != "a" || len(next.errors) != 1 || next.errors[0] != "b" {
		t.Fatalf("unexpected forwarding: %+v", next)
	}
}

func TestIndentWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewIndentWriter(&buf)
	if _, err := w.Write([]byte("alpha\nbra")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := w.Write([]byte("vo\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	prefix := LogOutputPrefix()
	want := prefix + "alpha\n" + prefix + "bravo\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestLines(t *testing.T) {
	got := Lines("a\r\n\n b \n")
	if len(got) != 2 || got[0] != "a" || got[1] != " b " {
		t.Fatalf("lines = %#v", got)
	}
}
