package debuglog

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
)

type codeErr struct{ code int }

func (e codeErr) Error() string { return "exit" }
func (e codeErr) ExitCode() int { return e.code }

func TestEnableWritesTaggedLines(t *testing.T) {
	dir := t.TempDir()
	if err := Enable(dir); err != nil {
		t.Fatalf("enable: %v", err)
	}
	t.Cleanup(func() { _ = Close() })

	SetSession("abc", "Issues")
	span := StartCommand("gh", "gh", []string{"api", "graphql"})
	span.Output("line one\n\nline two\n", "")
	Logf(span.trace, "Fetching %s", "issues")
	if code := span.Finish(nil); code != 0 {
		t.Fatalf("finish code = %d", code)
	}
	ClearSession()

	path := Path()
	if !strings.HasPrefix(path, dir) {
		t.Fatalf("log path %q not under %q", path, dir)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	text := string(data)
	for _, want := range []string{
		`kind=cmd session=abc title="Issues" cmd="gh api graphql"`,
		`kind=stdout session=abc title="Issues" line="line one"`,
		`line="line two"`,
		`kind=info session=abc title="Issues" line="Fetching issues"`,
		`kind=exit session=abc title="Issues" code=0`,
		"phase=session",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("log missing %q:\n%s", want, text)
		}
	}
	if strings.Count(text, "\n") != 5 {
		t.Fatalf("expected 5 lines, got:\n%s", text)
	}
}

func TestDisabledIsQuiet(t *testing.T) {
	_ = Close()
	if Enabled() {
		t.Fatalf("expected logging disabled")
	}
	span := StartCommand("git", "git", []string{"remote"})
	span.Output("x", "y")
	if code := span.Finish(codeErr{code: 2}); code != 2 {
		t.Fatalf("finish code = %d, want 2", code)
	}
	if Path() != "" {
		t.Fatalf("expected empty path")
	}
	if err := Enable(" "); err == nil {
		t.Fatalf("expected error for blank dir")
	}
}

func TestExitCode(t *testing.T) {
	if ExitCode(nil) != 0 {
		t.Fatalf("nil error should be 0")
	}
	if ExitCode(codeErr{code: 4}) != 4 {
		t.Fatalf("exit coder not honored")
	}
	if ExitCode(fmt.Errorf("wrapped: %w", codeErr{code: 3})) != 3 {
		t.Fatalf("wrapped exit coder not honored")
	}
	if ExitCode(errors.New("boom")) != -1 {
		t.Fatalf("plain error should be -1")
	}
}

func TestNewTraceDefaultsPrefix(t *testing.T) {
	if got := NewTrace(" "); !strings.HasPrefix(got, "cmd:") {
		t.Fatalf("trace = %q", got)
	}
	if a, b := NewTrace("gh"), NewTrace("gh"); a == b {
		t.Fatalf("traces should be unique, got %q twice", a)
	}
}
