package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/tasuku43/ghpick/internal/infra/debuglog"
)

const (
	Indent       = "  "
	StepPrefix   = "•"
	LogConnector = "└─"
)

// Reporter shows user-facing messages. A picker session emits at most one
// message of each outcome.
type Reporter interface {
	Info(text string)
	Error(text string)
}

// Plain writes messages without styling. Info goes to Out and errors to Err.
type Plain struct {
	mu  sync.Mutex
	Out io.Writer
	Err io.Writer
}

func NewPlain() *Plain {
	return &Plain{Out: os.Stdout, Err: os.Stderr}
}

func (p *Plain) Info(text string) {
	p.write(p.Out, text)
}

func (p *Plain) Error(text string) {
	p.write(p.Err, text)
}

func (p *Plain) write(w io.Writer, text string) {
	if w == nil {
		return
	}
	lines := Lines(text)
	if len(lines) == 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(w, "%s%s %s\n", Indent, StepPrefix, lines[0])
	for _, line := range lines[1:] {
		fmt.Fprintf(w, "%s%s\n", LogOutputPrefix(), line)
	}
}

// Traced records every message in the debug log before handing it on.
type Traced struct {
	Next Reporter
}

func (t Traced) Info(text string) {
	debuglog.Logf("reporter", "info: %s", text)
	if t.Next != nil {
		t.Next.Info(text)
	}
}

func (t Traced) Error(text string) {
	debuglog.Logf("reporter", "error: %s", text)
	if t.Next != nil {
		t.Next.Error(text)
	}
}

// Lines splits text into its non-blank lines.
func Lines(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var out []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

func LogOutputPrefix() string {
	spaces := utf8.RuneCountInString(LogConnector) + 1
	return Indent + Indent + strings.Repeat(" ", spaces)
}
