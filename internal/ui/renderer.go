package ui

import (
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/tasuku43/ghpick/internal/infra/output"
)

// lastWidth holds the terminal width the picker saw most recently, so
// messages printed after it closes wrap the same way. Zero means no wrap.
var lastWidth atomic.Int64

func rememberWidth(width int) {
	lastWidth.Store(int64(max(width, 0)))
}

type Renderer struct {
	out       io.Writer
	theme     Theme
	useColor  bool
	wrapWidth int
}

func NewRenderer(out io.Writer, theme Theme, useColor bool) *Renderer {
	return &Renderer{
		out:       out,
		theme:     theme,
		useColor:  useColor,
		wrapWidth: int(lastWidth.Load()),
	}
}

func (r *Renderer) Blank() {
	fmt.Fprintln(r.out)
}

func (r *Renderer) Bullet(text string) {
	prefix := output.StepPrefix + " "
	if r.useColor {
		prefix = r.theme.Muted.Render(prefix)
	}
	r.writeWithPrefix(output.Indent+prefix, text)
}

func (r *Renderer) BulletError(text string) {
	prefix := output.StepPrefix + " "
	if r.useColor {
		prefix = r.theme.Error.Render(prefix)
		text = r.theme.Error.Render(text)
	}
	r.writeWithPrefix(output.Indent+prefix, text)
}

func (r *Renderer) LogOutput(text string) {
	r.writeWithPrefix(output.LogOutputPrefix(), r.style(text, r.theme.Muted))
}

func (r *Renderer) style(text string, style lipgloss.Style) string {
	if !r.useColor {
		return text
	}
	return style.Render(text)
}

func (r *Renderer) writeWithPrefix(prefix, text string) {
	if r.wrapWidth <= 0 {
		r.writeLine(prefix + text)
		return
	}
	prefixWidth := lipgloss.Width(prefix)
	available := r.wrapWidth - prefixWidth
	if available <= 0 {
		r.writeLine(prefix + text)
		return
	}
	wrapped := ansi.Wrap(text, available, "")
	lines := strings.Split(wrapped, "\n")
	if len(lines) == 0 {
		return
	}
	r.writeLine(prefix + lines[0])
	if len(lines) == 1 {
		return
	}
	padding := strings.Repeat(" ", prefixWidth)
	for _, line := range lines[1:] {
		r.writeLine(padding + line)
	}
}

func (r *Renderer) writeLine(text string) {
	fmt.Fprintln(r.out, strings.TrimRight(text, "\n"))
}

// Reporter shows session messages as bullets: info on Out, errors on Err.
// Extra lines of a message are printed as muted log output.
type Reporter struct {
	Out *Renderer
	Err *Renderer
}

func (r Reporter) Info(text string) {
	lines := output.Lines(text)
	if len(lines) == 0 || r.Out == nil {
		return
	}
	r.Out.Bullet(lines[0])
	for _, line := range lines[1:] {
		r.Out.LogOutput(line)
	}
}

func (r Reporter) Error(text string) {
	lines := output.Lines(text)
	if len(lines) == 0 || r.Err == nil {
		return
	}
	r.Err.BulletError(lines[0])
	for _, line := range lines[1:] {
		r.Err.LogOutput(line)
	}
}
