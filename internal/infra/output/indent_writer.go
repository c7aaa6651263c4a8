package output

import (
	"io"
)

// IndentWriter prefixes every line written through it. Custom action
// commands stream their output through one so it lines up under the
// picker's messages.
type IndentWriter struct {
	prefix string
	w      io.Writer
	atLine bool
}

func NewIndentWriter(w io.Writer) *IndentWriter {
	return &IndentWriter{prefix: LogOutputPrefix(), w: w}
}

func (w *IndentWriter) Write(p []byte) (int, error) {
	if w.w == nil {
		return len(p), nil
	}
	written := 0
	for len(p) > 0 {
		if !w.atLine {
			if _, err := io.WriteString(w.w, w.prefix); err != nil {
				return written, err
			}
			w.atLine = true
		}
		end := len(p)
		for i, b := range p {
			if b == '\n' {
				end = i + 1
				break
			}
		}
		n, err := w.w.Write(p[:end])
		written += n
		if err != nil {
			return written, err
		}
		if p[end-1] == '\n' {
			w.atLine = false
		}
		p = p[end:]
	}
	return written, nil
}
