package debuglog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// sink is the open log file. Lines are dropped while it is nil.
type sink struct {
	mu   sync.Mutex
	file *os.File
	path string
	pid  int
	on   atomic.Bool
}

// scope tags every line with where the picker currently is.
type scope struct {
	mu      sync.Mutex
	phase   string
	session string
	title   string
}

var (
	out      sink
	current  scope
	traceSeq atomic.Uint64
)

// Enable opens <stateDir>/logs/debug-YYYYMMDD.log for appending.
func Enable(stateDir string) error {
	if strings.TrimSpace(stateDir) == "" {
		return fmt.Errorf("state directory is required")
	}
	dir := filepath.Join(stateDir, "logs")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create debug log dir: %w", err)
	}
	path := filepath.Join(dir, "debug-"+time.Now().Format("20060102")+".log")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open debug log file: %w", err)
	}

	out.mu.Lock()
	defer out.mu.Unlock()
	if out.file != nil {
		_ = out.file.Close()
	}
	out.file, out.path, out.pid = file, path, os.Getpid()
	out.on.Store(true)
	return nil
}

func Close() error {
	out.mu.Lock()
	defer out.mu.Unlock()
	out.on.Store(false)
	out.path = ""
	if out.file == nil {
		return nil
	}
	err := out.file.Close()
	out.file = nil
	return err
}

func Enabled() bool {
	return out.on.Load()
}

// Path returns the active log file, or "" when logging is off.
func Path() string {
	out.mu.Lock()
	defer out.mu.Unlock()
	return out.path
}

// NewTrace returns an id that groups the lines of one operation.
func NewTrace(prefix string) string {
	if prefix = strings.TrimSpace(prefix); prefix == "" {
		prefix = "cmd"
	}
	return fmt.Sprintf("%s:%x", prefix, traceSeq.Add(1))
}

// Logf records a free-form info line under trace.
func Logf(trace, format string, args ...any) {
	if !Enabled() {
		return
	}
	write(trace, "info", field{"line", fmt.Sprintf(format, args...), true})
}

// Span traces one external command: its argv, output and exit code.
type Span struct {
	trace string
}

// StartCommand logs name and args under a fresh trace with prefix.
func StartCommand(prefix, name string, args []string) Span {
	if !Enabled() {
		return Span{}
	}
	s := Span{trace: NewTrace(prefix)}
	cmd := strings.TrimSpace(name + " " + strings.Join(args, " "))
	write(s.trace, "cmd", field{"cmd", cmd, true})
	return s
}

// Output logs each non-blank line of stdout and stderr.
func (s Span) Output(stdout, stderr string) {
	if s.trace == "" {
		return
	}
	writeLines(s.trace, "stdout", stdout)
	writeLines(s.trace, "stderr", stderr)
}

// Finish logs the exit code of err and returns it.
func (s Span) Finish(err error) int {
	code := ExitCode(err)
	if s.trace != "" {
		write(s.trace, "exit", field{"code", fmt.Sprint(code), false})
	}
	return code
}

// ExitCode is 0 for nil, the process exit code when err carries one, and
// -1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var coder interface{ ExitCode() int }
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return -1
}

// SetSession tags subsequent lines with the picker session being built.
func SetSession(id, title string) {
	current.mu.Lock()
	defer current.mu.Unlock()
	current.phase = "session"
	current.session = strings.TrimSpace(id)
	current.title = strings.TrimSpace(title)
}

func ClearSession() {
	current.mu.Lock()
	defer current.mu.Unlock()
	if current.phase == "session" {
		current.phase = ""
	}
	current.session, current.title = "", ""
}

func SetPhase(phase string) {
	current.mu.Lock()
	defer current.mu.Unlock()
	current.phase = strings.TrimSpace(phase)
}

type field struct {
	key    string
	value  string
	quoted bool
}

func writeLines(trace, kind, text string) {
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) != "" {
			write(trace, kind, field{"line", line, true})
		}
	}
}

// write emits one key=value line: ts, pid, trace, phase and kind always,
// then session, title and the given fields when set.
func write(trace, kind string, extra ...field) {
	current.mu.Lock()
	phase, session, title := current.phase, current.session, current.title
	current.mu.Unlock()
	if phase == "" {
		phase = "none"
	}
	if trace = strings.TrimSpace(trace); trace == "" {
		trace = "unknown"
	}

	out.mu.Lock()
	defer out.mu.Unlock()
	if out.file == nil {
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "ts=%s pid=%d trace=%s phase=%s kind=%s",
		time.Now().Format(time.RFC3339Nano), out.pid, trace, phase, kind)
	fields := append([]field{{"session", session, false}, {"title", title, true}}, extra...)
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if f.quoted {
			fmt.Fprintf(&b, " %s=%q", f.key, f.value)
		} else {
			fmt.Fprintf(&b, " %s=%s", f.key, f.value)
		}
	}
	b.WriteByte('\n')
	_, _ = out.file.WriteString(b.String())
}
