package gitcmd

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/tasuku43/ghpick/internal/infra/debuglog"
)

// Only read-only subcommands are needed to locate the current repository.
var allowedSubcommands = map[string]struct{}{
	"remote":    {},
	"rev-parse": {},
}

// Error is a failed or refused git invocation.
type Error struct {
	Args     []string
	Stderr   string
	ExitCode int
	Err      error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("git %s failed", strings.Join(e.Args, " "))
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Run executes git in dir and returns its trimmed stdout.
func Run(ctx context.Context, dir string, args ...string) (string, error) {
	if len(args) == 0 {
		return "", &Error{ExitCode: -1, Err: fmt.Errorf("git command is required")}
	}
	if _, ok := allowedSubcommands[args[0]]; !ok {
		return "", &Error{Args: args, ExitCode: -1, Err: fmt.Errorf("subcommand %q is not allowed", args[0])}
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	span := debuglog.StartCommand("git", "git", args)
	err := cmd.Run()
	span.Output(stdout.String(), stderr.String())
	code := span.Finish(err)
	if err != nil {
		return "", &Error{Args: args, Stderr: stderr.String(), ExitCode: code, Err: err}
	}
	return strings.TrimSpace(stdout.String()), nil
}
