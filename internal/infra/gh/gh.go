package gh

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/tasuku43/ghpick/internal/infra/debuglog"
)

const defaultBinary = "gh"

// Request describes one gh invocation.
type Request struct {
	Args    []string
	Headers []string
}

// Result is delivered exactly once per Fetch. When Err is set, Output must
// be ignored.
type Result struct {
	Output []byte
	Err    error
}

// CommandError carries the stderr of a failed gh run. Its message is the
// stderr text itself so callers can show it verbatim.
type CommandError struct {
	Args     []string
	Stderr   string
	ExitCode int
	Err      error
}

func (e *CommandError) Error() string {
	if msg := strings.TrimSpace(e.Stderr); msg != "" {
		return msg
	}
	name := defaultBinary
	if len(e.Args) > 0 {
		name += " " + e.Args[0]
	}
	return fmt.Sprintf("%s failed: %v", name, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

type execFunc func(ctx context.Context, name string, args []string) (string, string, error)

type Client struct {
	binary string
	host   string
	exec   execFunc
}

// New returns a client for host. An empty host or github.com uses gh's
// default host.
func New(host string) *Client {
	return &Client{binary: defaultBinary, host: strings.TrimSpace(host), exec: runExternalCommand}
}

func (c *Client) Host() string {
	if c.host == "" {
		return "github.com"
	}
	return c.host
}

// Fetch runs req in the background and delivers its single result on the
// returned channel.
func (c *Client) Fetch(ctx context.Context, req Request) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		out, err := c.Run(ctx, req)
		ch <- Result{Output: out, Err: err}
	}()
	return ch
}

// Run executes req and returns stdout.
func (c *Client) Run(ctx context.Context, req Request) ([]byte, error) {
	args := c.buildArgs(req)
	if len(args) == 0 {
		return nil, fmt.Errorf("gh arguments are required")
	}
	stdout, stderr, err := c.exec(ctx, c.binary, args)
	if err != nil {
		return nil, &CommandError{Args: args, Stderr: stderr, ExitCode: debuglog.ExitCode(err), Err: err}
	}
	return []byte(stdout), nil
}

// Exec runs gh attached to the terminal, for interactive subcommands such
// as `gh pr checkout`.
func (c *Client) Exec(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, c.binary, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	span := debuglog.StartCommand("gh", c.binary, args)
	err := cmd.Run()
	span.Finish(err)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", c.binary, strings.Join(args, " "), err)
	}
	return nil
}

func (c *Client) buildArgs(req Request) []string {
	args := append([]string(nil), req.Args...)
	if len(args) == 0 || args[0] != "api" {
		return args
	}
	var extra []string
	if c.host != "" && !strings.EqualFold(c.host, "github.com") {
		extra = append(extra, "--hostname", c.host)
	}
	for _, header := range req.Headers {
		if strings.TrimSpace(header) == "" {
			continue
		}
		extra = append(extra, "-H", header)
	}
	return append(append([]string{"api"}, extra...), args[1:]...)
}

func runExternalCommand(ctx context.Context, name string, args []string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	span := debuglog.StartCommand("gh", name, args)
	err := cmd.Run()
	span.Output(stdout.String(), stderr.String())
	span.Finish(err)
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) && stderr.Len() == 0 {
		return stdout.String(), err.Error(), err
	}
	return stdout.String(), stderr.String(), err
}
