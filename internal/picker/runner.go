package picker

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/tasuku43/ghpick/internal/infra/debuglog"
	"github.com/tasuku43/ghpick/internal/infra/output"
)

// GhExecer runs gh attached to the terminal.
type GhExecer interface {
	Exec(ctx context.Context, args []string) error
}

// SystemRunner is the Runner used outside tests.
type SystemRunner struct {
	Client GhExecer
}

func NewSystemRunner(client GhExecer) SystemRunner {
	return SystemRunner{Client: client}
}

func (r SystemRunner) Gh(ctx context.Context, args []string) error {
	if r.Client == nil {
		return fmt.Errorf("gh is not configured")
	}
	return r.Client.Exec(ctx, args)
}

// Command streams the command's output indented under the picker messages.
func (r SystemRunner) Command(ctx context.Context, argv []string) error {
	if len(argv) == 0 {
		return fmt.Errorf("command is empty")
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = output.NewIndentWriter(os.Stdout)
	cmd.Stderr = output.NewIndentWriter(os.Stderr)
	span := debuglog.StartCommand("action", argv[0], argv[1:])
	err := cmd.Run()
	span.Finish(err)
	if err != nil {
		return fmt.Errorf("%s failed: %w", strings.Join(argv, " "), err)
	}
	return nil
}

func (r SystemRunner) Copy(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard is not available")
	}
	return clipboard.WriteAll(text)
}
