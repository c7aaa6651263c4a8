package picker

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/tasuku43/ghpick/internal/domain/action"
	"github.com/tasuku43/ghpick/internal/infra/debuglog"
	"github.com/tasuku43/ghpick/internal/infra/output"
)

// Handle is the running session handed to actions. Each orchestration
// creates a fresh one.
type Handle struct {
	id       string
	title    string
	host     string
	trace    string
	reporter output.Reporter
	refresh  func(ctx context.Context) error
}

var _ action.Session = (*Handle)(nil)

func (o *Orchestrator) newSession(title, host string, refresh func(ctx context.Context) error) *Handle {
	id := uuid.NewString()
	debuglog.SetSession(id, title)
	if strings.TrimSpace(host) == "" {
		host = o.host
	}
	return &Handle{
		id:       id,
		title:    title,
		host:     host,
		trace:    debuglog.NewTrace("picker"),
		reporter: o.report(),
		refresh:  refresh,
	}
}

func (h *Handle) ID() string {
	return h.id
}

func (h *Handle) Title() string {
	return h.title
}

// Host is the GitHub host items of this session live on.
func (h *Handle) Host() string {
	return h.host
}

func (h *Handle) Info(msg string) {
	h.reporter.Info(msg)
}

func (h *Handle) Error(msg string) {
	h.reporter.Error(msg)
}

// Refresh rebuilds the session from scratch with its original options.
func (h *Handle) Refresh(ctx context.Context) error {
	if h.refresh == nil {
		return nil
	}
	debuglog.Logf(h.trace, "refresh %s", h.title)
	return h.refresh(ctx)
}
