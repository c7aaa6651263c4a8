package picker

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/shlex"

	"github.com/tasuku43/ghpick/internal/domain/action"
	"github.com/tasuku43/ghpick/internal/domain/item"
	"github.com/tasuku43/ghpick/internal/domain/repospec"
	"github.com/tasuku43/ghpick/internal/infra/gh"
)

// Built-in action names.
const (
	ActionOpen          = "open"
	ActionOpenInBrowser = "open_in_browser"
	ActionCopyURL       = "copy_url"
	ActionCheckout      = "checkout_pr"
	ActionMerge         = "merge_pr"
	ActionMarkRead      = "mark_notification_read"
	ActionSelect        = "select"
)

// baseline returns the built-in registry shared by issue-like lists.
func (o *Orchestrator) baseline(host string) action.Registry {
	reg := action.NewRegistry()
	reg.Register(ActionOpen, o.openAction(host, false), "enter", "open")
	reg.Register(ActionOpenInBrowser, o.openAction(host, true), "ctrl+b", "browser")
	reg.Register(ActionCopyURL, o.copyAction(host), "ctrl+y", "copy url")
	return reg
}

func (o *Orchestrator) pullRequestBaseline(host string) action.Registry {
	reg := o.baseline(host)
	reg.Register(ActionCheckout, o.prAction(host, "checkout"), "ctrl+o", "checkout")
	reg.Register(ActionMerge, o.prAction(host, "merge"), "ctrl+r", "merge")
	return reg
}

func (o *Orchestrator) notificationBaseline(host string) action.Registry {
	reg := o.baseline(host)
	reg.Register(ActionMarkRead, o.markReadAction(), "ctrl+x", "mark read")
	return reg
}

func templateBaseline(onSelect action.Func) action.Registry {
	reg := action.NewRegistry()
	reg.Register(ActionSelect, onSelect, "enter", "select")
	return reg
}

func (o *Orchestrator) openAction(host string, web bool) action.Func {
	return func(ctx context.Context, s action.Session, it item.Item) error {
		var sub string
		switch it.Kind {
		case item.KindIssue:
			sub = "issue"
		case item.KindPullRequest:
			sub = "pr"
		case item.KindDiscussion:
			url := itemURL(it, host)
			if url == "" {
				return fmt.Errorf("no URL for %s", it.Text)
			}
			s.Info(url)
			return nil
		default:
			return fmt.Errorf("cannot open %s", it.Kind)
		}
		args := []string{sub, "view", strconv.Itoa(it.Number), "--repo", repoArg(host, it.Repo)}
		if web {
			args = append(args, "--web")
		}
		return o.runner.Gh(ctx, args)
	}
}

func (o *Orchestrator) copyAction(host string) action.Func {
	return func(ctx context.Context, s action.Session, it item.Item) error {
		url := itemURL(it, host)
		if url == "" {
			return fmt.Errorf("no URL for %s", it.Text)
		}
		if err := o.runner.Copy(url); err != nil {
			return fmt.Errorf("copy url: %w", err)
		}
		s.Info("Copied " + url)
		return nil
	}
}

func (o *Orchestrator) prAction(host, sub string) action.Func {
	return func(ctx context.Context, s action.Session, it item.Item) error {
		if it.Kind != item.KindPullRequest {
			return fmt.Errorf("%s is not a pull request", it.Text)
		}
		return o.runner.Gh(ctx, []string{"pr", sub, strconv.Itoa(it.Number), "--repo", repoArg(host, it.Repo)})
	}
}

// markReadAction marks the thread read and rebuilds the notification list.
func (o *Orchestrator) markReadAction() action.Func {
	return func(ctx context.Context, s action.Session, it item.Item) error {
		if it.ThreadID == "" {
			return fmt.Errorf("no notification thread for %s", it.Text)
		}
		res := <-o.fetcher.Fetch(ctx, gh.Request{
			Args: []string{"api", "--method", "PATCH", "/notifications/threads/" + it.ThreadID},
		})
		if res.Err != nil {
			return res.Err
		}
		return s.Refresh(ctx)
	}
}

// commandAction runs a configured command after substituting item
// placeholders into each argument.
func (o *Orchestrator) commandAction(command, host string) action.Func {
	return func(ctx context.Context, s action.Session, it item.Item) error {
		argv, err := shlex.Split(command)
		if err != nil {
			return fmt.Errorf("parse command %q: %w", command, err)
		}
		if len(argv) == 0 {
			return fmt.Errorf("command is empty")
		}
		r := placeholders(it, host)
		for i, arg := range argv {
			argv[i] = r.Replace(arg)
		}
		return o.runner.Command(ctx, argv)
	}
}

func placeholders(it item.Item, host string) *strings.Replacer {
	number := ""
	if it.Number > 0 {
		number = strconv.Itoa(it.Number)
	}
	return strings.NewReplacer(
		"{number}", number,
		"{repo}", it.Repo,
		"{url}", itemURL(it, host),
		"{kind}", string(it.Kind),
		"{title}", it.Title,
	)
}

func itemURL(it item.Item, host string) string {
	if it.URL != "" {
		return it.URL
	}
	return it.Handle.URL(host)
}

// repoArg formats a repository for gh's --repo flag.
func repoArg(host, repo string) string {
	spec := repospec.Spec{Host: host}
	if spec.IsDefaultHost() {
		return repo
	}
	return host + "/" + repo
}
