package picker

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tasuku43/ghpick/internal/config"
	"github.com/tasuku43/ghpick/internal/domain/action"
	"github.com/tasuku43/ghpick/internal/domain/item"
	"github.com/tasuku43/ghpick/internal/domain/pages"
	"github.com/tasuku43/ghpick/internal/domain/repospec"
	"github.com/tasuku43/ghpick/internal/infra/debuglog"
	"github.com/tasuku43/ghpick/internal/infra/gh"
	"github.com/tasuku43/ghpick/internal/infra/output"
)

// ErrReported marks a session outcome that has already been shown to the
// user. Callers should exit non-zero without printing it again.
var ErrReported = errors.New("picker: error already reported")

// Fetcher runs a gh request and delivers exactly one result.
type Fetcher interface {
	Fetch(ctx context.Context, req gh.Request) <-chan gh.Result
}

// QueryRenderer fills a named query template.
type QueryRenderer interface {
	Render(name string, escape bool, args ...any) (string, error)
}

// QueryFunc adapts a function such as graphql.Render to QueryRenderer.
type QueryFunc func(name string, escape bool, args ...any) (string, error)

func (f QueryFunc) Render(name string, escape bool, args ...any) (string, error) {
	return f(name, escape, args...)
}

// Presenter shows a descriptor and runs the action the user picks.
type Presenter interface {
	Present(ctx context.Context, d Descriptor) error
}

// RepoResolver finds the repository to use when none is given.
type RepoResolver interface {
	Resolve(ctx context.Context) (repospec.Spec, error)
}

// Runner performs the side effects of built-in and custom actions.
type Runner interface {
	// Gh runs gh attached to the terminal.
	Gh(ctx context.Context, args []string) error
	// Command runs an arbitrary argv attached to the terminal.
	Command(ctx context.Context, argv []string) error
	Copy(text string) error
}

type Deps struct {
	Fetcher   Fetcher
	Queries   QueryRenderer
	Presenter Presenter
	Resolver  RepoResolver
	Reporter  output.Reporter
	Runner    Runner
	// Host is used for URLs of items that carry no host of their own.
	Host string
}

// Orchestrator builds picker sessions. It holds no per-session state.
type Orchestrator struct {
	cfg       config.Config
	fetcher   Fetcher
	queries   QueryRenderer
	presenter Presenter
	resolver  RepoResolver
	reporter  output.Reporter
	runner    Runner
	host      string
}

func New(cfg config.Config, deps Deps) *Orchestrator {
	host := strings.TrimSpace(deps.Host)
	if host == "" {
		host = repospec.DefaultHost
	}
	return &Orchestrator{
		cfg:       cfg,
		fetcher:   deps.Fetcher,
		queries:   deps.Queries,
		presenter: deps.Presenter,
		resolver:  deps.Resolver,
		reporter:  deps.Reporter,
		runner:    deps.Runner,
		host:      host,
	}
}

// Descriptor is everything a presenter needs for one list.
type Descriptor struct {
	Session     *Handle
	Title       string
	Items       []item.Item
	NumberWidth int
	Format      func(item.Item) []Segment
	Preview     func(item.Item) string
	Registry    action.Registry
}

// Run invokes the named action on it. Failures are reported through the
// session and come back as ErrReported.
func (d Descriptor) Run(ctx context.Context, name string, it item.Item) error {
	fn, ok := d.Registry.Actions[name]
	if !ok || fn == nil {
		d.Session.Error(fmt.Sprintf("Unknown action: %s", name))
		return ErrReported
	}
	debuglog.Logf(d.Session.trace, "action %s on %s", name, it.Handle.URI())
	if err := fn(ctx, d.Session, it); err != nil {
		if !errors.Is(err, ErrReported) {
			d.Session.Error(err.Error())
		}
		return ErrReported
	}
	return nil
}

// repository returns the explicit repository or the one of the current
// working tree. Failure is reported and aborts the session.
func (o *Orchestrator) repository(ctx context.Context, explicit string) (repospec.Spec, error) {
	if strings.TrimSpace(explicit) != "" {
		spec, err := repospec.Parse(explicit)
		if err != nil {
			o.report().Error("Cannot find repo")
			debuglog.Logf("picker", "parse repo %q: %v", explicit, err)
			return repospec.Spec{}, ErrReported
		}
		return spec, nil
	}
	if o.resolver == nil {
		o.report().Error("Cannot find repo")
		return repospec.Spec{}, ErrReported
	}
	spec, err := o.resolver.Resolve(ctx)
	if err != nil {
		o.report().Error("Cannot find repo")
		debuglog.Logf("picker", "resolve repo: %v", err)
		return repospec.Spec{}, ErrReported
	}
	return spec, nil
}

// fetch awaits one gh result and aggregates its pages at path.
func (o *Orchestrator) fetch(ctx context.Context, s *Handle, req gh.Request, path string) ([]any, error) {
	debuglog.Logf(s.trace, "Fetching %s", s.title)
	res := <-o.fetcher.Fetch(ctx, req)
	if res.Err != nil {
		return nil, res.Err
	}
	docs, err := pages.Split(res.Output)
	if err != nil {
		return nil, err
	}
	envelope, err := pages.Aggregate(docs, path)
	if err != nil {
		return nil, err
	}
	return pages.Nodes(envelope, path), nil
}

func (o *Orchestrator) graphqlRequest(query string, paginate bool) gh.Request {
	args := []string{"api", "graphql"}
	if paginate {
		args = append(args, "--paginate")
	}
	args = append(args, "-f", "query="+query)
	return gh.Request{Args: args}
}

// compose layers the configured custom actions and remaps for list over
// base. Remaps are applied last in name order.
func (o *Orchestrator) compose(base action.Registry, list string, host string) action.Registry {
	var customs []action.Custom
	for _, def := range o.cfg.CustomActions(list) {
		custom := action.Custom{Name: def.Name, Trigger: def.Lhs, Desc: def.Desc}
		if strings.TrimSpace(def.Command) != "" {
			custom.Fn = o.commandAction(def.Command, host)
		}
		customs = append(customs, custom)
	}
	overrides := []action.Override{action.WithCustomActions(customs)}

	remaps := o.cfg.Remaps()
	names := make([]string, 0, len(remaps))
	for name := range remaps {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		overrides = append(overrides, action.WithRemap(name, remaps[name]))
	}
	return action.Compose(base, overrides...)
}

func (o *Orchestrator) present(ctx context.Context, s *Handle, coll item.Collection, reg action.Registry) error {
	width := coll.NumberWidth()
	d := Descriptor{
		Session:     s,
		Title:       s.title,
		Items:       coll.Items,
		NumberWidth: width,
		Format:      Formatter(width),
		Preview:     Preview,
		Registry:    reg,
	}
	if err := o.presenter.Present(ctx, d); err != nil {
		if errors.Is(err, ErrReported) {
			return err
		}
		return fmt.Errorf("present %s: %w", strings.ToLower(s.title), err)
	}
	return nil
}

// fail reports err through s and converts it into ErrReported.
func fail(s *Handle, err error) error {
	if errors.Is(err, ErrReported) {
		return err
	}
	s.Error(err.Error())
	return ErrReported
}

func (o *Orchestrator) report() output.Reporter {
	if o.reporter == nil {
		return output.NewPlain()
	}
	return o.reporter
}

// fillRepo sets the repository of items that came back without one.
func fillRepo(coll item.Collection, repo repospec.Spec) item.Collection {
	for i := range coll.Items {
		it := &coll.Items[i]
		if it.Repo != "" {
			continue
		}
		it.Repo = repo.NameWithOwner()
		it.Handle.Repo = it.Repo
		if it.URL == "" {
			it.URL = it.Handle.URL(repo.Host)
		}
	}
	return coll
}
