package picker

import (
	"context"
	"strings"
	"sync"

	"github.com/tasuku43/ghpick/internal/config"
	"github.com/tasuku43/ghpick/internal/domain/repospec"
	"github.com/tasuku43/ghpick/internal/infra/gh"
	"github.com/tasuku43/ghpick/internal/infra/graphql"
)

type fakeFetcher struct {
	mu        sync.Mutex
	requests  []gh.Request
	responses []gh.Result
}

func (f *fakeFetcher) respond(outputs ...string) *fakeFetcher {
	for _, out := range outputs {
		f.responses = append(f.responses, gh.Result{Output: []byte(out)})
	}
	return f
}

func (f *fakeFetcher) fail(err error) *fakeFetcher {
	f.responses = append(f.responses, gh.Result{Err: err})
	return f
}

func (f *fakeFetcher) Fetch(ctx context.Context, req gh.Request) <-chan gh.Result {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	var res gh.Result
	if len(f.responses) > 0 {
		res = f.responses[0]
		f.responses = f.responses[1:]
	}
	f.mu.Unlock()
	ch := make(chan gh.Result, 1)
	ch <- res
	return ch
}

// query returns the GraphQL query of the i-th request.
func (f *fakeFetcher) query(i int) string {
	args := f.requests[i].Args
	for _, arg := range args {
		if strings.HasPrefix(arg, "query=") {
			return strings.TrimPrefix(arg, "query=")
		}
	}
	return ""
}

type fakePresenter struct {
	presented []Descriptor
	onPresent func(d Descriptor) error
}

func (p *fakePresenter) Present(ctx context.Context, d Descriptor) error {
	p.presented = append(p.presented, d)
	if p.onPresent != nil {
		return p.onPresent(d)
	}
	return nil
}

type fakeReporter struct {
	infos  []string
	errors []string
}

func (r *fakeReporter) Info(text string)  { r.infos = append(r.infos, text) }
func (r *fakeReporter) Error(text string) { r.errors = append(r.errors, text) }

type fakeResolver struct {
	spec  repospec.Spec
	err   error
	calls int
}

func (r *fakeResolver) Resolve(ctx context.Context) (repospec.Spec, error) {
	r.calls++
	return r.spec, r.err
}

type fakeRunner struct {
	gh       [][]string
	commands [][]string
	copied   []string
	copyErr  error
}

func (r *fakeRunner) Gh(ctx context.Context, args []string) error {
	r.gh = append(r.gh, args)
	return nil
}

func (r *fakeRunner) Command(ctx context.Context, argv []string) error {
	r.commands = append(r.commands, argv)
	return nil
}

func (r *fakeRunner) Copy(text string) error {
	if r.copyErr != nil {
		return r.copyErr
	}
	r.copied = append(r.copied, text)
	return nil
}

type harness struct {
	fetcher   *fakeFetcher
	presenter *fakePresenter
	reporter  *fakeReporter
	resolver  *fakeResolver
	runner    *fakeRunner
	orch      *Orchestrator
}

func newHarness(cfg config.Config) *harness {
	h := &harness{
		fetcher:   &fakeFetcher{},
		presenter: &fakePresenter{},
		reporter:  &fakeReporter{},
		resolver:  &fakeResolver{spec: repospec.Spec{Host: "github.com", Owner: "octo", Name: "hello"}},
		runner:    &fakeRunner{},
	}
	h.orch = New(cfg, Deps{
		Fetcher:   h.fetcher,
		Queries:   QueryFunc(graphql.Render),
		Presenter: h.presenter,
		Resolver:  h.resolver,
		Reporter:  h.reporter,
		Runner:    h.runner,
	})
	return h
}
