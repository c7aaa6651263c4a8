package picker

import (
	"context"
	"fmt"

	"github.com/tasuku43/ghpick/internal/config"
	"github.com/tasuku43/ghpick/internal/domain/filter"
	"github.com/tasuku43/ghpick/internal/domain/item"
	"github.com/tasuku43/ghpick/internal/infra/graphql"
)

const (
	issuesPath       = "data.repository.issues.nodes"
	pullRequestsPath = "data.repository.pullRequests.nodes"
	defaultState     = "OPEN"
)

// ListOptions selects a repository and narrows its issues or pull requests.
type ListOptions struct {
	Repo   string
	Filter filter.Spec
}

// Issues lists the issues of a repository matching opts.Filter.
func (o *Orchestrator) Issues(ctx context.Context, opts ListOptions) error {
	return o.list(ctx, opts, listKind{
		title:    "Issues",
		noun:     "issues",
		filter:   filter.KindIssue,
		template: graphql.Issues,
		path:     issuesPath,
		order:    o.cfg.Issues.OrderBy,
		list:     config.ListIssues,
	}, o.Issues)
}

// PullRequests lists the pull requests of a repository matching opts.Filter.
func (o *Orchestrator) PullRequests(ctx context.Context, opts ListOptions) error {
	return o.list(ctx, opts, listKind{
		title:    "Pull Requests",
		noun:     "pull requests",
		filter:   filter.KindPullRequest,
		template: graphql.PullRequests,
		path:     pullRequestsPath,
		order:    o.cfg.PullRequests.OrderBy,
		list:     config.ListPullRequests,
		pr:       true,
	}, o.PullRequests)
}

type listKind struct {
	title    string
	noun     string
	filter   filter.Kind
	template string
	path     string
	order    config.OrderBy
	list     string
	pr       bool
}

func (o *Orchestrator) list(ctx context.Context, opts ListOptions, kind listKind, rerun func(context.Context, ListOptions) error) error {
	repo, err := o.repository(ctx, opts.Repo)
	if err != nil {
		return err
	}
	s := o.newSession(kind.title, repo.Host, func(ctx context.Context) error {
		return rerun(ctx, opts)
	})

	spec := withDefaultState(opts.Filter)
	query, err := o.queries.Render(kind.template, false,
		repo.Owner, repo.Name, filter.Build(spec, kind.filter), kind.order.Field, kind.order.Direction)
	if err != nil {
		return fail(s, err)
	}
	nodes, err := o.fetch(ctx, s, o.graphqlRequest(query, true), kind.path)
	if err != nil {
		return fail(s, err)
	}
	coll := fillRepo(item.CollectNodes(nodes), repo)
	if coll.Len() == 0 {
		s.Info(fmt.Sprintf("There are no matching %s in %s.", kind.noun, repo.NameWithOwner()))
		return nil
	}

	base := o.baseline(s.host)
	if kind.pr {
		base = o.pullRequestBaseline(s.host)
	}
	return o.present(ctx, s, coll, o.compose(base, kind.list, s.host))
}

// withDefaultState copies spec and fills states with OPEN when unset.
func withDefaultState(spec filter.Spec) filter.Spec {
	out := filter.Spec{}
	for key, value := range spec {
		out[key] = value
	}
	if _, ok := out["states"]; !ok {
		out["states"] = filter.Scalar(defaultState)
	}
	return out
}
