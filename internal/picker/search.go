package picker

import (
	"context"
	"fmt"
	"strings"

	"github.com/tasuku43/ghpick/internal/config"
	"github.com/tasuku43/ghpick/internal/domain/item"
	"github.com/tasuku43/ghpick/internal/domain/repospec"
	"github.com/tasuku43/ghpick/internal/infra/graphql"
)

const searchPath = "data.search.nodes"

// Search types accepted by the GraphQL search field.
const (
	SearchIssues      = "ISSUE"
	SearchDiscussions = "DISCUSSION"
)

type SearchOptions struct {
	Prompts []string
	// Type is SearchIssues (default) or SearchDiscussions.
	Type string
	// Repo prefixes every prompt with repo:owner/name when set.
	Repo string
}

// Search runs one query per prompt in order and shows all results in a
// single list. Prompts without results are reported and skipped.
func (o *Orchestrator) Search(ctx context.Context, opts SearchOptions) error {
	var prompts []string
	for _, prompt := range opts.Prompts {
		if p := strings.TrimSpace(prompt); p != "" {
			prompts = append(prompts, p)
		}
	}
	if len(prompts) == 0 {
		return fmt.Errorf("search prompt is required")
	}
	searchType := strings.ToUpper(strings.TrimSpace(opts.Type))
	switch searchType {
	case "":
		searchType = SearchIssues
	case SearchIssues, SearchDiscussions:
	default:
		return fmt.Errorf("unsupported search type: %s", opts.Type)
	}

	var repo repospec.Spec
	if opts.Repo != "" {
		spec, err := o.repository(ctx, opts.Repo)
		if err != nil {
			return err
		}
		repo = spec
	}
	s := o.newSession("Search", repo.Host, func(ctx context.Context) error {
		return o.Search(ctx, opts)
	})

	var all item.Collection
	for _, prompt := range prompts {
		q := prompt
		if repo.Name != "" {
			q = "repo:" + repo.NameWithOwner() + " " + prompt
		}
		query, err := o.queries.Render(graphql.Search, true, q, searchType)
		if err != nil {
			return fail(s, err)
		}
		nodes, err := o.fetch(ctx, s, o.graphqlRequest(query, false), searchPath)
		if err != nil {
			return fail(s, err)
		}
		coll := item.CollectNodes(nodes)
		if repo.Name != "" {
			coll = fillRepo(coll, repo)
		}
		if coll.Len() == 0 {
			s.Info(fmt.Sprintf("No results for %q", prompt))
			continue
		}
		all.Extend(coll)
	}
	if all.Len() == 0 {
		return nil
	}
	return o.present(ctx, s, all, o.compose(o.pullRequestBaseline(s.host), config.ListSearch, s.host))
}
