package picker

import (
	"context"
	"fmt"

	"github.com/tasuku43/ghpick/internal/config"
	"github.com/tasuku43/ghpick/internal/domain/action"
	"github.com/tasuku43/ghpick/internal/domain/item"
	"github.com/tasuku43/ghpick/internal/infra/graphql"
)

const issueTemplatesPath = "data.repository.issueTemplates"

type TemplateOptions struct {
	// Templates are raw entries with name, title, about and body fields.
	Templates []any
	// OnSelect receives the chosen template.
	OnSelect action.Func
}

// Templates lists caller-provided issue templates. Nothing is fetched.
func (o *Orchestrator) Templates(ctx context.Context, opts TemplateOptions) error {
	if opts.OnSelect == nil {
		return fmt.Errorf("template select callback is required")
	}
	s := o.newSession("Issue Templates", "", nil)
	coll := item.CollectTemplates(opts.Templates)
	if coll.Len() == 0 {
		s.Info("There are no issue templates")
		return nil
	}
	return o.present(ctx, s, coll, o.compose(templateBaseline(opts.OnSelect), config.ListTemplates, s.host))
}

// FetchTemplates reads the issue templates GitHub serves for a repository.
// Each entry is tagged with the repository it came from.
func (o *Orchestrator) FetchTemplates(ctx context.Context, repoFlag string) ([]any, error) {
	repo, err := o.repository(ctx, repoFlag)
	if err != nil {
		return nil, err
	}
	s := o.newSession("Issue Templates", repo.Host, nil)
	query, err := o.queries.Render(graphql.IssueTemplates, false, repo.Owner, repo.Name)
	if err != nil {
		return nil, fail(s, err)
	}
	nodes, err := o.fetch(ctx, s, o.graphqlRequest(query, false), issueTemplatesPath)
	if err != nil {
		return nil, fail(s, err)
	}
	out := make([]any, 0, len(nodes))
	for _, node := range nodes {
		if obj, ok := node.(map[string]any); ok {
			obj["repository"] = repo.NameWithOwner()
			out = append(out, obj)
		}
	}
	return out, nil
}
