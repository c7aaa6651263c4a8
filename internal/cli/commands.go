package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tasuku43/ghpick/internal/domain/action"
	"github.com/tasuku43/ghpick/internal/domain/issuetemplate"
	"github.com/tasuku43/ghpick/internal/domain/item"
	"github.com/tasuku43/ghpick/internal/picker"
)

func newIssuesCommand(g *globalOptions, rt *wiring) *cobra.Command {
	var f issueFlags
	cmd := &cobra.Command{
		Use:     "issues",
		Aliases: []string{"issue", "i"},
		Short:   "pick an issue of a repository",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.pickers.Issues(cmd.Context(), picker.ListOptions{Repo: g.repo, Filter: f.spec()})
		},
	}
	f.register(cmd.Flags())
	return cmd
}

func newPullRequestsCommand(g *globalOptions, rt *wiring) *cobra.Command {
	var f pullRequestFlags
	cmd := &cobra.Command{
		Use:     "prs",
		Aliases: []string{"pr", "p"},
		Short:   "pick a pull request of a repository",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.pickers.PullRequests(cmd.Context(), picker.ListOptions{Repo: g.repo, Filter: f.spec()})
		},
	}
	f.register(cmd.Flags())
	return cmd
}

func newNotificationsCommand(g *globalOptions, rt *wiring) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notification", "n"},
		Short:   "pick an issue or pull request notification",
		Long: `List notification threads about issues and pull requests.

Without --repo every repository is included. Use --all to include threads
already marked read.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.pickers.Notifications(cmd.Context(), picker.NotificationOptions{Repo: g.repo, All: all})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "include read notifications")
	return cmd
}

func newSearchCommand(g *globalOptions, rt *wiring) *cobra.Command {
	var searchType string
	cmd := &cobra.Command{
		Use:     "search <query>...",
		Aliases: []string{"s"},
		Short:   "pick from GitHub search results",
		Long: `Run one GitHub search per query and show all results in one list.

Examples:
  ghpick search "is:open label:bug" "is:open label:crash"
  ghpick search --type discussion "is:unanswered"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := searchKind(searchType)
			if err != nil {
				return err
			}
			return rt.pickers.Search(cmd.Context(), picker.SearchOptions{Prompts: args, Type: kind, Repo: g.repo})
		},
	}
	cmd.Flags().StringVarP(&searchType, "type", "t", "issue", "issue (issues and pull requests) or discussion")
	return cmd
}

func searchKind(value string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "issue", "issues":
		return picker.SearchIssues, nil
	case "discussion", "discussions":
		return picker.SearchDiscussions, nil
	default:
		return "", fmt.Errorf("unsupported search type: %s", value)
	}
}

func newTemplatesCommand(g *globalOptions, rt *wiring) *cobra.Command {
	var remote bool
	cmd := &cobra.Command{
		Use:     "templates",
		Aliases: []string{"template", "t"},
		Short:   "pick an issue template and create an issue from it",
		Long: `List issue templates and open "gh issue create" with the chosen one.

Templates are read from .github/ISSUE_TEMPLATE of the current working tree.
With --remote they are fetched from GitHub instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var templates []any
			var err error
			if remote {
				templates, err = rt.pickers.FetchTemplates(ctx, g.repo)
			} else {
				templates, err = localTemplates(ctx, g, rt)
			}
			if err != nil {
				return err
			}
			return rt.pickers.Templates(ctx, picker.TemplateOptions{
				Templates: templates,
				OnSelect:  createIssue(rt.runner),
			})
		},
	}
	cmd.Flags().BoolVar(&remote, "remote", false, "fetch templates from GitHub")
	return cmd
}

func localTemplates(ctx context.Context, g *globalOptions, rt *wiring) ([]any, error) {
	root, err := rt.repoRoot(ctx)
	if err != nil {
		return nil, fmt.Errorf("find repository root: %w", err)
	}
	loaded, err := issuetemplate.Load(root)
	if err != nil {
		return nil, err
	}
	repo := strings.TrimSpace(g.repo)
	if repo == "" && rt.resolver != nil {
		if spec, err := rt.resolver.Resolve(ctx); err == nil {
			repo = spec.String()
		}
	}
	out := make([]any, 0, len(loaded))
	for _, tpl := range loaded {
		out = append(out, tpl.Map(repo))
	}
	return out, nil
}

func createIssue(runner picker.Runner) action.Func {
	return func(ctx context.Context, s action.Session, it item.Item) error {
		args := []string{"issue", "create", "--template", it.Text}
		if it.Repo != "" {
			args = append(args, "--repo", it.Repo)
		}
		return runner.Gh(ctx, args)
	}
}
