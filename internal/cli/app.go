package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/tasuku43/ghpick/internal/config"
	"github.com/tasuku43/ghpick/internal/domain/repospec"
	"github.com/tasuku43/ghpick/internal/infra/debuglog"
	"github.com/tasuku43/ghpick/internal/infra/gh"
	"github.com/tasuku43/ghpick/internal/infra/gitcmd"
	"github.com/tasuku43/ghpick/internal/infra/graphql"
	"github.com/tasuku43/ghpick/internal/infra/output"
	"github.com/tasuku43/ghpick/internal/picker"
	"github.com/tasuku43/ghpick/internal/ui"
)

// Run is the CLI entrypoint.
func Run() error {
	root := newRootCommand(defaultEnv())
	err := root.ExecuteContext(context.Background())
	_ = debuglog.Close()
	return err
}

// pickers is the part of picker.Orchestrator the commands drive.
type pickers interface {
	Issues(ctx context.Context, opts picker.ListOptions) error
	PullRequests(ctx context.Context, opts picker.ListOptions) error
	Notifications(ctx context.Context, opts picker.NotificationOptions) error
	Search(ctx context.Context, opts picker.SearchOptions) error
	Templates(ctx context.Context, opts picker.TemplateOptions) error
	FetchTemplates(ctx context.Context, repoFlag string) ([]any, error)
}

type globalOptions struct {
	repo       string
	configPath string
	debug      bool
}

// wiring is what a subcommand needs once config and clients are set up.
type wiring struct {
	pickers  pickers
	runner   picker.Runner
	resolver picker.RepoResolver
	repoRoot func(ctx context.Context) (string, error)
}

type env struct {
	stdout io.Writer
	stderr io.Writer
	build  func(ctx context.Context, g globalOptions) (*wiring, error)
}

func defaultEnv() env {
	return env{stdout: os.Stdout, stderr: os.Stderr, build: buildWiring}
}

func buildWiring(ctx context.Context, g globalOptions) (*wiring, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, err
	}
	if g.debug || cfg.Debug {
		if err := debuglog.Enable(cfg.StateDir); err != nil {
			return nil, fmt.Errorf("enable debug log: %w", err)
		}
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	host := hostFromRepo(g.repo)
	client := gh.New(host)
	runner := picker.NewSystemRunner(client)
	resolver := gitcmd.Resolver{Dir: cwd}

	theme := ui.DefaultTheme()
	useColor := isatty.IsTerminal(os.Stdout.Fd())
	var reporter output.Reporter = output.NewPlain()
	if useColor {
		reporter = ui.Reporter{
			Out: ui.NewRenderer(os.Stdout, theme, true),
			Err: ui.NewRenderer(os.Stderr, theme, isatty.IsTerminal(os.Stderr.Fd())),
		}
	}

	orch := picker.New(cfg, picker.Deps{
		Fetcher:   client,
		Queries:   picker.QueryFunc(graphql.Render),
		Presenter: ui.NewPresenter(theme, useColor),
		Resolver:  resolver,
		Reporter:  output.Traced{Next: reporter},
		Runner:    runner,
		Host:      client.Host(),
	})
	return &wiring{
		pickers:  orch,
		runner:   runner,
		resolver: resolver,
		repoRoot: func(ctx context.Context) (string, error) {
			return gitcmd.TopLevel(ctx, cwd)
		},
	}, nil
}

// hostFromRepo returns the host named by an explicit repository, if any.
func hostFromRepo(repo string) string {
	if strings.TrimSpace(repo) == "" {
		return ""
	}
	spec, err := repospec.Parse(repo)
	if err != nil || spec.IsDefaultHost() {
		return ""
	}
	return spec.Host
}

func newRootCommand(e env) *cobra.Command {
	var g globalOptions
	rt := &wiring{}

	root := &cobra.Command{
		Use:   "ghpick",
		Short: "fuzzy pickers for GitHub issues, pull requests and notifications",
		Long: `ghpick lists GitHub items through the gh CLI and runs actions on the one you pick.

Examples:
  ghpick issues --label bug
  ghpick prs --state merged --base main
  ghpick notifications --all
  ghpick search "is:open author:@me"`,
		Version:       versionLine(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			built, err := e.build(cmd.Context(), g)
			if err != nil {
				return err
			}
			*rt = *built
			return nil
		},
	}
	root.SetOut(e.stdout)
	root.SetErr(e.stderr)
	root.SetVersionTemplate("{{.Version}}\n")

	flags := root.PersistentFlags()
	flags.StringVarP(&g.repo, "repo", "R", "", "repository as [HOST/]OWNER/REPO (default: origin of the current repo)")
	flags.StringVar(&g.configPath, "config", "", "config file path")
	flags.BoolVar(&g.debug, "debug", envBool("GHPICK_DEBUG"), "write debug logs to the state dir")

	root.AddCommand(
		newIssuesCommand(&g, rt),
		newPullRequestsCommand(&g, rt),
		newNotificationsCommand(&g, rt),
		newSearchCommand(&g, rt),
		newTemplatesCommand(&g, rt),
		newVersionCommand(),
	)
	return root
}

func envBool(key string) bool {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return false
	}
	switch strings.ToLower(val) {
	case "0", "false", "no", "off":
		return false
	default:
		return true
	}
}
