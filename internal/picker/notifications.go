package picker

import (
	"context"

	"github.com/tasuku43/ghpick/internal/config"
	"github.com/tasuku43/ghpick/internal/domain/item"
	"github.com/tasuku43/ghpick/internal/infra/gh"
)

const notificationsAccept = "Accept: application/vnd.github+json"

type NotificationOptions struct {
	// Repo narrows the list to one repository when set.
	Repo string
	// All includes notifications already marked read.
	All bool
}

// Notifications lists notification threads about issues and pull requests.
func (o *Orchestrator) Notifications(ctx context.Context, opts NotificationOptions) error {
	endpoint := "/notifications"
	host := ""
	if opts.Repo != "" {
		repo, err := o.repository(ctx, opts.Repo)
		if err != nil {
			return err
		}
		endpoint = "/repos/" + repo.NameWithOwner() + "/notifications"
		host = repo.Host
	}
	if opts.All {
		endpoint += "?all=true"
	}
	s := o.newSession("Notifications", host, func(ctx context.Context) error {
		return o.Notifications(ctx, opts)
	})

	nodes, err := o.fetch(ctx, s, gh.Request{
		Args:    []string{"api", "--paginate", endpoint},
		Headers: []string{notificationsAccept},
	}, "")
	if err != nil {
		return fail(s, err)
	}
	coll := item.CollectNotifications(nodes)
	if coll.Len() == 0 {
		s.Info("There are no notifications")
		return nil
	}
	return o.present(ctx, s, coll, o.compose(o.notificationBaseline(s.host), config.ListNotifications, s.host))
}
