package gitcmd

import (
	"context"

	"github.com/tasuku43/ghpick/internal/domain/repospec"
)

// RemoteGetURL returns the URL of the named remote of the repository at dir.
func RemoteGetURL(ctx context.Context, dir, name string) (string, error) {
	return Run(ctx, dir, "remote", "get-url", name)
}

// TopLevel returns the root of the working tree containing dir.
func TopLevel(ctx context.Context, dir string) (string, error) {
	return Run(ctx, dir, "rev-parse", "--show-toplevel")
}

// Resolver finds the repository of the working tree at Dir from one of its
// remotes, origin by default.
type Resolver struct {
	Dir    string
	Remote string
}

func (r Resolver) Resolve(ctx context.Context) (repospec.Spec, error) {
	remote := r.Remote
	if remote == "" {
		remote = "origin"
	}
	url, err := RemoteGetURL(ctx, r.Dir, remote)
	if err != nil {
		return repospec.Spec{}, err
	}
	return repospec.FromRemote(url)
}
