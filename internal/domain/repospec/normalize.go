package repospec

import (
	"fmt"
	"net/url"
	"strings"
)

const DefaultHost = "github.com"

// Spec identifies a GitHub repository.
type Spec struct {
	Host  string
	Owner string
	Name  string
}

// NameWithOwner returns "owner/name".
func (s Spec) NameWithOwner() string {
	return s.Owner + "/" + s.Name
}

// IsDefaultHost reports whether the repository lives on github.com.
func (s Spec) IsDefaultHost() bool {
	return s.Host == "" || strings.EqualFold(s.Host, DefaultHost)
}

func (s Spec) String() string {
	if s.IsDefaultHost() {
		return s.NameWithOwner()
	}
	return s.Host + "/" + s.NameWithOwner()
}

// Parse accepts "owner/repo", "host/owner/repo", and ssh/https remote URLs.
func Parse(input string) (Spec, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return Spec{}, fmt.Errorf("repo spec is empty")
	}
	if strings.Contains(trimmed, "://") || strings.HasPrefix(trimmed, "git@") {
		return FromRemote(trimmed)
	}
	parts := strings.Split(strings.Trim(trimmed, "/"), "/")
	switch len(parts) {
	case 2:
		return build(DefaultHost, parts[0], parts[1], input)
	case 3:
		return build(parts[0], parts[1], parts[2], input)
	default:
		return Spec{}, fmt.Errorf("repo must be <owner>/<repo> or <host>/<owner>/<repo>: %q", input)
	}
}

// FromRemote parses a git remote URL such as git@github.com:org/repo.git.
func FromRemote(remote string) (Spec, error) {
	trimmed := strings.TrimSpace(remote)
	var host, path string
	switch {
	case strings.HasPrefix(trimmed, "git@"):
		at := strings.Index(trimmed, "@")
		colon := strings.Index(trimmed, ":")
		if colon < at {
			return Spec{}, fmt.Errorf("invalid ssh remote: %q", remote)
		}
		host = trimmed[at+1 : colon]
		path = trimmed[colon+1:]
	case strings.HasPrefix(trimmed, "https://"), strings.HasPrefix(trimmed, "http://"), strings.HasPrefix(trimmed, "ssh://"):
		u, err := url.Parse(trimmed)
		if err != nil {
			return Spec{}, fmt.Errorf("invalid remote url: %q", remote)
		}
		host = u.Hostname()
		path = u.Path
	default:
		return Spec{}, fmt.Errorf("remote must be ssh or https: %q", remote)
	}
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 2 {
		return Spec{}, fmt.Errorf("remote path must be <owner>/<repo>: %q", remote)
	}
	return build(host, parts[0], parts[1], remote)
}

func build(host, owner, name, input string) (Spec, error) {
	name = strings.TrimSuffix(name, ".git")
	if host == "" {
		return Spec{}, fmt.Errorf("host is required in repo spec: %q", input)
	}
	if owner == "" || name == "" {
		return Spec{}, fmt.Errorf("owner/repo cannot be empty: %q", input)
	}
	return Spec{Host: host, Owner: owner, Name: name}, nil
}
