package graphql

import (
	"fmt"
	"sort"
	"strings"
)

const (
	Issues         = "issues"
	PullRequests   = "pull_requests"
	Search         = "search"
	IssueTemplates = "issue_templates"
)

const issueFields = `
        __typename
        number
        title
        url
        state
        createdAt
        updatedAt
        author { login }
        repository { nameWithOwner }
        labels(first: 20) { nodes { name } }`

var templates = map[string]string{
	// owner, name, filter, order field, order direction
	Issues: `query($endCursor: String) {
  repository(owner: "%s", name: "%s") {
    issues(first: 100, after: $endCursor, filterBy: {%s}, orderBy: {field: %s, direction: %s}) {
      nodes {` + issueFields + `
      }
      pageInfo { hasNextPage endCursor }
    }
  }
}`,
	// owner, name, filter arguments, order field, order direction
	PullRequests: `query($endCursor: String) {
  repository(owner: "%s", name: "%s") {
    pullRequests(first: 100, after: $endCursor, %s orderBy: {field: %s, direction: %s}) {
      nodes {` + issueFields + `
        isDraft
        headRefName
        baseRefName
      }
      pageInfo { hasNextPage endCursor }
    }
  }
}`,
	// search string, search type
	Search: `query {
  search(query: "%s", type: %s, last: 100) {
    nodes {
      __typename
      ... on Issue {` + issueFields + `
      }
      ... on PullRequest {` + issueFields + `
        isDraft
      }
      ... on Discussion {
        __typename
        number
        title
        url
        createdAt
        author { login }
        repository { nameWithOwner }
        category { name }
      }
    }
  }
}`,
	// owner, name
	IssueTemplates: `query {
  repository(owner: "%s", name: "%s") {
    issueTemplates { name title body about }
  }
}`,
}

// Names lists the known query templates.
func Names() []string {
	out := make([]string, 0, len(templates))
	for name := range templates {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Render substitutes args positionally into the named template. With
// escape set, arguments are escaped for a double-quoted GraphQL string.
func Render(name string, escape bool, args ...any) (string, error) {
	tmpl, ok := templates[name]
	if !ok {
		return "", fmt.Errorf("unknown query template: %s", name)
	}
	if want := strings.Count(tmpl, "%s"); want != len(args) {
		return "", fmt.Errorf("query template %s takes %d arguments, got %d", name, want, len(args))
	}
	values := make([]any, len(args))
	for i, arg := range args {
		s := fmt.Sprint(arg)
		if escape {
			s = escapeString(s)
		}
		values[i] = s
	}
	return fmt.Sprintf(tmpl, values...), nil
}

var escaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`)

func escapeString(s string) string {
	return escaper.Replace(s)
}
