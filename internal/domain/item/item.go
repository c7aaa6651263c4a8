package item

import (
	"fmt"
	"strings"
)

type Kind string

const (
	KindIssue        Kind = "issue"
	KindPullRequest  Kind = "pull_request"
	KindDiscussion   Kind = "discussion"
	KindNotification Kind = "notification"
	KindTemplate     Kind = "template"
	KindUnknown      Kind = "unknown"
)

// ParseKind maps a discriminant such as a GraphQL __typename or a
// notification subject type onto a Kind. Matching ignores case.
func ParseKind(discriminant string) Kind {
	switch strings.ToLower(strings.TrimSpace(discriminant)) {
	case "issue":
		return KindIssue
	case "pullrequest", "pull_request":
		return KindPullRequest
	case "discussion":
		return KindDiscussion
	case "notification":
		return KindNotification
	case "template", "issuetemplate":
		return KindTemplate
	default:
		return KindUnknown
	}
}

// Navigable reports whether items of this kind point at a remote object.
func (k Kind) Navigable() bool {
	switch k {
	case KindIssue, KindPullRequest, KindDiscussion:
		return true
	default:
		return false
	}
}

type Status string

const (
	StatusNone   Status = ""
	StatusUnread Status = "unread"
	StatusRead   Status = "read"
)

// Locator identifies the remote object an item stands for.
type Locator struct {
	Kind   Kind
	Repo   string
	Number int
	Name   string
}

// URI renders the locator as ghpick://owner/repo/<kind>/<number>.
func (l Locator) URI() string {
	if l.Kind == KindTemplate {
		return fmt.Sprintf("ghpick://%s/template/%s", l.Repo, l.Name)
	}
	return fmt.Sprintf("ghpick://%s/%s/%d", l.Repo, l.Kind, l.Number)
}

// URL returns the html URL on host, or "" when the locator cannot be
// opened in a browser.
func (l Locator) URL(host string) string {
	if strings.TrimSpace(l.Repo) == "" || l.Number <= 0 {
		return ""
	}
	if strings.TrimSpace(host) == "" {
		host = "github.com"
	}
	var segment string
	switch l.Kind {
	case KindIssue:
		segment = "issues"
	case KindPullRequest:
		segment = "pull"
	case KindDiscussion:
		segment = "discussions"
	default:
		return ""
	}
	return fmt.Sprintf("https://%s/%s/%s/%d", host, l.Repo, segment, l.Number)
}

// Item is the uniform view the picker works with.
type Item struct {
	Kind   Kind
	Number int
	Text   string
	Handle Locator
	Raw    map[string]any

	Repo     string
	Title    string
	URL      string
	Status   Status
	ThreadID string
	Category string
	About    string
	Body     string
}

// Collection keeps normalized items in order and the widest number seen.
type Collection struct {
	Items     []Item
	MaxNumber int
}

func (c *Collection) Add(it Item) {
	c.Items = append(c.Items, it)
	if it.Number > c.MaxNumber {
		c.MaxNumber = it.Number
	}
}

// Extend appends another collection, keeping its order.
func (c *Collection) Extend(other Collection) {
	for _, it := range other.Items {
		c.Add(it)
	}
}

func (c Collection) Len() int {
	return len(c.Items)
}

// NumberWidth is the digit count of MaxNumber, used to align number columns.
func (c Collection) NumberWidth() int {
	if c.MaxNumber <= 0 {
		return 0
	}
	return len(fmt.Sprintf("%d", c.MaxNumber))
}
