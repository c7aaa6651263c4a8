package item

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var trailingNumber = regexp.MustCompile(`/(\d+)$`)

// Normalize maps a GraphQL node onto an Item using discriminant to pick
// the shape. Unknown discriminants and nodes without a number are not
// navigable and are reported with ok == false.
func Normalize(raw any, discriminant string) (Item, bool) {
	obj, ok := raw.(map[string]any)
	if !ok || len(obj) == 0 {
		return Item{}, false
	}
	kind := ParseKind(discriminant)
	switch kind {
	case KindIssue, KindPullRequest:
		number := intField(obj, "number")
		if number <= 0 {
			return Item{}, false
		}
		title := strings.TrimSpace(stringField(obj, "title"))
		repo := stringField(obj, "repository", "nameWithOwner")
		handle := Locator{Kind: kind, Repo: repo, Number: number}
		return Item{
			Kind:   kind,
			Number: number,
			Text:   fmt.Sprintf("#%d %s", number, title),
			Handle: handle,
			Raw:    obj,
			Repo:   repo,
			Title:  title,
			URL:    firstNonEmpty(stringField(obj, "url"), handle.URL("")),
			Body:   stringField(obj, "body"),
		}, true
	case KindDiscussion:
		number := intField(obj, "number")
		if number <= 0 {
			return Item{}, false
		}
		title := strings.TrimSpace(stringField(obj, "title"))
		category := strings.TrimSpace(stringField(obj, "category", "name"))
		repo := stringField(obj, "repository", "nameWithOwner")
		text := fmt.Sprintf("%s #%d", title, number)
		if category != "" {
			text = fmt.Sprintf("%s [%s]", text, category)
		}
		handle := Locator{Kind: kind, Repo: repo, Number: number}
		return Item{
			Kind:     kind,
			Number:   number,
			Text:     text,
			Handle:   handle,
			Raw:      obj,
			Repo:     repo,
			Title:    title,
			URL:      firstNonEmpty(stringField(obj, "url"), handle.URL("")),
			Category: category,
			Body:     stringField(obj, "body"),
		}, true
	case KindNotification, KindTemplate, KindUnknown:
		return Item{}, false
	}
	return Item{}, false
}

// NormalizeNode reads the discriminant from the node's __typename.
func NormalizeNode(raw any) (Item, bool) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return Item{}, false
	}
	return Normalize(obj, stringField(obj, "__typename"))
}

// NormalizeNotification maps a REST notification thread. Only threads whose
// subject is an issue or a pull request with a numeric URL are kept.
func NormalizeNotification(raw any) (Item, bool) {
	obj, ok := raw.(map[string]any)
	if !ok || len(obj) == 0 {
		return Item{}, false
	}
	kind := ParseKind(stringField(obj, "subject", "type"))
	if kind != KindIssue && kind != KindPullRequest {
		return Item{}, false
	}
	apiURL := strings.TrimSpace(stringField(obj, "subject", "url"))
	match := trailingNumber.FindStringSubmatch(apiURL)
	if match == nil {
		return Item{}, false
	}
	number, err := strconv.Atoi(match[1])
	if err != nil || number <= 0 {
		return Item{}, false
	}
	title := strings.TrimSpace(stringField(obj, "subject", "title"))
	repo := stringField(obj, "repository", "full_name")
	status := StatusRead
	if unread, _ := obj["unread"].(bool); unread {
		status = StatusUnread
	}
	return Item{
		Kind:     kind,
		Number:   number,
		Text:     fmt.Sprintf("#%d %s", number, title),
		Handle:   Locator{Kind: kind, Repo: repo, Number: number},
		Raw:      obj,
		Repo:     repo,
		Title:    title,
		URL:      HTMLURL(apiURL),
		Status:   status,
		ThreadID: scalarString(obj["id"]),
	}, true
}

// NormalizeTemplate maps an issue template entry. Entries without a name
// are dropped.
func NormalizeTemplate(raw any) (Item, bool) {
	obj, ok := raw.(map[string]any)
	if !ok || len(obj) == 0 {
		return Item{}, false
	}
	name := strings.TrimSpace(stringField(obj, "name"))
	if name == "" {
		return Item{}, false
	}
	repo := stringField(obj, "repository")
	return Item{
		Kind:   KindTemplate,
		Text:   name,
		Handle: Locator{Kind: KindTemplate, Repo: repo, Name: name},
		Raw:    obj,
		Repo:   repo,
		Title:  strings.TrimSpace(stringField(obj, "title")),
		About:  strings.TrimSpace(stringField(obj, "about")),
		Body:   stringField(obj, "body"),
	}, true
}

// CollectNodes normalizes GraphQL nodes, dropping the ones that are not
// navigable.
func CollectNodes(nodes []any) Collection {
	var c Collection
	for _, node := range nodes {
		if it, ok := NormalizeNode(node); ok {
			c.Add(it)
		}
	}
	return c
}

func CollectNotifications(nodes []any) Collection {
	var c Collection
	for _, node := range nodes {
		if it, ok := NormalizeNotification(node); ok {
			c.Add(it)
		}
	}
	return c
}

func CollectTemplates(nodes []any) Collection {
	var c Collection
	for _, node := range nodes {
		if it, ok := NormalizeTemplate(node); ok {
			c.Add(it)
		}
	}
	return c
}

// HTMLURL converts a REST API URL of an issue or pull request into the
// URL a browser would show. Unrecognized input is returned unchanged.
func HTMLURL(apiURL string) string {
	u, err := url.Parse(strings.TrimSpace(apiURL))
	if err != nil || u.Host == "" {
		return apiURL
	}
	path := u.Path
	host := u.Host
	switch {
	case host == "api.github.com":
		host = "github.com"
		path = strings.TrimPrefix(path, "/repos")
	case strings.HasPrefix(path, "/api/v3/repos/"):
		path = strings.TrimPrefix(path, "/api/v3/repos")
	default:
		return apiURL
	}
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) == 4 && parts[2] == "pulls" {
		parts[2] = "pull"
	}
	return fmt.Sprintf("https://%s/%s", host, strings.Join(parts, "/"))
}

func lookup(obj map[string]any, path ...string) any {
	var current any = obj
	for _, key := range path {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current = m[key]
	}
	return current
}

func stringField(obj map[string]any, path ...string) string {
	value, _ := lookup(obj, path...).(string)
	return value
}

func intField(obj map[string]any, path ...string) int {
	switch v := lookup(obj, path...).(type) {
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0
		}
		return int(n)
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

func scalarString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return ""
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
