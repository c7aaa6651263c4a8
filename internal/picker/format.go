package picker

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/tasuku43/ghpick/internal/domain/item"
)

type Style int

const (
	StylePlain Style = iota
	StyleNumber
	StyleTitle
	StyleMuted
	StyleUnread
	StyleAccent
)

// Segment is one styled run of a list row.
type Segment struct {
	Text  string
	Style Style
}

const unreadMarker = "●"

// Formatter renders rows with the number column padded to width digits.
func Formatter(width int) func(item.Item) []Segment {
	return func(it item.Item) []Segment {
		switch it.Kind {
		case item.KindIssue, item.KindPullRequest:
			segs := make([]Segment, 0, 6)
			if it.Status != item.StatusNone {
				marker := " "
				style := StylePlain
				if it.Status == item.StatusUnread {
					marker = unreadMarker
					style = StyleUnread
				}
				segs = append(segs, Segment{Text: marker, Style: style}, Segment{Text: " "})
			}
			segs = append(segs,
				Segment{Text: numberColumn(it.Number, width), Style: StyleNumber},
				Segment{Text: " "},
				Segment{Text: it.Title, Style: StyleTitle},
			)
			if it.Status != item.StatusNone && it.Repo != "" {
				segs = append(segs, Segment{Text: " " + it.Repo, Style: StyleMuted})
			}
			return segs
		case item.KindDiscussion:
			segs := []Segment{
				{Text: it.Title, Style: StyleTitle},
				{Text: " "},
				{Text: fmt.Sprintf("#%d", it.Number), Style: StyleNumber},
			}
			if it.Category != "" {
				segs = append(segs, Segment{Text: " [" + it.Category + "]", Style: StyleAccent})
			}
			return segs
		case item.KindTemplate:
			segs := []Segment{{Text: it.Text, Style: StyleTitle}}
			if it.About != "" {
				segs = append(segs, Segment{Text: " " + it.About, Style: StyleMuted})
			}
			return segs
		default:
			return []Segment{{Text: it.Text}}
		}
	}
}

func numberColumn(number, width int) string {
	return runewidth.FillRight(fmt.Sprintf("#%d", number), width+1)
}

// PlainText joins segments without styling.
func PlainText(segs []Segment) string {
	var b strings.Builder
	for _, seg := range segs {
		b.WriteString(seg.Text)
	}
	return b.String()
}

// Preview returns the detail text shown beside the list.
func Preview(it item.Item) string {
	var b strings.Builder
	switch it.Kind {
	case item.KindTemplate:
		b.WriteString(it.Text)
		if it.Title != "" {
			fmt.Fprintf(&b, "\ntitle: %s", it.Title)
		}
		if it.About != "" {
			fmt.Fprintf(&b, "\n%s", it.About)
		}
	default:
		b.WriteString(it.Text)
		if it.Repo != "" {
			fmt.Fprintf(&b, "\n%s", it.Repo)
		}
		if state := rawString(it.Raw, "state"); state != "" {
			fmt.Fprintf(&b, "\nstate: %s", state)
		}
		if login := rawString(it.Raw, "author", "login"); login != "" {
			fmt.Fprintf(&b, "\nauthor: %s", login)
		}
		if reason := rawString(it.Raw, "reason"); reason != "" {
			fmt.Fprintf(&b, "\nreason: %s", reason)
		}
		if it.URL != "" {
			fmt.Fprintf(&b, "\n%s", it.URL)
		}
	}
	if body := strings.TrimSpace(it.Body); body != "" {
		b.WriteString("\n\n")
		b.WriteString(body)
	}
	return b.String()
}

func rawString(obj map[string]any, path ...string) string {
	var current any = obj
	for _, key := range path {
		m, ok := current.(map[string]any)
		if !ok {
			return ""
		}
		current = m[key]
	}
	s, _ := current.(string)
	return s
}
