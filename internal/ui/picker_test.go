package ui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tasuku43/ghpick/internal/domain/action"
	"github.com/tasuku43/ghpick/internal/domain/item"
	"github.com/tasuku43/ghpick/internal/picker"
)

func noop(ctx context.Context, s action.Session, it item.Item) error { return nil }

func testDescriptor() picker.Descriptor {
	reg := action.NewRegistry()
	reg.Register("open", noop, "enter", "open")
	reg.Register("copy_url", noop, "ctrl+y", "copy url")
	reg.Register("mark", noop, "gx", "mark", action.ModeNormal)
	items := []item.Item{
		{Kind: item.KindIssue, Number: 12, Title: "Crash on start", Text: "#12 Crash on start"},
		{Kind: item.KindIssue, Number: 7, Title: "Fix typo in docs", Text: "#7 Fix typo in docs"},
		{Kind: item.KindIssue, Number: 103, Title: "Slow build", Text: "#103 Slow build"},
	}
	return picker.Descriptor{
		Title:       "Issues",
		Items:       items,
		NumberWidth: 3,
		Format:      picker.Formatter(3),
		Preview:     picker.Preview,
		Registry:    reg,
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m pickerModel, msgs ...tea.Msg) pickerModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(pickerModel)
		if !ok {
			t.Fatalf("unexpected model type %T", next)
		}
	}
	return m
}

func TestPickerEnterSelectsCursor(t *testing.T) {
	m := newPickerModel(testDescriptor(), DefaultTheme(), false)
	m = send(t, m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter})

	if m.action != "open" {
		t.Fatalf("action = %q, want open", m.action)
	}
	if m.selected.Number != 7 {
		t.Fatalf("selected #%d, want #7", m.selected.Number)
	}
}

func TestPickerInsertModeRunesFilter(t *testing.T) {
	m := newPickerModel(testDescriptor(), DefaultTheme(), false)
	m = send(t, m, runes("t"), runes("y"), runes("p"), runes("o"))

	if m.input.Value() != "typo" {
		t.Fatalf("filter = %q", m.input.Value())
	}
	if len(m.filtered) != 1 || m.d.Items[m.filtered[0]].Number != 7 {
		t.Fatalf("filtered = %v", m.filtered)
	}
	if m.action != "" {
		t.Fatalf("runes in insert mode must not fire actions, got %q", m.action)
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlY})
	if m.action != "copy_url" || m.selected.Number != 7 {
		t.Fatalf("ctrl+y fired %q on #%d", m.action, m.selected.Number)
	}
}

func TestPickerNormalModeChord(t *testing.T) {
	m := newPickerModel(testDescriptor(), DefaultTheme(), false)
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != action.ModeNormal {
		t.Fatalf("esc should switch to normal mode")
	}

	m = send(t, m, runes("j"), runes("g"))
	if len(m.pending) != 1 || m.action != "" {
		t.Fatalf("expected pending chord, got pending=%v action=%q", m.pending, m.action)
	}
	if !strings.Contains(m.View(), "[normal] g") {
		t.Fatalf("pending chord not shown:\n%s", m.View())
	}

	m = send(t, m, runes("x"))
	if m.action != "mark" || m.selected.Number != 7 {
		t.Fatalf("chord fired %q on #%d", m.action, m.selected.Number)
	}
}

func TestPickerBrokenChordResets(t *testing.T) {
	m := newPickerModel(testDescriptor(), DefaultTheme(), false)
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc}, runes("g"), runes("z"))
	if len(m.pending) != 0 || m.action != "" {
		t.Fatalf("expected reset, got pending=%v action=%q", m.pending, m.action)
	}
}

func TestPickerModeRestrictedBinding(t *testing.T) {
	m := newPickerModel(testDescriptor(), DefaultTheme(), false)
	// "g" is typed into the filter in insert mode; the normal-only chord
	// never starts.
	m = send(t, m, runes("g"), runes("x"))
	if m.action != "" {
		t.Fatalf("normal-only chord fired in insert mode: %q", m.action)
	}
	if m.input.Value() != "gx" {
		t.Fatalf("filter = %q", m.input.Value())
	}
}

func TestPickerInsertModeChord(t *testing.T) {
	d := testDescriptor()
	d.Registry.Register("label", noop, "zl", "label")

	m := newPickerModel(d, DefaultTheme(), false)
	m = send(t, m, tea.KeyMsg{Type: tea.KeyDown}, runes("z"))
	if len(m.pending) != 1 || m.input.Value() != "" {
		t.Fatalf("expected pending chord, got pending=%v filter=%q", m.pending, m.input.Value())
	}
	m = send(t, m, runes("l"))
	if m.action != "label" || m.selected.Number != 7 {
		t.Fatalf("chord fired %q on #%d", m.action, m.selected.Number)
	}

	m = newPickerModel(d, DefaultTheme(), false)
	m = send(t, m, runes("z"), runes("a"))
	if m.action != "" || len(m.pending) != 0 {
		t.Fatalf("broken chord should not fire, got pending=%v action=%q", m.pending, m.action)
	}
	if m.input.Value() != "za" {
		t.Fatalf("keys of a broken chord should reach the filter, got %q", m.input.Value())
	}
}

func TestPickerNormalModeNavigation(t *testing.T) {
	m := newPickerModel(testDescriptor(), DefaultTheme(), false)
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc}, runes("G"))
	if m.cursor != 2 {
		t.Fatalf("G cursor = %d, want 2", m.cursor)
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyHome})
	if m.cursor != 0 {
		t.Fatalf("home cursor = %d, want 0", m.cursor)
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnd}, runes("g"))
	if m.cursor != 2 || len(m.pending) != 1 {
		t.Fatalf("g should only start the bound chord, cursor=%d pending=%v", m.cursor, m.pending)
	}
	m = send(t, m, runes("x"))
	if m.action != "mark" || m.selected.Number != 103 {
		t.Fatalf("chord fired %q on #%d", m.action, m.selected.Number)
	}
}

func TestPickerCancel(t *testing.T) {
	m := newPickerModel(testDescriptor(), DefaultTheme(), false)
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc}, tea.KeyMsg{Type: tea.KeyEsc})
	if m.err != ErrPromptCanceled {
		t.Fatalf("err = %v, want ErrPromptCanceled", m.err)
	}

	m = newPickerModel(testDescriptor(), DefaultTheme(), false)
	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if m.err != ErrPromptCanceled {
		t.Fatalf("ctrl+c err = %v", m.err)
	}
}

func TestPickerEnterWithoutMatchesDoesNothing(t *testing.T) {
	m := newPickerModel(testDescriptor(), DefaultTheme(), false)
	m = send(t, m, runes("zzzz"), tea.KeyMsg{Type: tea.KeyEnter})
	if m.action != "" {
		t.Fatalf("action fired without matches: %q", m.action)
	}
	if !strings.Contains(m.View(), "no matches") {
		t.Fatalf("expected no matches line:\n%s", m.View())
	}
}

func TestPickerViewShowsRowsPreviewAndHelp(t *testing.T) {
	m := newPickerModel(testDescriptor(), DefaultTheme(), false)
	view := m.View()

	for _, want := range []string{
		"Issues (3/3)",
		">  #12  Crash on start",
		"└─ #7   Fix typo in docs",
		"ctrl+y copy url  enter open  esc normal",
	} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "g x mark") {
		t.Fatalf("normal-only binding listed in insert mode:\n%s", view)
	}
}

func TestPickerViewFitsHeight(t *testing.T) {
	d := testDescriptor()
	for i := 0; i < 40; i++ {
		d.Items = append(d.Items, item.Item{Kind: item.KindIssue, Number: 200 + i, Title: "more", Text: "more"})
	}
	m := newPickerModel(d, DefaultTheme(), false)
	m = send(t, m, tea.WindowSizeMsg{Width: 40, Height: 20})
	defer rememberWidth(0)
	for i := 0; i < 30; i++ {
		m = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}

	view := m.View()
	lines := strings.Count(strings.TrimRight(view, "\n"), "\n") + 1
	if lines > 20 {
		t.Fatalf("view has %d lines, want <= 20:\n%s", lines, view)
	}
	if !strings.Contains(view, "> ") {
		t.Fatalf("cursor row scrolled out of view:\n%s", view)
	}
}
