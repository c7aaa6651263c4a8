package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/sahilm/fuzzy"

	"github.com/tasuku43/ghpick/internal/domain/action"
	"github.com/tasuku43/ghpick/internal/domain/item"
	"github.com/tasuku43/ghpick/internal/infra/output"
	"github.com/tasuku43/ghpick/internal/picker"
)

var ErrPromptCanceled = errors.New("prompt canceled")

const (
	maxVisibleRows = 12
	previewLines   = 6
)

type rowSource []string

func (s rowSource) String(i int) string { return s[i] }
func (s rowSource) Len() int            { return len(s) }

type pickerModel struct {
	d        picker.Descriptor
	theme    Theme
	useColor bool

	rows     []string
	input    textinput.Model
	mode     action.Mode
	filtered []int
	cursor   int
	offset   int
	width    int
	height   int

	pending []string

	action   string
	selected item.Item
	err      error
}

func newPickerModel(d picker.Descriptor, theme Theme, useColor bool) pickerModel {
	input := textinput.New()
	input.Prompt = ""
	input.Placeholder = "filter"
	input.Focus()
	if useColor {
		input.PlaceholderStyle = theme.Muted
	}

	rows := make([]string, len(d.Items))
	for i, it := range d.Items {
		if d.Format != nil {
			rows[i] = picker.PlainText(d.Format(it))
		} else {
			rows[i] = it.Text
		}
	}

	m := pickerModel{
		d:        d,
		theme:    theme,
		useColor: useColor,
		rows:     rows,
		input:    input,
		mode:     action.ModeInsert,
	}
	m.filtered = m.filterRows()
	return m
}

func (m pickerModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		rememberWidth(msg.Width)
		m.clampOffset()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.err = ErrPromptCanceled
			return m, tea.Quit
		}
		if m.mode == action.ModeInsert && msg.Type == tea.KeyRunes && !msg.Alt {
			return m.insertRunes(msg)
		}
		if next, cmd, handled := m.handleChord(msg); handled {
			return next, cmd
		}
		return m.handleKey(msg)
	}
	if m.mode == action.ModeInsert {
		return m.updateInput(msg)
	}
	return m, nil
}

func (m pickerModel) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.filtered = m.filterRows()
		m.cursor = 0
		m.offset = 0
	}
	return m, cmd
}

// insertRunes types into the filter unless the keys start a chord bound in
// insert mode. Keys of a chord that breaks off are typed after all.
func (m pickerModel) insertRunes(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := keyName(msg)
	if len(m.pending) == 0 && !m.d.Registry.Bindings.Prefixes(key, m.mode) {
		return m.updateInput(msg)
	}
	typed := strings.Join(m.pending, "") + key
	next, cmd, _ := m.handleChord(msg)
	if next.action != "" || len(next.pending) > 0 {
		return next, cmd
	}
	return next.updateInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(typed)})
}

// handleChord feeds a key into the pending chord. It fires an action on an
// exact match and waits when the keys so far prefix a longer chord bound in
// the current mode.
func (m pickerModel) handleChord(msg tea.KeyMsg) (pickerModel, tea.Cmd, bool) {
	key := keyName(msg)
	seq := strings.Join(append(append([]string(nil), m.pending...), key), " ")
	if name, _, ok := m.d.Registry.Lookup(seq, m.mode); ok {
		m.pending = nil
		it, ok := m.current()
		if !ok {
			return m, nil, true
		}
		m.action = name
		m.selected = it
		return m, tea.Quit, true
	}
	if m.d.Registry.Bindings.Prefixes(seq, m.mode) {
		m.pending = append(m.pending, key)
		return m, nil, true
	}
	if len(m.pending) > 0 {
		m.pending = nil
		return m, nil, true
	}
	return m, nil, false
}

func (m pickerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		if m.mode == action.ModeInsert {
			m.mode = action.ModeNormal
			m.input.Blur()
			return m, nil
		}
		m.err = ErrPromptCanceled
		return m, tea.Quit
	case tea.KeyUp, tea.KeyCtrlP:
		m.move(-1)
		return m, nil
	case tea.KeyDown, tea.KeyCtrlN:
		m.move(1)
		return m, nil
	case tea.KeyPgUp:
		m.move(-m.visibleRows())
		return m, nil
	case tea.KeyPgDown:
		m.move(m.visibleRows())
		return m, nil
	}
	if m.mode == action.ModeInsert {
		return m.updateInput(msg)
	}
	switch msg.String() {
	case "j":
		m.move(1)
	case "k":
		m.move(-1)
	case "home":
		m.move(-len(m.filtered))
	case "G", "end":
		m.move(len(m.filtered))
	case "i", "/":
		m.mode = action.ModeInsert
		return m, m.input.Focus()
	case "q":
		m.err = ErrPromptCanceled
		return m, tea.Quit
	}
	return m, nil
}

func (m *pickerModel) move(delta int) {
	if len(m.filtered) == 0 {
		m.cursor = 0
		return
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor > len(m.filtered)-1 {
		m.cursor = len(m.filtered) - 1
	}
	m.clampOffset()
}

func (m *pickerModel) clampOffset() {
	rows := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m pickerModel) visibleRows() int {
	rows := maxVisibleRows
	if m.height > 0 {
		// header, blank, input, blank + preview, blank + help
		avail := m.height - (5 + previewLines + 2)
		if avail < rows {
			rows = avail
		}
	}
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (m pickerModel) current() (item.Item, bool) {
	if len(m.filtered) == 0 || m.cursor >= len(m.filtered) {
		return item.Item{}, false
	}
	return m.d.Items[m.filtered[m.cursor]], true
}

func (m pickerModel) filterRows() []int {
	q := strings.TrimSpace(m.input.Value())
	out := make([]int, 0, len(m.rows))
	if q == "" {
		for i := range m.rows {
			out = append(out, i)
		}
		return out
	}
	for _, match := range fuzzy.FindFrom(q, rowSource(m.rows)) {
		out = append(out, match.Index)
	}
	return out
}

func (m pickerModel) View() string {
	var b strings.Builder
	header := fmt.Sprintf("%s (%d/%d)", m.d.Title, len(m.filtered), len(m.d.Items))
	if m.useColor {
		header = m.theme.Header.Render(header)
	}
	m.writeLine(&b, header)
	b.WriteString("\n")

	line := fmt.Sprintf("%s%s %s: %s", output.Indent, promptPrefix(m.theme, m.useColor), promptLabel(m.theme, m.useColor, "filter"), m.input.View())
	if m.mode == action.ModeNormal {
		line += mutedToken(m.theme, m.useColor, " [normal]")
	}
	if len(m.pending) > 0 {
		line += mutedToken(m.theme, m.useColor, " "+strings.Join(m.pending, " "))
	}
	m.writeLine(&b, line)

	if len(m.filtered) == 0 {
		m.writeLine(&b, fmt.Sprintf("%s%s %s", output.Indent+output.Indent, mutedToken(m.theme, m.useColor, output.LogConnector), mutedToken(m.theme, m.useColor, "no matches")))
	}
	end := m.offset + m.visibleRows()
	if end > len(m.filtered) {
		end = len(m.filtered)
	}
	for i := m.offset; i < end; i++ {
		it := m.d.Items[m.filtered[i]]
		token := mutedToken(m.theme, m.useColor, output.LogConnector)
		row := m.renderRow(it)
		if i == m.cursor {
			token = "> "
			if m.useColor {
				token = m.theme.Accent.Render(token)
				row = m.theme.Selected.Render(ansi.Strip(row))
			}
		}
		m.writeLine(&b, fmt.Sprintf("%s%s %s", output.Indent+output.Indent, token, row))
	}

	if it, ok := m.current(); ok && m.d.Preview != nil {
		lines := output.Lines(m.d.Preview(it))
		if len(lines) > previewLines {
			lines = lines[:previewLines]
		}
		if len(lines) > 0 {
			b.WriteString("\n")
		}
		for _, l := range lines {
			m.writeLine(&b, output.Indent+mutedToken(m.theme, m.useColor, l))
		}
	}

	if help := m.helpLine(); help != "" {
		b.WriteString("\n")
		m.writeLine(&b, output.Indent+mutedToken(m.theme, m.useColor, help))
	}
	return b.String()
}

func (m pickerModel) renderRow(it item.Item) string {
	if m.d.Format == nil {
		return it.Text
	}
	var b strings.Builder
	for _, seg := range m.d.Format(it) {
		style, ok := m.theme.segment(seg.Style)
		if ok && m.useColor {
			b.WriteString(style.Render(seg.Text))
			continue
		}
		b.WriteString(seg.Text)
	}
	return b.String()
}

func (m pickerModel) helpLine() string {
	var parts []string
	for _, chord := range m.d.Registry.Bindings.Chords() {
		binding := m.d.Registry.Bindings[chord]
		if !binding.Enabled(m.mode) {
			continue
		}
		desc := binding.Desc
		if desc == "" {
			desc = binding.Action
		}
		parts = append(parts, chord+" "+desc)
	}
	if m.mode == action.ModeInsert {
		parts = append(parts, "esc normal")
	} else {
		parts = append(parts, "esc cancel")
	}
	return strings.Join(parts, "  ")
}

func (m pickerModel) writeLine(b *strings.Builder, line string) {
	if m.width > 0 {
		line = ansi.Truncate(line, m.width, "…")
	}
	b.WriteString(line)
	b.WriteString("\n")
}

func promptPrefix(theme Theme, useColor bool) string {
	prefix := output.StepPrefix
	if useColor {
		return theme.Accent.Render(prefix)
	}
	return prefix
}

func promptLabel(theme Theme, useColor bool, label string) string {
	if useColor {
		return theme.Accent.Render(label)
	}
	return label
}

func mutedToken(theme Theme, useColor bool, token string) string {
	if useColor {
		return theme.Muted.Render(token)
	}
	return token
}
