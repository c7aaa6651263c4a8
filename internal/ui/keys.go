package ui

import tea "github.com/charmbracelet/bubbletea"

// keyName is the chord token for a key press, in the form
// action.NormalizeChord stores bindings under.
func keyName(msg tea.KeyMsg) string {
	name := msg.String()
	if name == " " {
		return "space"
	}
	return name
}
