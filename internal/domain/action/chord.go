package action

import "strings"

// Names bubbletea reports for non-character keys. Any other token longer
// than one rune is read as a sequence of single-rune keys, so "gx" and
// "g x" are the same chord.
var namedKeys = map[string]struct{}{
	"enter": {}, "tab": {}, "esc": {}, "space": {}, "backspace": {}, "delete": {},
	"insert": {}, "up": {}, "down": {}, "left": {}, "right": {}, "home": {},
	"end": {}, "pgup": {}, "pgdown": {},
	"f1": {}, "f2": {}, "f3": {}, "f4": {}, "f5": {}, "f6": {},
	"f7": {}, "f8": {}, "f9": {}, "f10": {}, "f11": {}, "f12": {},
}

var keyAliases = map[string]string{
	"escape": "esc",
	"return": "enter",
	"cr":     "enter",
	"<cr>":   "enter",
	"del":    "delete",
}

// NormalizeChord turns a configured chord into space-separated key names.
// Bindings are stored under this form.
func NormalizeChord(chord string) string {
	var keys []string
	for _, token := range strings.Fields(chord) {
		lower := strings.ToLower(token)
		if alias, ok := keyAliases[lower]; ok {
			keys = append(keys, alias)
			continue
		}
		if _, ok := namedKeys[lower]; ok || strings.Contains(token, "+") {
			keys = append(keys, lower)
			continue
		}
		for _, r := range token {
			keys = append(keys, string(r))
		}
	}
	return strings.Join(keys, " ")
}

// Prefixes reports whether keys so far start a longer chord bound in mode.
func (b Bindings) Prefixes(seq string, mode Mode) bool {
	for chord, binding := range b {
		if binding.Enabled(mode) && strings.HasPrefix(chord, seq+" ") {
			return true
		}
	}
	return false
}
