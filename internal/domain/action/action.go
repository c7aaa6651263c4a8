package action

import (
	"context"
	"slices"
	"sort"
	"strings"

	"github.com/tasuku43/ghpick/internal/domain/item"
)

type Mode string

const (
	ModeNormal Mode = "normal"
	ModeInsert Mode = "insert"
)

// AllModes enables a binding while filtering and while navigating.
var AllModes = []Mode{ModeNormal, ModeInsert}

// Session is the view of a running picker session handed to actions.
type Session interface {
	ID() string
	Title() string
	Info(msg string)
	Error(msg string)
	// Refresh re-runs the orchestration that produced the session.
	Refresh(ctx context.Context) error
}

type Func func(ctx context.Context, s Session, it item.Item) error

type Binding struct {
	Action string
	Modes  []Mode
	Desc   string
}

func (b Binding) Enabled(mode Mode) bool {
	return slices.Contains(b.Modes, mode)
}

// Table maps action names to callbacks.
type Table map[string]Func

// Bindings maps key chords to actions.
type Bindings map[string]Binding

// Chords returns the bound chords sorted for stable display.
func (b Bindings) Chords() []string {
	out := make([]string, 0, len(b))
	for chord := range b {
		out = append(out, chord)
	}
	sort.Strings(out)
	return out
}

type Registry struct {
	Actions  Table
	Bindings Bindings
}

func NewRegistry() Registry {
	return Registry{Actions: Table{}, Bindings: Bindings{}}
}

// Clone copies both tables so edits never reach a shared baseline.
func (r Registry) Clone() Registry {
	out := NewRegistry()
	for name, fn := range r.Actions {
		out.Actions[name] = fn
	}
	for chord, binding := range r.Bindings {
		binding.Modes = append([]Mode(nil), binding.Modes...)
		out.Bindings[chord] = binding
	}
	return out
}

// Register adds an action and, when chord is set, its binding. It mutates
// r and is meant for building baselines.
func (r Registry) Register(name string, fn Func, chord, desc string, modes ...Mode) {
	r.Actions[name] = fn
	chord = NormalizeChord(chord)
	if chord == "" {
		return
	}
	if len(modes) == 0 {
		modes = AllModes
	}
	r.Bindings[chord] = Binding{Action: name, Modes: append([]Mode(nil), modes...), Desc: desc}
}

// Lookup resolves chord in mode to an action callback.
func (r Registry) Lookup(chord string, mode Mode) (string, Func, bool) {
	binding, ok := r.Bindings[NormalizeChord(chord)]
	if !ok || !binding.Enabled(mode) {
		return "", nil, false
	}
	fn, ok := r.Actions[binding.Action]
	if !ok || fn == nil {
		return "", nil, false
	}
	return binding.Action, fn, true
}

// Custom is a user-defined action.
type Custom struct {
	Name    string
	Trigger string
	Desc    string
	Fn      Func
}

// Override transforms a registry without touching its input.
type Override func(Registry) Registry

// WithCustomActions binds each complete definition in both modes and
// installs its callback, replacing a built-in of the same name.
// Definitions lacking a name, a trigger or a callback are skipped.
func WithCustomActions(defs []Custom) Override {
	return func(in Registry) Registry {
		out := in.Clone()
		for _, def := range defs {
			name := strings.TrimSpace(def.Name)
			trigger := NormalizeChord(def.Trigger)
			if name == "" || trigger == "" || def.Fn == nil {
				continue
			}
			out.Bindings[trigger] = Binding{Action: name, Modes: append([]Mode(nil), AllModes...), Desc: def.Desc}
			out.Actions[name] = def.Fn
		}
		return out
	}
}

// WithRemap rebinds trigger to a named action that belongs to this list,
// taking the chord over from whatever held it. It is a no-op for unknown actions or an empty trigger.
func WithRemap(name, trigger string) Override {
	return func(in Registry) Registry {
		trigger = NormalizeChord(trigger)
		if _, ok := in.Actions[name]; !ok || trigger == "" {
			return in
		}
		out := in.Clone()
		desc := ""
		for chord, binding := range out.Bindings {
			if binding.Action == name {
				desc = binding.Desc
				delete(out.Bindings, chord)
			}
		}
		out.Bindings[trigger] = Binding{Action: name, Modes: append([]Mode(nil), AllModes...), Desc: desc}
		return out
	}
}

// Compose applies overrides in order on a clone of base. Last writer wins,
// so callers pass global remaps last.
func Compose(base Registry, overrides ...Override) Registry {
	out := base.Clone()
	for _, override := range overrides {
		if override == nil {
			continue
		}
		out = override(out)
	}
	return out
}
