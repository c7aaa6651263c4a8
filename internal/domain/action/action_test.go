package action

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasuku43/ghpick/internal/domain/item"
)

type recorder struct {
	calls []string
}

func (r *recorder) fn(name string) Func {
	return func(ctx context.Context, s Session, it item.Item) error {
		r.calls = append(r.calls, name)
		return nil
	}
}

func baseline(rec *recorder) Registry {
	r := NewRegistry()
	r.Register("open", rec.fn("open"), "enter", "open")
	r.Register("open_in_browser", rec.fn("builtin-browser"), "ctrl+b", "open in browser")
	r.Register("copy_url", rec.fn("copy_url"), "ctrl+y", "copy url")
	r.Register("mark_notification_read", rec.fn("mark_read"), "ctrl+x", "mark read")
	return r
}

func call(t *testing.T, r Registry, chord string, mode Mode) {
	t.Helper()
	_, fn, ok := r.Lookup(chord, mode)
	require.True(t, ok, "chord %q not bound in %s", chord, mode)
	require.NoError(t, fn(context.Background(), nil, item.Item{}))
}

func TestComposeIgnoresIncompleteCustomActions(t *testing.T) {
	rec := &recorder{}
	base := baseline(rec)

	got := Compose(base, WithCustomActions([]Custom{
		{Name: "no_trigger", Fn: rec.fn("x")},
		{Name: "no_callback", Trigger: "ctrl+k"},
		{Trigger: "ctrl+j", Fn: rec.fn("y")},
	}))

	assert.Equal(t, base.Bindings, got.Bindings)
	assert.Len(t, got.Actions, len(base.Actions))
	for name := range base.Actions {
		assert.Contains(t, got.Actions, name)
	}
}

func TestCustomActionReplacesBuiltinOfSameName(t *testing.T) {
	rec := &recorder{}
	base := baseline(rec)

	got := Compose(base, WithCustomActions([]Custom{
		{Name: "open_in_browser", Trigger: "ctrl+w", Fn: rec.fn("custom-browser")},
	}))

	require.NoError(t, got.Actions["open_in_browser"](context.Background(), nil, item.Item{}))
	call(t, got, "ctrl+w", ModeInsert)
	call(t, got, "ctrl+w", ModeNormal)
	call(t, got, "ctrl+b", ModeInsert)
	assert.Equal(t, []string{"custom-browser", "custom-browser", "custom-browser", "custom-browser"}, rec.calls)
}

func TestGlobalRemapWinsOverCustomChord(t *testing.T) {
	rec := &recorder{}
	base := baseline(rec)

	got := Compose(base,
		WithCustomActions([]Custom{{Name: "add_label", Trigger: "gx", Fn: rec.fn("add_label")}}),
		WithRemap("mark_notification_read", "gx"),
	)

	assert.Equal(t, "mark_notification_read", got.Bindings["g x"].Action)
	assert.Contains(t, got.Actions, "add_label")
	_, ok := got.Bindings["ctrl+x"]
	assert.False(t, ok, "remapped action should leave its old chord")
	call(t, got, "gx", ModeNormal)
	assert.Equal(t, []string{"mark_read"}, rec.calls)
}

func TestSpellingsOfOneChordShareABinding(t *testing.T) {
	rec := &recorder{}
	base := baseline(rec)

	got := Compose(base,
		WithCustomActions([]Custom{{Name: "add_label", Trigger: "gx", Fn: rec.fn("add_label")}}),
		WithRemap("mark_notification_read", "g x"),
	)

	assert.Equal(t, []string{"ctrl+b", "ctrl+y", "enter", "g x"}, got.Bindings.Chords())
	assert.Equal(t, "mark_notification_read", got.Bindings["g x"].Action)
	for i := 0; i < 20; i++ {
		call(t, got, "gx", ModeNormal)
	}
	assert.Equal(t, "mark_read", rec.calls[0])
	assert.NotContains(t, rec.calls, "add_label")

	got = Compose(base,
		WithRemap("copy_url", "<CR>"),
		WithCustomActions([]Custom{{Name: "preview", Trigger: "Enter", Fn: rec.fn("preview")}}),
	)
	assert.Equal(t, "preview", got.Bindings["enter"].Action)
	assert.Equal(t, []string{"ctrl+b", "ctrl+x", "enter"}, got.Bindings.Chords())
}

func TestNormalizeChord(t *testing.T) {
	cases := map[string]string{
		"gx":         "g x",
		"g x":        "g x",
		"ctrl+x":     "ctrl+x",
		"Ctrl+X":     "ctrl+x",
		"<CR>":       "enter",
		"Escape":     "esc",
		"space f":    "space f",
		"  ":         "",
		"ctrl+g abc": "ctrl+g a b c",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeChord(in), "chord %q", in)
	}
}

func TestPrefixesHonorModes(t *testing.T) {
	rec := &recorder{}
	r := NewRegistry()
	r.Register("mark", rec.fn("mark"), "gx", "", ModeNormal)
	r.Register("label", rec.fn("label"), "z z", "")

	assert.True(t, r.Bindings.Prefixes("g", ModeNormal))
	assert.False(t, r.Bindings.Prefixes("g", ModeInsert))
	assert.True(t, r.Bindings.Prefixes("z", ModeInsert))
	assert.False(t, r.Bindings.Prefixes("g x", ModeNormal))
}

func TestRemapIgnoredForForeignActionOrEmptyTrigger(t *testing.T) {
	rec := &recorder{}
	base := NewRegistry()
	base.Register("open", rec.fn("open"), "enter", "")

	got := Compose(base, WithRemap("mark_notification_read", "gx"), WithRemap("open", "  "))
	assert.Equal(t, base.Bindings, got.Bindings)
}

func TestComposeDoesNotMutateBaseline(t *testing.T) {
	rec := &recorder{}
	base := baseline(rec)
	before := base.Clone()

	_ = Compose(base,
		WithCustomActions([]Custom{{Name: "open", Trigger: "o", Fn: rec.fn("custom-open")}}),
		WithRemap("copy_url", "y"),
	)

	assert.Equal(t, before.Bindings, base.Bindings)
	assert.Len(t, base.Actions, len(before.Actions))
	call(t, base, "enter", ModeInsert)
	assert.Equal(t, []string{"open"}, rec.calls)
}

func TestLookupRespectsModes(t *testing.T) {
	rec := &recorder{}
	r := NewRegistry()
	r.Register("quit", rec.fn("quit"), "q", "", ModeNormal)

	_, _, ok := r.Lookup("q", ModeInsert)
	assert.False(t, ok)
	name, _, ok := r.Lookup("q", ModeNormal)
	assert.True(t, ok)
	assert.Equal(t, "quit", name)
	assert.Equal(t, []string{"q"}, r.Bindings.Chords())
}
