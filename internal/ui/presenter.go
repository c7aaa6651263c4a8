package ui

import (
	"context"
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tasuku43/ghpick/internal/infra/debuglog"
	"github.com/tasuku43/ghpick/internal/picker"
)

// Presenter runs the list picker and then the action chosen in it. The
// action runs after the program exits so it owns the terminal.
type Presenter struct {
	Theme    Theme
	UseColor bool
	In       io.Reader
	Out      io.Writer
}

func NewPresenter(theme Theme, useColor bool) *Presenter {
	return &Presenter{Theme: theme, UseColor: useColor}
}

func (p *Presenter) Present(ctx context.Context, d picker.Descriptor) error {
	debuglog.SetPhase("prompt")
	model := newPickerModel(d, p.Theme, p.UseColor)
	out, err := p.runProgram(ctx, model)
	debuglog.SetPhase("action")
	if err != nil {
		return err
	}
	final := out.(pickerModel)
	if errors.Is(final.err, ErrPromptCanceled) {
		return nil
	}
	if final.err != nil {
		return final.err
	}
	if final.action == "" {
		return nil
	}
	return d.Run(ctx, final.action, final.selected)
}

func (p *Presenter) runProgram(ctx context.Context, model tea.Model) (tea.Model, error) {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if p.In != nil {
		opts = append(opts, tea.WithInput(p.In))
	}
	if p.Out != nil {
		opts = append(opts, tea.WithOutput(p.Out))
	}
	return tea.NewProgram(model, opts...).Run()
}
