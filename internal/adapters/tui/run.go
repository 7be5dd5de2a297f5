package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/comitanigiacomo/kanso-dashboard/internal/adapters/render"
	"github.com/comitanigiacomo/kanso-dashboard/internal/core/dashboard"
)

// Run opens the interactive dashboard on api and blocks until the user quits.
func Run(ctx context.Context, api dashboard.API, now func() time.Time, opts ...dashboard.Option) error {
	var p *tea.Program

	// The program is assigned before Run starts delivering commands, so every
	// view call that reaches Send finds it set.
	view := render.Emitter(func(u render.Update) {
		p.Send(updateMsg(u))
	})

	opts = append(opts, dashboard.WithClock(now))
	dash := dashboard.New(api, view, opts...)

	m := New(ctx, dash, render.New(render.DefaultStyles()), now)
	p = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	_, err := p.Run()
	return err
}
