package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agentstation/catalogadmin/internal/appcontext"
	"github.com/agentstation/catalogadmin/pkg/errors"
)

// Run starts the product table on the alternate screen and blocks until
// the operator quits or ctx is canceled.
func Run(ctx context.Context, app appcontext.Interface, opts ...tea.ProgramOption) error {
	sess, err := app.Session()
	if err != nil {
		return err
	}
	gw, err := app.Gateway()
	if err != nil {
		return err
	}
	wf, err := app.Workflow()
	if err != nil {
		return err
	}

	m := New(ctx, Config{
		Session:  sess,
		Gateway:  gw,
		Workflow: wf,
		PageSize: app.PageSize(),
		Logger:   app.Logger(),
	})

	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	_, err = tea.NewProgram(m, opts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}
