package system

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitree/internal/cli"
	"github.com/julianstephens/habitree/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	p := tea.NewProgram(tui.NewModel(ctx.Background(), ctx.Service, ctx.User), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
