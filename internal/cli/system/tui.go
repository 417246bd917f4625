package system

import (
	"github.com/julianstephens/taskforge/internal/cli"
	"github.com/julianstephens/taskforge/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	nav := tui.NewNavigator()
	ctx.Client.SetNavigator(nav)
	return tui.Run(tui.NewModel(ctx.Session, ctx.Client), nav)
}
