package cli

import "github.com/julianstephens/korastor/internal/tui"

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	// Perform automatic backup on TUI startup
	ctx.PerformAutomaticBackup()
	return tui.Run(ctx.Store, ctx.Clock)
}
