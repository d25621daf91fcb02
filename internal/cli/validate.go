package cli

import "github.com/julianstephens/korastor/internal/validation"

// ValidateCmd checks the stored state for inconsistencies.
type ValidateCmd struct{}

func (cmd *ValidateCmd) Run(ctx *Context) error {
	ctx.println("Validating state...")
	res := validation.State(ctx.Store.State(), ctx.Now().UnixMilli())
	ctx.println()
	ctx.println(res.FormatReport())
	return res.Err()
}
