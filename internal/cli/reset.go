package cli

import "fmt"

// ResetCmd clears the journey and returns to onboarding. A backup is taken
// first.
type ResetCmd struct {
	Yes bool `short:"y" help:"Skip the confirmation prompt."`
}

func (cmd *ResetCmd) Run(ctx *Context) error {
	if !ctx.Store.State().HasProfile() {
		ctx.println("Nothing to reset.")
		return nil
	}

	if !cmd.Yes {
		ctx.println("⚠ This clears your streak, slip-ups and points.")
		ok, err := ctx.confirm("Continue?")
		if err != nil {
			return err
		}
		if !ok {
			ctx.println("Reset cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Store.Reset(ctx.Ctx()); err != nil {
		return fmt.Errorf("failed to reset: %w", err)
	}
	if err := ctx.Store.Flush(ctx.Ctx()); err != nil {
		return fmt.Errorf("failed to save reset: %w", err)
	}
	ctx.println("✓ Journey reset. Run 'korastor init' to start again.")
	return nil
}
