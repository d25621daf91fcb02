package cli

import (
	"errors"

	"github.com/julianstephens/korastor/internal/logger"
	"github.com/julianstephens/korastor/internal/metrics"
	"github.com/julianstephens/korastor/internal/notifier"
)

// MilestonesCmd reports health systems restored since the last check and
// updates the stored progress. Meant to run from cron or a login hook.
type MilestonesCmd struct {
	Notify bool `help:"Send each new milestone to the tray app."`
}

func (cmd *MilestonesCmd) Run(ctx *Context) error {
	if err := ctx.requireProfile(); err != nil {
		return err
	}

	now := ctx.Now()
	before := ctx.Store.State().HealthSystems
	snap := ctx.Store.Snapshot(now)
	restored := metrics.NewlyRestored(before, snap.HealthSystems)

	if err := ctx.Store.RefreshDerived(ctx.Ctx(), now); err != nil {
		return err
	}
	if err := ctx.Store.Flush(ctx.Ctx()); err != nil {
		return err
	}

	if len(restored) == 0 {
		ctx.println("No new milestones.")
		return nil
	}
	for _, name := range restored {
		text := notifier.MilestoneText(name)
		ctx.printf("✓ %s\n", text)
		if !cmd.Notify || ctx.Notifier == nil {
			continue
		}
		if err := ctx.Notifier.Notify(ctx.Ctx(), text); err != nil {
			if errors.Is(err, notifier.ErrTrayNotRunning) {
				ctx.println("⚠ Tray app not running, notification skipped")
				break
			}
			logger.Warn("Failed to send notification", "system", name, "error", err)
		}
	}
	return nil
}
