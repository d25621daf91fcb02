package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/korastor/internal/craving"
	kerrors "github.com/julianstephens/korastor/internal/errors"
	"github.com/julianstephens/korastor/internal/format"
	"github.com/julianstephens/korastor/internal/tui"
)

// CravingCmd runs the craving dampener: one grounding task with a countdown.
type CravingCmd struct {
	Task  string `help:"Task ID to run instead of a random one."`
	Plain bool   `help:"Print the countdown instead of opening the full-screen view."`
	List  bool   `help:"List the available tasks."`
}

func (cmd *CravingCmd) Run(ctx *Context) error {
	if cmd.List {
		for _, t := range craving.Tasks() {
			ctx.printf("  %-14s %3ds  %s\n", t.ID, t.Duration, t.Instruction)
		}
		return nil
	}

	task, err := cmd.pick()
	if err != nil {
		return err
	}

	if !cmd.Plain {
		res, err := tui.RunCraving(task, ctx.Store, ctx.Clock)
		if err != nil {
			return err
		}
		if res.Awarded {
			ctx.printf("✓ Craving crushed! Kora points: %d\n", res.Points.Total)
		}
		return ctx.Store.Flush(ctx.Ctx())
	}

	session := craving.NewSession(task)
	ctx.printf("%s\n", task.Instruction)
	for !session.Done() {
		remaining := session.Remaining()
		if remaining%10 == 0 || remaining <= 3 {
			ctx.printf("  %s\n", format.Countdown(remaining))
		}
		ctx.sleep(time.Second)
		session.Tick()
	}

	points, err := session.Complete(ctx.Ctx(), ctx.Store, ctx.Now())
	if err != nil {
		return fmt.Errorf("failed to award point: %w", err)
	}
	if err := ctx.Store.Flush(ctx.Ctx()); err != nil {
		ctx.printf("⚠ Point awarded but not saved yet: %v\n", err)
	}
	ctx.printf("✓ Craving crushed! +1 Kora point (total %d, %d today)\n", points.Total, points.EarnedToday)
	return nil
}

func (cmd *CravingCmd) pick() (craving.Task, error) {
	if cmd.Task == "" {
		return craving.NewPicker(nil).Pick(), nil
	}
	task, ok := craving.Lookup(cmd.Task)
	if !ok {
		return craving.Task{}, kerrors.WithHint(errors.New("unknown craving task "+cmd.Task), "run 'korastor craving --list' to see them")
	}
	return task, nil
}
