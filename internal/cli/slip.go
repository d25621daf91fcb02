package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	kerrors "github.com/julianstephens/korastor/internal/errors"
	"github.com/julianstephens/korastor/internal/format"
	"github.com/julianstephens/korastor/internal/metrics"
	"github.com/julianstephens/korastor/internal/models"
	"github.com/julianstephens/korastor/internal/slipup"
	"github.com/julianstephens/korastor/internal/tui"
)

// SlipCmd logs a relapse. Without arguments the form is shown.
type SlipCmd struct {
	Trigger string `arg:"" optional:"" help:"What led to it: stress, social, alcohol or boredom."`
	Emotion string `arg:"" optional:"" help:"How you feel: anxious, guilty or fine."`
}

func (cmd *SlipCmd) Run(ctx *Context) error {
	if err := ctx.requireProfile(); err != nil {
		return err
	}

	trigger, emotion, err := cmd.answers()
	if err != nil {
		return err
	}

	slip, err := ctx.Store.LogSlipUp(ctx.Ctx(), trigger, emotion, ctx.Now())
	if err != nil {
		return fmt.Errorf("failed to log slip-up: %w", err)
	}
	if err := ctx.Store.Flush(ctx.Ctx()); err != nil {
		ctx.printf("⚠ Slip-up recorded but not saved yet: %v\n", err)
	}

	ctx.printf("%s\n\n", slipup.Heading)
	ctx.printf("%s\n\n", slipup.Advice(slip.Trigger))
	for _, step := range slipup.NextSteps {
		ctx.printf("  • %s\n", step)
	}
	return nil
}

func (cmd *SlipCmd) answers() (models.TriggerType, models.EmotionType, error) {
	if cmd.Trigger == "" {
		return tui.RunSlipForm()
	}

	trigger := models.TriggerType(strings.ToLower(cmd.Trigger))
	if !trigger.Valid() {
		return "", "", kerrors.WithHint(fmt.Errorf("unknown trigger %q", cmd.Trigger), "choose one of: "+joinValues(models.AllTriggers()))
	}
	emotion := models.EmotionType(strings.ToLower(cmd.Emotion))
	if cmd.Emotion == "" {
		emotion = models.EmotionFine
	}
	if !emotion.Valid() {
		return "", "", kerrors.WithHint(fmt.Errorf("unknown emotion %q", cmd.Emotion), "choose one of: "+joinValues(models.AllEmotions()))
	}
	return trigger, emotion, nil
}

func joinValues[T ~string](values []T) string {
	s := make([]string, len(values))
	for i, v := range values {
		s[i] = string(v)
	}
	return strings.Join(s, ", ")
}

// SlipsCmd prints slip-up history and the most common triggers.
type SlipsCmd struct {
	Limit int `help:"Number of recent slip-ups to show." default:"10"`
}

func (cmd *SlipsCmd) Run(ctx *Context) error {
	slips := ctx.Store.State().StreakData.SlipUps
	if len(slips) == 0 {
		ctx.println("No slip-ups logged.")
		return nil
	}

	ctx.printf("Slip-ups (%d total)\n\n", len(slips))
	counts := metrics.TriggerBreakdown(slips)
	triggers := models.AllTriggers()
	sort.SliceStable(triggers, func(i, j int) bool { return counts[triggers[i]] > counts[triggers[j]] })
	for _, t := range triggers {
		if counts[t] > 0 {
			ctx.printf("  %-16s %d\n", t.Label(), counts[t])
		}
	}
	ctx.println()

	now := ctx.Now()
	start := 0
	if cmd.Limit > 0 && len(slips) > cmd.Limit {
		start = len(slips) - cmd.Limit
	}
	for i := len(slips) - 1; i >= start; i-- {
		s := slips[i]
		ctx.printf("  %s  %-16s felt %s\n", format.Since(time.UnixMilli(s.Timestamp), now), s.Trigger.Label(), strings.ToLower(s.Emotion.Label()))
	}
	return nil
}
