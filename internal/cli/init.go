package cli

import (
	"errors"
	"fmt"

	kerrors "github.com/julianstephens/korastor/internal/errors"
	"github.com/julianstephens/korastor/internal/format"
	"github.com/julianstephens/korastor/internal/models"
	"github.com/julianstephens/korastor/internal/onboarding"
	"github.com/julianstephens/korastor/internal/tui"
)

// InitCmd runs onboarding. Without --habit the interactive form is shown.
type InitCmd struct {
	Habit     []string `help:"Habit being quit: smoke, vape or snus. Repeatable."`
	Units     float64  `help:"Units consumed per day."`
	Cost      float64  `help:"Cost of one unit."`
	Strength  string   `help:"Nicotine strength: high, medium or low." default:"medium"`
	NorthStar string   `name:"north-star" help:"What keeps you going: wealth, vitality or legacy." default:"wealth"`
	Reward    string   `help:"Item to save up for."`
	Price     float64  `help:"Price of the reward."`
	Force     bool     `help:"Start over even if a journey exists. The current one is backed up first."`
}

func (cmd *InitCmd) Run(ctx *Context) error {
	existing := ctx.Store.State()
	if existing.HasProfile() && !cmd.Force {
		return kerrors.WithHint(errors.New("a journey is already in progress"), "use 'korastor init --force' to start over")
	}

	draft, err := cmd.draft()
	if err != nil {
		return err
	}

	if existing.HasProfile() {
		ctx.PerformAutomaticBackup()
		if err := ctx.Store.Reset(ctx.Ctx()); err != nil {
			return fmt.Errorf("failed to reset journey: %w", err)
		}
	}

	profile, err := ctx.Store.CompleteOnboarding(ctx.Ctx(), draft, ctx.Now())
	if err != nil {
		return err
	}
	draft.Reset()
	if err := ctx.Store.Flush(ctx.Ctx()); err != nil {
		ctx.printf("⚠ Journey started but not saved yet: %v\n", err)
	}

	ctx.printf("✓ Journey started %s\n", format.Date(profile.StartDate, nil))
	ctx.printf("  Saving %s a day toward %s (%s)\n",
		format.Currency(profile.HabitProfile.DailyCost()), profile.RewardVault.ItemName, format.Currency(profile.RewardVault.TargetPrice))
	ctx.println("  Run 'korastor craving' whenever a craving hits.")
	return nil
}

func (cmd *InitCmd) draft() (*onboarding.Draft, error) {
	if len(cmd.Habit) == 0 {
		return tui.RunOnboarding()
	}

	types := make([]models.HabitType, len(cmd.Habit))
	for i, h := range cmd.Habit {
		types[i] = models.HabitType(h)
	}

	d := onboarding.New()
	d.Next()
	if err := d.SetHabitProfile(models.HabitProfile{
		Types:            types,
		UnitsPerDay:      cmd.Units,
		CostPerUnit:      cmd.Cost,
		NicotineStrength: models.NicotineStrength(cmd.Strength),
	}); err != nil {
		return nil, err
	}
	d.Next()
	if err := d.SetNorthStar(models.NorthStar(cmd.NorthStar)); err != nil {
		return nil, err
	}
	d.Next()
	if err := d.SetRewardVault(models.RewardVault{ItemName: cmd.Reward, TargetPrice: cmd.Price}); err != nil {
		return nil, err
	}
	d.Next()
	return d, nil
}
