package cli

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/korastor/internal/format"
)

// StatusCmd prints the streak, savings and points.
type StatusCmd struct {
	JSON bool `help:"Print machine-readable JSON."`
}

type statusOutput struct {
	StartDate      int64   `json:"startDate"`
	DaysAbstinent  int     `json:"daysAbstinent"`
	StreakMs       int64   `json:"streakMs"`
	MoneySaved     float64 `json:"moneySaved"`
	LifeRegainedMs float64 `json:"lifeRegainedMs"`
	RewardPercent  float64 `json:"rewardPercent"`
	SlipUps        int     `json:"slipUps"`
	PointsTotal    int     `json:"pointsTotal"`
	PointsToday    int     `json:"pointsToday"`
}

func (cmd *StatusCmd) Run(ctx *Context) error {
	if err := ctx.requireProfile(); err != nil {
		return err
	}
	snap := ctx.Snapshot()
	profile := ctx.Store.State().UserProfile

	if cmd.JSON {
		out, err := json.MarshalIndent(statusOutput{
			StartDate:      profile.StartDate,
			DaysAbstinent:  snap.DaysAbstinent,
			StreakMs:       snap.StreakMs,
			MoneySaved:     snap.MoneySaved,
			LifeRegainedMs: snap.LifeRegainedMs,
			RewardPercent:  snap.RewardPercent,
			SlipUps:        snap.SlipUpCount,
			PointsTotal:    snap.Points.Total,
			PointsToday:    snap.Points.EarnedToday,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal status: %w", err)
		}
		ctx.println(string(out))
		return nil
	}

	ctx.printf("Day %d\n\n", snap.DaysAbstinent)
	ctx.printf("  Streak:         %s\n", format.Streak(snap.StreakMs))
	ctx.printf("  Money saved:    %s\n", format.Currency(snap.MoneySaved))
	ctx.printf("  Life regained:  %s\n", format.TimeRegained(snap.LifeRegainedMs))
	ctx.printf("  Reward:         %s %s\n", profile.RewardVault.ItemName, format.Percent(snap.RewardPercent))
	ctx.printf("  Kora points:    %d (%d today)\n", snap.Points.Total, snap.Points.EarnedToday)
	if snap.SlipUpCount > 0 {
		ctx.printf("  Slip-ups:       %d\n", snap.SlipUpCount)
	}
	if snap.ClockSkew {
		ctx.println("\n⚠ Your journey starts in the future. Check the system clock.")
	}
	return nil
}

// HealthCmd prints recovery progress per health system.
type HealthCmd struct{}

func (cmd *HealthCmd) Run(ctx *Context) error {
	if err := ctx.requireProfile(); err != nil {
		return err
	}
	snap := ctx.Snapshot()
	for _, s := range snap.HealthSystems {
		marker := "…"
		if s.Restored() {
			marker = "✓"
		}
		ctx.printf("%s %-28s %4s  %s (%s)\n", marker, s.Name, format.Percent(s.ProgressPercent), s.CurrentStatus, s.TimeToRestoration)
	}
	return nil
}

// VaultCmd prints progress toward the reward.
type VaultCmd struct{}

func (cmd *VaultCmd) Run(ctx *Context) error {
	if err := ctx.requireProfile(); err != nil {
		return err
	}
	snap := ctx.Snapshot()
	vault := ctx.Store.State().UserProfile.RewardVault

	ctx.printf("%s: %s of %s (%s)\n", vault.ItemName, format.Currency(snap.MoneySaved), format.Currency(vault.TargetPrice), format.Percent(snap.RewardPercent))
	if snap.RewardRemaining > 0 {
		ctx.printf("%s to go\n", format.Currency(snap.RewardRemaining))
	} else {
		ctx.println("✓ Unlocked! Treat yourself.")
	}
	return nil
}

// PointsCmd prints the Kora points balance.
type PointsCmd struct{}

func (cmd *PointsCmd) Run(ctx *Context) error {
	points := ctx.Store.Snapshot(ctx.Now()).Points
	ctx.printf("Kora points: %d\n", points.Total)
	ctx.printf("Earned today: %d\n", points.EarnedToday)
	return nil
}
