// Package metrics derives the time-varying quantities shown to the user from
// the persisted facts of a journey. Every function is pure: the current time
// is always an explicit argument.
package metrics

import (
	"math"

	"github.com/julianstephens/korastor/internal/constants"
	"github.com/julianstephens/korastor/internal/models"
)

// DaysAbstinent returns whole days elapsed since the abstinence reference
// point (lastConsumptionDate when set, startDate otherwise).
//
// The result is floored and not clamped: a reference point in the future
// yields a negative count. Callers displaying the value guard against that.
func DaysAbstinent(startDate int64, lastConsumptionDate *int64, now int64) int {
	ref := startDate
	if lastConsumptionDate != nil {
		ref = *lastConsumptionDate
	}
	return int(math.Floor(float64(now-ref) / float64(constants.MsPerDay)))
}

// MoneySaved returns the money not spent over daysAbstinent days, less one
// unit's cost per slip-up. Never negative.
//
// slipUpCount counts events; UnitsConsumed on the records is not consulted.
func MoneySaved(profile models.HabitProfile, daysAbstinent, slipUpCount int) float64 {
	raw := profile.DailyCost()*float64(daysAbstinent) - float64(slipUpCount)*profile.CostPerUnit
	return math.Max(0, raw)
}

// MinutesPerUnit returns the life minutes regained per unit not consumed.
// Multiple habit types are averaged, not summed.
func MinutesPerUnit(profile models.HabitProfile) float64 {
	if len(profile.Types) == 0 {
		return 0
	}

	minutes := 0.0
	if profile.HasType(models.HabitSmoke) {
		minutes += constants.SmokeMinutesPerUnit
	}
	if profile.HasType(models.HabitVape) {
		minutes += constants.VapeMinutesPerUnit
	}
	if profile.HasType(models.HabitSnus) {
		minutes += constants.SnusMinutesPerUnit
	}

	if len(profile.Types) > 1 {
		minutes /= float64(len(profile.Types))
	}
	return minutes
}

// LifeRegained returns the estimated life regained in milliseconds.
func LifeRegained(profile models.HabitProfile, daysAbstinent int) float64 {
	totalMinutes := MinutesPerUnit(profile) * profile.UnitsPerDay * float64(daysAbstinent)
	return totalMinutes * float64(constants.MsPerMinute)
}

// TimeSinceQuitMs converts a day count into the elapsed time used for health
// progress. Progress moves in whole-day steps, so anything under a day is 0.
func TimeSinceQuitMs(daysAbstinent int) float64 {
	return float64(daysAbstinent) * float64(constants.MsPerDay)
}

// HealthProgress returns restoration progress in percent, bounded to [0,100].
// A system without a positive restoration time reports no progress.
func HealthProgress(system models.HealthSystem, timeSinceQuitMs float64) float64 {
	if system.RestorationMs <= 0 {
		return 0
	}
	progress := timeSinceQuitMs / float64(system.RestorationMs) * 100
	return math.Max(0, math.Min(constants.ProgressComplete, progress))
}

var statusLabels = map[string][2]string{
	constants.HealthBloodOxygen: {"Improving", "Oxygen Levels Rising"},
	constants.HealthTasteSmell:  {"Nerves Reconnecting", "Taste Returning"},
	constants.HealthLungs:       {"Cilia Regeneration", "Lung Function Improving"},
	constants.HealthHeartRisk:   {"Decreasing Load", "Heart Health Improving"},
}

// HealthStatus maps a system's progress to its display label.
func HealthStatus(systemName string, progressPercent float64) string {
	if progressPercent >= constants.ProgressComplete {
		return constants.StatusRestored
	}

	labels, ok := statusLabels[systemName]
	if !ok {
		return constants.StatusHealing
	}
	if progressPercent >= constants.StatusThreshold {
		return labels[1]
	}
	return labels[0]
}

// RefreshHealthSystems returns a copy of systems with progress and status
// recomputed. Names, durations and display strings are preserved.
func RefreshHealthSystems(systems []models.HealthSystem, timeSinceQuitMs float64) []models.HealthSystem {
	updated := make([]models.HealthSystem, len(systems))
	for i, system := range systems {
		progress := HealthProgress(system, timeSinceQuitMs)
		system.ProgressPercent = progress
		system.CurrentStatus = HealthStatus(system.Name, progress)
		updated[i] = system
	}
	return updated
}

// StreakMs returns the raw time since the abstinence reference point,
// clamped at zero for display.
func StreakMs(startDate int64, lastConsumptionDate *int64, now int64) int64 {
	ref := startDate
	if lastConsumptionDate != nil {
		ref = *lastConsumptionDate
	}
	if now < ref {
		return 0
	}
	return now - ref
}

// RewardProgress returns how far moneySaved has come toward the vault's
// target price (capped at 100) and the amount still missing.
func RewardProgress(vault models.RewardVault, moneySaved float64) (percent, remaining float64) {
	if vault.TargetPrice <= 0 {
		return constants.ProgressComplete, 0
	}
	percent = math.Min(moneySaved/vault.TargetPrice*100, constants.ProgressComplete)
	remaining = math.Max(0, vault.TargetPrice-moneySaved)
	return percent, remaining
}

// TriggerBreakdown counts slip-ups per trigger.
func TriggerBreakdown(slipUps []models.SlipUp) map[models.TriggerType]int {
	counts := make(map[models.TriggerType]int)
	for _, s := range slipUps {
		counts[s.Trigger]++
	}
	return counts
}
