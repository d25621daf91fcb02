package metrics

import (
	"time"

	"github.com/julianstephens/korastor/internal/constants"
	"github.com/julianstephens/korastor/internal/models"
)

// Snapshot bundles every derived value for one instant.
type Snapshot struct {
	HasProfile      bool
	Now             int64
	DaysAbstinent   int
	StreakMs        int64
	OnStreak        bool // no slip-up recorded since the journey started
	ClockSkew       bool // reference point is later than Now
	MoneySaved      float64
	LifeRegainedMs  float64
	HealthSystems   []models.HealthSystem
	RewardPercent   float64
	RewardRemaining float64
	SlipUpCount     int
	Points          models.KoraPoints
}

// Compute derives a Snapshot from state at now. The day used for the daily
// points counter is taken from now's location.
func Compute(state models.AppState, now time.Time) Snapshot {
	nowMs := now.UnixMilli()
	snap := Snapshot{
		Now:           nowMs,
		SlipUpCount:   len(state.StreakData.SlipUps),
		Points:        state.KoraPoints.ForDay(now.Format(constants.DateFormat)),
		HealthSystems: RefreshHealthSystems(state.HealthSystems, 0),
	}

	profile := state.UserProfile
	if profile == nil {
		return snap
	}

	streak := state.StreakData
	days := DaysAbstinent(profile.StartDate, streak.LastConsumptionDate, nowMs)
	if days < 0 {
		// reference point ahead of the clock; show the journey as just started
		snap.ClockSkew = true
		days = 0
	}

	snap.HasProfile = true
	snap.DaysAbstinent = days
	snap.StreakMs = StreakMs(profile.StartDate, streak.LastConsumptionDate, nowMs)
	snap.OnStreak = streak.LastConsumptionDate == nil
	snap.MoneySaved = MoneySaved(profile.HabitProfile, days, snap.SlipUpCount)
	snap.LifeRegainedMs = LifeRegained(profile.HabitProfile, days)
	snap.HealthSystems = RefreshHealthSystems(state.HealthSystems, TimeSinceQuitMs(days))
	snap.RewardPercent, snap.RewardRemaining = RewardProgress(profile.RewardVault, snap.MoneySaved)
	return snap
}

// NewlyRestored returns the names of systems restored in current but not in
// previous, matched by name.
func NewlyRestored(previous, current []models.HealthSystem) []string {
	before := make(map[string]bool, len(previous))
	for _, s := range previous {
		before[s.Name] = s.Restored()
	}

	var names []string
	for _, s := range current {
		if s.Restored() && !before[s.Name] {
			names = append(names, s.Name)
		}
	}
	return names
}
