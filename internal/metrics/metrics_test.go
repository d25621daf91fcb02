package metrics

import (
	"math"
	"testing"

	"github.com/julianstephens/korastor/internal/constants"
	"github.com/julianstephens/korastor/internal/models"
)

const day = constants.MsPerDay

func ptr(v int64) *int64 { return &v }

func TestDaysAbstinent(t *testing.T) {
	now := int64(1_700_000_000_000)

	tests := []struct {
		name     string
		start    int64
		last     *int64
		expected int
	}{
		{
			name:     "five days since start",
			start:    now - 5*day,
			expected: 5,
		},
		{
			name:     "consumption right now resets to zero",
			start:    now - 5*day,
			last:     ptr(now),
			expected: 0,
		},
		{
			name:     "days since last consumption",
			start:    now - 10*day,
			last:     ptr(now - 3*day),
			expected: 3,
		},
		{
			name:     "partial day floors",
			start:    now - day - 23*constants.MsPerHour,
			expected: 1,
		},
		{
			name:     "future reference is negative",
			start:    now + 1,
			expected: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DaysAbstinent(tt.start, tt.last, now)
			if got != tt.expected {
				t.Errorf("DaysAbstinent() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestMoneySaved(t *testing.T) {
	tests := []struct {
		name     string
		profile  models.HabitProfile
		days     int
		slipUps  int
		expected float64
	}{
		{
			name:     "smoker ten days",
			profile:  models.HabitProfile{Types: []models.HabitType{models.HabitSmoke}, UnitsPerDay: 20, CostPerUnit: 0.5},
			days:     10,
			expected: 100,
		},
		{
			name:     "slip-ups deduct one unit each",
			profile:  models.HabitProfile{Types: []models.HabitType{models.HabitVape}, UnitsPerDay: 5, CostPerUnit: 2},
			days:     10,
			slipUps:  2,
			expected: 96,
		},
		{
			name:     "never negative",
			profile:  models.HabitProfile{Types: []models.HabitType{models.HabitVape}, UnitsPerDay: 5, CostPerUnit: 2},
			days:     0,
			slipUps:  50,
			expected: 0,
		},
		{
			name:     "free habit saves nothing",
			profile:  models.HabitProfile{Types: []models.HabitType{models.HabitSnus}, UnitsPerDay: 3, CostPerUnit: 0},
			days:     30,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MoneySaved(tt.profile, tt.days, tt.slipUps)
			if got != tt.expected {
				t.Errorf("MoneySaved() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestMoneySavedProperties(t *testing.T) {
	profile := models.HabitProfile{Types: []models.HabitType{models.HabitSmoke}, UnitsPerDay: 17, CostPerUnit: 0.37}

	for days := 0; days < 400; days++ {
		want := profile.UnitsPerDay * profile.CostPerUnit * float64(days)
		if got := MoneySaved(profile, days, 0); got != want {
			t.Fatalf("MoneySaved(days=%d, slips=0) = %v, want %v", days, got, want)
		}
	}

	for _, slips := range []int{0, 1, 5, 1000} {
		prev := -1.0
		for days := 0; days < 400; days++ {
			got := MoneySaved(profile, days, slips)
			if got < 0 {
				t.Fatalf("MoneySaved(days=%d, slips=%d) = %v, want >= 0", days, slips, got)
			}
			if got < prev {
				t.Fatalf("MoneySaved decreased at days=%d slips=%d: %v < %v", days, slips, got, prev)
			}
			prev = got
		}
	}
}

func TestLifeRegained(t *testing.T) {
	tests := []struct {
		name     string
		types    []models.HabitType
		units    float64
		days     int
		expected float64
	}{
		{
			name:     "smoker one day",
			types:    []models.HabitType{models.HabitSmoke},
			units:    20,
			days:     1,
			expected: 13_200_000,
		},
		{
			name:     "vape two days",
			types:    []models.HabitType{models.HabitVape},
			units:    4,
			days:     2,
			expected: 5 * 4 * 2 * 60_000,
		},
		{
			name:     "multiple types are averaged",
			types:    []models.HabitType{models.HabitSmoke, models.HabitSnus},
			units:    10,
			days:     1,
			expected: 7 * 10 * 60_000,
		},
		{
			name:     "all three types",
			types:    []models.HabitType{models.HabitSmoke, models.HabitVape, models.HabitSnus},
			units:    3,
			days:     1,
			expected: 19.0 / 3 * 3 * 60_000,
		},
		{
			name:     "no types",
			types:    nil,
			units:    20,
			days:     10,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := models.HabitProfile{Types: tt.types, UnitsPerDay: tt.units}
			got := LifeRegained(profile, tt.days)
			if math.Abs(got-tt.expected) > 1e-6 {
				t.Errorf("LifeRegained() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestHealthProgress(t *testing.T) {
	bloodOxygen := models.HealthSystem{Name: constants.HealthBloodOxygen, RestorationMs: 28_800_000}

	tests := []struct {
		name     string
		system   models.HealthSystem
		elapsed  float64
		expected float64
	}{
		{"half way", bloodOxygen, 14_400_000, 50},
		{"capped at 100", bloodOxygen, 86_400_000, 100},
		{"nothing elapsed", bloodOxygen, 0, 0},
		{"negative elapsed floors at zero", bloodOxygen, -1000, 0},
		{"zero restoration time", models.HealthSystem{Name: "x"}, 1000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HealthProgress(tt.system, tt.elapsed)
			if got != tt.expected {
				t.Errorf("HealthProgress() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestHealthProgressMonotonicAndBounded(t *testing.T) {
	for _, system := range models.DefaultHealthSystems() {
		prev := 0.0
		for d := 0; d <= 400; d++ {
			got := HealthProgress(system, TimeSinceQuitMs(d))
			if got < 0 || got > 100 {
				t.Fatalf("%s: progress %v out of bounds at day %d", system.Name, got, d)
			}
			if got < prev {
				t.Fatalf("%s: progress decreased at day %d", system.Name, d)
			}
			prev = got
		}
	}
}

func TestHealthStatus(t *testing.T) {
	tests := []struct {
		name     string
		system   string
		progress float64
		expected string
	}{
		{"blood oxygen low", constants.HealthBloodOxygen, 10, "Improving"},
		{"blood oxygen high", constants.HealthBloodOxygen, 50, "Oxygen Levels Rising"},
		{"taste low", constants.HealthTasteSmell, 49.9, "Nerves Reconnecting"},
		{"taste high", constants.HealthTasteSmell, 75, "Taste Returning"},
		{"lungs low", constants.HealthLungs, 0, "Cilia Regeneration"},
		{"lungs high", constants.HealthLungs, 99, "Lung Function Improving"},
		{"heart low", constants.HealthHeartRisk, 1, "Decreasing Load"},
		{"heart high", constants.HealthHeartRisk, 60, "Heart Health Improving"},
		{"unknown system", "Skin", 60, "Healing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HealthStatus(tt.system, tt.progress); got != tt.expected {
				t.Errorf("HealthStatus(%q, %v) = %q, want %q", tt.system, tt.progress, got, tt.expected)
			}
		})
	}

	names := []string{constants.HealthBloodOxygen, constants.HealthTasteSmell, constants.HealthLungs, constants.HealthHeartRisk, "Unknown"}
	for _, name := range names {
		if got := HealthStatus(name, 100); got != constants.StatusRestored {
			t.Errorf("HealthStatus(%q, 100) = %q, want RESTORED", name, got)
		}
	}
}

func TestRefreshHealthSystems(t *testing.T) {
	systems := models.DefaultHealthSystems()
	updated := RefreshHealthSystems(systems, TimeSinceQuitMs(1))

	if len(updated) != len(systems) {
		t.Fatalf("got %d systems, want %d", len(updated), len(systems))
	}
	if updated[0].ProgressPercent != 100 || updated[0].CurrentStatus != constants.StatusRestored {
		t.Errorf("blood oxygen after one day = %v %q, want 100 RESTORED", updated[0].ProgressPercent, updated[0].CurrentStatus)
	}
	if updated[1].ProgressPercent != 50 || updated[1].CurrentStatus != "Taste Returning" {
		t.Errorf("taste/smell after one day = %v %q, want 50 Taste Returning", updated[1].ProgressPercent, updated[1].CurrentStatus)
	}
	if systems[0].ProgressPercent != 0 {
		t.Error("RefreshHealthSystems modified its input")
	}
	for i := range systems {
		if updated[i].Name != systems[i].Name || updated[i].RestorationMs != systems[i].RestorationMs {
			t.Errorf("system %d identity changed", i)
		}
	}
}

func TestStreakMs(t *testing.T) {
	now := int64(10 * day)
	if got := StreakMs(now-day, nil, now); got != day {
		t.Errorf("StreakMs() = %d, want %d", got, day)
	}
	if got := StreakMs(0, ptr(now-5), now); got != 5 {
		t.Errorf("StreakMs() with relapse = %d, want 5", got)
	}
	if got := StreakMs(now+10, nil, now); got != 0 {
		t.Errorf("StreakMs() in the future = %d, want 0", got)
	}
}

func TestRewardProgress(t *testing.T) {
	vault := models.RewardVault{ItemName: "Bike", TargetPrice: 200}

	pct, remaining := RewardProgress(vault, 50)
	if pct != 25 || remaining != 150 {
		t.Errorf("RewardProgress(50) = %v, %v, want 25, 150", pct, remaining)
	}

	pct, remaining = RewardProgress(vault, 500)
	if pct != 100 || remaining != 0 {
		t.Errorf("RewardProgress(500) = %v, %v, want 100, 0", pct, remaining)
	}

	pct, remaining = RewardProgress(models.RewardVault{}, 10)
	if pct != 100 || remaining != 0 {
		t.Errorf("RewardProgress(no target) = %v, %v, want 100, 0", pct, remaining)
	}
}

func TestTriggerBreakdown(t *testing.T) {
	slips := []models.SlipUp{
		{Trigger: models.TriggerStress},
		{Trigger: models.TriggerAlcohol},
		{Trigger: models.TriggerStress},
	}
	counts := TriggerBreakdown(slips)
	if counts[models.TriggerStress] != 2 || counts[models.TriggerAlcohol] != 1 || counts[models.TriggerBoredom] != 0 {
		t.Errorf("TriggerBreakdown() = %v", counts)
	}
}
