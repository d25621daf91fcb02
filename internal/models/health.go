package models

import "github.com/julianstephens/korastor/internal/constants"

// HealthSystem is one simulated physiological recovery track.
type HealthSystem struct {
	Name              string  `json:"name"`
	TimeToRestoration string  `json:"timeToRestoration"`
	RestorationMs     int64   `json:"restorationMs"`
	ProgressPercent   float64 `json:"progressPercent"`
	CurrentStatus     string  `json:"currentStatus"`
}

// Restored reports whether the system has reached full recovery
func (h HealthSystem) Restored() bool {
	return h.ProgressPercent >= constants.ProgressComplete
}

// DefaultHealthSystems returns the four systems seeded on first run.
func DefaultHealthSystems() []HealthSystem {
	return []HealthSystem{
		{
			Name:              constants.HealthBloodOxygen,
			TimeToRestoration: "8 Hours",
			RestorationMs:     8 * constants.MsPerHour,
			CurrentStatus:     "Improving",
		},
		{
			Name:              constants.HealthTasteSmell,
			TimeToRestoration: "48 Hours",
			RestorationMs:     48 * constants.MsPerHour,
			CurrentStatus:     "Nerves Reconnecting",
		},
		{
			Name:              constants.HealthLungs,
			TimeToRestoration: "1 - 9 Months",
			RestorationMs:     9 * 30 * constants.MsPerDay,
			CurrentStatus:     "Cilia Regeneration",
		},
		{
			Name:              constants.HealthHeartRisk,
			TimeToRestoration: "1 Year",
			RestorationMs:     365 * constants.MsPerDay,
			CurrentStatus:     "Decreasing Load",
		},
	}
}
