package models

// AppState is the root aggregate persisted as a single blob.
//
// MoneySaved and LifeRegainedMs mirror metrics output for display and are
// overwritten whenever derived values are refreshed. They are never read as
// a source of truth.
type AppState struct {
	UserProfile    *UserProfile   `json:"userProfile"`
	StreakData     StreakData     `json:"streakData"`
	HealthSystems  []HealthSystem `json:"healthSystems"`
	KoraPoints     KoraPoints     `json:"koraPoints"`
	MoneySaved     float64        `json:"moneySaved"`
	LifeRegainedMs float64        `json:"lifeRegainedMs"`
}

// DefaultAppState is the state before onboarding: no profile, empty streak,
// the seeded health systems and zero points.
func DefaultAppState() AppState {
	return AppState{
		StreakData:    NewStreakData(),
		HealthSystems: DefaultHealthSystems(),
	}
}

// Clone returns a deep copy that shares no slices or pointers with s.
func (s AppState) Clone() AppState {
	c := s
	if s.UserProfile != nil {
		p := s.UserProfile.clone()
		c.UserProfile = &p
	}
	c.StreakData = s.StreakData.clone()
	if s.HealthSystems != nil {
		c.HealthSystems = append(make([]HealthSystem, 0, len(s.HealthSystems)), s.HealthSystems...)
	}
	return c
}

// HasProfile reports whether onboarding has been completed
func (s AppState) HasProfile() bool {
	return s.UserProfile != nil
}
