package models

// HabitProfile describes the habit being quit. Set once during onboarding.
type HabitProfile struct {
	Types            []HabitType      `json:"types"`
	UnitsPerDay      float64          `json:"unitsPerDay"`
	CostPerUnit      float64          `json:"costPerUnit"`
	NicotineStrength NicotineStrength `json:"nicotineStrength"`
}

// HasType reports whether t is one of the profile's habit kinds.
func (p HabitProfile) HasType(t HabitType) bool {
	for _, ht := range p.Types {
		if ht == t {
			return true
		}
	}
	return false
}

// DailyCost is the amount spent per day before quitting
func (p HabitProfile) DailyCost() float64 {
	return p.UnitsPerDay * p.CostPerUnit
}

// RewardVault is the savings goal money saved is measured against
type RewardVault struct {
	ItemName    string  `json:"itemName"`
	TargetPrice float64 `json:"targetPrice"`
	ImageURL    string  `json:"imageUrl,omitempty"`
}

// UserProfile is the identity of the active journey.
type UserProfile struct {
	HabitProfile HabitProfile `json:"habitProfile"`
	NorthStar    NorthStar    `json:"northStar"`
	RewardVault  RewardVault  `json:"rewardVault"`
	StartDate    int64        `json:"startDate"` // epoch ms
}

func (u UserProfile) clone() UserProfile {
	c := u
	if u.HabitProfile.Types != nil {
		c.HabitProfile.Types = append([]HabitType(nil), u.HabitProfile.Types...)
	}
	return c
}
