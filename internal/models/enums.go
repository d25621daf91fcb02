package models

// HabitType is a kind of nicotine habit being quit
type HabitType string

const (
	HabitSmoke HabitType = "smoke"
	HabitVape  HabitType = "vape"
	HabitSnus  HabitType = "snus"
)

// AllHabitTypes lists every habit kind in display order.
func AllHabitTypes() []HabitType {
	return []HabitType{HabitSmoke, HabitVape, HabitSnus}
}

func (h HabitType) Valid() bool {
	switch h {
	case HabitSmoke, HabitVape, HabitSnus:
		return true
	}
	return false
}

func (h HabitType) Label() string {
	switch h {
	case HabitSmoke:
		return "Cigarettes"
	case HabitVape:
		return "Vape"
	case HabitSnus:
		return "Snus/Pouches"
	}
	return string(h)
}

// NicotineStrength is informational only; no calculation reads it
type NicotineStrength string

const (
	StrengthHigh   NicotineStrength = "high"
	StrengthMedium NicotineStrength = "medium"
	StrengthLow    NicotineStrength = "low"
)

func AllNicotineStrengths() []NicotineStrength {
	return []NicotineStrength{StrengthHigh, StrengthMedium, StrengthLow}
}

func (n NicotineStrength) Valid() bool {
	switch n {
	case StrengthHigh, StrengthMedium, StrengthLow:
		return true
	}
	return false
}

func (n NicotineStrength) Label() string {
	switch n {
	case StrengthHigh:
		return "High"
	case StrengthMedium:
		return "Medium"
	case StrengthLow:
		return "Low"
	}
	return string(n)
}

// NorthStar is the user's motivational category. Display only.
type NorthStar string

const (
	NorthStarWealth   NorthStar = "wealth"
	NorthStarVitality NorthStar = "vitality"
	NorthStarLegacy   NorthStar = "legacy"
)

func AllNorthStars() []NorthStar {
	return []NorthStar{NorthStarWealth, NorthStarVitality, NorthStarLegacy}
}

func (n NorthStar) Valid() bool {
	switch n {
	case NorthStarWealth, NorthStarVitality, NorthStarLegacy:
		return true
	}
	return false
}

func (n NorthStar) Label() string {
	switch n {
	case NorthStarWealth:
		return "Wealth"
	case NorthStarVitality:
		return "Vitality"
	case NorthStarLegacy:
		return "Legacy"
	}
	return string(n)
}

// TriggerType is what led to a slip-up
type TriggerType string

const (
	TriggerStress  TriggerType = "stress"
	TriggerSocial  TriggerType = "social"
	TriggerAlcohol TriggerType = "alcohol"
	TriggerBoredom TriggerType = "boredom"
)

func AllTriggers() []TriggerType {
	return []TriggerType{TriggerStress, TriggerSocial, TriggerAlcohol, TriggerBoredom}
}

func (t TriggerType) Valid() bool {
	switch t {
	case TriggerStress, TriggerSocial, TriggerAlcohol, TriggerBoredom:
		return true
	}
	return false
}

func (t TriggerType) Label() string {
	switch t {
	case TriggerStress:
		return "Stress"
	case TriggerSocial:
		return "Social Pressure"
	case TriggerAlcohol:
		return "Alcohol"
	case TriggerBoredom:
		return "Boredom"
	}
	return string(t)
}

// EmotionType is how the user felt after a slip-up
type EmotionType string

const (
	EmotionAnxious EmotionType = "anxious"
	EmotionGuilty  EmotionType = "guilty"
	EmotionFine    EmotionType = "fine"
)

func AllEmotions() []EmotionType {
	return []EmotionType{EmotionAnxious, EmotionGuilty, EmotionFine}
}

func (e EmotionType) Valid() bool {
	switch e {
	case EmotionAnxious, EmotionGuilty, EmotionFine:
		return true
	}
	return false
}

func (e EmotionType) Label() string {
	switch e {
	case EmotionAnxious:
		return "Anxious"
	case EmotionGuilty:
		return "Guilty"
	case EmotionFine:
		return "Fine"
	}
	return string(e)
}
