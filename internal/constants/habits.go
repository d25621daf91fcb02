package constants

// Minutes of life regained per unit not consumed, by habit kind.
const (
	SmokeMinutesPerUnit = 11.0
	VapeMinutesPerUnit  = 5.0
	SnusMinutesPerUnit  = 3.0
)

// Health system names seeded on first run.
const (
	HealthBloodOxygen = "Blood Oxygen"
	HealthTasteSmell  = "Taste/Smell"
	HealthLungs       = "Lungs"
	HealthHeartRisk   = "Heart Risk"
)

const (
	StatusRestored   = "RESTORED"
	StatusHealing    = "Healing"
	StatusThreshold  = 50.0
	ProgressComplete = 100.0

	// Points awarded for finishing a craving intervention
	CravingPointsAward = 1

	// Units recorded on every logged slip-up
	DefaultSlipUpUnits = 1

	// Onboarding steps: welcome, habit, motivation, reward, confirm
	OnboardingFirstStep = 0
	OnboardingLastStep  = 4
)
