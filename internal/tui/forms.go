package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/korastor/internal/models"
	"github.com/julianstephens/korastor/internal/onboarding"
)

// OnboardingFormModel holds the raw answers of the onboarding form. Numbers
// stay strings until Apply so the inputs can be validated as typed.
type OnboardingFormModel struct {
	Habits      []models.HabitType
	UnitsPerDay string
	CostPerUnit string
	Strength    models.NicotineStrength
	NorthStar   models.NorthStar
	RewardName  string
	RewardPrice string
}

func NewOnboardingFormModel() *OnboardingFormModel {
	return &OnboardingFormModel{Strength: models.StrengthMedium, NorthStar: models.NorthStarWealth}
}

// Apply copies the answers into draft, stepping it forward once per
// accepted answer. The first rejected answer is returned.
func (fm *OnboardingFormModel) Apply(d *onboarding.Draft) error {
	units, err := parseAmount(fm.UnitsPerDay)
	if err != nil {
		return fmt.Errorf("units per day: %w", err)
	}
	cost, err := parseAmount(fm.CostPerUnit)
	if err != nil {
		return fmt.Errorf("cost per unit: %w", err)
	}
	price, err := parseAmount(fm.RewardPrice)
	if err != nil {
		return fmt.Errorf("reward price: %w", err)
	}

	d.Next()
	if err := d.SetHabitProfile(models.HabitProfile{
		Types:            fm.Habits,
		UnitsPerDay:      units,
		CostPerUnit:      cost,
		NicotineStrength: fm.Strength,
	}); err != nil {
		return err
	}
	d.Next()
	if err := d.SetNorthStar(fm.NorthStar); err != nil {
		return err
	}
	d.Next()
	if err := d.SetRewardVault(models.RewardVault{ItemName: strings.TrimSpace(fm.RewardName), TargetPrice: price}); err != nil {
		return err
	}
	d.Next()
	return nil
}

func parseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, errors.New("must be a number")
	}
	return v, nil
}

func positiveAmount(s string) error {
	v, err := parseAmount(s)
	if err != nil {
		return err
	}
	if v <= 0 {
		return errors.New("must be greater than zero")
	}
	return nil
}

func nonNegativeAmount(s string) error {
	v, err := parseAmount(s)
	if err != nil {
		return err
	}
	if v < 0 {
		return errors.New("cannot be negative")
	}
	return nil
}

// NewOnboardingForm creates the four-page onboarding form
func NewOnboardingForm(fm *OnboardingFormModel) *huh.Form {
	habitOptions := make([]huh.Option[models.HabitType], 0, 3)
	for _, h := range models.AllHabitTypes() {
		habitOptions = append(habitOptions, huh.NewOption(h.Label(), h))
	}
	strengthOptions := make([]huh.Option[models.NicotineStrength], 0, 3)
	for _, s := range models.AllNicotineStrengths() {
		strengthOptions = append(strengthOptions, huh.NewOption(s.Label(), s))
	}
	northStarOptions := make([]huh.Option[models.NorthStar], 0, 3)
	for _, n := range models.AllNorthStars() {
		northStarOptions = append(northStarOptions, huh.NewOption(n.Label(), n))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[models.HabitType]().
				Title("What are you quitting?").
				Options(habitOptions...).
				Value(&fm.Habits).
				Validate(func(v []models.HabitType) error {
					if len(v) == 0 {
						return errors.New("pick at least one")
					}
					return nil
				}),
			huh.NewInput().
				Title("Units per day").
				Description("Cigarettes, pods or pouches").
				Value(&fm.UnitsPerDay).
				Validate(positiveAmount),
			huh.NewInput().
				Title("Cost per unit").
				Value(&fm.CostPerUnit).
				Validate(nonNegativeAmount),
			huh.NewSelect[models.NicotineStrength]().
				Title("Nicotine strength").
				Options(strengthOptions...).
				Value(&fm.Strength),
		),
		huh.NewGroup(
			huh.NewSelect[models.NorthStar]().
				Title("What keeps you going?").
				Options(northStarOptions...).
				Value(&fm.NorthStar),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Reward").
				Description("Something you'll buy with the money saved").
				Value(&fm.RewardName).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("reward name cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Reward price").
				Value(&fm.RewardPrice).
				Validate(positiveAmount),
		),
	).WithTheme(huh.ThemeDracula())
}

// RunOnboarding shows the onboarding form and fills a draft from it.
func RunOnboarding() (*onboarding.Draft, error) {
	fm := NewOnboardingFormModel()
	if err := NewOnboardingForm(fm).Run(); err != nil {
		return nil, err
	}
	d := onboarding.New()
	if err := fm.Apply(d); err != nil {
		return nil, err
	}
	return d, nil
}

type SlipFormModel struct {
	Trigger models.TriggerType
	Emotion models.EmotionType
}

// NewSlipForm creates the slip-up form
func NewSlipForm(fm *SlipFormModel) *huh.Form {
	triggerOptions := make([]huh.Option[models.TriggerType], 0, 4)
	for _, t := range models.AllTriggers() {
		triggerOptions = append(triggerOptions, huh.NewOption(t.Label(), t))
	}
	emotionOptions := make([]huh.Option[models.EmotionType], 0, 3)
	for _, e := range models.AllEmotions() {
		emotionOptions = append(emotionOptions, huh.NewOption(e.Label(), e))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[models.TriggerType]().
				Title("What triggered it?").
				Options(triggerOptions...).
				Value(&fm.Trigger),
			huh.NewSelect[models.EmotionType]().
				Title("How do you feel?").
				Options(emotionOptions...).
				Value(&fm.Emotion),
		),
	).WithTheme(huh.ThemeDracula())
}

// RunSlipForm asks for trigger and emotion.
func RunSlipForm() (models.TriggerType, models.EmotionType, error) {
	fm := &SlipFormModel{Trigger: models.TriggerStress, Emotion: models.EmotionAnxious}
	if err := NewSlipForm(fm).Run(); err != nil {
		return "", "", err
	}
	return fm.Trigger, fm.Emotion, nil
}
