// Package onboarding stages the user's first-run answers until they are
// confirmed and handed to the state store.
package onboarding

import (
	"errors"
	"fmt"

	"github.com/julianstephens/korastor/internal/constants"
	"github.com/julianstephens/korastor/internal/models"
	"github.com/julianstephens/korastor/internal/validation"
)

// Step is a screen of the onboarding flow
type Step int

const (
	StepWelcome Step = iota
	StepHabit
	StepMotivation
	StepReward
	StepConfirm
)

func (s Step) String() string {
	switch s {
	case StepWelcome:
		return "welcome"
	case StepHabit:
		return "habit"
	case StepMotivation:
		return "motivation"
	case StepReward:
		return "reward"
	case StepConfirm:
		return "confirm"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

var ErrIncomplete = errors.New("onboarding is incomplete: habit profile, north star and reward vault are all required")

// Draft accumulates answers. The zero value is an empty draft at the welcome
// step.
type Draft struct {
	HabitProfile *models.HabitProfile
	NorthStar    *models.NorthStar
	RewardVault  *models.RewardVault
	Step         Step
}

func New() *Draft {
	return &Draft{}
}

func (d *Draft) SetHabitProfile(p models.HabitProfile) error {
	if err := validation.HabitProfile(p).Err(); err != nil {
		return err
	}
	p.Types = append([]models.HabitType(nil), p.Types...)
	d.HabitProfile = &p
	return nil
}

func (d *Draft) SetNorthStar(n models.NorthStar) error {
	if err := validation.NorthStar(n).Err(); err != nil {
		return err
	}
	d.NorthStar = &n
	return nil
}

func (d *Draft) SetRewardVault(v models.RewardVault) error {
	if err := validation.RewardVault(v).Err(); err != nil {
		return err
	}
	d.RewardVault = &v
	return nil
}

// Next advances one step, stopping at confirm.
func (d *Draft) Next() Step {
	d.Step = min(d.Step+1, Step(constants.OnboardingLastStep))
	return d.Step
}

// Previous goes back one step, stopping at welcome.
func (d *Draft) Previous() Step {
	d.Step = max(d.Step-1, Step(constants.OnboardingFirstStep))
	return d.Step
}

// IsComplete reports whether all three answers are present.
func (d *Draft) IsComplete() bool {
	return d.HabitProfile != nil && d.NorthStar != nil && d.RewardVault != nil
}

// Build assembles the profile with the journey starting at now (epoch ms).
func (d *Draft) Build(now int64) (models.UserProfile, error) {
	if !d.IsComplete() {
		return models.UserProfile{}, ErrIncomplete
	}
	p := models.UserProfile{
		HabitProfile: *d.HabitProfile,
		NorthStar:    *d.NorthStar,
		RewardVault:  *d.RewardVault,
		StartDate:    now,
	}
	p.HabitProfile.Types = append([]models.HabitType(nil), d.HabitProfile.Types...)
	return p, nil
}

// Reset discards every answer and returns to the welcome step.
func (d *Draft) Reset() {
	*d = Draft{}
}
