// Package slipup builds relapse records and the guidance shown after one.
package slipup

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/julianstephens/korastor/internal/constants"
	"github.com/julianstephens/korastor/internal/models"
	"github.com/julianstephens/korastor/internal/validation"
)

var advice = map[models.TriggerType]string{
	models.TriggerStress:  "Next time stress hits, try a 5-minute walk or call a friend. Movement and connection are powerful stress-breakers.",
	models.TriggerSocial:  "When socializing, keep your hands busy with a cold drink or fidget toy. You've got this.",
	models.TriggerAlcohol: "Alcohol lowers your guard. Plan ahead: bring a non-alcoholic drink or have an exit strategy ready.",
	models.TriggerBoredom: "Boredom is a trigger. Keep a list of quick activities: a podcast, a game, or a short workout.",
}

const fallbackAdvice = "Every slip is information. Notice what led here and plan one small change for next time."

const Heading = "No Judgment Zone"

// NextSteps explains what logging a slip-up changes.
var NextSteps = []string{
	"Your streak resets",
	"Your money ticker pauses briefly",
	"Your slip-up history helps spot your triggers",
}

// Advice returns the coping suggestion for trigger.
func Advice(trigger models.TriggerType) string {
	if a, ok := advice[trigger]; ok {
		return a
	}
	return fallbackAdvice
}

// IDGenerator produces slip-up IDs.
type IDGenerator func() string

// UUIDGenerator returns random v4 UUIDs.
func UUIDGenerator() string {
	return uuid.NewString()
}

// New builds a slip-up at now (epoch ms) with one unit consumed. A nil
// idgen uses UUIDGenerator.
func New(trigger models.TriggerType, emotion models.EmotionType, now int64, idgen IDGenerator) (models.SlipUp, error) {
	if idgen == nil {
		idgen = UUIDGenerator
	}
	s := models.SlipUp{
		ID:            idgen(),
		Timestamp:     now,
		Trigger:       trigger,
		Emotion:       emotion,
		UnitsConsumed: constants.DefaultSlipUpUnits,
	}
	if err := validation.SlipUp(s).Err(); err != nil {
		return models.SlipUp{}, fmt.Errorf("invalid slip-up: %w", err)
	}
	return s, nil
}

// Apply appends s to the ledger and moves the abstinence reference point to
// it. The history and TotalDaysAbstinent are kept.
func Apply(streak models.StreakData, s models.SlipUp) models.StreakData {
	slips := make([]models.SlipUp, len(streak.SlipUps), len(streak.SlipUps)+1)
	copy(slips, streak.SlipUps)

	ts := s.Timestamp
	streak.SlipUps = append(slips, s)
	streak.LastConsumptionDate = &ts
	streak.CurrentStreak = 0
	return streak
}
