package state

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/julianstephens/korastor/internal/metrics"
	"github.com/julianstephens/korastor/internal/models"
	"github.com/julianstephens/korastor/internal/slipup"
)

var ErrUnknownAction = errors.New("unknown action")

// Action is a named mutation of the aggregate. The set of variants is
// closed: only types in this file implement it.
type Action interface {
	isAction()
}

// SetUserProfile replaces the profile. A nil Profile returns the app to
// onboarding.
type SetUserProfile struct{ Profile *models.UserProfile }

// SetStreakData replaces the whole abstinence ledger.
type SetStreakData struct{ StreakData models.StreakData }

// RecordSlipUp appends a slip-up and moves the reference point to it.
type RecordSlipUp struct{ SlipUp models.SlipUp }

type UpdateMoneySaved struct{ Amount float64 }

type UpdateLifeRegained struct{ Ms float64 }

type UpdateKoraPoints struct{ Points models.KoraPoints }

// AwardPoints adds N points earned on Day (YYYY-MM-DD).
type AwardPoints struct {
	N   int
	Day string
}

type UpdateHealthSystems struct{ Systems []models.HealthSystem }

// LoadState replaces the aggregate with a rehydrated one.
type LoadState struct{ State models.AppState }

// Recompute refreshes the cached derived fields from the engine at Now.
type Recompute struct{ Now time.Time }

// ResetJourney clears the profile, ledger, health and points.
type ResetJourney struct{}

func (SetUserProfile) isAction()      {}
func (SetStreakData) isAction()       {}
func (RecordSlipUp) isAction()        {}
func (UpdateMoneySaved) isAction()    {}
func (UpdateLifeRegained) isAction()  {}
func (UpdateKoraPoints) isAction()    {}
func (AwardPoints) isAction()         {}
func (UpdateHealthSystems) isAction() {}
func (LoadState) isAction()           {}
func (Recompute) isAction()           {}
func (ResetJourney) isAction()        {}

// Reduce applies action to a copy of s and returns it. s is never modified.
func Reduce(s models.AppState, action Action) (models.AppState, error) {
	next := s.Clone()

	switch a := action.(type) {
	case SetUserProfile:
		if a.Profile == nil {
			next.UserProfile = nil
		} else {
			p := models.AppState{UserProfile: a.Profile}.Clone().UserProfile
			next.UserProfile = p
		}
	case SetStreakData:
		next.StreakData = models.AppState{StreakData: a.StreakData}.Clone().StreakData
	case RecordSlipUp:
		next.StreakData = slipup.Apply(next.StreakData, a.SlipUp)
	case UpdateMoneySaved:
		next.MoneySaved = a.Amount
	case UpdateLifeRegained:
		next.LifeRegainedMs = a.Ms
	case UpdateKoraPoints:
		next.KoraPoints = a.Points
	case AwardPoints:
		next.KoraPoints = next.KoraPoints.Award(a.N, a.Day)
	case UpdateHealthSystems:
		next.HealthSystems = slices.Clone(a.Systems)
	case LoadState:
		next = a.State.Clone()
	case Recompute:
		snap := metrics.Compute(next, a.Now)
		next.MoneySaved = snap.MoneySaved
		next.LifeRegainedMs = snap.LifeRegainedMs
		next.HealthSystems = snap.HealthSystems
		next.StreakData.CurrentStreak = snap.StreakMs
	case ResetJourney:
		next = models.DefaultAppState()
	default:
		return s, fmt.Errorf("%w: %T", ErrUnknownAction, action)
	}
	return normalize(next), nil
}
