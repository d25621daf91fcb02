package state

import (
	"errors"
	"reflect"
	"testing"

	"github.com/julianstephens/korastor/internal/constants"
	"github.com/julianstephens/korastor/internal/models"
)

type bogusAction struct{ Action }

func TestReduceDoesNotMutateInput(t *testing.T) {
	base := models.DefaultAppState()
	base.UserProfile = sampleProfile(testNow.UnixMilli() - 5*constants.MsPerDay)
	base.StreakData.SlipUps = append(base.StreakData.SlipUps, models.SlipUp{ID: "a", Timestamp: 1, Trigger: models.TriggerStress, Emotion: models.EmotionFine, UnitsConsumed: 1})
	snapshot := base.Clone()

	actions := []Action{
		SetUserProfile{Profile: nil},
		SetStreakData{StreakData: models.NewStreakData()},
		RecordSlipUp{SlipUp: models.SlipUp{ID: "b", Timestamp: 2, Trigger: models.TriggerBoredom, Emotion: models.EmotionGuilty, UnitsConsumed: 1}},
		UpdateMoneySaved{Amount: 9},
		UpdateLifeRegained{Ms: 9},
		UpdateKoraPoints{Points: models.KoraPoints{Total: 9}},
		AwardPoints{N: 1, Day: "2025-03-11"},
		UpdateHealthSystems{Systems: nil},
		LoadState{State: models.DefaultAppState()},
		Recompute{Now: testNow},
		ResetJourney{},
	}

	for _, a := range actions {
		if _, err := Reduce(base, a); err != nil {
			t.Fatalf("Reduce(%T) error = %v", a, err)
		}
		if !reflect.DeepEqual(base, snapshot) {
			t.Fatalf("Reduce(%T) modified its input", a)
		}
	}
}

func TestReduceUnknownAction(t *testing.T) {
	base := models.DefaultAppState()
	got, err := Reduce(base, bogusAction{})
	if !errors.Is(err, ErrUnknownAction) {
		t.Errorf("Reduce() error = %v, want ErrUnknownAction", err)
	}
	if !reflect.DeepEqual(got, base) {
		t.Error("unknown action should leave state unchanged")
	}
}

func TestReduceSetUserProfileCopies(t *testing.T) {
	profile := sampleProfile(1)
	next, _ := Reduce(models.DefaultAppState(), SetUserProfile{Profile: profile})
	profile.HabitProfile.Types[0] = models.HabitVape

	if next.UserProfile == profile || next.UserProfile.HabitProfile.Types[0] != models.HabitSmoke {
		t.Error("reducer kept a reference to the caller's profile")
	}
}

func TestReduceRecompute(t *testing.T) {
	base := models.DefaultAppState()
	base.UserProfile = sampleProfile(testNow.UnixMilli() - 10*constants.MsPerDay)

	next, err := Reduce(base, Recompute{Now: testNow})
	if err != nil {
		t.Fatal(err)
	}
	if next.MoneySaved != 100 || next.LifeRegainedMs != 10*13_200_000 {
		t.Errorf("cached totals = %v / %v, want 100 / %v", next.MoneySaved, next.LifeRegainedMs, 10*13_200_000)
	}
	if next.StreakData.CurrentStreak != 10*constants.MsPerDay {
		t.Errorf("CurrentStreak = %d, want ten days", next.StreakData.CurrentStreak)
	}
	if next.HealthSystems[0].CurrentStatus != constants.StatusRestored {
		t.Errorf("blood oxygen = %q, want RESTORED", next.HealthSystems[0].CurrentStatus)
	}
}

func TestReducedStateMatchesDecodedForm(t *testing.T) {
	tests := []struct {
		name   string
		action Action
	}{
		{"zero streak data", SetStreakData{StreakData: models.StreakData{}}},
		{"nil health systems", UpdateHealthSystems{Systems: nil}},
		{"empty health systems", UpdateHealthSystems{Systems: []models.HealthSystem{}}},
		{"zero loaded state", LoadState{State: models.AppState{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := Reduce(models.DefaultAppState(), tt.action)
			if err != nil {
				t.Fatalf("Reduce() error = %v", err)
			}
			blob, err := Encode(next)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			got, err := Decode(blob)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if !reflect.DeepEqual(got, next) {
				t.Errorf("reloaded state differs:\n got %+v\nwant %+v", got, next)
			}
		})
	}
}
