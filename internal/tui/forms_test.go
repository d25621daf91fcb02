package tui

import (
	"testing"

	"github.com/julianstephens/korastor/internal/models"
	"github.com/julianstephens/korastor/internal/onboarding"
)

func TestOnboardingFormApply(t *testing.T) {
	valid := OnboardingFormModel{
		Habits:      []models.HabitType{models.HabitVape},
		UnitsPerDay: "4",
		CostPerUnit: " 2.50 ",
		Strength:    models.StrengthLow,
		NorthStar:   models.NorthStarLegacy,
		RewardName:  "  Camera ",
		RewardPrice: "500",
	}

	tests := []struct {
		name    string
		modify  func(*OnboardingFormModel)
		wantErr bool
	}{
		{name: "valid", modify: func(*OnboardingFormModel) {}},
		{name: "no habits", modify: func(fm *OnboardingFormModel) { fm.Habits = nil }, wantErr: true},
		{name: "units not a number", modify: func(fm *OnboardingFormModel) { fm.UnitsPerDay = "lots" }, wantErr: true},
		{name: "zero units", modify: func(fm *OnboardingFormModel) { fm.UnitsPerDay = "0" }, wantErr: true},
		{name: "negative cost", modify: func(fm *OnboardingFormModel) { fm.CostPerUnit = "-1" }, wantErr: true},
		{name: "empty reward", modify: func(fm *OnboardingFormModel) { fm.RewardName = "  " }, wantErr: true},
		{name: "free habit", modify: func(fm *OnboardingFormModel) { fm.CostPerUnit = "0" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm := valid
			fm.Habits = append([]models.HabitType(nil), valid.Habits...)
			tt.modify(&fm)

			d := onboarding.New()
			err := fm.Apply(d)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Apply() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if d.IsComplete() {
					t.Error("draft complete despite an error")
				}
				return
			}
			if !d.IsComplete() {
				t.Fatal("draft incomplete")
			}
			if d.RewardVault.ItemName != "Camera" {
				t.Errorf("ItemName = %q, want trimmed", d.RewardVault.ItemName)
			}
		})
	}

	d := onboarding.New()
	fm := valid
	if err := fm.Apply(d); err != nil {
		t.Fatal(err)
	}
	if d.HabitProfile.CostPerUnit != 2.5 || *d.NorthStar != models.NorthStarLegacy {
		t.Errorf("draft = %+v", d)
	}
}
