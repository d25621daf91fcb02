package slipup

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/julianstephens/korastor/internal/models"
)

func TestAdvice(t *testing.T) {
	tests := []struct {
		trigger models.TriggerType
		want    string
	}{
		{models.TriggerStress, "5-minute walk"},
		{models.TriggerSocial, "cold drink"},
		{models.TriggerAlcohol, "non-alcoholic drink"},
		{models.TriggerBoredom, "podcast"},
		{"weather", "Every slip is information"},
	}

	for _, tt := range tests {
		t.Run(string(tt.trigger), func(t *testing.T) {
			if got := Advice(tt.trigger); !strings.Contains(got, tt.want) {
				t.Errorf("Advice(%q) = %q, want containing %q", tt.trigger, got, tt.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	s, err := New(models.TriggerStress, models.EmotionAnxious, 1234, func() string { return "fixed" })
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	want := models.SlipUp{ID: "fixed", Timestamp: 1234, Trigger: models.TriggerStress, Emotion: models.EmotionAnxious, UnitsConsumed: 1}
	if s != want {
		t.Errorf("New() = %+v, want %+v", s, want)
	}

	s, err = New(models.TriggerAlcohol, models.EmotionFine, 1, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := uuid.Parse(s.ID); err != nil {
		t.Errorf("default ID %q is not a UUID: %v", s.ID, err)
	}

	if _, err := New("rain", models.EmotionFine, 1, nil); err == nil {
		t.Error("New() accepted an unknown trigger")
	}
}

func TestApply(t *testing.T) {
	first := models.SlipUp{ID: "a", Timestamp: 100, Trigger: models.TriggerStress, Emotion: models.EmotionGuilty, UnitsConsumed: 1}
	second := models.SlipUp{ID: "b", Timestamp: 200, Trigger: models.TriggerSocial, Emotion: models.EmotionFine, UnitsConsumed: 1}

	base := models.NewStreakData()
	base.TotalDaysAbstinent = 12
	base.CurrentStreak = 5000

	once := Apply(base, first)
	twice := Apply(once, second)

	if len(base.SlipUps) != 0 {
		t.Error("Apply modified its input ledger")
	}
	if len(once.SlipUps) != 1 {
		t.Errorf("first Apply left %d slip-ups, want 1", len(once.SlipUps))
	}
	if len(twice.SlipUps) != 2 || twice.SlipUps[0] != first || twice.SlipUps[1] != second {
		t.Errorf("slip-ups = %+v, want history preserved in order", twice.SlipUps)
	}
	if twice.LastConsumptionDate == nil || *twice.LastConsumptionDate != 200 {
		t.Errorf("LastConsumptionDate = %v, want 200", twice.LastConsumptionDate)
	}
	if twice.CurrentStreak != 0 || twice.TotalDaysAbstinent != 12 {
		t.Errorf("CurrentStreak/TotalDaysAbstinent = %d/%d, want 0/12", twice.CurrentStreak, twice.TotalDaysAbstinent)
	}
}
