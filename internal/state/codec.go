package state

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/korastor/internal/models"
)

// Encode serializes the aggregate to the persisted JSON blob.
func Encode(s models.AppState) ([]byte, error) {
	return json.Marshal(s)
}

// Decode parses a persisted blob. Absent health systems are reseeded so a
// blob from before they existed still loads.
func Decode(blob []byte) (models.AppState, error) {
	var s models.AppState
	if err := json.Unmarshal(blob, &s); err != nil {
		return models.AppState{}, fmt.Errorf("failed to decode app state: %w", err)
	}
	return normalize(s), nil
}

// normalize puts s in the shape Decode produces. Reduce applies it too, so
// an in-memory state equals itself after a persist and reload.
func normalize(s models.AppState) models.AppState {
	if s.HealthSystems == nil {
		s.HealthSystems = models.DefaultHealthSystems()
	}
	if s.StreakData.SlipUps == nil {
		s.StreakData.SlipUps = []models.SlipUp{}
	}
	return s
}
