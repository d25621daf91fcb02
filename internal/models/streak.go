package models

// SlipUp is an immutable record of a relapse
type SlipUp struct {
	ID            string      `json:"id,omitempty"`
	Timestamp     int64       `json:"timestamp"` // epoch ms
	Trigger       TriggerType `json:"trigger"`
	Emotion       EmotionType `json:"emotion"`
	UnitsConsumed int         `json:"unitsConsumed"`
}

// StreakData is the abstinence ledger. SlipUps is append-only and kept in
// chronological order.
type StreakData struct {
	LastConsumptionDate *int64   `json:"lastConsumptionDate"` // epoch ms, nil until the first slip-up
	CurrentStreak       int64    `json:"currentStreak"`       // ms, recomputed on read
	TotalDaysAbstinent  int      `json:"totalDaysAbstinent"`
	SlipUps             []SlipUp `json:"slipUps"`
}

// ReferencePoint returns the abstinence anchor: the last relapse if one was
// recorded, otherwise the quit start.
func (s StreakData) ReferencePoint(startDate int64) int64 {
	if s.LastConsumptionDate != nil {
		return *s.LastConsumptionDate
	}
	return startDate
}

func (s StreakData) clone() StreakData {
	c := s
	if s.LastConsumptionDate != nil {
		v := *s.LastConsumptionDate
		c.LastConsumptionDate = &v
	}
	if s.SlipUps != nil {
		c.SlipUps = append(make([]SlipUp, 0, len(s.SlipUps)), s.SlipUps...)
	}
	return c
}

// NewStreakData returns an empty ledger
func NewStreakData() StreakData {
	return StreakData{SlipUps: []SlipUp{}}
}
