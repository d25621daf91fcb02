package models

// KoraPoints is the gamification counter for resisted cravings
type KoraPoints struct {
	Total            int    `json:"total"`
	EarnedToday      int    `json:"earnedToday"`
	FreezeStreakUsed bool   `json:"freezeStreakUsed"`
	LastEarnedDay    string `json:"lastEarnedDay,omitempty"` // YYYY-MM-DD in the user's local zone
}

// ForDay returns the counter as seen on day. EarnedToday only counts points
// earned on that day.
func (k KoraPoints) ForDay(day string) KoraPoints {
	if k.LastEarnedDay != "" && k.LastEarnedDay != day {
		k.EarnedToday = 0
	}
	return k
}

// Award adds n points earned on day.
func (k KoraPoints) Award(n int, day string) KoraPoints {
	k = k.ForDay(day)
	k.Total += n
	k.EarnedToday += n
	k.LastEarnedDay = day
	return k
}
