package validation

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/julianstephens/korastor/internal/models"
)

// IssueType classifies a validation finding
type IssueType string

const (
	IssueMissingHabitType   IssueType = "missing_habit_type"
	IssueInvalidHabitType   IssueType = "invalid_habit_type"
	IssueInvalidUnits       IssueType = "invalid_units"
	IssueInvalidCost        IssueType = "invalid_cost"
	IssueInvalidStrength    IssueType = "invalid_strength"
	IssueInvalidNorthStar   IssueType = "invalid_north_star"
	IssueMissingRewardName  IssueType = "missing_reward_name"
	IssueInvalidRewardPrice IssueType = "invalid_reward_price"
	IssueInvalidTrigger     IssueType = "invalid_trigger"
	IssueInvalidEmotion     IssueType = "invalid_emotion"
	IssueFutureTimestamp    IssueType = "future_timestamp"
	IssueSlipUpOrder        IssueType = "slip_up_order"
	IssueStaleReference     IssueType = "stale_reference"
	IssueInvalidHealth      IssueType = "invalid_health_system"
	IssueNegativePoints     IssueType = "negative_points"
)

// Issue is one problem found in user input or stored state
type Issue struct {
	Type        IssueType
	Field       string
	Description string
}

// Result collects every issue found by one validation call
type Result struct {
	Issues []Issue
}

func (r *Result) add(t IssueType, field, format string, args ...interface{}) {
	r.Issues = append(r.Issues, Issue{Type: t, Field: field, Description: fmt.Sprintf(format, args...)})
}

func (r *Result) merge(other Result) {
	r.Issues = append(r.Issues, other.Issues...)
}

// HasIssues returns true if anything was found
func (r Result) HasIssues() bool {
	return len(r.Issues) > 0
}

// Has reports whether an issue of type t was found.
func (r Result) Has(t IssueType) bool {
	for _, issue := range r.Issues {
		if issue.Type == t {
			return true
		}
	}
	return false
}

// FormatReport returns a human-readable report of all issues
func (r Result) FormatReport() string {
	if !r.HasIssues() {
		return "No issues detected."
	}
	var b strings.Builder
	b.WriteString("Issues detected:\n")
	for _, issue := range r.Issues {
		fmt.Fprintf(&b, "- %s\n", issue.Description)
	}
	return b.String()
}

// Err folds the issues into one error, nil when there are none.
func (r Result) Err() error {
	if !r.HasIssues() {
		return nil
	}
	errs := make([]error, len(r.Issues))
	for i, issue := range r.Issues {
		errs[i] = errors.New(issue.Description)
	}
	return errors.Join(errs...)
}

func invalidNumber(f float64) bool {
	return math.IsNaN(f) || math.IsInf(f, 0)
}

// HabitProfile checks the onboarding habit answers: at least one known habit
// type, a positive daily unit count and a non-negative unit cost.
func HabitProfile(p models.HabitProfile) Result {
	var r Result
	if len(p.Types) == 0 {
		r.add(IssueMissingHabitType, "types", "Select at least one habit type")
	}
	seen := make(map[models.HabitType]bool, len(p.Types))
	for _, t := range p.Types {
		if !t.Valid() {
			r.add(IssueInvalidHabitType, "types", "Unknown habit type %q", t)
		} else if seen[t] {
			r.add(IssueInvalidHabitType, "types", "Habit type %q selected twice", t)
		}
		seen[t] = true
	}
	if invalidNumber(p.UnitsPerDay) || p.UnitsPerDay <= 0 {
		r.add(IssueInvalidUnits, "unitsPerDay", "Units per day must be greater than 0 (got %v)", p.UnitsPerDay)
	}
	if invalidNumber(p.CostPerUnit) || p.CostPerUnit < 0 {
		r.add(IssueInvalidCost, "costPerUnit", "Cost per unit cannot be negative (got %v)", p.CostPerUnit)
	}
	if p.NicotineStrength != "" && !p.NicotineStrength.Valid() {
		r.add(IssueInvalidStrength, "nicotineStrength", "Unknown nicotine strength %q", p.NicotineStrength)
	}
	return r
}

// NorthStar checks the motivation answer.
func NorthStar(n models.NorthStar) Result {
	var r Result
	if !n.Valid() {
		r.add(IssueInvalidNorthStar, "northStar", "Unknown north star %q", n)
	}
	return r
}

// RewardVault checks the savings goal: a named item with a positive price.
func RewardVault(v models.RewardVault) Result {
	var r Result
	if strings.TrimSpace(v.ItemName) == "" {
		r.add(IssueMissingRewardName, "itemName", "Reward item name cannot be blank")
	}
	if invalidNumber(v.TargetPrice) || v.TargetPrice <= 0 {
		r.add(IssueInvalidRewardPrice, "targetPrice", "Reward target price must be greater than 0 (got %v)", v.TargetPrice)
	}
	return r
}

// Profile validates a complete user profile.
func Profile(p models.UserProfile) Result {
	var r Result
	r.merge(HabitProfile(p.HabitProfile))
	r.merge(NorthStar(p.NorthStar))
	r.merge(RewardVault(p.RewardVault))
	return r
}

// SlipUp checks the trigger and emotion of a relapse record.
func SlipUp(s models.SlipUp) Result {
	var r Result
	if !s.Trigger.Valid() {
		r.add(IssueInvalidTrigger, "trigger", "Unknown trigger %q", s.Trigger)
	}
	if !s.Emotion.Valid() {
		r.add(IssueInvalidEmotion, "emotion", "Unknown emotion %q", s.Emotion)
	}
	return r
}

// State checks a stored aggregate for inconsistencies that the metrics would
// otherwise silently absorb. now is epoch ms.
func State(s models.AppState, now int64) Result {
	var r Result

	if s.UserProfile != nil {
		r.merge(Profile(*s.UserProfile))
		if s.UserProfile.StartDate > now {
			r.add(IssueFutureTimestamp, "startDate", "Quit date is in the future; check the system clock")
		}
	}

	slips := s.StreakData.SlipUps
	for i, slip := range slips {
		r.merge(SlipUp(slip))
		if slip.Timestamp > now {
			r.add(IssueFutureTimestamp, "slipUps", "Slip-up %d is in the future", i+1)
		}
		if i > 0 && slip.Timestamp < slips[i-1].Timestamp {
			r.add(IssueSlipUpOrder, "slipUps", "Slip-up %d is older than the one before it", i+1)
		}
	}

	if last := s.StreakData.LastConsumptionDate; last != nil && len(slips) > 0 {
		if *last < slips[len(slips)-1].Timestamp {
			r.add(IssueStaleReference, "lastConsumptionDate", "Last consumption date predates the latest slip-up")
		}
	}

	for _, h := range s.HealthSystems {
		if h.RestorationMs <= 0 {
			r.add(IssueInvalidHealth, "healthSystems", "Health system %q has no restoration time", h.Name)
		}
	}

	if s.KoraPoints.Total < 0 || s.KoraPoints.EarnedToday < 0 {
		r.add(IssueNegativePoints, "koraPoints", "Points balance is negative")
	}
	return r
}
