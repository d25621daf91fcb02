// Package format renders engine output as user-facing strings.
package format

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/korastor/internal/constants"
)

const (
	DefaultLocale = "en-US"
	usdSymbol     = "$"
)

// Currency formats amount as US dollars: "$1,234.50". Cents are rounded
// half up.
func Currency(amount float64) string {
	return CurrencyLocale(amount, DefaultLocale)
}

// CurrencyLocale formats amount for locale. Only en-US is supported; any
// other locale is rendered the same way. NaN and infinities render as zero.
func CurrencyLocale(amount float64, locale string) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	dollars, cents := roundCents(amount)
	return fmt.Sprintf("%s%s%s.%02d", sign, usdSymbol, humanize.BigComma(dollars), cents)
}

// roundCents rounds the shortest decimal form of amount half up at the cent.
// Working on the decimal string keeps 0.285 from becoming 0.28499999.
func roundCents(amount float64) (*big.Int, int) {
	digits := strconv.FormatFloat(amount, 'f', -1, 64)
	whole, frac, _ := strings.Cut(digits, ".")
	frac += "000"

	dollars, ok := new(big.Int).SetString(whole, 10)
	if !ok {
		dollars = new(big.Int)
	}
	cents := int(frac[0]-'0')*10 + int(frac[1]-'0')
	if frac[2] >= '5' {
		cents++
	}
	if cents == 100 {
		dollars.Add(dollars, big.NewInt(1))
		cents = 0
	}
	return dollars, cents
}

// plural renders "1 day", "0 days", "2 days"
func plural(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// Streak formats a streak duration as days and hours; the sub-hour remainder
// is dropped.
func Streak(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	days := ms / constants.MsPerDay
	hours := (ms % constants.MsPerDay) / constants.MsPerHour

	if days > 0 {
		return plural(days, "day") + ", " + plural(hours, "hour")
	}
	return plural(hours, "hour")
}

// TimeRegained formats a duration as days, hours and minutes, leaving out
// zero components. Falls back to "0 minutes".
func TimeRegained(ms float64) string {
	if ms < 0 || math.IsNaN(ms) {
		ms = 0
	}
	total := int64(math.Floor(ms))
	days := total / constants.MsPerDay
	hours := (total % constants.MsPerDay) / constants.MsPerHour
	minutes := (total % constants.MsPerHour) / constants.MsPerMinute

	var parts []string
	if days > 0 {
		parts = append(parts, plural(days, "day"))
	}
	if hours > 0 {
		parts = append(parts, plural(hours, "hour"))
	}
	if minutes > 0 {
		parts = append(parts, plural(minutes, "minute"))
	}

	if len(parts) == 0 {
		return "0 minutes"
	}
	return strings.Join(parts, ", ")
}

// Percent renders a progress value rounded to a whole percent.
func Percent(p float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(p)))
}

// Countdown renders seconds as m:ss
func Countdown(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// Since renders the time between then and now as "3 days ago".
func Since(then, now time.Time) string {
	return humanize.RelTime(then, now, "ago", "from now")
}

// Date renders an epoch millisecond timestamp as a local calendar date and time.
func Date(ms int64, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return time.UnixMilli(ms).In(loc).Format("Mon Jan 2 2006 15:04")
}
