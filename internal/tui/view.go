package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/korastor/internal/format"
	"github.com/julianstephens/korastor/internal/metrics"
	"github.com/julianstephens/korastor/internal/models"
	"github.com/julianstephens/korastor/internal/notifier"
	"github.com/julianstephens/korastor/internal/slipup"
)

const recentSlips = 5

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateDashboard:
		content = m.viewDashboard()
	case StateHealth:
		content = m.viewHealth()
	case StateSlips:
		content = m.viewSlips()
	case StateCraving:
		content = m.craving.View()
	case StateSlipForm:
		content = m.form.View()
	case StateAdvice:
		content = m.viewAdvice()
	}

	var banner string
	if len(m.restored) > 0 {
		names := make([]string, len(m.restored))
		for i, name := range m.restored {
			names[i] = notifier.MilestoneText(name)
		}
		banner = restoredStyle.Render(strings.Join(names, "  "))
	}
	if m.formError != "" {
		banner = lipgloss.JoinVertical(lipgloss.Left, banner, dangerStyle.Render(m.formError))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		banner,
		docStyle.Render(content),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range tabTitles {
		if m.state == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), valueStyle.Render(value))
}

func (m Model) viewDashboard() string {
	snap := m.snap
	if !snap.HasProfile {
		return lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Welcome to Korastor"),
			"",
			"No journey yet. Run 'korastor init' to start.",
			"",
			"[c] Craving SOS works any time.",
		)
	}

	profile := m.store.State().UserProfile
	lines := []string{
		titleStyle.Render(fmt.Sprintf("Day %d", snap.DaysAbstinent)),
		"",
		row("Streak", format.Streak(snap.StreakMs)),
		row("Money saved", format.Currency(snap.MoneySaved)),
		row("Life regained", format.TimeRegained(snap.LifeRegainedMs)),
		row("Kora points", fmt.Sprintf("%d (%d today)", snap.Points.Total, snap.Points.EarnedToday)),
		"",
		row("Reward", profile.RewardVault.ItemName),
		lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(""), m.bar.ViewAs(snap.RewardPercent/100)),
	}
	if snap.RewardRemaining > 0 {
		lines = append(lines, row("", format.Currency(snap.RewardRemaining)+" to go"))
	} else {
		lines = append(lines, row("", restoredStyle.Render("Unlocked!")))
	}
	if snap.ClockSkew {
		lines = append(lines, "", warningStyle.Render("Your journey starts in the future. Check the system clock."))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) viewHealth() string {
	lines := []string{titleStyle.Render("Health recovery"), ""}
	for _, s := range m.snap.HealthSystems {
		status := s.CurrentStatus
		if s.Restored() {
			status = restoredStyle.Render(status)
		}
		lines = append(lines,
			lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(s.Name), m.bar.ViewAs(s.ProgressPercent/100)),
			lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(""), status+"  "+s.TimeToRestoration),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) viewSlips() string {
	slips := m.store.State().StreakData.SlipUps
	if len(slips) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Slip-ups"),
			"",
			"None logged. [s] Log one if it happens, no judgment.",
		)
	}

	lines := []string{titleStyle.Render(fmt.Sprintf("Slip-ups (%d)", len(slips))), ""}
	lines = append(lines, triggerLines(metrics.TriggerBreakdown(slips))...)
	lines = append(lines, "")

	start := max(0, len(slips)-recentSlips)
	for i := len(slips) - 1; i >= start; i-- {
		s := slips[i]
		lines = append(lines, fmt.Sprintf("%s  %s, felt %s",
			format.Date(s.Timestamp, nil), s.Trigger.Label(), strings.ToLower(s.Emotion.Label())))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// triggerLines renders counts, most frequent first.
func triggerLines(counts map[models.TriggerType]int) []string {
	triggers := models.AllTriggers()
	sort.SliceStable(triggers, func(i, j int) bool {
		return counts[triggers[i]] > counts[triggers[j]]
	})
	var lines []string
	for _, t := range triggers {
		if counts[t] == 0 {
			continue
		}
		lines = append(lines, row(t.Label(), fmt.Sprintf("%d", counts[t])))
	}
	return lines
}

func (m Model) viewAdvice() string {
	if m.lastSlip == nil {
		return ""
	}
	lines := []string{
		titleStyle.Render(slipup.Heading),
		"",
		slipup.Advice(m.lastSlip.Trigger),
		"",
	}
	for _, step := range slipup.NextSteps {
		lines = append(lines, "• "+step)
	}
	lines = append(lines, "", "Press any key to continue")
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
