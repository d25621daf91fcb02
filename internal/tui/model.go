// Package tui is the interactive dashboard: streak and savings, health
// recovery, slip-up history, the craving countdown and the slip-up form.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/korastor/internal/craving"
	"github.com/julianstephens/korastor/internal/metrics"
	"github.com/julianstephens/korastor/internal/models"
	"github.com/julianstephens/korastor/internal/utils"
)

type SessionState int

const (
	StateDashboard SessionState = iota
	StateHealth
	StateSlips
	StateCraving
	StateSlipForm
	StateAdvice
)

var tabTitles = []string{"Dashboard", "Health", "Slips"}

// Store is the part of the state store the dashboard drives.
type Store interface {
	State() models.AppState
	Snapshot(now time.Time) metrics.Snapshot
	LogSlipUp(ctx context.Context, trigger models.TriggerType, emotion models.EmotionType, now time.Time) (models.SlipUp, error)
	AwardCravingPoint(ctx context.Context, now time.Time) (models.KoraPoints, error)
	RefreshDerived(ctx context.Context, now time.Time) error
}

type Model struct {
	store         Store
	clock         utils.Clock
	picker        *craving.Picker
	state         SessionState
	previousState SessionState
	keys          KeyMap
	help          help.Model
	bar           progress.Model
	now           time.Time
	snap          metrics.Snapshot
	restored      []string // systems restored while the dashboard was open
	craving       CravingModel
	form          *huh.Form
	slipForm      *SlipFormModel
	lastSlip      *models.SlipUp
	formError     string
	quitting      bool
	width         int
	height        int
}

func NewModel(store Store, clock utils.Clock, picker *craving.Picker) Model {
	if clock == nil {
		clock = utils.SystemClock{}
	}
	if picker == nil {
		picker = craving.NewPicker(nil)
	}
	now := clock.Now()
	return Model{
		store:  store,
		clock:  clock,
		picker: picker,
		state:  StateDashboard,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(30)),
		now:    now,
		snap:   store.Snapshot(now),
	}
}

func (m Model) ShortHelp() []key.Binding {
	return m.keys.ShortHelp()
}

func (m Model) FullHelp() [][]key.Binding {
	return m.keys.FullHelp()
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// refresh recomputes the snapshot. The cached derived values are written
// back only when the day count moves, which is also when a health system
// can become restored.
func (m *Model) refresh() {
	m.now = m.clock.Now()
	snap := m.store.Snapshot(m.now)
	if snap.DaysAbstinent != m.snap.DaysAbstinent {
		cached := m.store.State().HealthSystems
		m.restored = append(m.restored, metrics.NewlyRestored(cached, snap.HealthSystems)...)
		if err := m.store.RefreshDerived(context.Background(), m.now); err != nil {
			m.formError = err.Error()
		}
	}
	m.snap = snap
}

// Run starts the full-screen dashboard.
func Run(store Store, clock utils.Clock) error {
	_, err := tea.NewProgram(NewModel(store, clock, nil), tea.WithAltScreen()).Run()
	return err
}
