package tui

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/korastor/internal/craving"
	"github.com/julianstephens/korastor/internal/format"
	"github.com/julianstephens/korastor/internal/models"
	"github.com/julianstephens/korastor/internal/utils"
)

var lastCravingID int64

func nextCravingID() int {
	return int(atomic.AddInt64(&lastCravingID, 1))
}

// cravingTickMsg is tagged with the session it belongs to so a tick left
// over from a cancelled session cannot speed up the next one.
type cravingTickMsg struct {
	id   int
	time time.Time
}

func cravingTick(id int) tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return cravingTickMsg{id: id, time: t}
	})
}

// CravingModel counts one craving task down and awards the point when it
// reaches zero.
type CravingModel struct {
	id      int
	session *craving.Session
	awarder craving.Awarder
	clock   utils.Clock
	bar     progress.Model
	points  models.KoraPoints
	awarded bool
	err     error
}

func NewCravingModel(task craving.Task, awarder craving.Awarder, clock utils.Clock) CravingModel {
	if clock == nil {
		clock = utils.SystemClock{}
	}
	return CravingModel{
		id:      nextCravingID(),
		session: craving.NewSession(task),
		awarder: awarder,
		clock:   clock,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
}

func (m CravingModel) Init() tea.Cmd {
	return cravingTick(m.id)
}

func (m CravingModel) Task() craving.Task { return m.session.Task }

// Done reports whether the countdown has reached zero.
func (m CravingModel) Done() bool { return m.session.Done() }

// Awarded reports whether the point was credited.
func (m CravingModel) Awarded() bool { return m.awarded }

func (m CravingModel) Points() models.KoraPoints { return m.points }

func (m CravingModel) Err() error { return m.err }

// complete credits the point. A failed award can be retried.
func (m CravingModel) complete() CravingModel {
	points, err := m.session.Complete(context.Background(), m.awarder, m.clock.Now())
	if errors.Is(err, craving.ErrAlreadyAwarded) {
		return m
	}
	m.err = err
	if err == nil {
		m.points = points
		m.awarded = true
	}
	return m
}

func (m CravingModel) Update(msg tea.Msg) (CravingModel, tea.Cmd) {
	switch msg := msg.(type) {
	case cravingTickMsg:
		if msg.id != m.id || m.session.Done() {
			return m, nil
		}
		if !m.session.Tick() {
			return m, cravingTick(m.id)
		}
		return m.complete(), nil
	case tea.KeyMsg:
		if msg.String() == "r" && m.session.Done() && !m.awarded {
			return m.complete(), nil
		}
	}
	return m, nil
}

func (m CravingModel) View() string {
	task := m.session.Task
	lines := []string{
		titleStyle.Render("Craving SOS"),
		"",
		taskStyle.Render(task.Instruction),
		"",
		valueStyle.Render(format.Countdown(m.session.Remaining())),
		m.bar.ViewAs(m.session.Progress()),
		"",
	}

	switch {
	case m.awarded:
		lines = append(lines,
			restoredStyle.Render("Craving crushed! +1 Kora point"),
			fmt.Sprintf("Total: %d  Today: %d", m.points.Total, m.points.EarnedToday),
			"",
			"[enter] Done",
		)
	case m.err != nil:
		lines = append(lines,
			dangerStyle.Render(fmt.Sprintf("Could not save your point: %v", m.err)),
			"",
			"[r] Retry  [esc] Leave",
		)
	default:
		lines = append(lines, warningStyle.Render("Stay with it. Cravings pass."), "", "[esc] Give up")
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

// cravingProgram runs a CravingModel on its own for the craving command.
type cravingProgram struct {
	model     CravingModel
	cancelled bool
}

func (p cravingProgram) Init() tea.Cmd { return p.model.Init() }

func (p cravingProgram) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			p.cancelled = !p.model.Awarded()
			return p, tea.Quit
		case "enter":
			if p.model.Awarded() {
				return p, tea.Quit
			}
		}
	}
	var cmd tea.Cmd
	p.model, cmd = p.model.Update(msg)
	return p, cmd
}

func (p cravingProgram) View() string {
	return docStyle.Render(p.model.View())
}

// CravingResult is how a craving session ended.
type CravingResult struct {
	Task      craving.Task
	Awarded   bool
	Points    models.KoraPoints
	Cancelled bool
}

// RunCraving shows a full-screen countdown for task.
func RunCraving(task craving.Task, awarder craving.Awarder, clock utils.Clock) (CravingResult, error) {
	final, err := tea.NewProgram(cravingProgram{model: NewCravingModel(task, awarder, clock)}, tea.WithAltScreen()).Run()
	if err != nil {
		return CravingResult{}, err
	}
	p := final.(cravingProgram)
	return CravingResult{
		Task:      task,
		Awarded:   p.model.Awarded(),
		Points:    p.model.Points(),
		Cancelled: p.cancelled,
	}, p.model.Err()
}
