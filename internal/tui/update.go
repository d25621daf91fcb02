package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/korastor/internal/models"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tickMsg:
		m.refresh()
		return m, tick()
	case cravingTickMsg:
		if m.state != StateCraving {
			return m, nil
		}
		var cmd tea.Cmd
		m.craving, cmd = m.craving.Update(msg)
		if m.craving.Awarded() {
			m.refresh()
		}
		return m, cmd
	}

	switch m.state {
	case StateSlipForm:
		return m.updateSlipForm(msg)
	case StateCraving:
		return m.updateCraving(msg)
	case StateAdvice:
		if _, ok := msg.(tea.KeyMsg); ok {
			m.state = StateSlips
		}
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(keyMsg, m.keys.Tab):
		m.state = (m.state + 1) % SessionState(len(tabTitles))
	case key.Matches(keyMsg, m.keys.ShiftTab):
		m.state = (m.state + SessionState(len(tabTitles)) - 1) % SessionState(len(tabTitles))
	case key.Matches(keyMsg, m.keys.Craving):
		m.previousState = m.state
		m.craving = NewCravingModel(m.picker.Pick(), m.store, m.clock)
		m.state = StateCraving
		return m, m.craving.Init()
	case key.Matches(keyMsg, m.keys.Slip):
		if !m.snap.HasProfile {
			m.formError = "Start your journey with 'korastor init' first"
			return m, nil
		}
		m.previousState = m.state
		m.slipForm = &SlipFormModel{Trigger: models.TriggerStress, Emotion: models.EmotionAnxious}
		m.form = NewSlipForm(m.slipForm)
		m.formError = ""
		m.state = StateSlipForm
		return m, m.form.Init()
	}
	return m, nil
}

func (m Model) updateCraving(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, m.keys.Cancel):
			// leaving early awards nothing
			m.state = m.previousState
			return m, nil
		case k.Type == tea.KeyEnter && m.craving.Awarded():
			m.state = m.previousState
			return m, nil
		case k.Type == tea.KeyCtrlC:
			m.quitting = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.craving, cmd = m.craving.Update(msg)
	if m.craving.Awarded() {
		m.refresh()
	}
	return m, cmd
}

func (m Model) updateSlipForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEsc {
		m.state = m.previousState
		return m, nil
	}

	var cmds []tea.Cmd
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		return m.logSlip(m.slipForm.Trigger, m.slipForm.Emotion)
	case huh.StateAborted:
		m.state = m.previousState
	}
	return m, tea.Batch(cmds...)
}

func (m Model) logSlip(trigger models.TriggerType, emotion models.EmotionType) (tea.Model, tea.Cmd) {
	slip, err := m.store.LogSlipUp(context.Background(), trigger, emotion, m.clock.Now())
	if err != nil {
		m.formError = fmt.Sprintf("Failed to log slip-up: %v", err)
		m.state = m.previousState
		return m, nil
	}
	m.lastSlip = &slip
	m.formError = ""
	m.refresh()
	m.state = StateAdvice
	return m, nil
}
