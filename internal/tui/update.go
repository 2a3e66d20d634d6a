package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-4)
		return m, nil

	case habitsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.setHabits(msg.habits)
		return m, nil

	case actionDoneMsg:
		m.err = msg.err
		if msg.err == nil {
			m.status = msg.text
		}
		return m, m.loadHabits
	}

	switch m.state {
	case StateAddHabit:
		return m.updateAddHabit(msg)
	case StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}
	return m.updateList(msg)
}

func (m Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch {
		case key.Matches(km, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(km, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(km, m.keys.Refresh):
			return m, m.loadHabits
		case key.Matches(km, m.keys.Add):
			m.habitForm = NewHabitFormModel()
			m.form = NewHabitForm(m.habitForm)
			m.state = StateAddHabit
			return m, m.form.Init()
		case key.Matches(km, m.keys.Check):
			if item, ok := m.selected(); ok {
				return m, m.checkIn(item)
			}
			return m, nil
		case key.Matches(km, m.keys.Branch):
			if item, ok := m.selected(); ok {
				return m, m.branch(item)
			}
			return m, nil
		case key.Matches(km, m.keys.Reset):
			if item, ok := m.selected(); ok {
				return m, m.resetFailed(item)
			}
			return m, nil
		case key.Matches(km, m.keys.Delete):
			if item, ok := m.selected(); ok {
				h := item.Habit
				m.habitToDelete = &h
				m.state = StateConfirmDelete
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateAddHabit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && km.Type == tea.KeyEsc {
		m.state = StateList
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.state = StateList
		in, err := m.habitForm.Input()
		if err != nil {
			m.err = err
			return m, nil
		}
		return m, tea.Batch(cmd, m.createHabit(in))
	case huh.StateAborted:
		m.state = StateList
	}
	return m, cmd
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(km, m.keys.Confirm):
		h := m.habitToDelete
		m.habitToDelete = nil
		m.state = StateList
		if h == nil {
			return m, nil
		}
		return m, m.deleteHabit(*h)
	case key.Matches(km, m.keys.Cancel):
		m.habitToDelete = nil
		m.state = StateList
	}
	return m, nil
}
