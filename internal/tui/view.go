package tui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateAddHabit:
		content = m.form.View()
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	default:
		content = m.viewList()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render("habitree · "+m.svc.Today()),
		docStyle.Render(content),
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewList() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "No habits yet.\nPress 'a' to add one."
	}
	return m.list.View()
}

func (m Model) viewStatus() string {
	if m.err != nil {
		return errorStyle.Render("⚠ " + m.err.Error())
	}
	return statusStyle.Render(m.status)
}

func (m Model) viewConfirmDelete() string {
	title := ""
	if m.habitToDelete != nil {
		title = m.habitToDelete.Title
	}
	return lipgloss.Place(m.width, m.height-6,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render("Delete \""+title+"\" and its whole history?"),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
