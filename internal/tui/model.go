// Package tui is the interactive habit dashboard: a list of habits with
// today's node status and streaks, plus single-key check-in and branch ops.
package tui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitree/internal/constants"
	"github.com/julianstephens/habitree/internal/habits"
	"github.com/julianstephens/habitree/internal/models"
)

type SessionState int

const (
	StateList SessionState = iota
	StateAddHabit
	StateConfirmDelete
)

// Item is one habit row in the list.
type Item struct {
	Habit   models.Habit
	Node    *models.TreeNode
	Current int
	Longest int
}

func (i Item) Title() string {
	mark := statusStyle.Render("·")
	if i.Node != nil {
		switch i.Node.Status {
		case models.NodeCompleted:
			mark = completedStyle.Render("✓")
		case models.NodeFailed:
			mark = failedStyle.Render("✗")
		default:
			mark = activeStyle.Render("○")
		}
	}
	return fmt.Sprintf("%s %s %s", mark, i.Habit.Emoji, i.Habit.Title)
}

func (i Item) Description() string {
	today := "no node today"
	if i.Node != nil {
		today = fmt.Sprintf("today %s/%s", formatFloat(i.Habit.Progress(*i.Node)), formatFloat(i.Habit.Threshold()))
		if i.Habit.Unit != "" {
			today += " " + i.Habit.Unit
		}
	}
	return fmt.Sprintf("%s · streak %d · best %d", today, i.Current, i.Longest)
}

func (i Item) FilterValue() string { return i.Habit.Title }

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// habitsLoadedMsg carries a fresh habit list.
type habitsLoadedMsg struct {
	habits []models.Habit
	err    error
}

// actionDoneMsg reports the outcome of a mutation.
type actionDoneMsg struct {
	text string
	err  error
}

type Model struct {
	ctx  context.Context
	svc  *habits.Service
	user string

	state     SessionState
	keys      KeyMap
	help      help.Model
	list      list.Model
	form      *huh.Form
	habitForm *HabitFormModel

	habitToDelete *models.Habit
	status        string
	err           error
	quitting      bool
	width         int
	height        int
}

func NewModel(ctx context.Context, svc *habits.Service, user string) Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	return Model{
		ctx:   ctx,
		svc:   svc,
		user:  user,
		state: StateList,
		keys:  DefaultKeyMap(),
		help:  help.New(),
		list:  l,
	}
}

func (m Model) ShortHelp() []key.Binding {
	if m.state == StateConfirmDelete {
		return []key.Binding{m.keys.Confirm, m.keys.Cancel}
	}
	return m.keys.ShortHelp()
}

func (m Model) FullHelp() [][]key.Binding {
	if m.state == StateConfirmDelete {
		return [][]key.Binding{{m.keys.Confirm, m.keys.Cancel}}
	}
	return m.keys.FullHelp()
}

// Init runs chain auto-management, which also yields the first list.
func (m Model) Init() tea.Cmd {
	return m.syncHabits
}

func (m Model) syncHabits() tea.Msg {
	hs, err := m.svc.CheckAndAutoManageChains(m.ctx, m.user)
	return habitsLoadedMsg{habits: hs, err: err}
}

func (m Model) loadHabits() tea.Msg {
	hs, err := m.svc.GetHabits(m.ctx, m.user)
	return habitsLoadedMsg{habits: hs, err: err}
}

func (m *Model) setHabits(hs []models.Habit) {
	items := make([]list.Item, len(hs))
	for i, h := range hs {
		item := Item{Habit: h}
		if n, ok := m.svc.TodayNode(h); ok {
			node := n
			item.Node = &node
		}
		stats := m.svc.Stats(h)
		item.Current, item.Longest = stats.CurrentStreak, stats.LongestStreak
		items[i] = item
	}
	m.list.SetItems(items)
}

func (m Model) selected() (Item, bool) {
	item, ok := m.list.SelectedItem().(Item)
	return item, ok
}

// mutation wraps a service call that returns the updated habit.
func (m Model) mutation(text string, fn func() (models.Habit, error)) tea.Cmd {
	return func() tea.Msg {
		if _, err := fn(); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{text: text}
	}
}

func (m Model) checkIn(item Item) tea.Cmd {
	h := item.Habit
	if item.Node == nil {
		return func() tea.Msg { return actionDoneMsg{err: fmt.Errorf("%s has no node for today", h.Title)} }
	}
	checkType := constants.DefaultCheckType
	if item.Node.Status == models.NodeCompleted {
		if !h.AllowMultipleChecks {
			return func() tea.Msg { return actionDoneMsg{text: h.Title + " is already complete today"} }
		}
		checkType = constants.ExtraCheckType
	}
	nodeID := item.Node.ID
	return m.mutation("Checked in "+h.Title, func() (models.Habit, error) {
		return m.svc.AddCheckIn(m.ctx, m.user, h.ID, nodeID, checkType, 1)
	})
}

func (m Model) branch(item Item) tea.Cmd {
	h := item.Habit
	if item.Node == nil {
		return func() tea.Msg { return actionDoneMsg{err: fmt.Errorf("%s has no node to branch from", h.Title)} }
	}
	parentID := item.Node.ID
	return m.mutation("Branched "+h.Title, func() (models.Habit, error) {
		return m.svc.CreateBranch(m.ctx, m.user, h.ID, parentID)
	})
}

// resetFailed resets the newest failed node of the habit.
func (m Model) resetFailed(item Item) tea.Cmd {
	h := item.Habit
	var target *models.TreeNode
	for i := range h.TreeNodes {
		n := &h.TreeNodes[i]
		if n.Status != models.NodeFailed {
			continue
		}
		if target == nil || n.Date > target.Date || (n.Date == target.Date && n.CreatedAt.After(target.CreatedAt)) {
			target = n
		}
	}
	if target == nil {
		return func() tea.Msg { return actionDoneMsg{text: h.Title + " has no failed node"} }
	}
	nodeID, date := target.ID, target.Date
	return m.mutation("Reset "+h.Title+" "+date, func() (models.Habit, error) {
		return m.svc.ResetBranch(m.ctx, m.user, h.ID, nodeID)
	})
}

func (m Model) deleteHabit(h models.Habit) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.svc.DeleteHabit(m.ctx, m.user, h.ID); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{text: "Deleted " + h.Title}
	}
}

func (m Model) createHabit(in models.HabitInput) tea.Cmd {
	return func() tea.Msg {
		h, err := m.svc.CreateHabit(m.ctx, m.user, in)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{text: "Added " + h.Title}
	}
}
