package cli

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/julianstephens/habitree/internal/models"
	"github.com/julianstephens/habitree/internal/streak"
)

var (
	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	FailStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	ActiveStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	MutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
)

// StatusMark renders a node status as a single colored glyph.
func StatusMark(status models.NodeStatus) string {
	switch status {
	case models.NodeCompleted:
		return SuccessStyle.Render("✓")
	case models.NodeFailed:
		return FailStyle.Render("✗")
	default:
		return ActiveStyle.Render("○")
	}
}

// FormatProgress renders "progress/threshold unit" for a node.
func FormatProgress(h models.Habit, n models.TreeNode) string {
	s := fmt.Sprintf("%s/%s", formatFloat(h.Progress(n)), formatFloat(h.Threshold()))
	if h.Unit != "" {
		s += " " + h.Unit
	}
	return s
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// HabitTable renders one row per habit with today's status and streaks.
func HabitTable(list []models.Habit, today string, stats func(models.Habit) streak.Summary) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("", "ID", "HABIT", "TODAY", "STREAK", "BEST").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, h := range list {
		status, progress := MutedStyle.Render("·"), MutedStyle.Render("no node")
		if n, ok := h.TodayNode(today); ok {
			status, progress = StatusMark(n.Status), FormatProgress(h, n)
		}
		sum := stats(h)
		t.Row(
			status,
			MutedStyle.Render(h.ID),
			h.Emoji+" "+h.Title,
			progress,
			strconv.Itoa(sum.CurrentStreak),
			strconv.Itoa(sum.LongestStreak),
		)
	}
	return t.String()
}

// NodeTree renders a habit's nodes as a forest: roots are nodes without a
// parent, branches hang under the node they were created from.
func NodeTree(h models.Habit) string {
	children := make(map[string][]models.TreeNode)
	var roots []models.TreeNode
	known := make(map[string]bool, len(h.TreeNodes))
	for _, n := range h.TreeNodes {
		known[n.ID] = true
	}
	for _, n := range h.TreeNodes {
		if n.ParentID == nil || !known[*n.ParentID] {
			roots = append(roots, n)
			continue
		}
		children[*n.ParentID] = append(children[*n.ParentID], n)
	}
	byDate := func(ns []models.TreeNode) {
		sort.SliceStable(ns, func(i, j int) bool {
			if ns[i].Date != ns[j].Date {
				return ns[i].Date < ns[j].Date
			}
			return ns[i].CreatedAt.Before(ns[j].CreatedAt)
		})
	}
	byDate(roots)

	var build func(n models.TreeNode) *tree.Tree
	build = func(n models.TreeNode) *tree.Tree {
		label := fmt.Sprintf("%s %s  %s  %s", StatusMark(n.Status), n.Date, FormatProgress(h, n), MutedStyle.Render(n.ID))
		t := tree.Root(label)
		kids := children[n.ID]
		byDate(kids)
		for _, c := range kids {
			t.Child(build(c))
		}
		return t
	}

	root := tree.Root(TitleStyle.Render(h.Emoji + " " + h.Title)).Enumerator(tree.RoundedEnumerator)
	for _, n := range roots {
		root.Child(build(n))
	}
	return root.String()
}

// EntryTable lists the progress entries of a single node.
func EntryTable(n models.TreeNode) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ENTRY", "TYPE", "AMOUNT", "TIME").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, c := range n.Checks {
		t.Row(c.ID, c.Type, formatFloat(c.Amount), c.Timestamp.Format("15:04:05"))
	}
	return t.String()
}
