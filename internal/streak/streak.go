// Package streak derives streak and completion statistics from a habit's
// tree nodes. Everything here is pure: no storage, no clock.
package streak

import (
	"fmt"
	"math"

	"github.com/julianstephens/habitree/internal/models"
	"github.com/julianstephens/habitree/internal/utils"
)

// Policy decides what makes a completed node count toward a streak.
type Policy string

const (
	// PolicyChecks requires len(checks) >= targetChecks for every tracking
	// type. Accumulator habits record no checks, so their streak stays at
	// zero unless targetChecks is satisfied by stray checks.
	PolicyChecks Policy = "checks"
	// PolicyProgress uses the habit's own progress rule: checks for check
	// habits, currentProgress against the threshold for count and amount.
	PolicyProgress Policy = "progress"
)

// ParsePolicy maps a config string to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyChecks, PolicyProgress:
		return Policy(s), nil
	case "":
		return PolicyChecks, nil
	default:
		return "", fmt.Errorf("unknown streak policy %q", s)
	}
}

// Summary is the statistics view of one habit.
type Summary struct {
	TotalDays      int `json:"totalDays"`
	CompletedDays  int `json:"completedDays"`
	CurrentStreak  int `json:"currentStreak"`
	LongestStreak  int `json:"longestStreak"`
	CompletionRate int `json:"completionRate"` // percent, rounded
}

// Stats computes the summary for a habit.
func Stats(h models.Habit, policy Policy) Summary {
	s := Summary{TotalDays: len(h.TreeNodes)}
	for _, n := range h.TreeNodes {
		if n.Status == models.NodeCompleted {
			s.CompletedDays++
		}
	}
	if s.TotalDays > 0 {
		s.CompletionRate = int(math.Round(float64(s.CompletedDays) / float64(s.TotalDays) * 100))
	}
	s.CurrentStreak = Current(h, policy)
	s.LongestStreak = Longest(h, policy)
	return s
}

// Current counts completed nodes from the newest date backwards, stopping at
// the first completed node that does not satisfy the policy. Non-completed
// nodes are not part of the scan.
func Current(h models.Habit, policy Policy) int {
	completed := completedByDate(h, true)
	streak := 0
	for _, n := range completed {
		if !counts(h, n, policy) {
			break
		}
		streak++
	}
	return streak
}

// Longest is the longest run of consecutive calendar days on which some
// completed node satisfies the policy. A failed, active or unmet day ends the
// run, as does a date with no node at all. An active node on the newest date
// only ends a run that has already been counted.
func Longest(h models.Habit, policy Policy) int {
	nodes := append([]models.TreeNode(nil), h.TreeNodes...)
	models.SortNodes(nodes)

	var dates []string
	met := map[string]bool{}
	for _, n := range nodes {
		if _, seen := met[n.Date]; !seen {
			dates = append(dates, n.Date)
			met[n.Date] = false
		}
		if n.Status == models.NodeCompleted && counts(h, n, policy) {
			met[n.Date] = true
		}
	}

	best, run, last := 0, 0, ""
	for _, date := range dates {
		if !met[date] {
			run = 0
			continue
		}
		if run > 0 {
			if gap, err := utils.DaysBetween(last, date); err != nil || gap != 1 {
				run = 0
			}
		}
		run++
		last = date
		if run > best {
			best = run
		}
	}
	return best
}

func counts(h models.Habit, n models.TreeNode, policy Policy) bool {
	if policy == PolicyProgress {
		return h.MeetsTarget(n)
	}
	return len(n.Checks) >= h.TargetChecks
}

func completedByDate(h models.Habit, newestFirst bool) []models.TreeNode {
	var nodes []models.TreeNode
	for _, n := range h.TreeNodes {
		if n.Status == models.NodeCompleted {
			nodes = append(nodes, n)
		}
	}
	models.SortNodes(nodes)
	if newestFirst {
		for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
			nodes[i], nodes[j] = nodes[j], nodes[i]
		}
	}
	return nodes
}
