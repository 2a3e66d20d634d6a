package models

import "sort"

// Threshold returns the progress a node of this habit must reach to complete.
// Check habits count discrete checks against TargetChecks. Accumulator habits
// prefer TargetAmount, then TargetChecks, then 1.
func (h Habit) Threshold() float64 {
	if h.TrackingType.UsesAccumulator() {
		if h.TargetAmount != nil && *h.TargetAmount > 0 {
			return *h.TargetAmount
		}
	}
	if h.TargetChecks > 0 {
		return float64(h.TargetChecks)
	}
	return 1
}

// Progress returns the effective progress recorded on n for this habit's
// tracking type.
func (h Habit) Progress(n TreeNode) float64 {
	if h.TrackingType.UsesAccumulator() {
		return n.CurrentProgress
	}
	return float64(len(n.Checks))
}

// MeetsTarget reports whether n has reached the habit's threshold.
func (h Habit) MeetsTarget(n TreeNode) bool {
	return h.Progress(n) >= h.Threshold()
}

// RecomputeStatus sets n's status to completed or active depending on
// whether it meets the target. Failed nodes are treated like any other.
func (h Habit) RecomputeStatus(n *TreeNode) {
	if h.MeetsTarget(*n) {
		n.Status = NodeCompleted
	} else {
		n.Status = NodeActive
	}
}

// FindNode returns a pointer into h.TreeNodes for the node with the given id.
func (h *Habit) FindNode(nodeID string) (*TreeNode, bool) {
	for i := range h.TreeNodes {
		if h.TreeNodes[i].ID == nodeID {
			return &h.TreeNodes[i], true
		}
	}
	return nil, false
}

// NodesOn returns the nodes dated day, in insertion order.
func (h Habit) NodesOn(day string) []TreeNode {
	var nodes []TreeNode
	for _, n := range h.TreeNodes {
		if n.Date == day {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// TodayNode returns the most recently created node dated today. Branches
// share a date with their parent, so the newest one is the live attempt.
func (h Habit) TodayNode(today string) (TreeNode, bool) {
	nodes := h.NodesOn(today)
	if len(nodes) == 0 {
		return TreeNode{}, false
	}
	latest := nodes[0]
	for _, n := range nodes[1:] {
		if !n.CreatedAt.Before(latest.CreatedAt) {
			latest = n
		}
	}
	return latest, true
}

// SortNodes orders nodes by date then creation time, keeping branches next to
// the node they were created from.
func SortNodes(nodes []TreeNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].Date != nodes[j].Date {
			return nodes[i].Date < nodes[j].Date
		}
		return nodes[i].CreatedAt.Before(nodes[j].CreatedAt)
	})
}

// Clone returns a deep copy so callers can mutate nodes and checks without
// aliasing the original.
func (h Habit) Clone() Habit {
	c := h
	if h.TargetAmount != nil {
		v := *h.TargetAmount
		c.TargetAmount = &v
	}
	if h.TreeNodes != nil {
		c.TreeNodes = make([]TreeNode, len(h.TreeNodes))
		for i, n := range h.TreeNodes {
			c.TreeNodes[i] = n.Clone()
		}
	}
	return c
}

// Clone returns a deep copy of the node.
func (n TreeNode) Clone() TreeNode {
	c := n
	if n.Checks != nil {
		c.Checks = make([]Check, len(n.Checks))
		copy(c.Checks, n.Checks)
	}
	if n.ParentID != nil {
		p := *n.ParentID
		c.ParentID = &p
	}
	return c
}
