package models

import "time"

// TrackingType selects the progress-accounting rule applied to a habit's nodes
type TrackingType string

const (
	TrackingCheck  TrackingType = "check"
	TrackingCount  TrackingType = "count"
	TrackingAmount TrackingType = "amount"
)

// Valid reports whether t is one of the known tracking types.
func (t TrackingType) Valid() bool {
	switch t {
	case TrackingCheck, TrackingCount, TrackingAmount:
		return true
	default:
		return false
	}
}

// UsesAccumulator reports whether progress for this type lives in
// TreeNode.CurrentProgress rather than in TreeNode.Checks.
func (t TrackingType) UsesAccumulator() bool {
	return t == TrackingCount || t == TrackingAmount
}

// NodeStatus is the lifecycle state of a TreeNode
type NodeStatus string

const (
	NodeActive    NodeStatus = "active"
	NodeCompleted NodeStatus = "completed"
	NodeFailed    NodeStatus = "failed"
)

// Habit represents a recurring practice to track
type Habit struct {
	ID                  string       `json:"id"`
	Title               string       `json:"title"`
	Description         string       `json:"description,omitempty"`
	Category            string       `json:"category,omitempty"`
	Frequency           string       `json:"frequency,omitempty"`
	TrackingType        TrackingType `json:"trackingType"`
	TargetChecks        int          `json:"targetChecks"`
	TargetAmount        *float64     `json:"targetAmount"`
	Unit                string       `json:"unit,omitempty"`
	AllowMultipleChecks bool         `json:"allowMultipleChecks"`
	Color               string       `json:"color"`
	Emoji               string       `json:"emoji"`
	CreatedAt           time.Time    `json:"createdAt"`
	UpdatedAt           time.Time    `json:"updatedAt"`
	TreeNodes           []TreeNode   `json:"treeNodes"`
	// Version is bumped by the store on every successful save. Zero means
	// the habit has never been persisted.
	Version int `json:"version"`
}

// TreeNode is a single calendar-date attempt at a habit, possibly branched
type TreeNode struct {
	ID              string     `json:"id"`
	Date            string     `json:"date"` // YYYY-MM-DD format
	Checks          []Check    `json:"checks"`
	CurrentProgress float64    `json:"currentProgress"`
	Status          NodeStatus `json:"status"`
	ParentID        *string    `json:"parentId"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// Check is one discrete completion event within a check-type node
type Check struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Completed bool      `json:"completed"`
	Amount    float64   `json:"amount"`
}

// HabitInput carries the caller-supplied fields for a new habit. Zero values
// are replaced by defaults at creation time.
type HabitInput struct {
	Title               string       `json:"title" validate:"required,max=200"`
	Description         string       `json:"description" validate:"max=2000"`
	Category            string       `json:"category" validate:"max=100"`
	Frequency           string       `json:"frequency" validate:"omitempty,oneof=daily weekly monthly"`
	TrackingType        TrackingType `json:"trackingType" validate:"omitempty,oneof=check count amount"`
	TargetChecks        int          `json:"targetChecks" validate:"gte=0"`
	TargetAmount        *float64     `json:"targetAmount" validate:"omitempty,gt=0"`
	Unit                string       `json:"unit" validate:"max=32"`
	AllowMultipleChecks bool         `json:"allowMultipleChecks"`
	Color               string       `json:"color" validate:"omitempty,hexcolor"`
	Emoji               string       `json:"emoji" validate:"max=16"`
}

// HabitUpdate is a top-level patch; nil fields are left untouched. Tree nodes
// cannot be patched through it.
type HabitUpdate struct {
	Title               *string       `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description         *string       `json:"description,omitempty" validate:"omitempty,max=2000"`
	Category            *string       `json:"category,omitempty" validate:"omitempty,max=100"`
	Frequency           *string       `json:"frequency,omitempty" validate:"omitempty,oneof=daily weekly monthly"`
	TrackingType        *TrackingType `json:"trackingType,omitempty" validate:"omitempty,oneof=check count amount"`
	TargetChecks        *int          `json:"targetChecks,omitempty" validate:"omitempty,gte=1"`
	TargetAmount        *float64      `json:"targetAmount,omitempty" validate:"omitempty,gt=0"`
	Unit                *string       `json:"unit,omitempty" validate:"omitempty,max=32"`
	AllowMultipleChecks *bool         `json:"allowMultipleChecks,omitempty"`
	Color               *string       `json:"color,omitempty" validate:"omitempty,hexcolor"`
	Emoji               *string       `json:"emoji,omitempty" validate:"omitempty,max=16"`
}

// Apply merges the non-nil fields of u into h.
func (u HabitUpdate) Apply(h *Habit) {
	if u.Title != nil {
		h.Title = *u.Title
	}
	if u.Description != nil {
		h.Description = *u.Description
	}
	if u.Category != nil {
		h.Category = *u.Category
	}
	if u.Frequency != nil {
		h.Frequency = *u.Frequency
	}
	if u.TrackingType != nil {
		h.TrackingType = *u.TrackingType
	}
	if u.TargetChecks != nil {
		h.TargetChecks = *u.TargetChecks
	}
	if u.TargetAmount != nil {
		v := *u.TargetAmount
		h.TargetAmount = &v
	}
	if u.Unit != nil {
		h.Unit = *u.Unit
	}
	if u.AllowMultipleChecks != nil {
		h.AllowMultipleChecks = *u.AllowMultipleChecks
	}
	if u.Color != nil {
		h.Color = *u.Color
	}
	if u.Emoji != nil {
		h.Emoji = *u.Emoji
	}
}

// IsEmpty reports whether the update carries no fields.
func (u HabitUpdate) IsEmpty() bool {
	return u == HabitUpdate{}
}
