package habits

import (
	"time"

	"github.com/julianstephens/habitree/internal/constants"
	"github.com/julianstephens/habitree/internal/models"
)

// newHabit fills defaults for omitted fields and seeds today's root node.
func newHabit(in models.HabitInput, now time.Time, today string) models.Habit {
	h := models.Habit{
		ID:                  newHabitID(in.Title, now),
		Title:               in.Title,
		Description:         in.Description,
		Category:            in.Category,
		Frequency:           in.Frequency,
		TrackingType:        in.TrackingType,
		TargetChecks:        in.TargetChecks,
		Unit:                in.Unit,
		AllowMultipleChecks: in.AllowMultipleChecks,
		Color:               in.Color,
		Emoji:               in.Emoji,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if in.TargetAmount != nil {
		v := *in.TargetAmount
		h.TargetAmount = &v
	}

	if h.TrackingType == "" {
		h.TrackingType = models.TrackingCheck
	}
	if h.TargetChecks < 1 {
		h.TargetChecks = constants.DefaultTargetChecks
	}
	if h.Frequency == "" {
		h.Frequency = "daily"
	}
	if h.Color == "" {
		h.Color = constants.DefaultColor
	}
	if h.Emoji == "" {
		h.Emoji = constants.DefaultEmoji
	}

	h.TreeNodes = []models.TreeNode{newNode(today, nil, now)}
	return h
}

func newNode(date string, parentID *string, now time.Time) models.TreeNode {
	return models.TreeNode{
		ID:        newNodeID(),
		Date:      date,
		Checks:    []models.Check{},
		Status:    models.NodeActive,
		ParentID:  parentID,
		CreatedAt: now,
	}
}
