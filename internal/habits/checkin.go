package habits

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/julianstephens/habitree/internal/constants"
	apperrors "github.com/julianstephens/habitree/internal/errors"
	"github.com/julianstephens/habitree/internal/models"
)

// ProgressOp is the arithmetic applied by AddProgressWithOperation.
type ProgressOp string

const (
	OpAdd      ProgressOp = "add"
	OpSubtract ProgressOp = "subtract"
	OpSet      ProgressOp = "set"
)

// ParseProgressOp validates a caller-supplied operation name.
func ParseProgressOp(s string) (ProgressOp, error) {
	switch op := ProgressOp(s); op {
	case OpAdd, OpSubtract, OpSet:
		return op, nil
	default:
		return "", apperrors.Validation("operation", fmt.Sprintf("must be one of [add subtract set], got %q", s))
	}
}

// AddCheckIn records one progress event on a node. Accumulator habits add
// amount to currentProgress; check habits append a Check. Either way the node
// becomes completed once it reaches the target and is never reverted here.
func (s *Service) AddCheckIn(ctx context.Context, userID, habitID, nodeID, checkType string, amount float64) (models.Habit, error) {
	if err := checkAmount(amount); err != nil {
		return models.Habit{}, err
	}
	if checkType == "" {
		checkType = constants.DefaultCheckType
	}

	return s.mutate(ctx, userID, habitID, func(h *models.Habit) error {
		node, ok := h.FindNode(nodeID)
		if !ok {
			return apperrors.NotFound("node", nodeID)
		}
		applyCheckIn(h, node, checkType, amount, s.now())
		return nil
	})
}

// AddProgressWithOperation applies add, subtract, or set to an amount
// habit's node and recomputes its status, so it can revert completion. Other
// tracking types fall back to AddCheckIn semantics with amount as the weight.
func (s *Service) AddProgressWithOperation(ctx context.Context, userID, habitID, nodeID string, op ProgressOp, amount float64) (models.Habit, error) {
	if _, err := ParseProgressOp(string(op)); err != nil {
		return models.Habit{}, err
	}
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return models.Habit{}, apperrors.Validation("amount", "must be a non-negative number")
	}

	return s.mutate(ctx, userID, habitID, func(h *models.Habit) error {
		node, ok := h.FindNode(nodeID)
		if !ok {
			return apperrors.NotFound("node", nodeID)
		}

		if h.TrackingType != models.TrackingAmount {
			if err := checkAmount(amount); err != nil {
				return err
			}
			applyCheckIn(h, node, constants.DefaultCheckType, amount, s.now())
			return nil
		}

		switch op {
		case OpAdd:
			node.CurrentProgress += amount
		case OpSubtract:
			node.CurrentProgress = math.Max(0, node.CurrentProgress-amount)
		case OpSet:
			node.CurrentProgress = math.Max(0, amount)
		}
		h.RecomputeStatus(node)
		return nil
	})
}

// EditProgressEntry rewrites one entry. Accumulator nodes have a single
// running total, so newAmount replaces currentProgress and entryID is not
// consulted. Check nodes overwrite the matching Check in place.
func (s *Service) EditProgressEntry(ctx context.Context, userID, habitID, nodeID, entryID string, newAmount float64) (models.Habit, error) {
	if math.IsNaN(newAmount) || math.IsInf(newAmount, 0) {
		return models.Habit{}, apperrors.Validation("amount", "must be a finite number")
	}

	return s.mutate(ctx, userID, habitID, func(h *models.Habit) error {
		node, ok := h.FindNode(nodeID)
		if !ok {
			return apperrors.NotFound("node", nodeID)
		}

		if h.TrackingType.UsesAccumulator() {
			node.CurrentProgress = math.Max(0, newAmount)
		} else {
			i := checkIndex(node, entryID)
			if i < 0 {
				return apperrors.NotFound("check", entryID)
			}
			node.Checks[i].Amount = math.Max(0, newAmount)
			node.Checks[i].Timestamp = s.now()
		}
		h.RecomputeStatus(node)
		return nil
	})
}

// DeleteProgressEntry removes one entry. Accumulator nodes are zeroed and
// made active; check nodes drop the matching Check and recompute status.
func (s *Service) DeleteProgressEntry(ctx context.Context, userID, habitID, nodeID, entryID string) (models.Habit, error) {
	return s.mutate(ctx, userID, habitID, func(h *models.Habit) error {
		node, ok := h.FindNode(nodeID)
		if !ok {
			return apperrors.NotFound("node", nodeID)
		}

		if h.TrackingType.UsesAccumulator() {
			node.CurrentProgress = 0
			node.Status = models.NodeActive
			return nil
		}

		i := checkIndex(node, entryID)
		if i < 0 {
			return apperrors.NotFound("check", entryID)
		}
		node.Checks = append(node.Checks[:i], node.Checks[i+1:]...)
		h.RecomputeStatus(node)
		return nil
	})
}

func applyCheckIn(h *models.Habit, node *models.TreeNode, checkType string, amount float64, now time.Time) {
	if h.TrackingType.UsesAccumulator() {
		node.CurrentProgress += amount
	} else {
		node.Checks = append(node.Checks, models.Check{
			ID:        newCheckID(now),
			Type:      checkType,
			Timestamp: now,
			Completed: true,
			Amount:    amount,
		})
	}
	if h.MeetsTarget(*node) {
		node.Status = models.NodeCompleted
	}
}

func checkAmount(amount float64) error {
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return apperrors.Validation("amount", "must be a positive number")
	}
	return nil
}

func checkIndex(node *models.TreeNode, checkID string) int {
	for i, c := range node.Checks {
		if c.ID == checkID {
			return i
		}
	}
	return -1
}
