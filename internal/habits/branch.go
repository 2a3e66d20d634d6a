package habits

import (
	"context"

	apperrors "github.com/julianstephens/habitree/internal/errors"
	"github.com/julianstephens/habitree/internal/models"
)

// CreateBranch appends a fresh active node dated today whose parent is
// parentNodeID. Several branches may share a date.
func (s *Service) CreateBranch(ctx context.Context, userID, habitID, parentNodeID string) (models.Habit, error) {
	return s.mutate(ctx, userID, habitID, func(h *models.Habit) error {
		if _, ok := h.FindNode(parentNodeID); !ok {
			return apperrors.NotFound("node", parentNodeID)
		}
		parent := parentNodeID
		h.TreeNodes = append(h.TreeNodes, newNode(s.Today(), &parent, s.now()))
		return nil
	})
}

// ResetBranch clears a node's progress and makes it active again. Its id,
// date, and parent are kept so it stays in place in the tree.
func (s *Service) ResetBranch(ctx context.Context, userID, habitID, nodeID string) (models.Habit, error) {
	return s.mutate(ctx, userID, habitID, func(h *models.Habit) error {
		node, ok := h.FindNode(nodeID)
		if !ok {
			return apperrors.NotFound("node", nodeID)
		}
		node.Checks = []models.Check{}
		node.CurrentProgress = 0
		node.Status = models.NodeActive
		return nil
	})
}
