package habits

import (
	"context"
	"errors"
	"time"

	"github.com/julianstephens/habitree/internal/logger"
	"github.com/julianstephens/habitree/internal/models"
)

var errUnchanged = errors.New("habit already reconciled")

// CheckAndAutoManageChains makes sure every habit has a node for today and
// fails yesterday's active nodes that never reached the target. Only changed
// habits are saved. A habit that cannot be reconciled is logged and left as
// loaded; the run carries on with the rest.
func (s *Service) CheckAndAutoManageChains(ctx context.Context, userID string) ([]models.Habit, error) {
	habits, err := s.GetHabits(ctx, userID)
	if err != nil {
		return nil, err
	}

	today, yesterday := s.Today(), s.Yesterday()
	now := s.now()
	changed := 0

	for i := range habits {
		draft := habits[i].Clone()
		if !reconcile(&draft, today, yesterday, now) {
			continue
		}

		updated, err := s.mutate(ctx, userID, habits[i].ID, func(h *models.Habit) error {
			if !reconcile(h, today, yesterday, now) {
				return errUnchanged
			}
			return nil
		})
		switch {
		case err == nil:
			habits[i] = updated
			changed++
		case errors.Is(err, errUnchanged):
			logger.Debug("Habit reconciled elsewhere", "id", habits[i].ID)
		default:
			logger.Error("Chain management failed for habit", "id", habits[i].ID, "error", err)
		}
	}

	if changed > 0 {
		logger.Info("Chain management updated habits", "user", userID, "count", changed)
	}
	return habits, nil
}

// reconcile applies the daily rules to h and reports whether anything
// changed. Running it twice on the same day is a no-op the second time.
func reconcile(h *models.Habit, today, yesterday string, now time.Time) bool {
	changed := false

	if len(h.NodesOn(today)) == 0 {
		h.TreeNodes = append(h.TreeNodes, newNode(today, nil, now))
		changed = true
	}

	live, _ := h.TodayNode(today)
	if live.Status != models.NodeActive {
		return changed
	}

	for i := range h.TreeNodes {
		n := &h.TreeNodes[i]
		if n.Date == yesterday && n.Status == models.NodeActive && !h.MeetsTarget(*n) {
			n.Status = models.NodeFailed
			changed = true
		}
	}
	return changed
}
