package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/julianstephens/habitree/internal/config"
	apperrors "github.com/julianstephens/habitree/internal/errors"
	"github.com/julianstephens/habitree/internal/habits"
	"github.com/julianstephens/habitree/internal/logger"
	"github.com/julianstephens/habitree/internal/models"
	"github.com/julianstephens/habitree/internal/storage"
)

type Context struct {
	Config  *config.Config
	Service *habits.Service
	// Store is nil when running offline.
	Store storage.Provider
	Cache storage.Cache
	User  string

	Ctx context.Context
	Out io.Writer
}

// Background returns the command's context, defaulting to context.Background.
func (c *Context) Background() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}
	return c.Ctx
}

func (c *Context) Printf(format string, args ...interface{}) {
	out := c.Out
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintf(out, format, args...)
}

func (c *Context) Println(args ...interface{}) {
	out := c.Out
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintln(out, args...)
}

// AutoManageChains runs the daily chain reconciler once for the session.
// Failures are logged; they never block the command that follows.
func (c *Context) AutoManageChains() {
	if c.Service == nil {
		return
	}
	if _, err := c.Service.CheckAndAutoManageChains(c.Background(), c.User); err != nil {
		logger.Warn("Chain auto-management failed", "error", err)
	}
}

// ResolveHabit finds a habit by exact id, then by case-insensitive title.
// An ambiguous title is an error listing the matching ids.
func (c *Context) ResolveHabit(ref string) (models.Habit, error) {
	h, err := c.Service.GetHabit(c.Background(), c.User, ref)
	if err == nil {
		return h, nil
	}
	if !apperrors.IsNotFound(err) {
		return models.Habit{}, err
	}

	all, err := c.Service.GetHabits(c.Background(), c.User)
	if err != nil {
		return models.Habit{}, err
	}
	var matches []models.Habit
	for _, h := range all {
		if strings.EqualFold(h.Title, ref) {
			matches = append(matches, h)
		}
	}
	switch len(matches) {
	case 0:
		return models.Habit{}, apperrors.NotFound("habit", ref)
	case 1:
		return matches[0], nil
	default:
		ids := make([]string, len(matches))
		for i, m := range matches {
			ids[i] = m.ID
		}
		return models.Habit{}, fmt.Errorf("%q matches %d habits, use an id: %s", ref, len(matches), strings.Join(ids, ", "))
	}
}

// ResolveNode returns nodeID unchanged when set, otherwise the id of the
// habit's live node for today.
func (c *Context) ResolveNode(h models.Habit, nodeID string) (string, error) {
	if nodeID != "" {
		return nodeID, nil
	}
	node, ok := c.Service.TodayNode(h)
	if !ok {
		return "", fmt.Errorf("habit %q has no node for %s; run 'habitree sync' or pass --node", h.Title, c.Service.Today())
	}
	return node.ID, nil
}
