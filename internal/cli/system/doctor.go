package system

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitree/internal/cli"
	"github.com/julianstephens/habitree/internal/keyring"
	"github.com/julianstephens/habitree/internal/migration"
	"github.com/julianstephens/habitree/internal/models"
	"github.com/julianstephens/habitree/internal/utils"
	"github.com/julianstephens/habitree/internal/validation"
)

type DoctorCmd struct{}

// schemaVersioner is implemented by the SQL-backed stores.
type schemaVersioner interface {
	SchemaVersion() (current, latest int, err error)
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	report := func(name string, err error) {
		if err != nil {
			ctx.Printf("❌ %s: FAIL\n", name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
			return
		}
		ctx.Printf("✓ %s: OK\n", name)
	}
	skip := func(name, why string) {
		ctx.Printf("⊘ %s: SKIPPED (%s)\n", name, why)
	}

	dbReachable := false
	switch {
	case ctx.Store == nil:
		skip("Database reachable", "offline mode")
	default:
		err := ctx.Store.Load()
		report("Database reachable", err)
		dbReachable = err == nil
	}

	if dbReachable {
		report("Schema version", checkSchemaVersion(ctx))
		report("Habit integrity", checkHabitsIntegrity(ctx))
	} else {
		skip("Schema version", "database not reachable")
		skip("Habit integrity", "database not reachable")
	}

	report("Local cache", checkCache(ctx))
	report("Clock/timezone", checkClockTimezone(ctx))

	// Keyring is only required for keyring-backed postgres, so it only warns.
	if keyring.IsAvailable() {
		ctx.Printf("✓ OS keyring: OK\n")
	} else {
		ctx.Printf("⚠ OS keyring: WARNING\n")
		ctx.Printf("   keyring unavailable; postgres credentials must come from storage.dsn or .pgpass\n")
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	sv, ok := ctx.Store.(schemaVersioner)
	if !ok {
		return nil
	}
	current, latest, err := sv.SchemaVersion()
	if err != nil {
		return err
	}
	return migration.Compare(current, latest)
}

func checkHabitsIntegrity(ctx *cli.Context) error {
	list, err := ctx.Store.ListHabits(ctx.Background(), ctx.User)
	if err != nil {
		return fmt.Errorf("failed to list habits: %w", err)
	}
	for _, h := range list {
		if err := validation.ValidateHabit(h); err != nil {
			return fmt.Errorf("habit %s: %w", h.ID, err)
		}
		if err := checkNodes(h); err != nil {
			return fmt.Errorf("habit %s: %w", h.ID, err)
		}
	}
	return nil
}

// checkNodes verifies node ids are unique, parents exist, and statuses are known.
func checkNodes(h models.Habit) error {
	ids := make(map[string]bool, len(h.TreeNodes))
	for _, n := range h.TreeNodes {
		if ids[n.ID] {
			return fmt.Errorf("duplicate node id %s", n.ID)
		}
		ids[n.ID] = true
	}
	for _, n := range h.TreeNodes {
		if n.ParentID != nil && !ids[*n.ParentID] {
			return fmt.Errorf("node %s references missing parent %s", n.ID, *n.ParentID)
		}
		switch n.Status {
		case models.NodeActive, models.NodeCompleted, models.NodeFailed:
		default:
			return fmt.Errorf("node %s has unknown status %q", n.ID, n.Status)
		}
	}
	return nil
}

func checkCache(ctx *cli.Context) error {
	if ctx.Cache == nil {
		return fmt.Errorf("no cache configured")
	}
	if _, err := ctx.Cache.List(ctx.Background(), ctx.User); err != nil {
		return fmt.Errorf("failed to read cache: %w", err)
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if ctx.Config != nil && !utils.ValidateTimezone(ctx.Config.Timezone) {
		return fmt.Errorf("invalid timezone %q", ctx.Config.Timezone)
	}
	return nil
}
