package system

import (
	"github.com/julianstephens/habitree/internal/cli"
)

// SyncCmd runs chain auto-management on demand and reports the result.
type SyncCmd struct{}

func (c *SyncCmd) Run(ctx *cli.Context) error {
	list, err := ctx.Service.CheckAndAutoManageChains(ctx.Background(), ctx.User)
	if err != nil {
		return err
	}

	if len(list) == 0 {
		ctx.Println("No habits to sync.")
		return nil
	}

	ctx.Printf("Synced %d habits for %s\n", len(list), ctx.Service.Today())
	ctx.Println(cli.HabitTable(list, ctx.Service.Today(), ctx.Service.Stats))
	return nil
}
