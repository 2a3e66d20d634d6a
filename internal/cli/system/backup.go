package system

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitree/internal/backup"
	"github.com/julianstephens/habitree/internal/cli"
	"github.com/julianstephens/habitree/internal/storage/sqlite"
)

type BackupCmd struct {
	Create  BackupCreateCmd  `cmd:"" help:"Snapshot the habit database."`
	List    BackupListCmd    `cmd:"" help:"List database snapshots, newest first."`
	Restore BackupRestoreCmd `cmd:"" help:"Restore the habit database from a snapshot."`
}

// manager returns the backup manager for the sqlite store. Other drivers
// have their own backup tooling.
func manager(ctx *cli.Context) (*backup.Manager, error) {
	store, ok := ctx.Store.(*sqlite.Store)
	if !ok {
		return nil, errors.New("backups are only supported for sqlite storage")
	}
	return backup.NewManager(store.GetConfigPath()), nil
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	path, err := mgr.Create()
	if err != nil {
		return err
	}
	ctx.Printf("Backup created: %s\n", path)
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	backups, err := mgr.List()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		ctx.Printf("No backups in %s\n", mgr.Dir())
		return nil
	}
	for _, b := range backups {
		ctx.Printf("%s  %s  %s\n", b.Timestamp.Local().Format("2006-01-02 15:04:05"), formatSize(b.Size), b.Path)
	}
	return nil
}

type BackupRestoreCmd struct {
	Path string `arg:"" optional:"" help:"Snapshot to restore (default: the newest)."`
	Yes  bool   `help:"Skip the confirmation prompt." short:"y"`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}

	path := c.Path
	if path == "" {
		backups, err := mgr.List()
		if err != nil {
			return err
		}
		if len(backups) == 0 {
			return errors.New("no backups to restore")
		}
		path = backups[0].Path
	}

	if !c.Yes {
		var ok bool
		prompt := huh.NewConfirm().
			Title(fmt.Sprintf("Replace the current database with %s?", path)).
			Affirmative("Restore").
			Negative("Cancel").
			Value(&ok)
		if err := prompt.Run(); err != nil {
			return err
		}
		if !ok {
			ctx.Println("Restore cancelled.")
			return nil
		}
	}

	// The open handle would keep writing to the replaced file.
	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	safety, err := mgr.Restore(path)
	if err != nil {
		return err
	}
	if safety != "" {
		ctx.Printf("Previous database saved to: %s\n", safety)
	}
	ctx.Printf("Restored database from: %s\n", path)
	return nil
}

func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}
