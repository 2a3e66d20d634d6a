package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitree/internal/cli"
	"github.com/julianstephens/habitree/internal/cli/habits"
	"github.com/julianstephens/habitree/internal/cli/system"
	"github.com/julianstephens/habitree/internal/config"
	"github.com/julianstephens/habitree/internal/constants"
	apperrors "github.com/julianstephens/habitree/internal/errors"
	"github.com/julianstephens/habitree/internal/logger"
	"github.com/julianstephens/habitree/internal/storage/cache"
)

var CLI struct {
	Version   kong.VersionFlag
	ConfigDir string `help:"Directory holding config.yaml, logs and local data." default:"${config_dir}" name:"config-dir"`
	Debug     bool   `help:"Log debug output to stderr."`
	User      string `help:"User id whose habits to operate on (default: config 'user', empty runs offline)."`
	Storage   string `help:"Override storage.driver: sqlite, postgres or none."`

	Init     system.InitCmd     `cmd:"" help:"Initialize habitree storage."`
	Doctor   system.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Tui      system.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Sync     system.SyncCmd     `cmd:"" help:"Roll habit chains forward to today."`
	Keyring  system.KeyringCmd  `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	Backup   system.BackupCmd   `cmd:"" help:"Create, list and restore database snapshots."`
	Habit    habits.HabitCmd    `cmd:"" help:"Manage habits."`
	Check    habits.CheckCmd    `cmd:"" help:"Check in on a habit."`
	Progress habits.ProgressCmd `cmd:"" help:"Add, subtract or set progress on an amount habit."`
	Entry    habits.EntryCmd    `cmd:"" help:"Edit or delete progress entries."`
	Branch   habits.BranchCmd   `cmd:"" help:"Branch or reset habit nodes."`
	Stats    habits.StatsCmd    `cmd:"" help:"Show streaks and completion rates."`
}

// Commands that manage storage itself must not touch habit data first.
var setupCommands = map[string]bool{"init": true, "doctor": true, "keyring": true, "backup": true}

// Commands that run chain auto-management themselves.
var selfSyncCommands = map[string]bool{"sync": true, "tui": true}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit tracker with branching daily chains"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":    constants.Version,
			"config_dir": constants.DefaultConfigDir,
		},
	)

	cfg, err := config.Load(CLI.ConfigDir)
	if err != nil {
		apperrors.Fatal(err)
	}
	if CLI.Debug {
		cfg.Debug = true
	}
	if CLI.User != "" {
		cfg.User = CLI.User
	}
	if CLI.Storage != "" {
		cfg.Storage.Driver = CLI.Storage
		if err := cfg.Validate(); err != nil {
			apperrors.Fatal(err)
		}
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, Level: cfg.LogLevel, ConfigDir: cfg.ConfigDir}); err != nil {
		apperrors.Fatal(err)
	}

	command := strings.Fields(ctx.Command())[0]

	var open cli.Closers
	fail := func(err error) {
		if cerr := open.Close(); cerr != nil {
			logger.Warn("Failed to close resources", "error", cerr)
		}
		apperrors.Fatal(err)
	}

	store, err := cli.NewStore(cfg)
	if err != nil {
		fail(err)
	}
	if store != nil {
		open.Add(store)
		// Init loads on its own; doctor reports load failures itself.
		if !setupCommands[command] {
			if err := store.Load(); err != nil {
				fail(err)
			}
		}
	}

	habitCache, err := cache.New(cfg.Cache)
	if err != nil {
		fail(err)
	}
	open.Add(habitCache)
	defer func() {
		if err := open.Close(); err != nil {
			logger.Warn("Failed to close resources", "error", err)
		}
	}()

	svc, err := cli.NewService(cfg, store, habitCache, nil)
	if err != nil {
		fail(err)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appCtx := &cli.Context{
		Config:  cfg,
		Service: svc,
		Store:   store,
		Cache:   habitCache,
		User:    cfg.User,
		Ctx:     runCtx,
		Out:     os.Stdout,
	}

	if !setupCommands[command] && !selfSyncCommands[command] {
		appCtx.AutoManageChains()
	}

	logger.Debug("Running command", "command", ctx.Command(), "user", cfg.User, "online", svc.Online(cfg.User))
	if err := ctx.Run(appCtx); err != nil {
		stop()
		fail(err)
	}
}
