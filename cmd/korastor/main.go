package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/korastor/internal/cli"
	"github.com/julianstephens/korastor/internal/config"
	"github.com/julianstephens/korastor/internal/constants"
	kerrors "github.com/julianstephens/korastor/internal/errors"
	"github.com/julianstephens/korastor/internal/logger"
	"github.com/julianstephens/korastor/internal/notifier"
	"github.com/julianstephens/korastor/internal/state"
	"github.com/julianstephens/korastor/internal/storage"
	"github.com/julianstephens/korastor/internal/utils"
)

var CLI struct {
	Version   kong.VersionFlag
	Store     string `help:"Where state is kept: a sqlite file path, postgres://user@host/db, postgres (connection string from keyring or KORASTOR_DB_CONNECTION), redis://host:port/db, file:<dir> or memory. Credentials must NOT be embedded in URLs." default:"${default_store}" env:"KORASTOR_STORE"`
	ConfigDir string `name:"config-dir" help:"Directory for backups and logs. Defaults to the sqlite file's directory." env:"KORASTOR_CONFIG_DIR"`
	Debug     bool   `help:"Mirror debug logs to stderr." env:"KORASTOR_DEBUG"`
	LogLevel  string `name:"log-level" help:"Log level: debug, info, warn or error." env:"KORASTOR_LOG_LEVEL"`

	Init       cli.InitCmd       `cmd:"" help:"Start a journey: habit, motivation and reward."`
	Tui        cli.TuiCmd        `cmd:"" help:"Launch the interactive dashboard." default:"1"`
	Status     cli.StatusCmd     `cmd:"" help:"Show streak, savings and points."`
	Health     cli.HealthCmd     `cmd:"" help:"Show health recovery progress."`
	Vault      cli.VaultCmd      `cmd:"" help:"Show progress toward your reward."`
	Points     cli.PointsCmd     `cmd:"" help:"Show Kora points."`
	Craving    cli.CravingCmd    `cmd:"" help:"Ride out a craving with a short grounding task."`
	Slip       cli.SlipCmd       `cmd:"" help:"Log a slip-up."`
	Slips      cli.SlipsCmd      `cmd:"" help:"Show slip-up history and triggers."`
	Milestones cli.MilestonesCmd `cmd:"" help:"Report newly restored health systems."`
	Reset      cli.ResetCmd      `cmd:"" help:"Clear the journey and start over."`
	Backup     cli.BackupCmd     `cmd:"" help:"Manage state backups."`
	Keyring    cli.KeyringCmd    `cmd:"" help:"Manage secrets in the OS keyring."`
	Doctor     cli.DoctorCmd     `cmd:"" help:"Run health checks and diagnostics."`
	Validate   cli.ValidateCmd   `cmd:"" help:"Check the stored state for inconsistencies."`
	DebugCmd   cli.DebugCmd      `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
}

func main() {
	if _, err := config.LoadDotenv(config.DotenvPaths()...); err != nil {
		kerrors.Fatal(err)
	}

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Quit nicotine: streaks, savings, health recovery and craving support."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Configuration(config.YAML, config.Paths()...),
		kong.Vars{
			"version":       constants.Version,
			"default_store": constants.DefaultConfigPath,
		},
	)
	command := ctx.Command()

	// keyring commands configure the store's secrets, so they must work
	// before any store can be opened
	if strings.HasPrefix(command, "keyring") {
		if err := logger.Init(logger.Config{Debug: CLI.Debug, Level: CLI.LogLevel, ConfigDir: configDir(nil)}); err != nil {
			kerrors.Fatal(err)
		}
		kerrors.Fatal(ctx.Run(&cli.Context{Clock: utils.SystemClock{}}))
		return
	}

	provider, err := cli.OpenProvider(CLI.Store)
	if err != nil {
		kerrors.Fatal(err)
	}
	dir := configDir(provider)
	if err := logger.Init(logger.Config{Debug: CLI.Debug, Level: CLI.LogLevel, ConfigDir: dir}); err != nil {
		kerrors.Fatal(err)
	}

	switch {
	case strings.HasPrefix(command, "init"):
		err = provider.Init()
	default:
		err = provider.Load()
	}
	if err != nil {
		if !strings.HasPrefix(command, "doctor") {
			kerrors.Fatal(err)
		}
		logger.Warn("Storage failed to load", "error", err)
	}

	base, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	store := state.New(provider, state.WithLogger(logger.Named("state")))
	store.Start(base)

	runErr := ctx.Run(&cli.Context{
		Store:     store,
		Provider:  provider,
		Clock:     utils.SystemClock{},
		ConfigDir: dir,
		Notifier:  notifier.New(),
		Base:      base,
	})

	shutdown(store, provider)
	stop()
	kerrors.Fatal(runErr)
}

func configDir(p storage.Provider) string {
	if CLI.ConfigDir != "" {
		return kong.ExpandPath(CLI.ConfigDir)
	}
	if p == nil {
		return kong.ExpandPath(constants.DefaultConfigDir)
	}
	return cli.ConfigDirFor(p)
}

// shutdown flushes the last state write before the provider goes away.
func shutdown(store *state.Store, provider storage.Provider) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.StorageOpTimeout)
	defer cancel()
	if err := store.Close(ctx); err != nil {
		logger.Warn("Failed to flush state on exit", "error", err)
	}
	if err := provider.Close(); err != nil {
		logger.Warn("Failed to close storage", "error", err)
	}
}
