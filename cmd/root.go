// Package cmd implements the welth CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/theirongolddev/welth/internal/cli"
	"github.com/theirongolddev/welth/internal/config"
	"github.com/theirongolddev/welth/internal/guardian"
	"github.com/theirongolddev/welth/internal/lock"
	"github.com/theirongolddev/welth/internal/logger"
	"github.com/theirongolddev/welth/internal/notify"
	"github.com/theirongolddev/welth/internal/service"
	"github.com/theirongolddev/welth/internal/store"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	flagDays     int
	flagUser     string
	flagDB       string
	flagQuiet    bool
	flagLogLevel string
)

// cfg is loaded once before any command runs.
var cfg = config.DefaultConfig()

var rootCmd = &cobra.Command{
	Use:   "welth",
	Short: "Personal finance analytics and advisory",
	Long:  "Reconstruct balance history, forecast cash flow, replay what-if timelines and ask your spending twin before you buy.",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		if cfg.General.Currency != "" {
			cli.Currency = cfg.General.Currency
		}
		return nil
	},
	RunE:          runSummary,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "  Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().IntVarP(&flagDays, "days", "n", 0, "Time window in days (default from config)")
	rootCmd.PersistentFlags().StringVarP(&flagUser, "user", "u", "", "User to report on (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database path")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

func activeUser() string {
	if flagUser != "" {
		return flagUser
	}
	if cfg.General.User != "" {
		return cfg.General.User
	}
	return "default"
}

func activeDays() int {
	if flagDays != 0 {
		return flagDays
	}
	return cfg.General.DefaultDays
}

func dbPath() string {
	if flagDB != "" {
		return flagDB
	}
	if cfg.General.DBPath != "" {
		return cfg.General.DBPath
	}
	return store.DefaultPath()
}

func newLogger() zerolog.Logger {
	level := flagLogLevel
	if level == "" {
		level = cfg.General.LogLevel
	}
	// The detached daemon writes to a log file, where JSON lines read
	// better than console colors.
	if flagDaemonChild {
		return logger.NewWithWriter(os.Stderr).Level(logger.ParseLevel(level))
	}
	return logger.NewLevel(level)
}

func openStore() (*store.Store, error) {
	st, err := store.Open(dbPath())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return st, nil
}

// newLocker uses Redis when an address is configured, else the locks table
// of the shared database so the daemon and one-off commands still exclude
// each other.
func newLocker(ctx context.Context, st *store.Store) (lock.Locker, error) {
	if cfg.Redis.Addr == "" {
		return st.Locker(), nil
	}
	return lock.NewRedis(ctx, lock.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: config.GetRedisPassword(cfg),
		DB:       cfg.Redis.DB,
	})
}

// app bundles everything a command needs. close releases it.
type app struct {
	store  *store.Store
	runner *guardian.Runner
	svc    *service.Service
	log    zerolog.Logger
	close  func()
}

// openApp opens the store and builds the service. The guardian runner is
// wired even when the background sweep is disabled, so `welth guardian`
// keeps working on demand.
func openApp(ctx context.Context) (*app, error) {
	log := newLogger()

	st, err := openStore()
	if err != nil {
		return nil, err
	}
	locker, err := newLocker(ctx, st)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	runner := guardian.NewRunner(st, locker, notify.LogSink{Log: log},
		guardian.WithLockPercent(cfg.Guardian.LockPercent),
		guardian.WithLogger(log),
	)
	svc := service.New(st, runner, service.WithDefaultDays(cfg.General.DefaultDays))

	return &app{
		store:  st,
		runner: runner,
		svc:    svc,
		log:    log,
		close: func() {
			_ = locker.Close()
			_ = st.Close()
		},
	}, nil
}

func progressf(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Fprintf(os.Stderr, format, args...)
}
