package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/abhisek/thinkforge/internal/cache"
	"github.com/abhisek/thinkforge/internal/config"
	"github.com/abhisek/thinkforge/internal/engine"
	"github.com/abhisek/thinkforge/internal/logging"
	"github.com/abhisek/thinkforge/internal/store"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfg    config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:           "thinkforge",
	Short:         "Critical-thinking progress tracker",
	Long:          "thinkforge tracks concept mastery, unlocks levels, recommends what to practice next and hands out a daily concept.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}

		path, _ := cmd.Flags().GetString("config")
		if path == "" {
			path = os.Getenv("THINKFORGE_CONFIG")
		}
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return err
		}
		if v, _ := cmd.Flags().GetString("db"); v != "" {
			cfg.Database.DSN = v
		}
		if v, _ := cmd.Flags().GetString("driver"); v != "" {
			cfg.Database.Driver = v
		}
		if v, _ := cmd.Flags().GetString("log-level"); v != "" {
			cfg.Log.Level = v
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		logger, err = logging.New(cfg.Log)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file (overrides THINKFORGE_CONFIG)")
	rootCmd.PersistentFlags().String("db", "", "Database file or DSN (overrides THINKFORGE_DB)")
	rootCmd.PersistentFlags().String("driver", "", "Database driver: sqlite or pgx")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("user", defaultUser(), "Learner ID")

	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(dailyCmd)
	rootCmd.AddCommand(achievementsCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(workerCmd)
	rootCmd.AddCommand(versionCmd)
}

func defaultUser() string {
	if u := os.Getenv("THINKFORGE_USER"); u != "" {
		return u
	}
	return os.Getenv("USER")
}

func userID(cmd *cobra.Command) (string, error) {
	u, _ := cmd.Flags().GetString("user")
	if u == "" {
		return "", errors.New("no learner: pass --user or set THINKFORGE_USER")
	}
	return u, nil
}

// openStore opens the configured database. An empty SQLite DSN resolves to
// the per-user data directory.
func openStore() (*store.Store, error) {
	dsn := cfg.Database.DSN
	if cfg.Database.Driver == store.DriverSQLite {
		if dsn == "" {
			p, err := store.DefaultDBPath()
			if err != nil {
				return nil, err
			}
			dsn = p
		} else if err := store.EnsureDir(dsn); err != nil {
			return nil, err
		}
	}
	st, err := store.Open(cfg.Database.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// openEngine opens the store and builds an engine with the achievement
// catalog in place. The returned func releases everything.
func openEngine(ctx context.Context) (*engine.Engine, func(), error) {
	st, err := openStore()
	if err != nil {
		return nil, nil, err
	}

	opts := []engine.Option{engine.WithLogger(logger)}
	closers := []func() error{st.Close}
	if cfg.Cache.Enabled {
		client := cache.NewClient(cfg.Cache)
		closers = append(closers, client.Close)
		opts = append(opts, engine.WithCache(client, cfg.Cache))
	}
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i]()
		}
	}
	eng, err := engine.New(st, cfg.Engine, opts...)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	if err := eng.SeedAchievements(ctx); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("seed achievements: %w", err)
	}
	return eng, cleanup, nil
}
