// Package cli implements the qa-keywords CLI commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/rcliao/qa-keywords/internal/config"
	"github.com/rcliao/qa-keywords/internal/logging"
	"github.com/rcliao/qa-keywords/internal/store"
)

var (
	cfgFile string
	cfg     config.Config
	logger  = zap.NewNop()

	// opened stores are closed by exitErr before the process exits.
	opened []*store.SQLiteStore
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "qa-keywords",
	Short: "Keyword-triggered replies for chat groups",
	Long:  "Store keyword replies per chat group and look them up by substring match. SQLite-backed, single binary.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		v, err := config.New(cfgFile)
		if err != nil {
			return err
		}
		if err := bindFlags(v, cmd); err != nil {
			return err
		}
		cfg, err = config.Load(v)
		if err != nil {
			return err
		}
		logger, err = logging.New(cfg.LogLevel, cfg.LogFormat)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	SilenceUsage: true,
}

func init() {
	pf := RootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Config file (yaml)")
	pf.StringP("db", "d", "", "Database path (default: $QA_KEYWORDS_DB or data/qa.db)")
	pf.String("log-level", "", "Log level: debug, info, warn, error")
	pf.String("log-format", "", "Log format: console or json")
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	bindings := map[string]string{
		"db":         "db",
		"log_level":  "log-level",
		"log_format": "log-format",
		"http_addr":  "addr",
	}
	for key, name := range bindings {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

func openStore() (*store.SQLiteStore, error) {
	s, err := store.NewSQLiteStore(cfg.DBPath, store.Options{
		Logger:        logger,
		MaxOpenConns:  cfg.MaxOpenConns,
		BusyTimeoutMs: cfg.BusyTimeoutMs,
	})
	if err != nil {
		return nil, err
	}
	opened = append(opened, s)
	return s, nil
}

func exitErr(msg string, err error) {
	for _, s := range opened {
		s.Close()
	}
	logger.Error(msg, zap.Error(err))
	_ = logger.Sync()
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
