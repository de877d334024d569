package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/mmynk/phonebook/internal/auth"
	"github.com/mmynk/phonebook/internal/config"
	"github.com/mmynk/phonebook/internal/metrics"
	"github.com/mmynk/phonebook/internal/storage/sqlite"
	"github.com/mmynk/phonebook/pkg/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app holds everything the subcommands share. It is populated in the root
// command's PersistentPreRunE.
type app struct {
	cfg      *config.Config
	store    *sqlite.SQLiteStore
	auth     *auth.PasswordAuthenticator
	registry *prometheus.Registry

	// flag values; applied over cfg only when set on the command line
	dbPath      string
	logLevel    string
	metricsFile string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:          "phonebook",
		Short:        "Phonebook - people, phone numbers and users in a SQLite file",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.init(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.flushMetrics()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.dbPath, "db", "d", "", "SQLite database path (or set PHONEBOOK_DB_PATH)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error (or set PHONEBOOK_LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&a.metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile after the command runs")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "phonebook %s (commit: %s, built: %s)\n", version, commit, date)
		},
	})
	rootCmd.AddCommand(newPeopleCmd(a))
	rootCmd.AddCommand(newUserCmd(a))

	return rootCmd
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.DBPath = a.dbPath
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile = a.metricsFile
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logging.Setup(cfg.LogLevel)

	a.registry = prometheus.NewRegistry()
	storeMetrics, err := metrics.NewStoreMetrics(a.registry)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	store, err := sqlite.New(cfg.DBPath,
		sqlite.WithLogger(slog.Default()),
		sqlite.WithMetrics(storeMetrics),
		sqlite.WithBusyTimeout(cfg.BusyTimeout()),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	slog.Debug("Storage initialized", "database", cfg.DBPath)

	a.cfg = cfg
	a.store = store
	a.auth = auth.NewPasswordAuthenticator(store)
	return nil
}

func (a *app) flushMetrics() error {
	if a.cfg == nil || a.cfg.MetricsFile == "" {
		return nil
	}
	if err := metrics.WriteTextfile(a.cfg.MetricsFile, a.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	slog.Debug("Metrics written", "path", a.cfg.MetricsFile)
	return nil
}
