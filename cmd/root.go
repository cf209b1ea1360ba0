package cmd

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/abhisek/assessor/internal/catalog"
	"github.com/abhisek/assessor/internal/config"
	"github.com/abhisek/assessor/internal/debrief"
	"github.com/abhisek/assessor/internal/llm"
	"github.com/abhisek/assessor/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "assessor",
	Short: "Structured React developer interviews",
	Long: "Assessor walks an interviewer through a catalog of React questions, " +
		"records 1-5 ratings and notes, and produces a hire / no-hire report.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite journal file (overrides ASSESSOR_DB env var)")
	rootCmd.PersistentFlags().String("catalog", "", "Path to a YAML question catalog (overrides ASSESSOR_CATALOG)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides ASSESSOR_LOG_LEVEL)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text or json (overrides ASSESSOR_LOG_FORMAT)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the environment, applies persistent flag overrides,
// validates the result and configures logging.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Load()

	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.DBPath = v
	}
	if v, _ := cmd.Flags().GetString("catalog"); v != "" {
		cfg.Catalog = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if v, _ := cmd.Flags().GetString("log-format"); v != "" {
		cfg.Log.Format = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := setupLogging(cfg.Log); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setupLogging(lc config.LogConfig) error {
	level, err := log.ParseLevel(lc.Level)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}
	log.SetLevel(level)
	if lc.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}

// resolveDBPath returns the database path using --db / ASSESSOR_DB, then
// the default XDG path.
func resolveDBPath(cfg *config.Config) (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

func openStore(cfg *config.Config) (*store.Store, error) {
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}

func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	c, err := catalog.Resolve(cfg.Catalog)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	log.WithFields(log.Fields{
		"version":   c.Version(),
		"questions": c.Len(),
	}).Debug("catalog loaded")
	return c, nil
}

// buildDebrief returns nil when no provider is configured or it cannot be
// constructed. Debriefs are optional everywhere.
func buildDebrief(ctx context.Context, cfg *config.Config, c *catalog.Catalog, repo store.EventRepo) *debrief.Service {
	if !cfg.LLMEnabled {
		log.Debug("no LLM provider configured, debriefs disabled")
		return nil
	}
	provider, err := llm.New(ctx, cfg.LLM, repo)
	if err != nil {
		log.WithError(err).Warn("LLM provider unavailable, debriefs disabled")
		return nil
	}
	log.WithFields(log.Fields{
		"provider": cfg.LLM.Provider,
		"model":    provider.ModelID(),
	}).Info("debriefs enabled")
	return debrief.NewService(provider, c, debrief.DefaultConfig())
}
