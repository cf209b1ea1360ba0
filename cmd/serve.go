package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/abhisek/assessor/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve assessment sessions over a JSON HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if v, _ := cmd.Flags().GetString("host"); v != "" {
			cfg.Server.Host = v
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port, _ = cmd.Flags().GetInt("port")
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		ttl, _ := cmd.Flags().GetDuration("session-ttl")
		if err := server.ValidateSessionTTL(ttl); err != nil {
			return fmt.Errorf("--session-ttl: %w", err)
		}

		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		c, err := loadCatalog(cfg)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		opts := []server.Option{server.WithEvents(st.EventRepo())}
		if svc := buildDebrief(ctx, cfg, c, st.EventRepo()); svc != nil {
			opts = append(opts, server.WithDebrief(svc))
		}

		srv := server.New(cfg.Server, c, opts...)
		log.WithFields(log.Fields{
			"addr":      cfg.Server.Addr(),
			"catalog":   c.Version(),
			"questions": c.Len(),
		}).Info("starting assessor API")
		return srv.ListenAndServe(ctx, ttl)
	},
}

func init() {
	serveCmd.Flags().String("host", "", "Bind address (overrides ASSESSOR_HOST)")
	serveCmd.Flags().Int("port", 8080, "Listen port (overrides ASSESSOR_PORT)")
	serveCmd.Flags().Duration("session-ttl", 4*time.Hour, "Discard sessions idle for this long; at least 1s, or 0 to keep them forever")
}
