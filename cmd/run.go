package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/abhisek/assessor/internal/app"
)

// runApp opens the journal, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	dbPath, _ := resolveDBPath(cfg)
	logFile, err := redirectLogs(filepath.Join(filepath.Dir(dbPath), "assessor.log"))
	if err != nil {
		return err
	}
	defer logFile.Close()

	c, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	reportDir, _ := cmd.Flags().GetString("report-dir")
	eventRepo := st.EventRepo()
	return app.Run(app.Options{
		Catalog:   c,
		EventRepo: eventRepo,
		Debrief:   buildDebrief(ctx, cfg, c, eventRepo),
		ReportDir: reportDir,
	})
}

// redirectLogs sends log output to path so it does not corrupt the
// alternate screen.
func redirectLogs(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log.SetOutput(f)
	return f, nil
}

func init() {
	rootCmd.Flags().String("report-dir", ".", "Directory where saved reports are written")
}
