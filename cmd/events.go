package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/assessor/internal/store"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect the session journal",
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent session events",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		session, _ := cmd.Flags().GetString("session")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QuerySessionEvents(cmd.Context(), store.QueryOpts{
			Limit:     limit,
			SessionID: session,
		})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No session events found.")
			return nil
		}

		fmt.Fprintf(out, "%-6s  %-19s  %-36s  %-15s  %s\n",
			"Seq", "Timestamp", "Session", "Action", "Detail")
		fmt.Fprintln(out, strings.Repeat("─", 110))

		for _, e := range events {
			fmt.Fprintf(out, "%-6d  %-19s  %-36s  %-15s  %s\n",
				e.Sequence,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.SessionID,
				e.Action,
				eventDetail(e),
			)
		}
		return nil
	},
}

func eventDetail(e store.SessionEvent) string {
	var parts []string
	if e.Category != "" {
		parts = append(parts, e.Category)
	}
	if e.QuestionID != 0 {
		parts = append(parts, fmt.Sprintf("Q%d", e.QuestionID))
	}
	if e.Rating != 0 {
		parts = append(parts, fmt.Sprintf("rating=%d", e.Rating))
	}
	if e.Notes != "" {
		parts = append(parts, fmt.Sprintf("notes=%q", truncate(e.Notes, 40)))
	}
	if e.Detail != "" {
		parts = append(parts, e.Detail)
	}
	return strings.Join(parts, " ")
}

func init() {
	eventsListCmd.Flags().IntP("limit", "n", 50, "Number of events to show")
	eventsListCmd.Flags().StringP("session", "s", "", "Only show events for this session ID")

	eventsCmd.AddCommand(eventsListCmd)
}
