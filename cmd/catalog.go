package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/assessor/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the question catalog",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog questions grouped by category",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		c, err := loadCatalog(cfg)
		if err != nil {
			return err
		}

		cats := c.Categories()
		if raw, _ := cmd.Flags().GetString("category"); raw != "" {
			cat, ok := catalog.ParseCategory(raw)
			if !ok {
				return fmt.Errorf("unknown category %q", raw)
			}
			cats = []catalog.Category{cat}
		}
		verbose, _ := cmd.Flags().GetBool("verbose")

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Catalog %s, %d questions\n", c.Version(), c.Len())
		for _, cat := range cats {
			qs := c.ByCategory(cat)
			fmt.Fprintln(out)
			fmt.Fprintf(out, "%s %s (%d)\n", cat.Icon(), cat, len(qs))
			fmt.Fprintln(out, strings.Repeat("─", 72))
			if len(qs) == 0 {
				fmt.Fprintln(out, "  (no questions)")
				continue
			}
			for _, q := range qs {
				fmt.Fprintf(out, "  %3d  %-12s  %s\n", q.ID, q.Level, q.Text)
				if verbose && q.LookFor != "" {
					fmt.Fprintf(out, "       look for: %s\n", q.LookFor)
				}
			}
		}
		return nil
	},
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a YAML catalog for errors",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := catalog.LoadFile(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: catalog %s is valid (%d questions, %d categories)\n",
			args[0], c.Version(), c.Len(), len(c.Categories()))
		return nil
	},
}

func init() {
	catalogListCmd.Flags().StringP("category", "c", "", "Only list one category (name or slug, e.g. testing)")
	catalogListCmd.Flags().BoolP("verbose", "v", false, "Include interviewer guidance")

	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogValidateCmd)
}
