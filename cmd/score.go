package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/assessor/internal/assessment"
	"github.com/abhisek/assessor/internal/catalog"
	"github.com/abhisek/assessor/internal/report"
	"github.com/abhisek/assessor/internal/scoring"
)

// answersFile is the YAML document accepted by `assessor score`:
//
//	answers:
//	  1: {rating: 5, notes: "lifted state correctly"}
//	  3: {rating: 2}
type answersFile struct {
	Answers map[int]assessment.Answer `yaml:"answers"`
}

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Aggregate an answers file into a markdown report",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		c, err := loadCatalog(cfg)
		if err != nil {
			return err
		}

		path, _ := cmd.Flags().GetString("answers")
		answers, err := readAnswers(path)
		if err != nil {
			return err
		}

		rep := scoreAnswers(c, answers)
		text := report.ToText(rep)

		if withDebrief, _ := cmd.Flags().GetBool("debrief"); withDebrief {
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			svc := buildDebrief(cmd.Context(), cfg, c, st.EventRepo())
			if svc == nil {
				return errors.New("--debrief needs an LLM provider; set ASSESSOR_LLM_PROVIDER and its API key")
			}
			d, err := svc.Generate(cmd.Context(), rep)
			if err != nil {
				return err
			}
			text += "\n" + d.Markdown()
		}

		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			_, err := io.WriteString(cmd.OutOrStdout(), text)
			return err
		}
		if out == "auto" {
			out, err = report.WriteFile(".", time.Now(), "", text)
			if err != nil {
				return err
			}
		} else if err := os.WriteFile(out, []byte(text), 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s (%.1f/5, %s)\n", out, rep.OverallRating, rep.Recommendation)
		return nil
	},
}

func readAnswers(path string) (map[int]assessment.Answer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read answers: %w", err)
	}
	return parseAnswers(data)
}

func parseAnswers(data []byte) (map[int]assessment.Answer, error) {
	var doc answersFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("parse answers: empty document")
		}
		return nil, fmt.Errorf("parse answers: %w", err)
	}

	var errs []error
	for id, a := range doc.Answers {
		if a.Rating != assessment.RatingNone && !a.Rating.Valid() {
			errs = append(errs, fmt.Errorf("question %d: %w", id, assessment.ErrInvalidRating))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return doc.Answers, nil
}

// scoreAnswers aggregates answers, warning about ids the catalog lacks.
func scoreAnswers(c *catalog.Catalog, answers map[int]assessment.Answer) scoring.Report {
	for id := range answers {
		if _, ok := c.ByID(id); !ok {
			log.WithField("question", id).Warn("answer for unknown question ignored")
		}
	}
	return scoring.Aggregate(c, answers)
}

func init() {
	scoreCmd.Flags().StringP("answers", "a", "", "YAML file mapping question IDs to ratings and notes")
	scoreCmd.Flags().StringP("out", "o", "", `Write the report to this file ("auto" picks a new timestamped name in the current directory) instead of stdout`)
	scoreCmd.Flags().Bool("debrief", false, "Append an LLM-generated interviewer debrief")
	_ = scoreCmd.MarkFlagRequired("answers")
}
