package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/k12coteacher/coteacher/internal/document"
	"github.com/k12coteacher/coteacher/internal/modifier"
)

var modifyCmd = &cobra.Command{
	Use:   "modify <report.pdf> [more-reports.pdf...]",
	Short: "Generate lesson modifications from student reports",
	Long:  "Analyzes each psychological report, identifies needs, and appends a categorized modification section to the lesson plan.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		lessonPath, _ := cmd.Flags().GetString("lesson")
		if lessonPath == "" {
			return fmt.Errorf("--lesson is required")
		}
		out, _ := cmd.Flags().GetString("out")

		log, err := newLogger(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		provider, err := newProvider(ctx, s)
		if err != nil {
			return err
		}

		lessonText, err := document.ExtractText(lessonPath)
		if err != nil {
			return fmt.Errorf("read lesson plan: %w", err)
		}

		gen := modifier.NewGenerator(provider, log)

		var allNeeds [][]modifier.Need
		for _, reportPath := range args {
			reportText, err := document.ExtractText(reportPath)
			if err != nil {
				return fmt.Errorf("read report %s: %w", reportPath, err)
			}
			needs, err := gen.IdentifyNeeds(ctx, reportText)
			if err != nil {
				return fmt.Errorf("analyze %s: %w", reportPath, err)
			}
			log.Info("report analyzed", "report", reportPath, "needs", len(needs))
			allNeeds = append(allNeeds, needs)
		}

		mods, err := gen.SynthesizeModifications(ctx, lessonText, allNeeds)
		if err != nil {
			return err
		}

		plan := modifier.ComposePlan(lessonText, mods)
		if err := os.WriteFile(out, []byte(plan), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		fmt.Printf("Modified lesson plan saved to %s\n", out)
		return nil
	},
}

func init() {
	modifyCmd.Flags().String("lesson", "", "Lesson plan PDF")
	modifyCmd.Flags().String("out", "new_lesson_plan.txt", "Output text file")
}
