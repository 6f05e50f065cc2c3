package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/examiner/internal/ui/layout"
)

var examsCmd = &cobra.Command{
	Use:   "exams",
	Short: "List available exams",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer e.close()

		entries := e.catalog.List()
		rows := make([][]string, 0, len(entries))
		for _, en := range entries {
			source := en.Source
			if en.Builtin {
				source = "built-in"
			}
			rows = append(rows, []string{
				en.Definition.ID,
				en.Definition.Title,
				strconv.Itoa(en.Definition.QuestionCount()),
				layout.FormatClock(en.Definition.DurationSeconds),
				source,
			})
		}
		printTable(cmd.OutOrStdout(), []string{"ID", "TITLE", "QUESTIONS", "TIME", "SOURCE"}, rows)

		for _, p := range e.catalog.Problems() {
			fmt.Fprintln(cmd.ErrOrStderr(), "skipped:", p)
		}
		return nil
	},
}
