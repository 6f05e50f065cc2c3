package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show per-exam statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer e.close()

		repo := e.store.ResultRepo()
		var rows [][]string
		for _, en := range e.catalog.List() {
			st, err := repo.ExamStats(cmd.Context(), en.Definition.ID)
			if err != nil {
				return fmt.Errorf("stats for %s: %w", en.Definition.ID, err)
			}
			if st.Attempts == 0 {
				continue
			}
			rows = append(rows, []string{
				st.ExamID,
				strconv.Itoa(st.Attempts),
				strconv.Itoa(st.Passes),
				strconv.Itoa(st.TimedOut),
				strconv.Itoa(st.Best) + "%",
				fmt.Sprintf("%.1f%%", st.Average),
				st.LastAttempt.Local().Format("2006-01-02 15:04"),
			})
		}
		if len(rows) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No attempts recorded yet.")
			return nil
		}
		printTable(cmd.OutOrStdout(),
			[]string{"EXAM", "ATTEMPTS", "PASSED", "TIMED OUT", "BEST", "AVERAGE", "LAST"}, rows)
		return nil
	},
}
