package cmd

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/examiner/internal/store"
	"github.com/abhisek/examiner/internal/ui/layout"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past attempts, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer e.close()

		examID, _ := cmd.Flags().GetString("exam")
		limit, _ := cmd.Flags().GetInt("limit")
		who, _ := cmd.Flags().GetString("who")

		results, err := e.store.ResultRepo().List(cmd.Context(), store.QueryOpts{
			Limit:       limit,
			ExamID:      examID,
			Participant: who,
		})
		if err != nil {
			return err
		}

		rows := make([][]string, 0, len(results))
		for _, r := range results {
			rows = append(rows, []string{
				r.CompletedAt.Local().Format("2006-01-02 15:04"),
				r.AttemptID,
				r.ExamID,
				r.Participant,
				strconv.Itoa(r.CorrectCount) + "/" + strconv.Itoa(r.Total),
				strconv.Itoa(r.Percentage) + "%",
				passLabel(r.Passed),
				r.Status,
				layout.FormatClock(int(r.Elapsed().Seconds())),
			})
		}
		printTable(cmd.OutOrStdout(),
			[]string{"FINISHED", "ATTEMPT", "EXAM", "PARTICIPANT", "SCORE", "%", "RESULT", "STATUS", "TIME"},
			rows)
		return nil
	},
}

func init() {
	historyCmd.Flags().String("exam", "", "Only show attempts of this exam")
	historyCmd.Flags().String("who", "", "Only show attempts of this participant")
	historyCmd.Flags().Int("limit", 20, "Maximum number of attempts (0 = all)")
}
