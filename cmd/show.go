package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/examiner/internal/exam"
	"github.com/abhisek/examiner/internal/scoring"
	"github.com/abhisek/examiner/internal/screens/result"
	"github.com/abhisek/examiner/internal/store"
	"github.com/abhisek/examiner/internal/ui/components"
	"github.com/abhisek/examiner/internal/ui/layout"
)

var showCmd = &cobra.Command{
	Use:   "show <attempt-id>",
	Short: "Show the per-question report of an attempt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer e.close()

		res, err := e.store.ResultRepo().Get(cmd.Context(), args[0])
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no attempt %q", args[0])
		}
		if err != nil {
			return err
		}

		var def *exam.Definition
		if d, err := e.catalog.Lookup(res.ExamID); err == nil {
			def = d
		}
		sum := result.FromStored(res, def)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s\n", sum.ExamTitle)
		fmt.Fprintf(out, "Attempt:     %s\n", sum.AttemptID)
		fmt.Fprintf(out, "Participant: %s\n", sum.Participant)
		fmt.Fprintf(out, "Finished:    %s (%s)\n", res.CompletedAt.Local().Format("2006-01-02 15:04:05"), res.Status)
		fmt.Fprintf(out, "Time:        %s\n", layout.FormatClock(int(sum.Elapsed.Seconds())))
		fmt.Fprintf(out, "Score:       %d/%d  %d%%  %s (pass mark %d%%)\n\n",
			sum.CorrectCount, sum.Total, sum.Percentage, passLabel(sum.Passed), scoring.PassThreshold)

		rows := make([][]string, 0, len(sum.Lines))
		for _, l := range sum.Lines {
			mark, selected := "✓", l.Selected
			if !l.IsCorrect {
				mark = "✗"
			}
			if !l.Answered() {
				selected = "-"
			}
			rows = append(rows, []string{fmt.Sprint(l.Number), mark, l.Prompt, selected, l.Correct})
		}
		printTable(out, []string{"#", "", "QUESTION", "ANSWER", "CORRECT"}, rows)

		if events, _ := cmd.Flags().GetBool("events"); events {
			return printEvents(cmd, e, res.AttemptID)
		}
		return nil
	},
}

func printEvents(cmd *cobra.Command, e *env, attemptID string) error {
	events, err := e.store.EventRepo().AttemptEvents(cmd.Context(), attemptID)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(events))
	for _, ev := range events {
		q, opt := "", ""
		if ev.QuestionIndex >= 0 {
			q = fmt.Sprint(ev.QuestionIndex + 1)
		}
		if ev.OptionIndex >= 0 {
			opt = components.OptionLabel(ev.OptionIndex)
		}
		rows = append(rows, []string{
			fmt.Sprint(ev.Sequence),
			ev.Timestamp.Local().Format("15:04:05.000"),
			ev.Action,
			q,
			opt,
		})
	}
	fmt.Fprintln(cmd.OutOrStdout())
	printTable(cmd.OutOrStdout(), []string{"SEQ", "TIME", "ACTION", "QUESTION", "OPTION"}, rows)
	return nil
}

func init() {
	showCmd.Flags().Bool("events", false, "Also list the recorded answer and navigation events")
}
