package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/examiner/internal/export"
	"github.com/abhisek/examiner/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export <file.xlsx>",
	Short: "Export results to a spreadsheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer e.close()

		examID, _ := cmd.Flags().GetString("exam")
		results, err := e.store.ResultRepo().List(cmd.Context(), store.QueryOpts{ExamID: examID})
		if err != nil {
			return err
		}
		if err := export.WriteResults(args[0], results); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d result(s) to %s\n", len(results), args[0])
		return nil
	},
}

func init() {
	exportCmd.Flags().String("exam", "", "Only export attempts of this exam")
}
