package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all stored results",
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return errors.New("this deletes every stored result; rerun with --yes to confirm")
		}
		e, err := setup(cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer e.close()

		n, err := e.store.ResultRepo().DeleteAll(cmd.Context())
		if err != nil {
			return err
		}
		e.log.Info().Int("results", n).Msg("store reset")
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d result(s).\n", n)
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm deletion")
}
