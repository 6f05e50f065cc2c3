package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/examiner/internal/catalog"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Check exam files for errors",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		failed := 0
		for _, path := range args {
			def, err := catalog.LoadFile(path)
			if err != nil {
				failed++
				fmt.Fprintf(out, "FAIL  %s\n  %v\n", path, err)
				continue
			}
			fmt.Fprintf(out, "ok    %s (%s, %d questions)\n", path, def.ID, def.QuestionCount())
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d file(s) invalid", failed, len(args))
		}
		return nil
	},
}
