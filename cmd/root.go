package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/examiner/internal/config"
	"github.com/abhisek/examiner/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "examiner",
	Short: "Timed multiple-choice exams in the terminal",
	Long: `Examiner runs timed multiple-choice exams in the terminal. Each attempt has
a hard deadline: when time runs out, the answers given so far are scored.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, "")
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides EXAMINER_DB env var)")
	pf.String("exams", "", "Directory of exam files (overrides EXAMINER_EXAMS_DIR env var)")
	pf.String("participant", "", "Name results are recorded under (overrides EXAMINER_PARTICIPANT env var)")

	rootCmd.AddCommand(takeCmd)
	rootCmd.AddCommand(examsCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the environment and applies command-line overrides.
func loadConfig(cmd *cobra.Command) *config.Config {
	cfg := config.Load()
	if v, _ := cmd.Flags().GetString("exams"); v != "" {
		cfg.ExamsDir = v
	}
	if v, _ := cmd.Flags().GetString("participant"); v != "" {
		cfg.Participant = v
	}
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.DBPath = v
	}
	return cfg
}

// resolveDBPath returns the database path using --db or EXAMINER_DB when
// set, then the default XDG path.
func resolveDBPath(cfg *config.Config) (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}
