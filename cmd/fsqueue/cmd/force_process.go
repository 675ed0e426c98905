package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var forceSealFlag bool

var forceProcessCmd = &cobra.Command{
	Use:   "force-process <queue-dir>",
	Short: "Wake the worker immediately, clearing any suspension",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]
		q, err := openAdminQueue(dir)
		if err != nil {
			return fmt.Errorf("opening queue: %w", err)
		}
		defer q.Close()

		if err := q.ForceProcessing(forceSealFlag); err != nil {
			return fmt.Errorf("force-process: %w", err)
		}
		fmt.Println("Dispatch forced.")
		return nil
	},
}

func init() {
	forceProcessCmd.Flags().BoolVar(&forceSealFlag, "seal-current", false, "also seal the current file before forcing dispatch")
	rootCmd.AddCommand(forceProcessCmd)
}
