package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var purgeCmd = &cobra.Command{
	Use:   "purge <queue-dir>",
	Short: "Seal the current file and run a purge pass against the configured bounds",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]
		q, err := openAdminQueue(dir)
		if err != nil {
			return fmt.Errorf("opening queue: %w", err)
		}
		defer q.Close()

		before := q.GetQueueStatus()
		if err := q.ForceProcessing(true); err != nil {
			return fmt.Errorf("purge: %w", err)
		}
		after := q.GetQueueStatus()

		fmt.Printf("Sealed files before: %d (%d bytes)\n", len(before.Finalized), before.TotalSize)
		fmt.Printf("Sealed files after:  %d (%d bytes)\n", len(after.Finalized), after.TotalSize)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(purgeCmd)
}
