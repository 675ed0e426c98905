package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats <queue-dir>",
	Short: "Show queue statistics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]
		q, err := openAdminQueue(dir)
		if err != nil {
			return fmt.Errorf("opening queue: %w", err)
		}
		defer q.Close()

		st := q.GetQueueStatus()

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "Queue Statistics")
		fmt.Fprintln(w, "================")
		fmt.Fprintf(w, "Directory:\t%s\n", dir)
		fmt.Fprintf(w, "Current File Size:\t%d bytes\n", st.AppendedFileSize)
		if !st.AppendedFileTimestamp.IsZero() {
			fmt.Fprintf(w, "Current File Opened:\t%s\n", st.AppendedFileTimestamp.Format("2006-01-02T15:04:05Z07:00"))
		}
		fmt.Fprintf(w, "Sealed Files:\t%d\n", len(st.Finalized))
		fmt.Fprintf(w, "Sealed Bytes:\t%d\n", st.TotalSize)
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
