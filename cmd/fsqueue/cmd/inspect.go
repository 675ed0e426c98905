package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <queue-dir>",
	Short: "Print every sealed file awaiting dispatch, as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]
		q, err := openAdminQueue(dir)
		if err != nil {
			return fmt.Errorf("opening queue: %w", err)
		}
		defer q.Close()

		st := q.GetQueueStatus()

		type fileView struct {
			Name      string    `json:"name"`
			Size      uint64    `json:"size"`
			CreatedAt time.Time `json:"created_at"`
		}
		out := struct {
			Directory   string     `json:"directory"`
			SealedFiles []fileView `json:"sealed_files"`
			TotalBytes  uint64     `json:"total_bytes"`
			InspectedAt time.Time  `json:"inspected_at"`
		}{
			Directory:   dir,
			TotalBytes:  st.TotalSize,
			InspectedAt: time.Now().UTC(),
		}
		for _, f := range st.Finalized {
			out.SealedFiles = append(out.SealedFiles, fileView{Name: f.BaseName, Size: f.Size, CreatedAt: f.CreatedAt})
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
