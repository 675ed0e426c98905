package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var removeAllYes bool

var removeAllCmd = &cobra.Command{
	Use:   "remove-all <queue-dir>",
	Short: "Delete every current and sealed file this queue owns",
	Long: `remove-all deletes every file fsqueue manages in queue-dir and resets
its in-memory state. USE CAREFULLY: this is destructive and intended
for administrative recovery, not routine operation.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]
		if !removeAllYes && !confirm(dir) {
			fmt.Println("Aborted.")
			return nil
		}

		q, err := openAdminQueue(dir)
		if err != nil {
			return fmt.Errorf("opening queue: %w", err)
		}
		defer q.Close()

		if err := q.RemoveAllFiles(); err != nil {
			return fmt.Errorf("remove-all: %w", err)
		}
		fmt.Println("All files removed.")
		return nil
	},
}

func confirm(dir string) bool {
	fmt.Printf("This will permanently delete every fsqueue file under %q. Continue? [y/N] ", dir)
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	return strings.EqualFold(strings.TrimSpace(line), "y")
}

func init() {
	removeAllCmd.Flags().BoolVar(&removeAllYes, "yes", false, "skip the confirmation prompt")
	rootCmd.AddCommand(removeAllCmd)
}
