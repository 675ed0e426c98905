// Command fsqueue inspects and administers fsqueue queue directories.
package main

import (
	"fmt"
	"os"

	"github.com/vnykmshr/fsqueue/cmd/fsqueue/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
