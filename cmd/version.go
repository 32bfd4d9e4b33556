package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Version is the application version. Set at build time with
// -ldflags "-X github.com/insightdelivered/hsbc-statement-converter/cmd.Version=...".
var Version = "1.2.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the application version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("hsbc-statement-converter v%s\n", Version)
		fmt.Printf("Go Version: %s\n", runtime.Version())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
