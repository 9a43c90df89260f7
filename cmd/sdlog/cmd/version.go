package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skyforge/sdlog/pkg/codec"
)

// Version is the toolkit version.
const Version = "0.3.0"

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and wire-format constants",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sdlog %s\n", Version)
		fmt.Printf("max record length: %d bytes\n", codec.MaxMessageLength)
		fmt.Printf("message id space:  %d (FMT id %d)\n", codec.NumMessageFormats, codec.IDFmt)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
