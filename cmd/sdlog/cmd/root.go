package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sdlog",
	Short: "sdlog - self-describing binary log toolkit",
	Long: `sdlog writes binary logs in the ArduPilot self-describing log
format: a compact record stream that carries its own schema, so any
consumer can decode it with no out-of-band knowledge. sdlog itself does
not decode existing logs.

Use "sdlog write" for one-shot appends from the shell, "sdlog serve" to run
the HTTP ingest daemon, and "sdlog formats" to inspect the schemas announced
by past writer sessions.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to the sdlog config file")
}
