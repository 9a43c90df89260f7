package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skyforge/sdlog/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Bootstrap an sdlog configuration",
	Long: `Create an sdlog configuration file with a freshly generated API key.

Example:
  sdlog init --data-dir ./data`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}
		dataDir, _ := cmd.Flags().GetString("data-dir")

		if config.ConfigExists(configPath) {
			return fmt.Errorf("config already exists at %s", configPath)
		}

		cfg, err := config.BootstrapConfig(configPath, dataDir)
		if err != nil {
			return err
		}

		fmt.Printf("Wrote config to %s\n", configPath)
		fmt.Printf("API key: %s\n", cfg.Security.APIKey)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().String("data-dir", "./data", "Data directory for the format registry")
}
