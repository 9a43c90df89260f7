package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/skyforge/sdlog/pkg/api"
	"github.com/skyforge/sdlog/pkg/config"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP record-ingest daemon",
	Long: `Run the sdlog ingest daemon. Clients register message formats and
append typed records over HTTP; the daemon writes them to a self-describing
binary log on disk and mirrors every format announcement into the format
registry.

Examples:
  sdlog serve
  sdlog serve --config ./sdlog.yaml --port 8320`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadOrDefaultConfig(cmd)
		if err != nil {
			return err
		}

		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			cfg.Port = port
		}
		if cfg.Security.APIKey == "" || cfg.Security.APIKey == "auto" {
			return fmt.Errorf("no API key configured; run 'sdlog init' first")
		}

		return api.StartServer(api.ServerConfig{
			Port:            cfg.Port,
			Bind:            cfg.Bind,
			APIKey:          cfg.Security.APIKey,
			LogDir:          cfg.LogDir,
			RegistryPath:    filepath.Join(cfg.DataDir, "registry"),
			FsyncIntervalMS: cfg.Writer.FsyncIntervalMS,
			BufferSize:      cfg.Writer.BufferSize,
		})
	},
}

func loadOrDefaultConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}
	if !config.ConfigExists(configPath) {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Int("port", 0, "Override the configured listen port")
}
