package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/segmentio/ksuid"
	"github.com/spf13/cobra"

	"github.com/skyforge/sdlog/pkg/registry"
)

// formatsCmd represents the formats command
var formatsCmd = &cobra.Command{
	Use:   "formats [session]",
	Short: "List message formats announced by past writer sessions",
	Long: `List the message-format definitions recorded in the format registry.

Without arguments, lists the known session ids. With a session id, lists the
formats that session announced.

Examples:
  sdlog formats
  sdlog formats 2QuhN3tr5wRjM4UWESViBdtnuqn`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadOrDefaultConfig(cmd)
		if err != nil {
			return err
		}

		reg, err := registry.Open(filepath.Join(cfg.DataDir, "registry"))
		if err != nil {
			return err
		}
		defer reg.Close()

		if len(args) == 0 {
			sessions, err := reg.Sessions()
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				fmt.Println("No sessions recorded")
				return nil
			}
			for _, session := range sessions {
				fmt.Println(session)
			}
			return nil
		}

		session, err := ksuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid session id %q: %w", args[0], err)
		}

		records, err := reg.Formats(session)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No formats recorded for session")
			return nil
		}
		for _, record := range records {
			fmt.Printf("%3d  %-4s  len=%-3d  %-16s  %s\n",
				record.ID, record.Name, record.Length, record.Format, record.Columns)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}
