package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/skyforge/sdlog/pkg/codec"
	"github.com/skyforge/sdlog/pkg/stream"
	"github.com/skyforge/sdlog/pkg/writer"
)

var (
	writeOut     string
	writeID      uint8
	writeName    string
	writeFormat  string
	writeColumns string
	writeUnits   string
)

// writeCmd represents the write command
var writeCmd = &cobra.Command{
	Use:   "write <value>...",
	Short: "Append one record to a log file",
	Long: `Append one record to a self-describing log file, preceded by an FMT
record announcing its message format. Every invocation writes that FMT
record, also when appending to an existing file.

Values are positional, one per column of the format string: integers for the
integer and fixed-point codes, decimals for f/d, and raw strings for n/N/Z.

Example:
  sdlog write --out flight.bin --id 1 --name GPS --format LLf --columns Lat,Lng,Alt 473566770 190252926 118.5`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := codec.NewMessageFormat(writeID, writeName)
		if err != nil {
			return fmt.Errorf("invalid message format: %w", err)
		}
		if err := format.AddColumns(writeColumns, writeFormat, writeUnits); err != nil {
			return fmt.Errorf("invalid columns: %w", err)
		}

		values, err := parseValues(format, args)
		if err != nil {
			return err
		}

		file, err := os.OpenFile(writeOut, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer file.Close()

		sink := stream.NewFile(file)
		w, err := writer.New(sink)
		if err != nil {
			return err
		}

		if err := w.Write(format, values...); err != nil {
			return fmt.Errorf("write failed: %w", err)
		}
		if err := w.Close(); err != nil {
			return err
		}
		if err := sink.Sync(); err != nil {
			return err
		}

		fmt.Printf("Wrote %d-byte %s record to %s\n", format.Size()+3, format.Type(), writeOut)
		return nil
	},
}

// parseValues converts shell arguments to typed values, one per column.
func parseValues(format *codec.MessageFormat, args []string) ([]codec.Value, error) {
	if len(args) != format.ColumnCount() {
		return nil, fmt.Errorf("format %q needs %d values, got %d",
			format.Type(), format.ColumnCount(), len(args))
	}

	values := make([]codec.Value, len(args))
	for i, arg := range args {
		column := format.Column(i)
		switch column.Type {
		case 'b', 'B', 'M', 'c', 'C', 'h', 'H', 'e', 'E', 'L', 'i', 'I', 'q', 'Q':
			if v, err := strconv.ParseInt(arg, 0, 64); err == nil {
				values[i] = codec.Int(v)
				continue
			}
			v, err := strconv.ParseUint(arg, 0, 64)
			if err != nil {
				return nil, fmt.Errorf("column %q: %q is not an integer", column.Name, arg)
			}
			values[i] = codec.Uint(v)
		case 'f', 'd':
			v, err := strconv.ParseFloat(arg, 64)
			if err != nil {
				return nil, fmt.Errorf("column %q: %q is not a float", column.Name, arg)
			}
			values[i] = codec.Float64(v)
		case 'n', 'N', 'Z':
			values[i] = codec.Str(arg)
		default:
			return nil, fmt.Errorf("column %q: type %q cannot be encoded", column.Name, string(column.Type))
		}
	}
	return values, nil
}

func init() {
	rootCmd.AddCommand(writeCmd)
	writeCmd.Flags().StringVar(&writeOut, "out", "sdlog.bin", "Log file to append to")
	writeCmd.Flags().Uint8Var(&writeID, "id", 1, "Message id (1-255, 128 is reserved)")
	writeCmd.Flags().StringVar(&writeName, "name", "", "Message type name (at most 4 characters)")
	writeCmd.Flags().StringVar(&writeFormat, "format", "", "Format string, one type code per column")
	writeCmd.Flags().StringVar(&writeColumns, "columns", "", "Comma-separated column names")
	writeCmd.Flags().StringVar(&writeUnits, "units", "", "Unit characters aligned to the format string")
	_ = writeCmd.MarkFlagRequired("name")
	_ = writeCmd.MarkFlagRequired("format")
	_ = writeCmd.MarkFlagRequired("columns")
}
