package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/cpgrams/pkg/collection"
	"github.com/ssargent/cpgrams/pkg/extjson"
)

// normalizeCmd represents the normalize command
var normalizeCmd = &cobra.Command{
	Use:   "normalize <input>",
	Short: "Rewrite a grievance file with extended JSON wrappers removed",
	Long: `Read a JSON array of grievance records, replace $date, $numberLong and $oid
wrappers with plain values and write the result. Key order is preserved.
Normalizing an already normalized file leaves it unchanged.

Examples:
  cpgrams normalize raw.json -o normalized.json
  cpgrams normalize raw.json --indent > normalized.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		indent, _ := cmd.Flags().GetBool("indent")

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		raw, err := extjson.ParseArray(data)
		if err != nil {
			return err
		}
		records := collection.Normalize(raw, logger)

		if output == "" {
			return writeRecords(cmd.OutOrStdout(), records, indent)
		}
		if err := writeRecordsFile(output, records, indent); err != nil {
			return err
		}
		cmd.Printf("Normalized %d records into %s\n", len(records), output)
		return nil
	},
}

// writeRecordsFile writes records to path. Write and close errors are both returned.
func writeRecordsFile(path string, records []*extjson.Object, indent bool) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output: %w", cerr)
		}
	}()
	return writeRecords(f, records, indent)
}

func writeRecords(w io.Writer, records []*extjson.Object, indent bool) error {
	if records == nil {
		records = []*extjson.Object{}
	}

	var (
		data []byte
		err  error
	)
	if indent {
		data, err = json.MarshalIndent(records, "", "  ")
	} else {
		data, err = json.Marshal(records)
	}
	if err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func init() {
	rootCmd.AddCommand(normalizeCmd)
	normalizeCmd.Flags().StringP("output", "o", "", "Output file (default stdout)")
	normalizeCmd.Flags().Bool("indent", false, "Indent the output")
}
