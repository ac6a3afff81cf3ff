package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/cpgrams/pkg/extjson"
	"github.com/ssargent/cpgrams/pkg/query"
)

// queryCmd represents the query command
var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Filter grievances",
	Long: `Filter grievances with a JSON filter spec and print one page of results.

A filter maps field names to a value (equality), a list (any of) or a
{"from": ..., "to": ...} range on date and integer fields.

Examples:
  cpgrams query --filter '{"state":["WB","UP"],"sex":"M"}'
  cpgrams query --filter '{"DiaryDate":{"from":"2023-01-01","to":"2023-12-31"}}' --limit 20
  cpgrams query --filter-file filters.json --format json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, _ := cmd.Flags().GetString("filter")
		filterFile, _ := cmd.Flags().GetString("filter-file")
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")
		format, _ := cmd.Flags().GetString("format")

		spec, err := parseFilter(filter, filterFile)
		if err != nil {
			return err
		}
		if limit == 0 {
			limit = cfg.Query.DefaultLimit
		}

		eng, _, closer, err := openEngine(cmd.Context(), cfg, nil)
		if err != nil {
			return err
		}
		defer closer.Close()

		page, err := eng.Query(cmd.Context(), spec, query.Page{Limit: limit, Offset: offset})
		if err != nil {
			return err
		}
		return outputPage(cmd.OutOrStdout(), page, format)
	},
}

// parseFilter reads a filter spec from an inline JSON string or a file
func parseFilter(inline, path string) (query.FilterSpec, error) {
	if inline != "" && path != "" {
		return nil, fmt.Errorf("use either --filter or --filter-file, not both")
	}

	data := []byte(inline)
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read filter file: %w", err)
		}
	}
	if len(data) == 0 {
		return nil, nil
	}

	parsed, err := extjson.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid filter: %w", err)
	}
	obj, ok := parsed.(*extjson.Object)
	if !ok {
		return nil, fmt.Errorf("invalid filter: must be a JSON object")
	}
	return obj.Map(), nil
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().String("filter", "", "Filter spec as JSON")
	queryCmd.Flags().String("filter-file", "", "File holding the filter spec")
	queryCmd.Flags().IntP("limit", "l", 0, "Number of records to return (default from config)")
	queryCmd.Flags().Int("offset", 0, "Number of records to skip")
	queryCmd.Flags().String("format", formatTable, "Output format: table or json")
}
