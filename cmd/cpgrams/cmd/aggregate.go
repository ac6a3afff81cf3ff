package cmd

import (
	"github.com/spf13/cobra"
)

// uniqueCmd represents the unique command
var uniqueCmd = &cobra.Command{
	Use:   "unique <field>",
	Short: "List the unique values of a field",
	Long: `List the sorted distinct values of an allow-listed field.

Example:
  cpgrams unique state`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		eng, _, closer, err := openEngine(cmd.Context(), cfg, nil)
		if err != nil {
			return err
		}
		defer closer.Close()

		res, err := eng.UniqueValues(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return outputUniqueValues(cmd.OutOrStdout(), res, format)
	},
}

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats <field>",
	Short: "Show the value distribution of a field",
	Long: `Count the records per value of an allow-listed field. Date fields are
grouped by month (YYYY-MM).

Example:
  cpgrams stats DiaryDate`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		eng, _, closer, err := openEngine(cmd.Context(), cfg, nil)
		if err != nil {
			return err
		}
		defer closer.Close()

		res, err := eng.Statistics(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return outputStatistics(cmd.OutOrStdout(), res, format)
	},
}

func init() {
	rootCmd.AddCommand(uniqueCmd)
	rootCmd.AddCommand(statsCmd)
	uniqueCmd.Flags().String("format", formatTable, "Output format: table or json")
	statsCmd.Flags().String("format", formatTable, "Output format: table or json")
}
