package cmd

import (
	"github.com/spf13/cobra"
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <grievance-id>",
	Short: "Get a grievance by id",
	Long: `Print the normalized grievance record with the given _id.

Example:
  cpgrams get 64f0c1e2a9b3d4e5f6a7b8c9`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, closer, err := openEngine(cmd.Context(), cfg, nil)
		if err != nil {
			return err
		}
		defer closer.Close()

		record, err := eng.GetByID(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return outputJSON(cmd.OutOrStdout(), record)
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}
