package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ssargent/cpgrams/pkg/collection"
	"github.com/ssargent/cpgrams/pkg/storage"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <input>",
	Short: "Import a grievance file into the snapshot store",
	Long: `Normalize a grievance JSON file and store it as a new snapshot in the
pebble store. "serve --source pebble" serves the newest snapshot.

Examples:
  cpgrams import ./data/no_pii_grievance_v2.json
  cpgrams import ./data/no_pii_grievance_v2.json --pebble-dir /var/lib/cpgrams --keep 3`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		keep, _ := cmd.Flags().GetInt("keep")

		records, err := collection.NewFileSource(args[0], logger).Load(cmd.Context())
		if err != nil {
			return err
		}

		store, err := storage.Open(cfg.Data.PebbleDir, logger)
		if err != nil {
			return err
		}
		defer store.Close()

		info, err := store.Import(cmd.Context(), records, args[0])
		if err != nil {
			return err
		}
		cmd.Printf("Imported %d records as snapshot %s\n", info.Records, info.ID)

		if keep > 0 {
			removed, err := store.Prune(keep)
			if err != nil {
				return fmt.Errorf("failed to prune snapshots: %w", err)
			}
			if removed > 0 {
				logger.Info("pruned old snapshots", zap.Int("removed", removed), zap.Int("kept", keep))
				cmd.Printf("Pruned %d old snapshots\n", removed)
			}
		}
		return nil
	},
}

// snapshotsCmd represents the snapshots command
var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "List snapshots in the snapshot store",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := storage.Open(cfg.Data.PebbleDir, logger)
		if err != nil {
			return err
		}
		defer store.Close()

		snaps, err := store.Snapshots()
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tRECORDS\tCREATED\tSOURCE")
		for _, s := range snaps {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", s.ID, s.Records, s.CreatedAt.Format(time.RFC3339), s.Source)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(snapshotsCmd)
	importCmd.Flags().Int("keep", 0, "Keep only the newest N snapshots after importing (0 keeps all)")
}
