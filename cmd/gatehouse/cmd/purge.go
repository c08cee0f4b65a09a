package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmcleod/gatehouse/api"
	"github.com/jmcleod/gatehouse/session"
	bboltstorage "github.com/jmcleod/gatehouse/storage/bbolt"
)

var purgeDataDir string

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Remove expired sessions from persistent session storage",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := api.ConfigFromEnv()

		records, err := bboltstorage.NewRepositoryFromFile(purgeDataDir+"/sessions.db", nil)
		if err != nil {
			return fmt.Errorf("failed to open session storage: %w", err)
		}
		defer records.Close()

		logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
		store := session.NewPersistentStore(records, cfg.SessionDuration, logger)

		purged, err := store.PurgeExpired()
		if err != nil {
			return fmt.Errorf("purging sessions: %w", err)
		}
		fmt.Printf("Purged %d expired session(s)\n", purged)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(purgeCmd)
	purgeCmd.Flags().StringVar(&purgeDataDir, "data-dir", "./data", "Directory for persistent data")
}
