package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/revops-cli/internal/watchlist"
)

var (
	watchUser string
	watchType string
	watchName string
	watchNote string
)

var watchlistCmd = &cobra.Command{
	Use:   "watchlist",
	Short: "Manage pinned accounts and deals",
}

var watchlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the user's watchlist entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := watchlist.Open(cmd.Context(), cfg.Store)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Migrate(cmd.Context()); err != nil {
			return err
		}

		entries, err := store.Get(cmd.Context(), watchUser)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	},
}

var watchlistAddCmd = &cobra.Command{
	Use:   "add <subject-id>",
	Short: "Pin an account or deal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		subjectType := watchlist.SubjectType(watchType)
		if subjectType != watchlist.SubjectAccount && subjectType != watchlist.SubjectDeal {
			return eris.Errorf("unknown subject type %q (want account or deal)", watchType)
		}

		store, err := watchlist.Open(cmd.Context(), cfg.Store)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Migrate(cmd.Context()); err != nil {
			return err
		}

		entry, err := store.Add(cmd.Context(), watchlist.Entry{
			UserID:      watchUser,
			SubjectType: subjectType,
			SubjectID:   args[0],
			SubjectName: watchName,
			Note:        watchNote,
		})
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entry)
	},
}

var watchlistRemoveCmd = &cobra.Command{
	Use:   "remove <subject-id>",
	Short: "Unpin an account or deal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := watchlist.Open(cmd.Context(), cfg.Store)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Migrate(cmd.Context()); err != nil {
			return err
		}

		return store.Remove(cmd.Context(), watchUser, args[0])
	},
}

func init() {
	watchlistCmd.PersistentFlags().StringVar(&watchUser, "user", "", "user the watchlist belongs to (required)")
	_ = watchlistCmd.MarkPersistentFlagRequired("user")
	watchlistAddCmd.Flags().StringVar(&watchType, "type", "account", "subject type: account or deal")
	watchlistAddCmd.Flags().StringVar(&watchName, "name", "", "display name for the subject")
	watchlistAddCmd.Flags().StringVar(&watchNote, "note", "", "optional note")
	watchlistCmd.AddCommand(watchlistListCmd, watchlistAddCmd, watchlistRemoveCmd)
	rootCmd.AddCommand(watchlistCmd)
}
