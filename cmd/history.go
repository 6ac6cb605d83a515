package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/govlens/govchat/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect and manage stored conversations",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored conversations, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, closeStore, err := newHistoryStore(cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		summaries, err := store.List(context.Background())
		if err != nil {
			return fmt.Errorf("listing conversations: %w", err)
		}
		if len(summaries) == 0 {
			fmt.Println("No conversations stored yet.")
			return nil
		}

		for _, s := range summaries {
			fmt.Printf("%s  %-40s  %d message(s)  %s\n",
				s.ID, s.Title, s.MessageCount, s.UpdatedAt.Local().Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <conversation-id>",
	Short: "Print a stored conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, closeStore, err := newHistoryStore(cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		conv, err := store.Load(context.Background(), args[0])
		if errors.Is(err, history.ErrNotFound) {
			return fmt.Errorf("no conversation with id %s", args[0])
		}
		if err != nil {
			return fmt.Errorf("loading conversation: %w", err)
		}

		fmt.Printf("# %s (%s)\n\n", conv.Title, conv.CreatedAt.Local().Format("2006-01-02 15:04"))
		for _, m := range conv.Messages {
			fmt.Printf("**%s:**\n%s\n\n", m.Role, m.Content)
		}
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear <conversation-id>",
	Short: "Delete a stored conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, closeStore, err := newHistoryStore(cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		if err := store.Delete(context.Background(), args[0]); err != nil {
			return fmt.Errorf("deleting conversation: %w", err)
		}
		fmt.Printf("Deleted %s.\n", args[0])
		return nil
	},
}

func init() {
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}
