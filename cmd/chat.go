package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/govlens/govchat/internal/assistant"
	"github.com/govlens/govchat/internal/history"
	"github.com/govlens/govchat/internal/logging"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session in the terminal",
	Long:  `Opens a terminal REPL against the governance backend. The session is saved to conversation history; type "exit" or press Ctrl-C to leave.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		log, err := logging.New(verbose)
		if err != nil {
			return err
		}
		defer log.Sync()

		store, closeStore, err := newHistoryStore(cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		engine := newEngine(newBackendClient(cfg), log)

		fmt.Println("govchat — ask about tables, quality, PII, compliance, or pipelines. Type \"exit\" to leave.")

		conv := &history.Conversation{
			ID:        uuid.New().String(),
			CreatedAt: time.Now().UTC(),
		}
		var rctx assistant.Context

		prompt := promptui.Prompt{Label: "you"}
		for {
			input, err := prompt.Run()
			if err != nil {
				if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
					fmt.Println("bye!")
					return nil
				}
				return fmt.Errorf("reading input: %w", err)
			}
			if input == "exit" || input == "quit" {
				fmt.Println("bye!")
				return nil
			}

			resp := engine.Route(cmd.Context(), input, &rctx)
			fmt.Printf("\n%s\n\n", resp.Markdown)

			if conv.Title == "" {
				conv.Title = input
			}
			now := time.Now().UTC()
			conv.Messages = append(conv.Messages,
				history.Message{ID: uuid.New().String(), Role: history.RoleUser, Content: input, Timestamp: now},
				history.Message{ID: uuid.New().String(), Role: history.RoleAssistant, Content: resp.Markdown, Timestamp: now},
			)
			if err := store.Save(context.Background(), conv); err != nil {
				log.Warn("saving conversation failed", zap.Error(err))
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
