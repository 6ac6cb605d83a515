package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/govlens/govchat/internal/assistant"
	"github.com/govlens/govchat/internal/logging"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question and print the answer",
	Long:  `Routes one question through the assistant and prints the markdown answer. Nothing is saved to history.`,
	Args:  cobra.MinimumNArgs(1),
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

		engine := newEngine(newBackendClient(cfg), log)

		var rctx assistant.Context
		resp := engine.Route(cmd.Context(), strings.Join(args, " "), &rctx)
		fmt.Println(resp.Markdown)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
