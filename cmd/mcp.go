package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/govlens/govchat/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing governance assistant tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		client := newBackendClient(cfg)
		engine := newEngine(client, nil)

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		// Stdout carries MCP protocol messages; status goes to stderr.
		fmt.Fprintf(os.Stderr, "govchat MCP server started on stdio (backend=%s)\n", cfg.BackendURL)

		srv := mcpserver.NewServer(engine, client)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
