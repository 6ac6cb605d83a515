package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "govchat",
	Short: "Chat assistant for your data governance platform",
	Long: `Govchat answers natural language questions about your data estate:
catalog search, table schemas, data quality, PII exposure, compliance
regulations, and pipeline health. It routes questions against the
governance backend's REST API and keeps a bounded conversation history.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".govchat.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
