package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/govlens/govchat/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize govchat configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the governance backend connection and generates a .govchat.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(cfgFile); err == nil && !initForce {
			return fmt.Errorf("%s already exists; pass --force to overwrite", cfgFile)
		}

		cfg, err := config.RunWizard()
		if err != nil {
			return err
		}
		if err := cfg.Save(cfgFile); err != nil {
			return err
		}

		fmt.Printf("Wrote %s. Start the server with `govchat serve` or chat directly with `govchat chat`.\n", cfgFile)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}
