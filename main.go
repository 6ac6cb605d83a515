package main

import (
	"os"

	"github.com/govlens/govchat/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
