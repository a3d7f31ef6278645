package main

import (
	"os"

	"github.com/noora-ekramy/accounting-demo/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
