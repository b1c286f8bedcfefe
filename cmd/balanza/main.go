package main

import (
	"os"

	"github.com/acertijo-dev/balanza/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
