package main

import (
	"os"

	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/adapters/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
