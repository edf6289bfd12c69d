package main

import (
	"os"

	"github.com/merrydance/logistics/cmd/networkctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
