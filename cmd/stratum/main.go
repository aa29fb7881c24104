package main

import (
	"os"

	"stratum/cmd/stratum/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
