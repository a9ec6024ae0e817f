package main

import (
	"os"

	"github.com/frontandrew/platescan/internal/cli"
)

func main() {
	if err := cli.NewRootCommand(cli.DefaultOptions()).Execute(); err != nil {
		os.Exit(1)
	}
}
