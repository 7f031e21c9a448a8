package main

import (
	"os"

	"github.com/clubstack/crm-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
