// Package main provides the brackish CLI.
package main

import (
	"os"

	"github.com/brackishdb/brackish/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
