// Package main is the entry point for the kanjicard CLI.
package main

import (
	"os"

	"github.com/f3rmion/kanjicard/cmd/kanjicard/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
