// Package main is the entry point for seller-stats.
package main

import (
	"os"

	"github.com/wondersell/seller-stats/cmd/seller-stats/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
