// Package main is the layerlint command.
package main

import (
	"os"

	"github.com/leapstack-labs/layerlint/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
