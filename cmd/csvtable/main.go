// Package main provides the csvtable CLI.
package main

import (
	"github.com/joho/godotenv"
	"github.com/mesh-intelligence/csvtable/internal/cli"
)

func main() {
	// A .env file in the working directory supplies CSVTABLE_* settings.
	// Variables already set in the environment win.
	_ = godotenv.Load()

	cli.Execute()
}
