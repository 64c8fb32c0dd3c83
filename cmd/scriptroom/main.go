// Package main provides the entry point for the scriptroom CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/ahofmann/scriptroom/internal/cli"
)

func main() {
	// Load .env if present; real environment takes precedence
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
