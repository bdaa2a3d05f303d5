package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/intelliview/intelliview-cli/cmd"
)

func main() {
	// Optional; endpoints and provider config usually live in .env during
	// development.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
