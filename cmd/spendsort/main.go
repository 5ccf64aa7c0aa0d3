// Package main is the entry point for the spendsort CLI.
package main

import (
	"github.com/joho/godotenv"

	"github.com/crimson-sun/spendsort/internal/cmd"
)

func main() {
	// A missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()

	cmd.Execute()
}
