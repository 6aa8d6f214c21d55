package main

import (
	"fmt"
	"os"
)

// CLI для миграций схемы Postgres (встроенные goose-миграции).
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
}
