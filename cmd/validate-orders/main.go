package main

import (
	"fmt"
	"os"
)

// CLI-приложение для офлайн-валидации пакетов заказов.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "validation: %v\n", err)
		os.Exit(1)
	}
}
