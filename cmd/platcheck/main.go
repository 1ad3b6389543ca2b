// Package main provides the platcheck CLI for hardware platform validation.
package main

import (
	"errors"
	"os"
)

// Exit codes: 0 all validated components passed (skips allowed), 1 at least
// one component failed, 2 fatal error before or during the run.
func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errValidationFailed) {
			os.Exit(1)
		}
		os.Exit(2)
	}
}
