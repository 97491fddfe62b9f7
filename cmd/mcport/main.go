// Package main is the entry point for the mcport CLI.
package main

import (
	"fmt"
	"os"

	"github.com/mcport/mcport/cmd/mcport/commands"
	"github.com/mcport/mcport/internal/errors"
)

func main() {
	err := commands.Execute()
	if err == nil {
		return
	}

	var exitErr *errors.ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(errors.ExitSystem)
	}

	if exitErr.Err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", exitErr.Err)
	}
	if exitErr.Suggestion != "" {
		fmt.Fprintf(os.Stderr, "\n%s\n", exitErr.Suggestion)
	}
	os.Exit(exitErr.Code)
}
