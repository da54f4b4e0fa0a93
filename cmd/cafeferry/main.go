// Package main provides the cafeferry command-line interface.
package main

import (
	"errors"
	"os"

	"github.com/squareone-research/cafeferry/internal/cli"
	"github.com/squareone-research/cafeferry/internal/ferry"
)

func main() {
	if err := cli.Execute(); err != nil {
		// Fatal data problems get their own exit code so callers can
		// tell bad input from a broken pipeline.
		var verr *ferry.ValidationError
		if errors.As(err, &verr) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
