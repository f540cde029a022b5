package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jacoelho/jpc/internal/batch"
	"github.com/jacoelho/jpc/internal/config"
	"github.com/jacoelho/jpc/internal/exit"
	"github.com/jacoelho/jpc/internal/logging"
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Parse(args)
	if err != nil {
		result := exit.Errorf("Error: %v\n\n%s\n", err, config.Usage())
		if errors.Is(err, config.ErrHelp) {
			result = exit.Success(config.Usage() + "\n")
		}
		result.Print(stdout, stderr)
		return result.ExitCode
	}

	logger := logging.New(stderr, logging.WithDebug(cfg.Debug))

	summary, err := batch.Run(*cfg, logger)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if err := summary.Write(stdout, cfg.Format); err != nil {
		fmt.Fprintf(stderr, "Error: failed to write report: %v\n", err)
		return 1
	}

	if summary.HasErrors() {
		return 1
	}

	return 0
}
