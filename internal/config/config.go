package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jacoelho/jpc/internal/report"
)

var (
	ErrNoArguments         = errors.New("no arguments provided")
	ErrHelp                = errors.New("help requested")
	ErrNoPaths             = errors.New("no paths specified, pass paths as arguments or use -file")
	ErrEmptyPredicate      = errors.New("predicate cannot be empty")
	ErrInvalidReportFormat = errors.New("-format must be one of: text, json, yaml")
)

// Config defines CLI options for the path compiler command.
type Config struct {
	Paths        []string
	ManifestFile string
	// Predicates are filter criteria bound to the placeholders of Paths.
	Predicates []string
	Format     report.Format
	RFC9535    bool
	Debug      bool
}

// predicatesFlag implements flag.Value for repeated -predicate flags.
type predicatesFlag []string

func (p *predicatesFlag) String() string {
	return strings.Join(*p, ",")
}

func (p *predicatesFlag) Set(value string) error {
	if strings.TrimSpace(value) == "" {
		return ErrEmptyPredicate
	}
	*p = append(*p, value)
	return nil
}

// Parse parses and validates CLI arguments. args[0] is the program name.
func Parse(args []string) (*Config, error) {
	if len(args) == 0 {
		return nil, ErrNoArguments
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	var (
		file       = fs.String("file", "", "Path to a YAML manifest of named paths")
		format     = fs.String("format", "text", "Report format: text, json or yaml")
		rfc9535    = fs.Bool("rfc9535", false, "Check whether compiled paths are valid RFC 9535 JSONPath")
		debug      = fs.Bool("debug", false, "Enable debug logging")
		predicates predicatesFlag
	)
	fs.Var(&predicates, "predicate", "Filter criteria bound to '?' placeholders, in order (can be used multiple times)")

	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, ErrHelp
		}
		return nil, fmt.Errorf("parse arguments: %w", err)
	}

	paths := fs.Args()
	if len(paths) == 0 && *file == "" {
		return nil, ErrNoPaths
	}

	if *file != "" {
		if _, err := os.Stat(*file); err != nil {
			return nil, fmt.Errorf("manifest file not accessible: %w", err)
		}
	}

	parsedFormat, err := parseReportFormat(*format)
	if err != nil {
		return nil, err
	}

	return &Config{
		Paths:        paths,
		ManifestFile: *file,
		Predicates:   predicates,
		Format:       parsedFormat,
		RFC9535:      *rfc9535,
		Debug:        *debug,
	}, nil
}

func parseReportFormat(input string) (report.Format, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "", string(report.FormatText):
		return report.FormatText, nil
	case string(report.FormatJSON):
		return report.FormatJSON, nil
	case string(report.FormatYAML):
		return report.FormatYAML, nil
	default:
		return "", fmt.Errorf("%w, got: %s", ErrInvalidReportFormat, input)
	}
}

// Usage returns command usage text.
func Usage() string {
	return `jpc - compile JSONPath expressions into token chains

Usage:
  jpc [options] <path> [path ...]
  jpc [options] -file paths.yaml

Options:
  -file FILE          Path to a YAML manifest of named paths
  -predicate EXPR     Filter criteria such as "?(@.price < 10)" bound to '?'
                      placeholders in order (can be used multiple times)
  -format FORMAT      Report format: text, json or yaml (default: text)
  -rfc9535            Check whether compiled paths are valid RFC 9535 JSONPath
  -debug              Enable debug logging
  -h, -help           Show this help message

Examples:
  jpc '$.store.book[0].title'
  jpc -format json '$..author'
  jpc -predicate '?(@.price < 10)' '$.store.book[?].title'
  jpc -rfc9535 -file paths.yaml`
}
