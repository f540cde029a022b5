// Package batch compiles every path named on the command line or in a
// manifest and collects the outcomes into a report.
package batch

import (
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/jacoelho/jpc/internal/compat"
	"github.com/jacoelho/jpc/internal/config"
	"github.com/jacoelho/jpc/internal/manifest"
	"github.com/jacoelho/jpc/internal/path"
	"github.com/jacoelho/jpc/internal/report"
)

type job struct {
	name  string
	text  string
	entry *manifest.Entry
}

// compile binds the manifest entry's own predicates, or shared for
// positional paths.
func (j job) compile(compiler *path.Compiler, shared []path.Predicate) (*path.CompiledPath, error) {
	predicates := shared
	if j.entry != nil {
		var err error
		if predicates, err = j.entry.Bind(); err != nil {
			return nil, err
		}
	}
	return compiler.Compile(j.text, predicates...)
}

// Run compiles the configured paths sequentially. Compilation failures are
// recorded in the summary; the returned error is reserved for inputs that
// prevent the run, such as an unreadable manifest or invalid -predicate.
func Run(cfg config.Config, logger logrus.FieldLogger) (*report.Summary, error) {
	jobs, err := collect(cfg)
	if err != nil {
		return nil, err
	}

	shared, err := manifest.CompilePredicates(cfg.Predicates)
	if err != nil {
		return nil, fmt.Errorf("invalid -predicate: %w", err)
	}

	compiler := path.NewCompiler()
	summary := report.New()
	logger.WithFields(logrus.Fields{"run_id": summary.RunID, "paths": len(jobs)}).Debug("starting run")

	for _, j := range jobs {
		compiled, err := j.compile(compiler, shared)
		result := report.NewResult(j.name, j.text, compiled, err)
		entry := logger.WithFields(logrus.Fields{"name": j.name, "path": j.text})

		if err != nil {
			entry.WithError(err).Warn("compile failed")
			summary.Add(result)
			continue
		}

		if cfg.RFC9535 {
			check := compat.Check(compiled)
			result.RFC9535 = &check
		}

		entry.WithFields(logrus.Fields{
			"tokens":   compiled.Len(),
			"definite": compiled.IsDefinite(),
		}).Debug("compiled")
		summary.Add(result)
	}

	return summary, nil
}

// collect lists positional paths first, then manifest entries. Positional
// paths all bind the -predicate list from its start.
func collect(cfg config.Config) ([]job, error) {
	jobs := make([]job, 0, len(cfg.Paths))
	for i, text := range cfg.Paths {
		jobs = append(jobs, job{name: "arg-" + strconv.Itoa(i+1), text: text})
	}

	if cfg.ManifestFile == "" {
		return jobs, nil
	}

	m, err := manifest.Load(cfg.ManifestFile)
	if err != nil {
		return nil, err
	}
	for i := range m.Paths {
		entry := &m.Paths[i]
		jobs = append(jobs, job{name: entry.Name, text: entry.Path, entry: entry})
	}

	return jobs, nil
}
