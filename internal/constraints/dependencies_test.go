package constraints

import (
	"bytes"
	"encoding/json"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

type goListPackage struct {
	ImportPath string
	Imports    []string
}

const modulePrefix = "github.com/jacoelho/jpc/internal/"

var corePackages = map[string]struct{}{
	modulePrefix + "cursor": {},
	modulePrefix + "stack":  {},
	modulePrefix + "filter": {},
	modulePrefix + "path":   {},
}

func TestCorePackagesDoNotImportAmbientPackages(t *testing.T) {
	t.Parallel()

	ambient := []string{"config", "logging", "manifest", "report", "batch", "compat", "exit"}

	var violations []string
	for _, pkg := range goList(t, "./internal/...") {
		if _, ok := corePackages[pkg.ImportPath]; !ok {
			continue
		}
		for _, imp := range pkg.Imports {
			for _, name := range ambient {
				if imp == modulePrefix+name {
					violations = append(violations, pkg.ImportPath+" imports "+imp)
				}
			}
		}
	}

	if len(violations) > 0 {
		t.Fatalf("found forbidden core->ambient imports:\n%s", strings.Join(violations, "\n"))
	}
}

func TestCorePackagesAvoidSideEffectImports(t *testing.T) {
	t.Parallel()

	forbidden := map[string]struct{}{
		"os":                         {},
		"log":                        {},
		"log/slog":                   {},
		"github.com/sirupsen/logrus": {},
		"math/rand":                  {},
		"math/rand/v2":               {},
	}

	var violations []string
	for _, pkg := range goList(t, "./internal/...") {
		if _, ok := corePackages[pkg.ImportPath]; !ok {
			continue
		}
		for _, imp := range pkg.Imports {
			if _, banned := forbidden[imp]; banned {
				violations = append(violations, pkg.ImportPath+" imports forbidden package "+imp)
			}
		}
	}

	if len(violations) > 0 {
		t.Fatalf("found forbidden imports in core packages:\n%s", strings.Join(violations, "\n"))
	}
}

func goList(t *testing.T, patterns ...string) []goListPackage {
	t.Helper()

	args := append([]string{"list", "-json"}, patterns...)
	cmd := exec.Command("go", args...)
	cmd.Dir = repoRoot(t)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		t.Fatalf("go list failed: %v\nstderr:\n%s", err, stderr.String())
	}

	decoder := json.NewDecoder(bytes.NewReader(stdout.Bytes()))
	var packages []goListPackage
	for decoder.More() {
		var pkg goListPackage
		if err := decoder.Decode(&pkg); err != nil {
			t.Fatalf("decode go list json: %v", err)
		}
		packages = append(packages, pkg)
	}

	return packages
}

func repoRoot(t *testing.T) string {
	t.Helper()

	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("runtime.Caller failed")
	}

	return filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
}
