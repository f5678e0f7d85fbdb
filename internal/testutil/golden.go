// Package testutil provides helpers for the conformance scenario
// suite under testdata/scenarios.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Expect describes what a scenario's execution should produce.
type Expect struct {
	ExitCode       int      `yaml:"exitCode"`
	Stdout         string   `yaml:"stdout"`
	StderrContains []string `yaml:"stderrContains"`
}

// Scenario is one conformance case: a program plus its expectations,
// loaded from a scenario.yaml next to the program source.
type Scenario struct {
	Name    string `yaml:"-"`
	Dir     string `yaml:"-"`
	Program string `yaml:"program"`
	Clock   string `yaml:"clock"`
	Expect  Expect `yaml:"expect"`
}

// LoadScenario reads and decodes one scenario directory. Unknown
// manifest fields are rejected so typos fail loudly.
func LoadScenario(dir string) (*Scenario, error) {
	manifest := filepath.Join(dir, "scenario.yaml")
	f, err := os.Open(manifest)
	if err != nil {
		return nil, fmt.Errorf("opening manifest: %w", err)
	}
	defer f.Close()

	var sc Scenario
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", manifest, err)
	}

	if sc.Program == "" {
		sc.Program = "program.ice"
	}
	sc.Name = filepath.Base(dir)
	sc.Dir = dir
	return &sc, nil
}

// Source reads the scenario's program text.
func (sc *Scenario) Source() (string, error) {
	data, err := os.ReadFile(filepath.Join(sc.Dir, sc.Program))
	if err != nil {
		return "", fmt.Errorf("reading program: %w", err)
	}
	return string(data), nil
}

// ListScenarios returns the scenario directories under root, sorted
// by name.
func ListScenarios(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading scenario root: %w", err)
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, filepath.Join(root, e.Name()))
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}
