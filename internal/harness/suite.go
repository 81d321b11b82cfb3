package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ScenarioNotFoundError is returned when a scenario path doesn't exist.
type ScenarioNotFoundError struct {
	Path string
}

// Error implements the error interface.
func (e *ScenarioNotFoundError) Error() string {
	return fmt.Sprintf("scenario path %q does not exist", e.Path)
}

// SuiteResult summarizes a run over many scenario files.
type SuiteResult struct {
	Total    int               `json:"total"`
	Passed   int               `json:"passed"`
	Failed   int               `json:"failed"`
	Failures []ScenarioFailure `json:"failures,omitempty"`
}

// ScenarioFailure is one failed scenario in a suite.
type ScenarioFailure struct {
	Path   string   `json:"path"`
	Name   string   `json:"name,omitempty"`
	Errors []string `json:"errors"`
}

// Pass reports whether every scenario passed.
func (r *SuiteResult) Pass() bool {
	return r.Failed == 0
}

// FindScenarios returns the scenario files at path: the file itself, or
// every .yaml/.yml file directly inside a directory, sorted by name.
func FindScenarios(path string) ([]string, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &ScenarioNotFoundError{Path: path}
	}
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, filepath.Join(path, e.Name()))
		}
	}
	slices.Sort(files)
	return files, nil
}

// RunSuite loads and runs every scenario found at path. A scenario that
// fails to load or run counts as a failure; RunSuite itself only errors when
// path cannot be read.
func RunSuite(path string, opts ...Option) (*SuiteResult, error) {
	files, err := FindScenarios(path)
	if err != nil {
		return nil, err
	}

	out := &SuiteResult{}
	for _, file := range files {
		out.Total++

		scenario, err := LoadScenario(file)
		if err != nil {
			out.Failed++
			out.Failures = append(out.Failures, ScenarioFailure{Path: file, Errors: []string{err.Error()}})
			continue
		}

		result, err := Run(scenario, opts...)
		if err != nil {
			out.Failed++
			out.Failures = append(out.Failures, ScenarioFailure{Path: file, Name: scenario.Name, Errors: []string{err.Error()}})
			continue
		}
		if !result.Pass {
			out.Failed++
			out.Failures = append(out.Failures, ScenarioFailure{Path: file, Name: scenario.Name, Errors: result.Errors})
			continue
		}
		out.Passed++
	}
	return out, nil
}
