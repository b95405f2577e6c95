package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SuiteResult summarizes a directory of scenarios.
type SuiteResult struct {
	Total    int               `json:"total"`
	Passed   int               `json:"passed"`
	Failed   int               `json:"failed"`
	Failures []ScenarioFailure `json:"failures,omitempty"`
}

// ScenarioFailure is one failed scenario of a suite.
type ScenarioFailure struct {
	Path   string   `json:"path"`
	Name   string   `json:"name,omitempty"`
	Errors []string `json:"errors"`
}

// FindScenarios returns the .yaml/.yml files under dir, sorted by path.
// A non-empty filter is a glob matched against the file name without
// extension.
func FindScenarios(dir, filter string) ([]string, error) {
	if filter != "" {
		if _, err := filepath.Match(filter, ""); err != nil {
			return nil, fmt.Errorf("invalid filter pattern: %w", err)
		}
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(path), ext)
			if matched, _ := filepath.Match(filter, name); !matched {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("find scenarios in %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// RunSuite loads and runs every scenario under dir that matches filter.
// Load and execution errors count as failures.
func RunSuite(dir, filter string, opts ...Option) (*SuiteResult, error) {
	files, err := FindScenarios(dir, filter)
	if err != nil {
		return nil, err
	}

	suite := &SuiteResult{Failures: []ScenarioFailure{}}
	for _, path := range files {
		suite.Total++

		scenario, err := LoadScenario(path)
		if err != nil {
			suite.Failed++
			suite.Failures = append(suite.Failures, ScenarioFailure{
				Path:   path,
				Errors: []string{err.Error()},
			})
			continue
		}

		result, err := Run(scenario, opts...)
		if err != nil {
			suite.Failed++
			suite.Failures = append(suite.Failures, ScenarioFailure{
				Path:   path,
				Name:   scenario.Name,
				Errors: []string{err.Error()},
			})
			continue
		}

		if result.Pass {
			suite.Passed++
		} else {
			suite.Failed++
			suite.Failures = append(suite.Failures, ScenarioFailure{
				Path:   path,
				Name:   scenario.Name,
				Errors: result.Errors,
			})
		}
	}
	return suite, nil
}
