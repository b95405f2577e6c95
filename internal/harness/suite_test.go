package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindScenarios_Filter(t *testing.T) {
	files, err := FindScenarios("testdata/scenarios", "sign_*")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "sign_in_out.yaml", filepath.Base(files[0]))
}

func TestFindScenarios_InvalidFilter(t *testing.T) {
	_, err := FindScenarios("testdata/scenarios", "[")
	assert.Error(t, err)
}

func TestFindScenarios_MissingDir(t *testing.T) {
	_, err := FindScenarios(filepath.Join(t.TempDir(), "nope"), "")
	assert.Error(t, err)
}

func TestRunSuite_Testdata(t *testing.T) {
	suite, err := RunSuite("testdata/scenarios", "")
	require.NoError(t, err)
	assert.Equal(t, 3, suite.Total)
	assert.Equal(t, 3, suite.Passed)
	assert.Zero(t, suite.Failed)
	assert.Empty(t, suite.Failures)
}

func TestRunSuite_CountsFailures(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("name: [oops"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "failing.yml"), []byte(`
name: failing
description: "expects the wrong count"
steps:
  - dispatch: counter/increment
assertions:
  - type: final_state
    expect: { counter: { count: 2 } }
`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	suite, err := RunSuite(dir, "")
	require.NoError(t, err)
	assert.Equal(t, 2, suite.Total)
	assert.Equal(t, 0, suite.Passed)
	assert.Equal(t, 2, suite.Failed)
	require.Len(t, suite.Failures, 2)
	assert.Equal(t, "broken.yaml", filepath.Base(suite.Failures[0].Path))
	assert.Equal(t, "failing", suite.Failures[1].Name)
}
