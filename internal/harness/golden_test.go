package harness

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ducks/internal/action"
)

func TestRunWithGolden_Testdata(t *testing.T) {
	files, err := FindScenarios("testdata/scenarios", "")
	require.NoError(t, err)

	for _, f := range files {
		name := strings.TrimSuffix(filepath.Base(f), filepath.Ext(f))
		t.Run(name, func(t *testing.T) {
			scenario, err := LoadScenario(f)
			require.NoError(t, err)

			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, result.Errors)
		})
	}
}

func TestSnapshot_Canonical(t *testing.T) {
	result := NewResult()
	result.Session = "s"
	result.AddInputTrace("x", 1, "bad", result.State)
	result.AddDispatchTrace(1, action.SignOut{}, result.State)

	got, err := Snapshot("snap", result)
	require.NoError(t, err)
	assert.Equal(t,
		`{"final_state":{"counter":{"count":0},"user":{"isLogged":false,"userName":""}},`+
			`"scenario_name":"snap","session":"s","trace":[`+
			`{"error":"bad","num":1,"text":"x","type":"input"},`+
			`{"kind":"users/signOut","seq":1,"state":{"counter":{"count":0},"user":{"isLogged":false,"userName":""}},"type":"dispatch"}]}`,
		string(got))
}
