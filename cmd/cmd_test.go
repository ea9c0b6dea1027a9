package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/fleetops/core/admission"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestEstimateCommand(t *testing.T) {
	out, err := execute(t, "estimate", "340")
	require.NoError(t, err)
	var b admission.HoursBreakdown
	require.NoError(t, json.Unmarshal([]byte(out), &b))
	assert.InDelta(t, 7.5, b.Total, 1e-9)

	_, err = execute(t, "estimate", "far")
	assert.Error(t, err)
	_, err = execute(t, "estimate", "Inf")
	assert.Error(t, err)
}

func TestAdmitCommand(t *testing.T) {
	draft := filepath.Join(t.TempDir(), "draft.yaml")
	require.NoError(t, os.WriteFile(draft, []byte(`driver_id: d1
truck_id: t1
pickup_time: 2025-03-11T08:00:00Z
dropoff_time: 2025-03-11T14:00:00Z
distance_km: 340
departure_city: Casablanca
arrival_city: Marrakech
`), 0o644))

	out, err := execute(t, "admit", "--snapshot", "../core/fleet/testdata/fleet.yaml", "--draft", draft, "--refuel", "")
	require.NoError(t, err)
	var dec admission.Decision
	require.NoError(t, json.Unmarshal([]byte(out), &dec))
	assert.Equal(t, admission.OutcomeAdmitted, dec.Outcome)
	assert.NotNil(t, dec.Fuel)

	_, err = execute(t, "admit", "--snapshot", "../core/fleet/testdata/fleet.yaml", "--draft", draft, "--refuel", "maybe")
	assert.Error(t, err)
}
