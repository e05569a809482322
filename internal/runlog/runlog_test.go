package runlog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/laredo-harvester/internal/types"
)

func TestRunContext_EventsAccumulate(t *testing.T) {
	r := New()
	r.SetLoginStatus("success")
	r.Jurisdiction("Adams County").Connected = "success"
	r.Jurisdiction("Adams County").DataJSON = "saved"
	r.Jurisdiction("Jefferson County").Connected = "failed"

	adams := r.Jurisdiction("Adams County")
	assert.Equal(t, "success", adams.Connected)
	assert.Equal(t, "saved", adams.DataJSON)
	assert.Equal(t, "failed", r.Jurisdiction("Jefferson County").Connected)
}

func TestRunContext_AddRecords(t *testing.T) {
	r := New()
	r.AddRecords([]types.AggregatedRecord{{Base: types.RawDocumentRecord{ID: "a-1"}}})
	r.AddRecords([]types.AggregatedRecord{{Base: types.RawDocumentRecord{ID: "b-1"}}})
	require.Len(t, r.Combined(), 2)
}

func TestRunContext_FinalizeWritesOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flow.json")

	r := New()
	r.SetLoginStatus("success")
	r.Jurisdiction("Adams County").Connected = "success"
	require.NoError(t, r.Finalize(path))

	first, err := os.ReadFile(path)
	require.NoError(t, err)

	var log struct {
		LoginStatus  string                         `json:"login_status"`
		Counties     map[string]*JurisdictionEvents `json:"counties"`
		TimeTakenSec float64                        `json:"time_taken_sec"`
	}
	require.NoError(t, json.Unmarshal(first, &log))
	assert.Equal(t, "success", log.LoginStatus)
	assert.Contains(t, log.Counties, "Adams County")
	assert.GreaterOrEqual(t, log.TimeTakenSec, 0.0)

	// A later event must not reach disk: finalize is single-shot.
	r.Jurisdiction("Late County").Connected = "success"
	require.NoError(t, r.Finalize(path))
	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRunContext_SummaryListsJurisdictions(t *testing.T) {
	r := New()
	r.Jurisdiction("Adams County").Connected = "success"
	r.Jurisdiction("Adams County").Records = 3

	summary := r.Summary()
	assert.Contains(t, summary, "Adams County")
	assert.Contains(t, summary, "success")
}

func TestErrorSink_Append(t *testing.T) {
	path := filepath.Join(t.TempDir(), "errors.log")
	sink := NewErrorSink(path)
	sink.Append("first failure")
	sink.Append("second failure")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "first failure")
	assert.Contains(t, string(data), "second failure")
}
