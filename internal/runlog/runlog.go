// Package runlog carries the process-wide state of one run: the elapsed-time
// clock, structured per-jurisdiction events, and the accumulated output
// records. It is finalized exactly once, at run end or on the abort path.
package runlog

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/laredo-harvester/internal/types"
)

// JurisdictionEvents is the structured event record for one jurisdiction.
type JurisdictionEvents struct {
	Connected    string `json:"connected,omitempty"`
	Disconnected string `json:"disconnected,omitempty"`
	DataJSON     string `json:"data_json,omitempty"`
	Records      int    `json:"records,omitempty"`
	Error        string `json:"error,omitempty"`
}

// RunContext accumulates one execution's events and records.
type RunContext struct {
	mu sync.Mutex

	RunID   uuid.UUID
	started time.Time

	loginStatus  string
	logoutStatus string

	events map[string]*JurisdictionEvents
	order  []string

	combined  []types.AggregatedRecord
	finalized bool
}

// New starts the run clock.
func New() *RunContext {
	return &RunContext{
		RunID:   uuid.New(),
		started: time.Now(),
		events:  make(map[string]*JurisdictionEvents),
	}
}

// SetLoginStatus records the login outcome ("success" or "failed").
func (r *RunContext) SetLoginStatus(status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loginStatus = status
}

// SetLogoutStatus records the logout outcome.
func (r *RunContext) SetLogoutStatus(status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logoutStatus = status
}

// Jurisdiction returns the event record for name, creating it on first use.
func (r *RunContext) Jurisdiction(name string) *JurisdictionEvents {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev, ok := r.events[name]
	if !ok {
		ev = &JurisdictionEvents{}
		r.events[name] = ev
		r.order = append(r.order, name)
	}
	return ev
}

// AddRecords appends a jurisdiction pass's output to the run-wide set.
func (r *RunContext) AddRecords(records []types.AggregatedRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.combined = append(r.combined, records...)
}

// Combined returns all records accumulated so far, across jurisdictions.
func (r *RunContext) Combined() []types.AggregatedRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.combined
}

// Elapsed is the wall-clock time since run start.
func (r *RunContext) Elapsed() time.Duration {
	return time.Since(r.started)
}

type flowLog struct {
	RunID        string                         `json:"run_id"`
	LoginStatus  string                         `json:"login_status,omitempty"`
	Counties     map[string]*JurisdictionEvents `json:"counties"`
	Logout       string                         `json:"logout,omitempty"`
	TimeTakenSec float64                        `json:"time_taken_sec"`
}

// Finalize serializes the event log to path. It writes at most once; later
// calls are no-ops, so the normal-exit and abort paths can both call it
// without double-writing.
func (r *RunContext) Finalize(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finalized {
		return nil
	}
	r.finalized = true

	log := flowLog{
		RunID:        r.RunID.String(),
		LoginStatus:  r.loginStatus,
		Counties:     r.events,
		Logout:       r.logoutStatus,
		TimeTakenSec: float64(time.Since(r.started).Milliseconds()) / 1000.0,
	}
	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize flow log: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write flow log %s: %w", path, err)
	}
	return nil
}
