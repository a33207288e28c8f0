// Package schedevents publishes scheduler lifecycle events for observers
// outside the kernel (audit, monitoring, metrics dashboards). Admission and
// selection decisions never block on publication: schedcore records a
// decision, releases table_lock, and hands the result to a Publisher here —
// the kernel's correctness never depends on whether anyone is listening.
package schedevents

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types, named after the kernel operation that produced them rather
// than a generic "state changed" envelope.
const (
	TypeProcessAdmitted = "process.admitted"
	TypeProcessRejected = "process.rejected"
	TypeProcessKilled   = "process.killed"
	TypeProcessExited   = "process.exited"
	TypeTableTick       = "table.tick"
)

// Event is the envelope published for every kernel-observable transition.
type Event struct {
	ID        uuid.UUID       `json:"id"`
	Type      string          `json:"type"`
	PID       int             `json:"pid"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// ProcessAdmissionData is the payload for TypeProcessAdmitted/Rejected.
type ProcessAdmissionData struct {
	Policy  string `json:"policy"`
	UtilEDF int    `json:"util_edf"`
	UtilRM  int    `json:"util_rm"`
}

// ProcessKilledData is the payload for TypeProcessKilled/Exited.
type ProcessKilledData struct {
	Reason string `json:"reason"`
}

// TableTickData is the payload for TypeTableTick, published once per
// selection for the process granted that tick.
type TableTickData struct {
	Name   string `json:"name"`
	Policy string `json:"policy"`
	Tick   uint64 `json:"tick"`
}

// NewEvent marshals data into an Event envelope.
func NewEvent(eventType string, pid int, data interface{}) (Event, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return Event{}, err
	}
	return Event{
		ID:        uuid.New(),
		Type:      eventType,
		PID:       pid,
		Timestamp: time.Now(),
		Data:      payload,
	}, nil
}
