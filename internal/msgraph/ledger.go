package msgraph

import (
	"encoding/json"
	"fmt"

	"github.com/Tiliavir/timeprojec/internal/storage"
)

// LedgerKey is the storage key of the import ledger.
const LedgerKey = "outlook-imported"

// LedgerEntry is what one calendar event has contributed and where it went.
type LedgerEntry struct {
	Seconds int64 `json:"seconds"`
	// ProjectID is empty for entries written before the target was recorded.
	ProjectID string `json:"projectId,omitempty"`
}

// Ledger remembers how many seconds each calendar event has contributed,
// and to which project, so a re-sync only applies the difference.
type Ledger struct {
	kv      storage.KV
	applied map[string]LedgerEntry
}

// LoadLedger reads the ledger from kv. A missing entry is an empty ledger.
// The older layout mapping event ids to bare seconds is still accepted.
func LoadLedger(kv storage.KV) (*Ledger, error) {
	l := &Ledger{kv: kv, applied: map[string]LedgerEntry{}}
	raw, ok, err := kv.Get(LedgerKey)
	if err != nil {
		return nil, fmt.Errorf("reading import ledger: %w", err)
	}
	if !ok {
		return l, nil
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("%w: import ledger: %v", storage.ErrCorrupt, err)
	}
	for id, msg := range entries {
		var e LedgerEntry
		if err := json.Unmarshal(msg, &e.Seconds); err != nil {
			if err := json.Unmarshal(msg, &e); err != nil {
				return nil, fmt.Errorf("%w: import ledger entry %s: %v", storage.ErrCorrupt, id, err)
			}
		}
		l.applied[id] = e
	}
	return l, nil
}

// Applied returns what was credited for eventID.
func (l *Ledger) Applied(eventID string) (LedgerEntry, bool) {
	e, ok := l.applied[eventID]
	return e, ok
}

// Record sets the seconds credited to projectID for eventID.
func (l *Ledger) Record(eventID, projectID string, seconds int64) {
	l.applied[eventID] = LedgerEntry{Seconds: seconds, ProjectID: projectID}
}

// Forget drops eventID.
func (l *Ledger) Forget(eventID string) {
	delete(l.applied, eventID)
}

// Len returns the number of tracked events.
func (l *Ledger) Len() int { return len(l.applied) }

// Save writes the ledger back.
func (l *Ledger) Save() error {
	data, err := json.Marshal(l.applied)
	if err != nil {
		return fmt.Errorf("encoding import ledger: %w", err)
	}
	if err := l.kv.Set(LedgerKey, string(data)); err != nil {
		return fmt.Errorf("saving import ledger: %w", err)
	}
	return nil
}
