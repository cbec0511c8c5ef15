// Package audit keeps the append-only mutation record. Entries are never
// edited or removed; storage order is insertion order.
package audit

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/secopshq/shiftboard/pkg/models"
	"github.com/secopshq/shiftboard/pkg/store"
)

// LogKey is the blob key of the persisted audit array. Like the schedule
// key, it is carried over from the original deployment's storage
// constant.
const LogKey = "secops_audit_v3"

// Entry types written by the handlers.
const (
	TypeEdit       = "EDIT"
	TypeBulkAssign = "BULK_ASSIGN"
	TypeLogin      = "LOGIN"
)

// Log is the append-only audit record.
type Log struct {
	mu      sync.Mutex
	entries []models.AuditLogEntry
	persist store.Persister
	log     *zap.Logger
	now     func() time.Time
}

// New builds a log, loading any persisted entries. now is injectable for
// tests; pass nil for the wall clock.
func New(persist store.Persister, log *zap.Logger, now func() time.Time) (*Log, error) {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	l := &Log{persist: persist, log: log, now: now}
	if persist != nil {
		raw, err := persist.Load(LogKey)
		if err != nil {
			return nil, fmt.Errorf("load audit blob: %w", err)
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &l.entries); err != nil {
				return nil, fmt.Errorf("decode audit blob: %w", err)
			}
		}
	}
	return l, nil
}

// Record stamps the entry with an id and timestamp and appends it.
// Returns the stored entry.
func (l *Log) Record(entry models.AuditLogEntry) models.AuditLogEntry {
	entry.ID = uuid.NewString()
	entry.Timestamp = l.now().Format("Jan 2, 03:04 PM")

	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
	l.persistLocked()
	return entry
}

// Entries returns a copy of the log in insertion order. Display layers
// reverse it for recency-first presentation.
func (l *Log) Entries() []models.AuditLogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.AuditLogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len reports how many entries have been recorded.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *Log) persistLocked() {
	if l.persist == nil {
		return
	}
	raw, err := json.Marshal(l.entries)
	if err != nil {
		l.log.Warn("audit blob encode failed", zap.Error(err))
		return
	}
	if err := l.persist.Save(LogKey, raw); err != nil {
		l.log.Warn("audit blob persist failed", zap.Error(err))
	}
}
