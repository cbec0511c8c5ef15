// Package store owns the schedule state: a single logical value mapping
// month keys to per-member, per-day rosters. Every mutation is followed
// by a best-effort persist; a persistence failure never fails the
// mutation itself.
package store

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/secopshq/shiftboard/pkg/models"
	"github.com/secopshq/shiftboard/pkg/timeutil"
)

// ScheduleKey is the blob key of the persisted schedule store. The value
// is the original deployment's storage constant and is part of the data
// format.
const ScheduleKey = "secops_schedule_v3"

// Persister is the durability collaborator. Save errors are swallowed
// at the call site; Load errors surface only at startup.
type Persister interface {
	Save(key string, data []byte) error
	Load(key string) ([]byte, error)
}

// Store is the single owner of AllSchedules. All access goes through the
// mutex; the original runs single-threaded, an HTTP port does not.
type Store struct {
	mu      sync.Mutex
	all     models.AllSchedules
	demo    Filler
	blank   Filler
	persist Persister
	log     *zap.Logger
	now     func() time.Time
	version uint64
}

// New builds a store, loading any previously persisted state. now is
// injectable for tests; pass nil for the wall clock.
func New(demo, blank Filler, persist Persister, log *zap.Logger, now func() time.Time) (*Store, error) {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{
		all:     make(models.AllSchedules),
		demo:    demo,
		blank:   blank,
		persist: persist,
		log:     log,
		now:     now,
	}
	if persist != nil {
		raw, err := persist.Load(ScheduleKey)
		if err != nil {
			return nil, fmt.Errorf("load schedule blob: %w", err)
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &s.all); err != nil {
				return nil, fmt.Errorf("decode schedule blob: %w", err)
			}
		}
	}
	return s, nil
}

// Version increments on every mutation. Derived-view caches key on it.
func (s *Store) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// GetOrCreateMonth returns a copy of the month schedule for
// (year, month0), synthesizing and storing one on first access. The
// real current month gets the demo filler, every other month starts
// blank. Idempotent: no intervening write means repeated calls return
// equal schedules. The copy detaches the caller from the store's
// internal maps, so reads stay safe against concurrent writes.
func (s *Store) GetOrCreateMonth(year, month0 int) models.MonthSchedule {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyMonth(s.getOrCreateLocked(year, month0))
}

func (s *Store) getOrCreateLocked(year, month0 int) models.MonthSchedule {
	key := timeutil.MonthKey(year, month0)
	if m, ok := s.all[key]; ok {
		return m
	}

	var m models.MonthSchedule
	real := s.now()
	if year == real.Year() && month0 == int(real.Month())-1 {
		m = s.demo.Fill(year, month0)
	} else {
		m = s.blank.Fill(year, month0)
	}
	s.all[key] = m
	s.version++
	s.persistLocked()
	return m
}

// SetCell replaces exactly one (member, day) cell. Writes that carry a
// shift alongside an Off or Paid Leave modifier are normalized to a nil
// shift so the stored invariant holds.
func (s *Store) SetCell(year, month0 int, member string, day int, entry models.ScheduleEntry) error {
	if !entry.Modifier.Valid() {
		return fmt.Errorf("invalid status %q", entry.Modifier)
	}
	if day < 1 || day > timeutil.DaysInMonth(year, month0) {
		return fmt.Errorf("day %d out of range for %s", day, timeutil.MonthKey(year, month0))
	}
	if entry.Modifier.ClearsShift() {
		entry.Shift = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	month := s.getOrCreateLocked(year, month0)
	row, ok := month[member]
	if !ok {
		row = make(map[int]models.ScheduleEntry)
		month[member] = row
	}
	row[day] = entry
	s.version++
	s.persistLocked()
	return nil
}

// ClearCell resets one cell to Off with no shift, keeping the member's
// team attribution.
func (s *Store) ClearCell(year, month0 int, member string, day int, team string) error {
	return s.SetCell(year, month0, member, day, models.ScheduleEntry{
		Modifier: models.StatusOff,
		Team:     team,
	})
}

// Snapshot deep-copies the full store value. Bulk mutations are computed
// against a snapshot and published in one step.
func (s *Store) Snapshot() models.AllSchedules {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyAll(s.all)
}

// Publish atomically replaces the whole store value. Intermediate batch
// states are never observable.
func (s *Store) Publish(all models.AllSchedules) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.all = all
	s.version++
	s.persistLocked()
}

// MemberHours totals the worked hours in a member's month, skipping Off
// and Paid Leave days. Overnight shifts count their full span.
func MemberHours(month models.MonthSchedule, member string) float64 {
	total := 0.0
	for _, entry := range month[member] {
		if entry.Shift == nil || entry.Modifier.ClearsShift() {
			continue
		}
		start := entry.Shift.StartH
		end := entry.Shift.EndH
		if end < start {
			end += 24
		}
		total += end - start
	}
	return total
}

// persistLocked attempts durability for the current state. Failure
// degrades to in-memory only for this write.
func (s *Store) persistLocked() {
	if s.persist == nil {
		return
	}
	raw, err := json.Marshal(s.all)
	if err != nil {
		s.log.Warn("schedule blob encode failed", zap.Error(err))
		return
	}
	if err := s.persist.Save(ScheduleKey, raw); err != nil {
		s.log.Warn("schedule blob persist failed", zap.Error(err))
	}
}

func copyAll(all models.AllSchedules) models.AllSchedules {
	out := make(models.AllSchedules, len(all))
	for key, month := range all {
		out[key] = copyMonth(month)
	}
	return out
}

func copyMonth(month models.MonthSchedule) models.MonthSchedule {
	out := make(models.MonthSchedule, len(month))
	for member, row := range month {
		r := make(map[int]models.ScheduleEntry, len(row))
		for day, entry := range row {
			if entry.Shift != nil {
				shift := *entry.Shift
				entry.Shift = &shift
			}
			r[day] = entry
		}
		out[member] = r
	}
	return out
}
