package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// AdminStatus is the administrative state of an infrastructure entity.
type AdminStatus string

const (
	AdminStatusUnknown      AdminStatus = "Unknown"
	AdminStatusOperational  AdminStatus = "Operational"
	AdminStatusInternalUse  AdminStatus = "InternalUse"
	AdminStatusOutOfService AdminStatus = "OutOfService"
	AdminStatusPlanned      AdminStatus = "Planned"
	AdminStatusDeleted      AdminStatus = "Deleted"
)

var adminStatuses = []AdminStatus{
	AdminStatusUnknown,
	AdminStatusOperational,
	AdminStatusInternalUse,
	AdminStatusOutOfService,
	AdminStatusPlanned,
	AdminStatusDeleted,
}

// ParseAdminStatus matches case-insensitively.
func ParseAdminStatus(raw string) (AdminStatus, error) {
	for _, s := range adminStatuses {
		if strings.EqualFold(string(s), strings.TrimSpace(raw)) {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown admin status '%s'", raw)
}

// Status is the dynamic state of an infrastructure entity.
type Status string

const (
	StatusUnknown      Status = "Unknown"
	StatusAvailable    Status = "Available"
	StatusReserved     Status = "Reserved"
	StatusCharging     Status = "Charging"
	StatusOutOfService Status = "OutOfService"
	StatusOffline      Status = "Offline"
)

var statuses = []Status{
	StatusUnknown,
	StatusAvailable,
	StatusReserved,
	StatusCharging,
	StatusOutOfService,
	StatusOffline,
}

// ParseStatus matches case-insensitively.
func ParseStatus(raw string) (Status, error) {
	for _, s := range statuses {
		if strings.EqualFold(string(s), strings.TrimSpace(raw)) {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown status '%s'", raw)
}

// Timestamped pairs a value with the time it became effective.
type Timestamped[T any] struct {
	Timestamp time.Time
	Value     T
}

// DefaultHistorySize bounds status schedules when no size is configured.
const DefaultHistorySize = 50

// StatusSchedule keeps a newest-first bounded history of values.
type StatusSchedule[T comparable] struct {
	maxSize int
	entries []Timestamped[T]
}

// NewStatusSchedule returns a schedule seeded with an initial value.
func NewStatusSchedule[T comparable](maxSize int, initial T, at time.Time) *StatusSchedule[T] {
	if maxSize <= 0 {
		maxSize = DefaultHistorySize
	}
	return &StatusSchedule[T]{
		maxSize: maxSize,
		entries: []Timestamped[T]{{Timestamp: at.Truncate(time.Millisecond), Value: initial}},
	}
}

// Current returns the newest entry.
func (s *StatusSchedule[T]) Current() Timestamped[T] {
	return s.entries[0]
}

// Set records a new value; identical consecutive values are not duplicated.
func (s *StatusSchedule[T]) Set(value T, at time.Time) (old Timestamped[T], changed bool) {
	old = s.entries[0]
	if old.Value == value {
		return old, false
	}
	s.Insert(Timestamped[T]{Timestamp: at, Value: value})
	return old, true
}

// Insert merges a timestamped value into the history keeping newest-first order.
// Timestamps are kept at millisecond precision; a write at an existing timestamp replaces
// that entry.
func (s *StatusSchedule[T]) Insert(entry Timestamped[T]) {
	entry.Timestamp = entry.Timestamp.Truncate(time.Millisecond)
	at := sort.Search(len(s.entries), func(i int) bool {
		return !s.entries[i].Timestamp.After(entry.Timestamp)
	})
	if at < len(s.entries) && s.entries[at].Timestamp.Equal(entry.Timestamp) {
		s.entries[at] = entry
		return
	}
	s.entries = append(s.entries, Timestamped[T]{})
	copy(s.entries[at+1:], s.entries[at:])
	s.entries[at] = entry
	if len(s.entries) > s.maxSize {
		s.entries = s.entries[:s.maxSize]
	}
}

// History returns up to n newest entries; n <= 0 returns all.
func (s *StatusSchedule[T]) History(n int) []Timestamped[T] {
	if n <= 0 || n > len(s.entries) {
		n = len(s.entries)
	}
	out := make([]Timestamped[T], n)
	copy(out, s.entries[:n])
	return out
}
