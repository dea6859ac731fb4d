// Package audit records who did what to the privacy-sensitive resources:
// ontology entries, devices, risk assessments, policies and user accounts.
// Events go to an in-memory ring for the admin API and optionally to a
// hash-chained JSONL file for compliance review.
package audit

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Action classifies what was done to a resource.
type Action string

const (
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionResolve Action = "resolve"
	ActionSave    Action = "save"
	ActionAssess  Action = "assess"
	ActionAuth    Action = "auth"
)

// ResourceType names the kind of resource an event touched.
type ResourceType string

const (
	ResourceOntology   ResourceType = "ontology"
	ResourceDevice     ResourceType = "device"
	ResourceAssessment ResourceType = "assessment"
	ResourcePolicy     ResourceType = "policy"
	ResourceUser       ResourceType = "user"
	ResourceToken      ResourceType = "token"
)

// Status is the outcome of an action.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Event is a single audit entry.
type Event struct {
	ID           string         `json:"id"`
	Timestamp    time.Time      `json:"timestamp"`
	UserID       string         `json:"user_id,omitempty"`
	Username     string         `json:"username,omitempty"`
	Action       Action         `json:"action"`
	ResourceType ResourceType   `json:"resource_type"`
	ResourceID   string         `json:"resource_id,omitempty"`
	Status       Status         `json:"status"`
	ErrorMessage string         `json:"error_message,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// String renders the event for log output.
func (e *Event) String() string {
	return fmt.Sprintf("[%s] %s %s %s %s (user: %s, status: %s)",
		e.Timestamp.Format(time.RFC3339),
		e.Username,
		e.Action,
		e.ResourceType,
		e.ResourceID,
		e.UserID,
		e.Status,
	)
}

// Filter selects a subset of events. Zero-valued fields match everything.
type Filter struct {
	UserID       string
	Username     string
	Action       Action
	ResourceType ResourceType
	ResourceID   string
	Status       Status
	StartTime    *time.Time
	EndTime      *time.Time
}

func (f *Filter) matches(e *Event) bool {
	if f == nil {
		return true
	}
	if f.UserID != "" && e.UserID != f.UserID {
		return false
	}
	if f.Username != "" && e.Username != f.Username {
		return false
	}
	if f.Action != "" && e.Action != f.Action {
		return false
	}
	if f.ResourceType != "" && e.ResourceType != f.ResourceType {
		return false
	}
	if f.ResourceID != "" && e.ResourceID != f.ResourceID {
		return false
	}
	if f.Status != "" && e.Status != f.Status {
		return false
	}
	if f.StartTime != nil && e.Timestamp.Before(*f.StartTime) {
		return false
	}
	if f.EndTime != nil && e.Timestamp.After(*f.EndTime) {
		return false
	}
	return true
}

// Logger is implemented by the in-memory Trail and the FileLogger.
type Logger interface {
	Log(event *Event) error
	EventCount() int64
}

// Trail keeps the most recent events in a fixed-size ring buffer.
type Trail struct {
	events []*Event
	size   int
	index  int
	count  int
	mu     sync.RWMutex
}

// NewTrail creates a trail holding up to size events; older events are
// overwritten once the ring is full.
func NewTrail(size int) *Trail {
	return &Trail{
		events: make([]*Event, size),
		size:   size,
	}
}

// Log records an event, assigning an ID and timestamp if unset.
func (t *Trail) Log(event *Event) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.ID == "" {
		event.ID = uuid.New().String()
	}

	t.events[t.index] = event
	t.index = (t.index + 1) % t.size
	if t.count < t.size {
		t.count++
	}
	return nil
}

// Events returns the stored events matching filter, oldest first.
func (t *Trail) Events(filter *Filter) []*Event {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make([]*Event, 0, t.count)
	for i := 0; i < t.count; i++ {
		idx := (t.index - t.count + i + t.size) % t.size
		event := t.events[idx]
		if event == nil || !filter.matches(event) {
			continue
		}
		result = append(result, event)
	}
	return result
}

// Recent returns the n most recent events, newest first.
func (t *Trail) Recent(n int) []*Event {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if n > t.count {
		n = t.count
	}
	result := make([]*Event, 0, n)
	for i := 0; i < n; i++ {
		idx := (t.index - 1 - i + t.size) % t.size
		if t.events[idx] != nil {
			result = append(result, t.events[idx])
		}
	}
	return result
}

// EventCount returns how many events the ring currently holds.
func (t *Trail) EventCount() int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return int64(t.count)
}

// Tee fans an event out to several loggers, returning the first error.
type Tee []Logger

func (t Tee) Log(event *Event) error {
	var firstErr error
	for _, l := range t {
		if err := l.Log(event); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (t Tee) EventCount() int64 {
	if len(t) == 0 {
		return 0
	}
	return t[0].EventCount()
}
