package audit

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestTrailLogAssignsDefaults(t *testing.T) {
	trail := NewTrail(10)

	event := &Event{
		Username:     "alice",
		Action:       ActionCreate,
		ResourceType: ResourceDevice,
		ResourceID:   "cam-1",
		Status:       StatusSuccess,
	}
	if err := trail.Log(event); err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	if event.ID == "" {
		t.Error("Expected an ID to be assigned")
	}
	if event.Timestamp.IsZero() {
		t.Error("Expected a timestamp to be assigned")
	}
	if trail.EventCount() != 1 {
		t.Errorf("Expected 1 event, got %d", trail.EventCount())
	}
}

func TestTrailRingOverwrite(t *testing.T) {
	trail := NewTrail(3)

	for i := 0; i < 5; i++ {
		trail.Log(&Event{
			Action:       ActionAssess,
			ResourceType: ResourceAssessment,
			ResourceID:   fmt.Sprintf("a-%d", i),
			Status:       StatusSuccess,
		})
	}

	if trail.EventCount() != 3 {
		t.Fatalf("Expected ring capped at 3 events, got %d", trail.EventCount())
	}

	events := trail.Events(nil)
	if len(events) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(events))
	}
	// Oldest surviving entry is a-2.
	if events[0].ResourceID != "a-2" {
		t.Errorf("Expected oldest a-2, got %s", events[0].ResourceID)
	}
	if events[2].ResourceID != "a-4" {
		t.Errorf("Expected newest a-4, got %s", events[2].ResourceID)
	}
}

func TestTrailRecent(t *testing.T) {
	trail := NewTrail(10)
	for i := 0; i < 4; i++ {
		trail.Log(&Event{
			Action:       ActionUpdate,
			ResourceType: ResourcePolicy,
			ResourceID:   fmt.Sprintf("p-%d", i),
			Status:       StatusSuccess,
		})
	}

	recent := trail.Recent(2)
	if len(recent) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(recent))
	}
	if recent[0].ResourceID != "p-3" || recent[1].ResourceID != "p-2" {
		t.Errorf("Expected newest first, got %s then %s", recent[0].ResourceID, recent[1].ResourceID)
	}

	if got := trail.Recent(100); len(got) != 4 {
		t.Errorf("Expected all 4 events when asking past the count, got %d", len(got))
	}
}

func TestTrailFilter(t *testing.T) {
	trail := NewTrail(20)
	trail.Log(&Event{Username: "alice", Action: ActionCreate, ResourceType: ResourceDevice, Status: StatusSuccess})
	trail.Log(&Event{Username: "bob", Action: ActionAuth, ResourceType: ResourceToken, Status: StatusFailure})
	trail.Log(&Event{Username: "alice", Action: ActionSave, ResourceType: ResourceOntology, Status: StatusSuccess})

	tests := []struct {
		name   string
		filter *Filter
		want   int
	}{
		{"nil matches all", nil, 3},
		{"by username", &Filter{Username: "alice"}, 2},
		{"by action", &Filter{Action: ActionAuth}, 1},
		{"by resource", &Filter{ResourceType: ResourceOntology}, 1},
		{"by status", &Filter{Status: StatusFailure}, 1},
		{"no match", &Filter{Username: "mallory"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(trail.Events(tt.filter)); got != tt.want {
				t.Errorf("Expected %d events, got %d", tt.want, got)
			}
		})
	}
}

func TestTrailTimeFilter(t *testing.T) {
	trail := NewTrail(10)
	old := time.Now().Add(-time.Hour)
	trail.Log(&Event{Timestamp: old, Action: ActionCreate, ResourceType: ResourceUser, Status: StatusSuccess})
	trail.Log(&Event{Action: ActionCreate, ResourceType: ResourceUser, Status: StatusSuccess})

	cutoff := time.Now().Add(-time.Minute)
	got := trail.Events(&Filter{StartTime: &cutoff})
	if len(got) != 1 {
		t.Errorf("Expected 1 event after cutoff, got %d", len(got))
	}
	got = trail.Events(&Filter{EndTime: &cutoff})
	if len(got) != 1 {
		t.Errorf("Expected 1 event before cutoff, got %d", len(got))
	}
}

func TestTeeFansOut(t *testing.T) {
	a := NewTrail(10)
	b := NewTrail(10)
	tee := Tee{a, b}

	if err := tee.Log(&Event{Action: ActionCreate, ResourceType: ResourceDevice, Status: StatusSuccess}); err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	if a.EventCount() != 1 || b.EventCount() != 1 {
		t.Errorf("Expected both loggers to receive the event, got %d and %d", a.EventCount(), b.EventCount())
	}
	if tee.EventCount() != 1 {
		t.Errorf("Expected tee count 1, got %d", tee.EventCount())
	}
}

func TestEventString(t *testing.T) {
	e := &Event{
		Timestamp:    time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		UserID:       "u-1",
		Username:     "alice",
		Action:       ActionResolve,
		ResourceType: ResourceAssessment,
		ResourceID:   "a-9",
		Status:       StatusSuccess,
	}
	s := e.String()
	for _, want := range []string{"alice", "resolve", "assessment", "a-9", "success"} {
		if !strings.Contains(s, want) {
			t.Errorf("Expected %q in %q", want, s)
		}
	}
}
