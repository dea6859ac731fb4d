package audit

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func logPath(t *testing.T, dir string) string {
	t.Helper()
	return filepath.Join(dir, fmt.Sprintf("audit-%s.jsonl", time.Now().Format("2006-01-02")))
}

func TestFileLoggerWritesChain(t *testing.T) {
	dir := t.TempDir()

	l, err := NewFileLogger(dir)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		err := l.Log(&Event{
			Username:     "alice",
			Action:       ActionCreate,
			ResourceType: ResourceDevice,
			ResourceID:   fmt.Sprintf("dev-%d", i),
			Status:       StatusSuccess,
		})
		if err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}
	if l.EventCount() != 3 {
		t.Errorf("Expected 3 events, got %d", l.EventCount())
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	verified, err := VerifyFile(logPath(t, dir))
	if err != nil {
		t.Fatalf("VerifyFile failed: %v", err)
	}
	if verified != 3 {
		t.Errorf("Expected 3 verified entries, got %d", verified)
	}
}

func TestFileLoggerResumesChain(t *testing.T) {
	dir := t.TempDir()

	l, err := NewFileLogger(dir)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	l.Log(&Event{Action: ActionCreate, ResourceType: ResourceUser, Status: StatusSuccess})
	l.Close()

	// Reopen and append; the chain must continue unbroken.
	l, err = NewFileLogger(dir)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	if l.EventCount() != 1 {
		t.Errorf("Expected resumed count 1, got %d", l.EventCount())
	}
	l.Log(&Event{Action: ActionUpdate, ResourceType: ResourceUser, Status: StatusSuccess})
	l.Close()

	verified, err := VerifyFile(logPath(t, dir))
	if err != nil {
		t.Fatalf("VerifyFile failed: %v", err)
	}
	if verified != 2 {
		t.Errorf("Expected 2 verified entries, got %d", verified)
	}
}

func TestVerifyFileDetectsTampering(t *testing.T) {
	dir := t.TempDir()

	l, err := NewFileLogger(dir)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	l.Log(&Event{Username: "alice", Action: ActionCreate, ResourceType: ResourcePolicy, Status: StatusSuccess})
	l.Log(&Event{Username: "alice", Action: ActionUpdate, ResourceType: ResourcePolicy, Status: StatusSuccess})
	l.Close()

	path := logPath(t, dir)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Reading log: %v", err)
	}
	tampered := strings.Replace(string(data), "alice", "mallory", 1)
	if err := os.WriteFile(path, []byte(tampered), 0644); err != nil {
		t.Fatalf("Writing tampered log: %v", err)
	}

	verified, err := VerifyFile(path)
	if err == nil {
		t.Fatal("Expected verification failure on tampered log")
	}
	if verified != 0 {
		t.Errorf("Expected tampering detected at the first entry, got %d verified", verified)
	}
}

func TestVerifyFileDetectsDroppedEntry(t *testing.T) {
	dir := t.TempDir()

	l, err := NewFileLogger(dir)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		l.Log(&Event{Action: ActionAssess, ResourceType: ResourceAssessment, Status: StatusSuccess})
	}
	l.Close()

	// Drop the middle entry.
	path := logPath(t, dir)
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Opening log: %v", err)
	}
	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	f.Close()
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d", len(lines))
	}
	rewritten := lines[0] + "\n" + lines[2] + "\n"
	if err := os.WriteFile(path, []byte(rewritten), 0644); err != nil {
		t.Fatalf("Writing truncated log: %v", err)
	}

	if _, err := VerifyFile(path); err == nil {
		t.Fatal("Expected verification failure on dropped entry")
	}
}
