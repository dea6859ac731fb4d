package audit

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// chainedEvent is an event plus its position in the tamper-evidence chain.
// EventHash covers the serialized event with EventHash itself empty.
type chainedEvent struct {
	*Event
	PreviousHash string `json:"previous_hash"`
	EventHash    string `json:"event_hash,omitempty"`
}

// FileLogger appends events to a JSONL file, one per line, each entry
// carrying a SHA-256 hash chained to the previous entry so tampering with
// the log is detectable. Writes are synced to disk before returning.
type FileLogger struct {
	dir        string
	file       *os.File
	writer     *bufio.Writer
	lastHash   string
	eventCount int64
	mu         sync.Mutex
}

// NewFileLogger opens (or creates) today's audit log in dir and resumes
// the hash chain from its last entry.
func NewFileLogger(dir string) (*FileLogger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create audit directory: %w", err)
	}

	l := &FileLogger{dir: dir}
	path := l.currentPath()

	if err := l.resumeChain(path); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	l.file = file
	l.writer = bufio.NewWriter(file)
	return l, nil
}

func (l *FileLogger) currentPath() string {
	return filepath.Join(l.dir, fmt.Sprintf("audit-%s.jsonl", time.Now().Format("2006-01-02")))
}

// resumeChain reads an existing log to recover the last hash and count.
func (l *FileLogger) resumeChain(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry chainedEvent
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			return fmt.Errorf("corrupt audit log %s: %w", path, err)
		}
		l.lastHash = entry.EventHash
		l.eventCount++
	}
	return scanner.Err()
}

// Log appends the event to the log and syncs it to disk.
func (l *FileLogger) Log(event *Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.ID == "" {
		event.ID = uuid.New().String()
	}

	entry := &chainedEvent{Event: event, PreviousHash: l.lastHash}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	sum := sha256.Sum256(data)
	entry.EventHash = hex.EncodeToString(sum[:])

	data, err = json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	if _, err := l.writer.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write audit event: %w", err)
	}
	if err := l.writer.Flush(); err != nil {
		return fmt.Errorf("flush audit log: %w", err)
	}
	// Entries must survive a crash; sync before acknowledging.
	if err := l.file.Sync(); err != nil {
		return fmt.Errorf("sync audit log: %w", err)
	}

	l.lastHash = entry.EventHash
	l.eventCount++
	return nil
}

// EventCount returns the number of entries in the current log file.
func (l *FileLogger) EventCount() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.eventCount
}

// Close flushes and closes the log file.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var flushErr error
	if l.writer != nil {
		flushErr = l.writer.Flush()
	}
	if l.file != nil {
		if err := l.file.Close(); err != nil {
			return err
		}
	}
	return flushErr
}

// VerifyFile checks the hash chain of an audit log, returning the number
// of valid entries and an error at the first broken or reordered entry.
func VerifyFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	verified := 0
	lastHash := ""
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry chainedEvent
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			return verified, fmt.Errorf("entry %d: corrupt: %w", verified+1, err)
		}
		if entry.PreviousHash != lastHash {
			return verified, fmt.Errorf("entry %d: chain broken", verified+1)
		}

		want := entry.EventHash
		entry.EventHash = ""
		data, err := json.Marshal(&entry)
		if err != nil {
			return verified, fmt.Errorf("entry %d: %w", verified+1, err)
		}
		sum := sha256.Sum256(data)
		if hex.EncodeToString(sum[:]) != want {
			return verified, fmt.Errorf("entry %d: hash mismatch", verified+1)
		}

		lastHash = want
		verified++
	}
	if err := scanner.Err(); err != nil {
		return verified, err
	}
	return verified, nil
}
