package api

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrDeviceExists is returned when registering a device ID twice.
	ErrDeviceExists = errors.New("device already registered")
	// ErrDeviceNotFound is returned for lookups of unregistered devices.
	ErrDeviceNotFound = errors.New("device not found")
	// ErrAssessmentNotFound is returned for lookups of unknown assessments.
	ErrAssessmentNotFound = errors.New("assessment not found")
	// ErrPolicyNotFound is returned for lookups of unknown policies.
	ErrPolicyNotFound = errors.New("policy not found")
)

// Device is a registered IoT device awaiting risk assessments.
type Device struct {
	DeviceID     string
	DeviceType   string
	Location     string
	Manufacturer string
	RegisteredAt time.Time
}

// DeviceStore is an in-memory device registry keyed by device ID.
type DeviceStore struct {
	mu      sync.RWMutex
	devices map[string]*Device
}

// NewDeviceStore creates an empty device registry.
func NewDeviceStore() *DeviceStore {
	return &DeviceStore{devices: make(map[string]*Device)}
}

// Register adds a device. Device IDs are caller-assigned and unique.
func (s *DeviceStore) Register(d *Device) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.devices[d.DeviceID]; exists {
		return ErrDeviceExists
	}
	d.RegisteredAt = time.Now()
	s.devices[d.DeviceID] = d
	return nil
}

// Get returns the device with the given ID.
func (s *DeviceStore) Get(deviceID string) (*Device, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.devices[deviceID]
	if !ok {
		return nil, ErrDeviceNotFound
	}
	return d, nil
}

// List returns all registered devices sorted by device ID.
func (s *DeviceStore) List() []*Device {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Device, 0, len(s.devices))
	for _, d := range s.devices {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DeviceID < out[j].DeviceID })
	return out
}

// Assessment is one recorded risk assessment of a device.
type Assessment struct {
	ID            string
	DeviceID      string
	RiskLevel     int
	Label         string
	Probabilities map[string]float64
	Mitigations   []string
	Resolved      bool
	AssessedAt    time.Time
	ResolvedAt    *time.Time
}

// AssessmentStore records assessments per device and supports resolving them.
type AssessmentStore struct {
	mu       sync.RWMutex
	byID     map[string]*Assessment
	byDevice map[string][]*Assessment
}

// NewAssessmentStore creates an empty assessment history.
func NewAssessmentStore() *AssessmentStore {
	return &AssessmentStore{
		byID:     make(map[string]*Assessment),
		byDevice: make(map[string][]*Assessment),
	}
}

// Record assigns the assessment an ID and appends it to the device history.
func (s *AssessmentStore) Record(a *Assessment) *Assessment {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = uuid.New().String()
	a.AssessedAt = time.Now()
	s.byID[a.ID] = a
	s.byDevice[a.DeviceID] = append(s.byDevice[a.DeviceID], a)
	return a
}

// History returns the assessments for a device, oldest first.
func (s *AssessmentStore) History(deviceID string) []*Assessment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := s.byDevice[deviceID]
	out := make([]*Assessment, len(history))
	copy(out, history)
	return out
}

// Resolve marks an assessment as resolved. Resolving twice is a no-op.
func (s *AssessmentStore) Resolve(id string) (*Assessment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byID[id]
	if !ok {
		return nil, ErrAssessmentNotFound
	}
	if !a.Resolved {
		now := time.Now()
		a.Resolved = true
		a.ResolvedAt = &now
	}
	return a, nil
}

// Policy is a stored privacy policy entry.
type Policy struct {
	ID          string
	Name        string
	Description string
	Regulations []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PolicyStore is an in-memory privacy policy registry keyed by generated ID.
type PolicyStore struct {
	mu       sync.RWMutex
	policies map[string]*Policy
}

// NewPolicyStore creates an empty policy registry.
func NewPolicyStore() *PolicyStore {
	return &PolicyStore{policies: make(map[string]*Policy)}
}

// Create stores a new policy and assigns it an ID.
func (s *PolicyStore) Create(p *Policy) *Policy {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	p.ID = uuid.New().String()
	p.CreatedAt = now
	p.UpdatedAt = now
	s.policies[p.ID] = p
	return p
}

// Get returns the policy with the given ID.
func (s *PolicyStore) Get(id string) (*Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.policies[id]
	if !ok {
		return nil, ErrPolicyNotFound
	}
	return p, nil
}

// Update replaces the mutable fields of an existing policy.
func (s *PolicyStore) Update(id, name, description string, regulations []string) (*Policy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.policies[id]
	if !ok {
		return nil, ErrPolicyNotFound
	}
	p.Name = name
	p.Description = description
	p.Regulations = regulations
	p.UpdatedAt = time.Now()
	return p, nil
}
