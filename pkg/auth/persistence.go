package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Persistence file names
const (
	usersFileName = "users.json"
)

// persistedUser includes the password hash for persistence
type persistedUser struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
	Role         string `json:"role"`
	CreatedAt    int64  `json:"created_at"`
}

// SaveUsers persists all users to disk
func (s *UserStore) SaveUsers(dataDir string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Create directory if needed
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	// Convert to persistable format
	users := make([]*persistedUser, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, &persistedUser{
			ID:           user.ID,
			Username:     user.Username,
			PasswordHash: user.PasswordHash,
			Role:         user.Role,
			CreatedAt:    user.CreatedAt,
		})
	}

	// Marshal to JSON
	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal users: %w", err)
	}

	// Write to file with restrictive permissions (contains password hashes)
	filePath := filepath.Join(dataDir, usersFileName)
	if err := os.WriteFile(filePath, data, 0600); err != nil {
		return fmt.Errorf("failed to write users file: %w", err)
	}

	return nil
}

// LoadUsers loads users from disk
func (s *UserStore) LoadUsers(dataDir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	filePath := filepath.Join(dataDir, usersFileName)

	// Check if file exists
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		// No file yet, nothing to load
		return nil
	}

	// Read file
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read users file: %w", err)
	}

	// Unmarshal
	var users []*persistedUser
	if err := json.Unmarshal(data, &users); err != nil {
		return fmt.Errorf("failed to unmarshal users: %w", err)
	}

	// Load into store
	for _, pu := range users {
		user := &User{
			ID:           pu.ID,
			Username:     pu.Username,
			PasswordHash: pu.PasswordHash,
			Role:         pu.Role,
			CreatedAt:    pu.CreatedAt,
		}
		s.users[user.ID] = user
		s.usernameMap[user.Username] = user.ID
	}

	return nil
}
