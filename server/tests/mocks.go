package tests

import (
	"sync"
	"time"

	"github.com/Aesmazing/Boko-Hacks-2025/server/models/files"
	"github.com/Aesmazing/Boko-Hacks-2025/server/models/user"
)

// ============================================================
// User Mock Repository
// ============================================================

// MockUserRepository is an in-memory implementation of user.Repository for testing
type MockUserRepository struct {
	mu     sync.RWMutex
	users  map[int64]*user.User
	byName map[string]*user.User
	nextID int64
	// Hooks for testing specific scenarios
	CreateUserError error
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:  make(map[int64]*user.User),
		byName: make(map[string]*user.User),
		nextID: 1,
	}
}

// CreateUser creates a new user in memory
func (r *MockUserRepository) CreateUser(username, hashedPassword string) (*user.User, error) {
	if r.CreateUserError != nil {
		return nil, r.CreateUserError
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[username]; exists {
		return nil, user.ErrUserExists
	}

	u := &user.User{
		ID:        r.nextID,
		Username:  username,
		Password:  hashedPassword,
		CreatedAt: time.Now(),
	}
	r.nextID++

	r.users[u.ID] = u
	r.byName[username] = u

	return u, nil
}

// GetUserByUsername retrieves a user by username
func (r *MockUserRepository) GetUserByUsername(username string) (*user.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, exists := r.byName[username]
	return u, exists
}

// GetUserByID retrieves a user by ID
func (r *MockUserRepository) GetUserByID(id int64) (*user.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, exists := r.users[id]
	return u, exists
}

// UpdateLastLogin updates the last login time for a user
func (r *MockUserRepository) UpdateLastLogin(userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, exists := r.users[userID]; exists {
		now := time.Now()
		u.LastLoginAt = &now
	}
	return nil
}

// ============================================================
// File Mock Repository
// ============================================================

// MockFileRepository is an in-memory implementation of files.Repository for testing
type MockFileRepository struct {
	mu     sync.RWMutex
	files  map[int64]*files.StoredFile
	nextID int64
	// Hooks for testing specific scenarios
	CreateError error
}

// NewMockFileRepository creates a new MockFileRepository
func NewMockFileRepository() *MockFileRepository {
	return &MockFileRepository{
		files:  make(map[int64]*files.StoredFile),
		nextID: 1,
	}
}

// CreateStoredFile stores a file record in memory
func (r *MockFileRepository) CreateStoredFile(file *files.StoredFile) (*files.StoredFile, error) {
	if r.CreateError != nil {
		return nil, r.CreateError
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file.ID = r.nextID
	file.CreatedAt = time.Now()
	r.nextID++

	stored := *file
	r.files[file.ID] = &stored

	return file, nil
}

// GetStoredFileByID retrieves a stored file by ID
func (r *MockFileRepository) GetStoredFileByID(id int64) (*files.StoredFile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, exists := r.files[id]
	return f, exists
}

// GetStoredFilesByUserID retrieves all stored files for a user
func (r *MockFileRepository) GetStoredFilesByUserID(userID int64) ([]*files.StoredFile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*files.StoredFile
	for _, f := range r.files {
		if f.UserID == userID {
			result = append(result, f)
		}
	}
	return result, nil
}

// Count returns the number of stored records
func (r *MockFileRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.files)
}

// AddFile seeds a record directly (useful for read-endpoint tests)
func (r *MockFileRepository) AddFile(f *files.StoredFile) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if f.ID == 0 {
		f.ID = r.nextID
		r.nextID++
	} else if f.ID >= r.nextID {
		r.nextID = f.ID + 1
	}
	r.files[f.ID] = f
}
