package service

import (
	"context"
	"sync"
	"time"

	"github.com/wellness2k25/wellness-go/internal/crypto"
	"github.com/wellness2k25/wellness-go/internal/model"
	"github.com/wellness2k25/wellness-go/internal/repository"
)

// memoryUsers is an in-memory UserStore.
type memoryUsers struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]model.User
	err    error

	hashErr  error
	rehashes int
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byID: make(map[int64]model.User)}
}

func (m *memoryUsers) Create(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for _, u := range m.byID {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	m.nextID++
	user.ID = m.nextID
	m.byID[user.ID] = *user
	return nil
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.byID {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *memoryUsers) GetByID(_ context.Context, id int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &u, nil
}

func (m *memoryUsers) List(_ context.Context) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	users := make([]model.User, 0, len(m.byID))
	for id := int64(1); id <= m.nextID; id++ {
		if u, ok := m.byID[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

func (m *memoryUsers) UpdateRole(_ context.Context, id int64, role model.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	u, ok := m.byID[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.Role = role
	m.byID[id] = u
	return nil
}

func (m *memoryUsers) UpdateAuthHash(_ context.Context, id int64, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.hashErr != nil {
		return m.hashErr
	}
	u, ok := m.byID[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.AuthHash = hash
	m.byID[id] = u
	m.rehashes++
	return nil
}

type recordingRevoker struct {
	ids   []string
	until []time.Time
}

func (r *recordingRevoker) Revoke(_ context.Context, id string, until time.Time) error {
	r.ids = append(r.ids, id)
	r.until = append(r.until, until)
	return nil
}

func testHasher() *crypto.Hasher {
	return crypto.NewHasher(crypto.HashParams{Memory: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
}

func testTokens() *crypto.TokenIssuer {
	return crypto.NewTokenIssuer("test-secret", time.Hour)
}
