package session

import (
	"context"
	"sort"
	"sync"

	"agrimarket/internal/model"
)

type memoryStore struct {
	mu        sync.RWMutex
	users     map[string]model.User
	wishlists map[string]map[string]struct{}
	drafts    map[string]Draft
}

// NewMemoryStore keeps everything in process memory.
func NewMemoryStore() Store {
	return &memoryStore{
		users:     make(map[string]model.User),
		wishlists: make(map[string]map[string]struct{}),
		drafts:    make(map[string]Draft),
	}
}

func (m *memoryStore) SaveUser(ctx context.Context, sessionID string, u model.User) error {
	if sessionID == "" {
		return ErrEmptyKey
	}
	m.mu.Lock()
	m.users[sessionID] = u
	m.mu.Unlock()
	return nil
}

func (m *memoryStore) User(ctx context.Context, sessionID string) (model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[sessionID]
	if !ok {
		return model.User{}, ErrNoSession
	}
	return u, nil
}

func (m *memoryStore) ClearUser(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	delete(m.users, sessionID)
	m.mu.Unlock()
	return nil
}

func (m *memoryStore) Wishlist(ctx context.Context, userID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	set := m.wishlists[wishlistKey(userID)]
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

func (m *memoryStore) InWishlist(ctx context.Context, userID, cropID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.wishlists[wishlistKey(userID)][cropID]
	return ok, nil
}

func (m *memoryStore) ToggleWishlist(ctx context.Context, userID, cropID string) (bool, error) {
	if userID == "" || cropID == "" {
		return false, ErrEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	key := wishlistKey(userID)
	set, ok := m.wishlists[key]
	if !ok {
		set = make(map[string]struct{})
		m.wishlists[key] = set
	}
	if _, present := set[cropID]; present {
		delete(set, cropID)
		return false, nil
	}
	set[cropID] = struct{}{}
	return true, nil
}

func (m *memoryStore) SaveDraft(ctx context.Context, sessionID string, d Draft) error {
	if sessionID == "" {
		return ErrEmptyKey
	}
	m.mu.Lock()
	m.drafts[sessionID] = d
	m.mu.Unlock()
	return nil
}

func (m *memoryStore) TakeDraft(ctx context.Context, sessionID string) (Draft, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.drafts[sessionID]
	delete(m.drafts, sessionID)
	return d, ok, nil
}
