package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/orderlens/backend/internal/domain"
)

// Defaults used when the config leaves them zero
const (
	defaultTTL             = 30 * time.Minute
	defaultCleanupInterval = time.Minute
)

// entry is one conversation. mu serialises turns of that conversation only.
type entry struct {
	mu        sync.Mutex
	session   domain.Session
	deleted   bool
	expiresAt atomic.Int64 // unix nanos
}

// MemoryStoreConfig holds session store configuration
type MemoryStoreConfig struct {
	// TTL is how long an idle conversation is kept.
	TTL             time.Duration
	CleanupInterval time.Duration
}

// MemoryStore is a thread-safe in-memory session repository. Each
// conversation owns an independent order; idle conversations expire.
type MemoryStore struct {
	data  map[string]*entry
	mutex sync.RWMutex
	ttl   time.Duration
	now   func() time.Time

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewMemoryStore creates a session store and starts its cleanup goroutine.
// Call Close to stop it.
func NewMemoryStore(config MemoryStoreConfig) *MemoryStore {
	ttl := config.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	interval := config.CleanupInterval
	if interval <= 0 {
		interval = defaultCleanupInterval
	}

	store := &MemoryStore{
		data: make(map[string]*entry),
		ttl:  ttl,
		now:  time.Now,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	go store.cleanupExpired(interval)

	return store
}

// Create opens a new conversation with an empty order
func (s *MemoryStore) Create(ctx context.Context) (*domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := s.now()
	e := &entry{session: domain.Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}}
	e.expiresAt.Store(now.Add(s.ttl).UnixNano())

	s.mutex.Lock()
	s.data[e.session.ID] = e
	s.mutex.Unlock()

	out := e.session
	return &out, nil
}

// Get returns a copy of the conversation
func (s *MemoryStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.deleted || s.expired(e) {
		return nil, domain.ErrSessionNotFound
	}

	out := e.session
	return &out, nil
}

// Update runs fn on a copy of the order while holding the conversation, and
// commits it only if fn succeeds. Turns of different conversations run in
// parallel.
func (s *MemoryStore) Update(ctx context.Context, id string, fn func(order *domain.OrderSlots) error) (*domain.Session, error) {
	e, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.deleted || s.expired(e) {
		return nil, domain.ErrSessionNotFound
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	order := e.session.Order
	if err := fn(&order); err != nil {
		return nil, err
	}

	now := s.now()
	e.session.Order = order
	e.session.Turns++
	e.session.UpdatedAt = now
	e.expiresAt.Store(now.Add(s.ttl).UnixNano())

	out := e.session
	return &out, nil
}

// Delete removes the conversation
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mutex.Lock()
	e, exists := s.data[id]
	delete(s.data, id)
	s.mutex.Unlock()

	if !exists {
		return domain.ErrSessionNotFound
	}

	e.mu.Lock()
	e.deleted = true
	e.mu.Unlock()
	return nil
}

// Size returns the current number of conversations (for debugging/monitoring)
func (s *MemoryStore) Size() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.data)
}

// Close stops the cleanup goroutine. The store stays usable.
func (s *MemoryStore) Close() {
	s.closeOnce.Do(func() {
		close(s.stop)
		<-s.done
	})
}

func (s *MemoryStore) lookup(id string) (*entry, error) {
	s.mutex.RLock()
	e, exists := s.data[id]
	s.mutex.RUnlock()
	if !exists {
		return nil, domain.ErrSessionNotFound
	}
	return e, nil
}

func (s *MemoryStore) expired(e *entry) bool {
	return s.now().UnixNano() > e.expiresAt.Load()
}

// cleanupExpired removes idle conversations periodically
func (s *MemoryStore) cleanupExpired(interval time.Duration) {
	defer close(s.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.evictExpired()
		}
	}
}

func (s *MemoryStore) evictExpired() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for id, e := range s.data {
		if s.expired(e) {
			delete(s.data, id)
		}
	}
}
