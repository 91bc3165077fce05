package blogclient

import (
	"context"
	"encoding/json"
	"sync"

	goerrors "github.com/goliatone/go-errors"
)

// Fixed key namespace shared by Persist, Load, and Clear. Absence of the
// token key is the canonical anonymous signal.
const (
	StorageKeyToken        = "auth_token"
	StorageKeyRefreshToken = "refresh_token"
	StorageKeyUser         = "current_user"
)

// SessionStore is the single owner of persisted session state. All reads go
// through the in-memory snapshot, so concurrent readers never observe a
// half-written session even while the durable backend is mid-update.
type SessionStore struct {
	mu        sync.RWMutex
	backend   KeyValue
	session   Session
	version   uint64
	logger    Logger
	observers map[int]SessionObserver
	nextID    int
}

// NewSessionStore returns a store over the given durable backend. A nil
// backend degrades to memory-only persistence, mirroring execution contexts
// with no durable storage.
func NewSessionStore(backend KeyValue) *SessionStore {
	if backend == nil {
		backend = NewMemoryKeyValue()
	}
	return &SessionStore{
		backend:   backend,
		logger:    defLogger{},
		observers: map[int]SessionObserver{},
	}
}

func (s *SessionStore) WithLogger(logger Logger) *SessionStore {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Get returns the current in-memory snapshot. Never blocks on storage.
func (s *SessionStore) Get() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// Version increments on every mutation; pollers can use it to detect change
func (s *SessionStore) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Persist durably writes the session and swaps the in-memory snapshot in one
// step. Observers see the new snapshot before Persist returns.
func (s *SessionStore) Persist(ctx context.Context, session Session) error {
	s.mu.Lock()

	if err := s.writeBackend(ctx, session); err != nil {
		s.mu.Unlock()
		return err
	}

	s.session = session
	s.version++
	observers := s.observerList()
	s.mu.Unlock()

	notify(observers, session)
	return nil
}

// Clear removes all persisted fields and resets the snapshot to the empty
// session. Idempotent: clearing an already-empty session leaves the version
// and observers untouched, but the durable keys are deleted regardless so a
// Clear issued before Load cannot leave stale entries for a later Load to
// resurrect.
func (s *SessionStore) Clear(ctx context.Context) error {
	s.mu.Lock()

	for _, key := range []string{StorageKeyToken, StorageKeyRefreshToken, StorageKeyUser} {
		if err := s.backend.Delete(ctx, key); err != nil {
			s.mu.Unlock()
			return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to clear session storage")
		}
	}

	if s.session.IsEmpty() {
		s.mu.Unlock()
		return nil
	}

	s.session = EmptySession()
	s.version++
	observers := s.observerList()
	s.mu.Unlock()

	notify(observers, EmptySession())
	return nil
}

// Load rehydrates the snapshot from durable storage. Called once at process
// start; storage errors yield the empty session rather than failing, since a
// missing backend just means the user starts anonymous.
func (s *SessionStore) Load(ctx context.Context) error {
	session, err := s.readBackend(ctx)
	if err != nil {
		s.logger.Warn("session load failed, starting anonymous: %v", err)
		session = EmptySession()
	}

	s.mu.Lock()
	s.session = session
	s.version++
	observers := s.observerList()
	s.mu.Unlock()

	notify(observers, session)
	return nil
}

// Subscribe registers an observer for session transitions. The returned
// function removes it.
func (s *SessionStore) Subscribe(observer SessionObserver) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.observers[id] = observer

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}

func (s *SessionStore) writeBackend(ctx context.Context, session Session) error {
	if session.Token == "" {
		if err := s.backend.Delete(ctx, StorageKeyToken); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to delete session token")
		}
	} else if err := s.backend.Set(ctx, StorageKeyToken, session.Token); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to persist session token")
	}

	if session.RefreshToken == "" {
		if err := s.backend.Delete(ctx, StorageKeyRefreshToken); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to delete refresh token")
		}
	} else if err := s.backend.Set(ctx, StorageKeyRefreshToken, session.RefreshToken); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to persist refresh token")
	}

	if session.User == nil {
		if err := s.backend.Delete(ctx, StorageKeyUser); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to delete cached identity")
		}
		return nil
	}

	encoded, err := json.Marshal(session.User)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to encode cached identity")
	}

	if err := s.backend.Set(ctx, StorageKeyUser, string(encoded)); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to persist cached identity")
	}

	return nil
}

func (s *SessionStore) readBackend(ctx context.Context) (Session, error) {
	session := EmptySession()

	token, found, err := s.backend.Get(ctx, StorageKeyToken)
	if err != nil {
		return session, err
	}
	if !found {
		// No token, no session. Leftover identity entries are ignored.
		return session, nil
	}
	session.Token = token

	if refresh, found, err := s.backend.Get(ctx, StorageKeyRefreshToken); err != nil {
		return EmptySession(), err
	} else if found {
		session.RefreshToken = refresh
	}

	raw, found, err := s.backend.Get(ctx, StorageKeyUser)
	if err != nil {
		return EmptySession(), err
	}
	if found {
		user := &User{}
		if err := json.Unmarshal([]byte(raw), user); err != nil {
			return EmptySession(), goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to decode cached identity")
		}
		session.User = user
	}

	return session, nil
}

func (s *SessionStore) observerList() []SessionObserver {
	observers := make([]SessionObserver, 0, len(s.observers))
	for _, observer := range s.observers {
		observers = append(observers, observer)
	}
	return observers
}

func notify(observers []SessionObserver, session Session) {
	for _, observer := range observers {
		if observer != nil {
			observer(session)
		}
	}
}

// MemoryKeyValue is the in-process KeyValue used when no durable backing is
// available
type MemoryKeyValue struct {
	mu      sync.RWMutex
	entries map[string]string
}

func NewMemoryKeyValue() *MemoryKeyValue {
	return &MemoryKeyValue{entries: map[string]string{}}
}

func (m *MemoryKeyValue) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, found := m.entries[key]
	return value, found, nil
}

func (m *MemoryKeyValue) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}

func (m *MemoryKeyValue) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}
