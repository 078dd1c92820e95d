package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"balancegame-web/models"
)

var ErrIncompleteSession = errors.New("session needs both a user and a token")

// Authorizer receives the bearer token for outgoing requests.
type Authorizer interface {
	SetBearerToken(token string)
	ClearBearerToken()
}

// State is a point-in-time copy of the session.
type State struct {
	User     models.User
	Token    string
	LoggedIn bool
}

type Listener func(State)

// Store holds the signed-in user and token, mirrors them to Storage and
// keeps the Authorizer's header in step.
type Store struct {
	storage Storage
	auth    Authorizer

	mu    sync.RWMutex
	user  models.User
	token string

	listenersMu sync.Mutex
	listeners   map[int]Listener
	nextID      int
}

func NewStore(storage Storage, auth Authorizer) *Store {
	return &Store{
		storage:   storage,
		auth:      auth,
		listeners: make(map[int]Listener),
	}
}

// Init restores a previously persisted session. Both keys must be
// present; a user value that is not a JSON object resets everything.
func (s *Store) Init() {
	token, hasToken := s.storage.Get(TokenKey)
	raw, hasUser := s.storage.Get(UserKey)
	if !hasToken || !hasUser || token == "" || raw == "" {
		return
	}

	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil || user == nil {
		if err == nil {
			err = errors.New("stored user is null")
		}
		log.Printf("Failed to restore session: %v", err)
		if err := s.Logout(); err != nil {
			log.Printf("Failed to clear session after restore error: %v", err)
		}
		return
	}

	s.mu.Lock()
	s.user = user
	s.token = token
	s.mu.Unlock()

	s.auth.SetBearerToken(token)
	s.notify()
}

func (s *Store) Login(user models.User, token string) error {
	if user == nil || token == "" {
		return ErrIncompleteSession
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}

	s.mu.Lock()
	s.user = user.Clone()
	s.token = token
	s.mu.Unlock()

	s.auth.SetBearerToken(token)
	defer s.notify()

	if err := s.storage.Set(TokenKey, token); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}
	if err := s.storage.Set(UserKey, string(raw)); err != nil {
		return fmt.Errorf("failed to persist user: %w", err)
	}
	return nil
}

func (s *Store) Logout() error {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.mu.Unlock()

	s.auth.ClearBearerToken()
	defer s.notify()

	return errors.Join(
		wrapIfErr("failed to remove token", s.storage.Remove(TokenKey)),
		wrapIfErr("failed to remove user", s.storage.Remove(UserKey)),
	)
}

// UpdateUser shallow-merges partial into the current user and persists
// the result. With nobody signed in the result is just partial.
func (s *Store) UpdateUser(partial models.User) error {
	s.mu.Lock()
	if s.user == nil {
		log.Printf("Updating user while signed out; stored user will hold only %d field(s)", len(partial))
	}
	s.user = s.user.Merge(partial)
	raw, err := json.Marshal(s.user)
	s.mu.Unlock()

	defer s.notify()

	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	if err := s.storage.Set(UserKey, string(raw)); err != nil {
		return fmt.Errorf("failed to persist user: %w", err)
	}
	return nil
}

func (s *Store) IsLoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.token != ""
}

func (s *Store) User() models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.Clone()
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{
		User:     s.user.Clone(),
		Token:    s.token,
		LoggedIn: s.user != nil && s.token != "",
	}
}

// Subscribe registers fn to run after every change. The returned func
// removes it again.
func (s *Store) Subscribe(fn Listener) func() {
	s.listenersMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.listenersMu.Unlock()

	return func() {
		s.listenersMu.Lock()
		delete(s.listeners, id)
		s.listenersMu.Unlock()
	}
}

func (s *Store) notify() {
	state := s.Snapshot()

	s.listenersMu.Lock()
	fns := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.listenersMu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}

func wrapIfErr(msg string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}
