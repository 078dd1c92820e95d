package session

import (
	"sync"

	"github.com/gorilla/sessions"
)

// Persisted keys
const (
	TokenKey = "token"
	UserKey  = "user"
)

// Storage is the durable string key-value store the session persists to.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string) error
}

// MemoryStorage keeps values in process memory.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (m *MemoryStorage) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *MemoryStorage) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStorage) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// CookieStorage stores values in a gorilla session. Changes only reach
// the browser once the caller saves the session.
type CookieStorage struct {
	session *sessions.Session
}

func NewCookieStorage(s *sessions.Session) *CookieStorage {
	return &CookieStorage{session: s}
}

func (c *CookieStorage) Get(key string) (string, bool) {
	v, ok := c.session.Values[key].(string)
	return v, ok
}

func (c *CookieStorage) Set(key, value string) error {
	c.session.Values[key] = value
	return nil
}

func (c *CookieStorage) Remove(key string) error {
	delete(c.session.Values, key)
	return nil
}
