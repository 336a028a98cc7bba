// Package mock provides shared fixtures for container tests.
package mock

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/centraunit/ioc"
)

// Component is a constructed instance stamped with its construction order.
type Component struct {
	ID  string
	Seq int64
}

// Recorder records construction and teardown events in the order they
// happen, across goroutines.
type Recorder struct {
	mu     sync.Mutex
	events []string
	seq    atomic.Int64
}

// Record appends an event and returns its sequence number, starting at 1.
func (r *Recorder) Record(event string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return r.seq.Add(1)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

// IndexOf returns the position of event, or -1.
func (r *Recorder) IndexOf(event string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.events {
		if e == event {
			return i
		}
	}
	return -1
}

// Builder returns a builder recording "build:<id>" and returning a new
// *Component.
func (r *Recorder) Builder(id string) ioc.Builder {
	return func() (any, error) {
		return &Component{ID: id, Seq: r.Record("build:" + id)}, nil
	}
}

// Hook returns an initializer or destructor recording name.
func (r *Recorder) Hook(name string) func() error {
	return func() error {
		r.Record(name)
		return nil
	}
}

// Counter counts builder invocations.
type Counter struct {
	n atomic.Int64
}

// Builder returns a builder that sleeps for delay, to widen race windows,
// then returns a new *Component.
func (c *Counter) Builder(id string, delay time.Duration) ioc.Builder {
	return func() (any, error) {
		n := c.n.Add(1)
		if delay > 0 {
			time.Sleep(delay)
		}
		return &Component{ID: id, Seq: n}, nil
	}
}

// Count returns the number of builder invocations.
func (c *Counter) Count() int64 {
	return c.n.Load()
}

// ErrSimulated is returned by failing fixtures.
var ErrSimulated = errors.New("simulated failure")

// Database is a connection-like singleton used by dependant fixtures.
type Database interface {
	Query(q string) (string, error)
	IsConnected() bool
	Close() error
}

// MockDB is a Database that tracks its connection state.
type MockDB struct {
	mu        sync.Mutex
	connected bool
	DSN       string
}

// NewMockDB returns a connected MockDB.
func NewMockDB(dsn string) *MockDB {
	return &MockDB{connected: true, DSN: dsn}
}

func (m *MockDB) Query(q string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.connected {
		return "", errors.New("database is closed")
	}
	return fmt.Sprintf("%s: %s", m.DSN, q), nil
}

func (m *MockDB) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

func (m *MockDB) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected = false
	return nil
}

// MockCache reads through to a Database resolved from the container.
type MockCache struct {
	DB Database
}

func (m *MockCache) Get(key string) (string, error) {
	return m.DB.Query("get " + key)
}

// CacheBuilder returns a builder that resolves dbID from c.
func CacheBuilder(c *ioc.Container, dbID string) ioc.Builder {
	return func() (any, error) {
		db, err := ioc.Get[Database](c, dbID)
		if err != nil {
			return nil, err
		}
		return &MockCache{DB: db}, nil
	}
}

// FailingBuilder returns a builder that always fails with ErrSimulated.
func FailingBuilder() ioc.Builder {
	return func() (any, error) {
		return nil, ErrSimulated
	}
}
