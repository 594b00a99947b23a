package cascade

import (
	"maps"
	"os"
	"sync"
)

// EnvSink is the environment table the key/value pipeline mirrors into.
type EnvSink interface {
	LookupEnv(key string) (string, bool)
	Setenv(key, value string) error
}

// ProcessEnv writes through to the real process environment.
// Writes are serialised; reads go straight to os.LookupEnv.
type ProcessEnv struct {
	mu sync.Mutex
}

// NewProcessEnv returns a sink backed by os.Setenv.
func NewProcessEnv() *ProcessEnv {
	return &ProcessEnv{}
}

func (p *ProcessEnv) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

func (p *ProcessEnv) Setenv(key, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return os.Setenv(key, value)
}

// MapEnv is an in-memory sink for tests and for hosts that propagate the
// namespace explicitly instead of touching process state.
type MapEnv struct {
	mu   sync.RWMutex
	vars map[string]string
}

// NewMapEnv returns a MapEnv seeded with a copy of initial.
func NewMapEnv(initial map[string]string) *MapEnv {
	vars := make(map[string]string, len(initial))
	maps.Copy(vars, initial)
	return &MapEnv{vars: vars}
}

func (m *MapEnv) LookupEnv(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.vars[key]
	return v, ok
}

func (m *MapEnv) Setenv(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vars[key] = value
	return nil
}

// Snapshot returns a copy of the current table.
func (m *MapEnv) Snapshot() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.vars)
}
