// Package cache provides the local cache backends of the budget ledger: a directory of files, a
// SQLite database and an in-memory map. All of them implement budget.LocalCache and are safe for
// concurrent use.
package cache

import (
	"fmt"
	"sync"

	"github.com/etnz/budget"
)

var (
	_ budget.LocalCache = (*Memory)(nil)
	_ budget.LocalCache = (*File)(nil)
	_ budget.LocalCache = (*SQLite)(nil)
)

// Memory is a LocalCache in memory, lost when the process ends.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory returns an empty memory cache.
func NewMemory() *Memory { return &Memory{values: make(map[string]string)} }

func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// Open returns the cache backend named by driver: "file", "sqlite" or "memory".
func Open(driver, path string) (budget.LocalCache, error) {
	switch driver {
	case "", "file":
		return NewFile(path)
	case "sqlite":
		return OpenSQLite(path)
	case "memory":
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown cache driver %q", driver)
}
