package remote

import (
	"context"
	"maps"
	"sync"

	"github.com/etnz/budget"
	"github.com/etnz/budget/metrics"
)

// Memory is a RemoteStore in memory. It is safe for concurrent use and backs the document
// server in tests and single node deployments.
type Memory struct {
	mu   sync.RWMutex
	docs map[string]Patch
}

// NewMemory returns an empty store.
func NewMemory() *Memory { return &Memory{docs: make(map[string]Patch)} }

func (m *Memory) Get(ctx context.Context, user string) (*budget.Document, error) {
	p, err := m.GetPatch(ctx, user)
	if err != nil {
		return nil, err
	}
	return decode(p)
}

func (m *Memory) MergeWrite(ctx context.Context, user string, doc *budget.Document, fields []string) error {
	p, err := patchOf(doc, fields)
	if err != nil {
		return err
	}
	return m.Patch(ctx, user, p)
}

// GetPatch returns the raw fields stored for the user, or budget.ErrNotFound.
func (m *Memory) GetPatch(ctx context.Context, user string) (Patch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.docs[user]
	if !ok {
		return nil, budget.ErrNotFound
	}
	return maps.Clone(p), nil
}

// Patch replaces the fields present in p, creating the document if needed.
func (m *Memory) Patch(ctx context.Context, user string, p Patch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.docs[user]
	if !ok {
		cur = make(Patch, len(p))
		m.docs[user] = cur
	}
	maps.Copy(cur, p)
	metrics.ServerDocuments.Set(float64(len(m.docs)))
	return nil
}

// Delete drops the user's document.
func (m *Memory) Delete(ctx context.Context, user string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, user)
	metrics.ServerDocuments.Set(float64(len(m.docs)))
	return nil
}
