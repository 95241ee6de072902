package budget

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"slices"
	"sync"
	"time"

	"github.com/etnz/budget/metrics"
)

// DefaultCacheKey is the local cache key holding the document.
const DefaultCacheKey = "budget_data_local"

// LocalCache is a synchronous string-keyed blob store on the user's device.
type LocalCache interface {
	// Get returns the value stored at key. ok is false when there is none.
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
}

// RemoteStore is the per-user document store.
type RemoteStore interface {
	// Get returns the user's document, or ErrNotFound.
	Get(ctx context.Context, user string) (*Document, error)
	// MergeWrite writes the named top-level fields of doc. Other fields are left untouched.
	MergeWrite(ctx context.Context, user string, doc *Document, fields []string) error
}

// Merge reconciles two entry lists by id. Entries of remote come first, in their order,
// followed by the entries of local whose id is not in remote.
//
// On an id collision the remote copy wins and the local one is dropped without notice: two
// devices editing the same entry before syncing keep the remote edit.
func Merge(remote, local []Entry) []Entry {
	out := make([]Entry, 0, len(remote)+len(local))
	index := make(map[ID]int, len(remote)+len(local))
	for _, e := range remote {
		if i, exists := index[e.ID]; exists {
			out[i] = e
			continue
		}
		index[e.ID] = len(out)
		out = append(out, e)
	}
	for _, e := range local {
		if _, exists := index[e.ID]; exists {
			continue
		}
		index[e.ID] = len(out)
		out = append(out, e)
	}
	return out
}

// MergeDocuments reconciles a remote and a local document: entries are merged by id, accounts
// are unioned, bills and goals are taken from the remote document.
func MergeDocuments(remote, local *Document) *Document {
	accounts := NewCatalog(remote.Accounts...)
	accounts.Union(local.Accounts...)
	return &Document{
		Entries:     Merge(remote.Entries, local.Entries),
		Accounts:    accounts.Names(),
		Bills:       slices.Clone(remote.Bills),
		Goals:       slices.Clone(remote.Goals),
		LastUpdated: remote.LastUpdated,
	}
}

// Syncer keeps the local cache and the remote store in step with the ledger.
//
// Saves write the local cache synchronously and push to the remote store in the background.
// Remote failures are logged and dropped: the next Load heals the divergence.
type Syncer struct {
	cache  LocalCache
	key    string
	remote RemoteStore // nil when offline only
	user   string      // empty when signed out

	// Timeout bounds each remote call.
	Timeout time.Duration
	// Logger receives sync diagnostics, log.Default() if nil.
	Logger *log.Logger
	// Now is the clock used to stamp documents.
	Now func() time.Time

	pushes sync.WaitGroup
	pushMu sync.Mutex // serializes remote writes
	seq    int64      // last save sequence number, owned by the caller goroutine
	pushed int64      // last sequence written to the remote, guarded by pushMu
}

// NewSyncer returns a Syncer over the cache. remote may be nil and user empty, in which case
// only the local cache is used.
func NewSyncer(cache LocalCache, remote RemoteStore, user string) *Syncer {
	return &Syncer{
		cache:   cache,
		key:     DefaultCacheKey,
		remote:  remote,
		user:    user,
		Timeout: 15 * time.Second,
		Now:     time.Now,
	}
}

// WithKey changes the cache key.
func (s *Syncer) WithKey(key string) *Syncer {
	s.key = key
	return s
}

// User returns the signed in user, empty when signed out.
func (s *Syncer) User() string { return s.user }

// Online reports whether saves are pushed to a remote store.
func (s *Syncer) Online() bool { return s.remote != nil && s.user != "" }

func (s *Syncer) logf(format string, args ...any) {
	if s.Logger != nil {
		s.Logger.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}

// loadLocal reads the document in the local cache. A missing or unreadable cache gives an
// empty document. Accounts are always unioned with the default ones.
func (s *Syncer) loadLocal() (*Document, error) {
	doc := &Document{}
	raw, ok, err := s.cache.Get(s.key)
	if err != nil {
		return nil, fmt.Errorf("local cache: %w", err)
	}
	if ok {
		cached, err := DecodeDocument([]byte(raw))
		if err != nil {
			s.logf("local cache %q ignored: %v", s.key, err)
		} else {
			doc = cached
		}
	}
	accounts := NewCatalog(doc.Accounts...)
	accounts.Union(DefaultAccounts...)
	doc.Accounts = accounts.Names()
	return doc, nil
}

// Load returns the converged document: the local cache, merged with the remote document when a
// user is signed in and the remote has one. A merged document is saved back at once.
//
// A remote failure is logged and the local document is returned. Only local cache failures are
// returned as errors.
func (s *Syncer) Load(ctx context.Context) (*Document, error) {
	local, err := s.loadLocal()
	if err != nil {
		return nil, err
	}
	if !s.Online() {
		metrics.SyncLoads.WithLabelValues("local").Inc()
		return local, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()
	remote, err := s.remote.Get(ctx, s.user)
	switch {
	case errors.Is(err, ErrNotFound):
		metrics.RemoteFetches.WithLabelValues("not_found").Inc()
		metrics.SyncLoads.WithLabelValues("local").Inc()
		return local, nil
	case err != nil:
		metrics.RemoteFetches.WithLabelValues(metrics.Error).Inc()
		metrics.SyncLoads.WithLabelValues("local").Inc()
		s.logf("remote load for %q failed: %v", s.user, err)
		return local, nil
	}
	metrics.RemoteFetches.WithLabelValues(metrics.OK).Inc()

	merged := MergeDocuments(remote, local)
	metrics.SyncLoads.WithLabelValues("merged").Inc()
	metrics.SyncMergedEntries.Observe(float64(len(merged.Entries)))
	if err := s.Save(merged); err != nil {
		return merged, err
	}
	return merged, nil
}

// Save stamps the document, writes it to the local cache and schedules the remote push.
//
// The returned error only reports a local cache failure: the document is then not durably
// saved.
func (s *Syncer) Save(doc *Document) error {
	doc.LastUpdated = s.Now().UTC()
	b, err := json.Marshal(doc)
	if err != nil {
		metrics.CacheWrites.WithLabelValues(metrics.Error).Inc()
		return fmt.Errorf("encoding document: %w", err)
	}
	if err := s.cache.Set(s.key, string(b)); err != nil {
		metrics.CacheWrites.WithLabelValues(metrics.Error).Inc()
		return fmt.Errorf("local cache: %w", err)
	}
	metrics.CacheWrites.WithLabelValues(metrics.OK).Inc()

	if s.Online() {
		s.seq++
		s.push(s.seq, doc.Clone())
	}
	return nil
}

// push merge-writes the document in the background. Pushes are written in order and a push
// overtaken by a later one is skipped.
func (s *Syncer) push(seq int64, doc *Document) {
	s.pushes.Add(1)
	metrics.PendingPushes.Inc()
	go func() {
		defer s.pushes.Done()
		defer metrics.PendingPushes.Dec()

		s.pushMu.Lock()
		defer s.pushMu.Unlock()
		if seq <= s.pushed {
			metrics.RemotePushes.WithLabelValues("superseded").Inc()
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), s.Timeout)
		defer cancel()
		if err := s.remote.MergeWrite(ctx, s.user, doc, DocumentFields); err != nil {
			metrics.RemotePushes.WithLabelValues(metrics.Error).Inc()
			s.logf("remote save for %q failed: %v", s.user, err)
			return
		}
		s.pushed = seq
		metrics.RemotePushes.WithLabelValues(metrics.OK).Inc()
	}()
}

// Wait blocks until the scheduled remote pushes are done.
func (s *Syncer) Wait() { s.pushes.Wait() }

// Clear removes the document from the local cache.
func (s *Syncer) Clear() error {
	if err := s.cache.Delete(s.key); err != nil {
		return fmt.Errorf("local cache: %w", err)
	}
	return nil
}
