package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

const (
	DefaultRetentionDays = 365
	DefaultMaxEntries    = 10000
	DefaultSearchLimit   = 10
)

// Options configures a Store. Zero values fall back to the defaults above;
// a zero CacheTTL disables result caching.
type Options struct {
	RetentionDays   int
	MaxEntries      int
	MaxFaviconBytes int
	Exclusions      *Exclusions
	CacheTTL        time.Duration
	CacheSize       int
	Logger          *slog.Logger
	Now             func() time.Time
}

// Store owns the in-memory history collection. All mutations go through a
// single write lock; searches run under the read lock and so always see a
// consistent collection. Persistence happens on a background goroutine.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*Entry // keyed by address
	byID    map[string]string // id -> address
	gen     uint64            // bumped on every mutation

	opts  Options
	log   *slog.Logger
	now   func() time.Time
	cache *resultCache
	subs  subscribers

	persister Persister
	saveMu    sync.Mutex
	savedGen  uint64
	saveErr   error
	kick      chan struct{}
	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// Open loads history from p and starts background persistence. A nil
// Persister gives an in-memory store. Load failures are logged and the store
// starts empty; only invalid options produce an error.
func Open(ctx context.Context, p Persister, opts Options) (*Store, error) {
	if opts.RetentionDays <= 0 {
		opts.RetentionDays = DefaultRetentionDays
	}
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = DefaultMaxEntries
	}
	if opts.MaxFaviconBytes < 0 {
		return nil, fmt.Errorf("max favicon bytes must not be negative: %d", opts.MaxFaviconBytes)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	cache, err := newResultCache(opts.CacheSize, opts.CacheTTL)
	if err != nil {
		return nil, err
	}

	s := &Store{
		entries:   make(map[string]*Entry),
		byID:      make(map[string]string),
		opts:      opts,
		log:       opts.Logger,
		now:       opts.Now,
		cache:     cache,
		persister: p,
	}

	s.load(ctx)

	if p != nil {
		s.kick = make(chan struct{}, 1)
		s.stop = make(chan struct{})
		s.done = make(chan struct{})
		go s.saveLoop()
	}
	return s, nil
}

func (s *Store) load(ctx context.Context) {
	if s.persister == nil {
		return
	}
	loaded, err := s.persister.Load(ctx)
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		s.log.Debug("no saved history, starting empty")
		return
	case errors.Is(err, ErrDecode):
		s.log.Warn("saved history is unreadable, starting empty", "err", err)
		return
	default:
		s.log.Warn("load history failed, starting empty", "err", err)
		return
	}

	s.mu.Lock()
	for i := range loaded {
		e := loaded[i]
		if !repairLoaded(&e) {
			continue
		}
		if prev, ok := s.entries[e.Address]; ok {
			if !e.LastVisit.After(prev.LastVisit) {
				continue
			}
			delete(s.byID, prev.ID)
		}
		if _, taken := s.byID[e.ID]; taken {
			e.ID = uuid.NewString()
		}
		s.entries[e.Address] = &e
		s.byID[e.ID] = e.Address
	}
	removed := s.cleanupLocked(s.now())
	if removed > 0 {
		s.gen++
	}
	n := len(s.entries)
	s.mu.Unlock()

	s.log.Debug("history loaded", "entries", n, "expired", removed)
	s.subs.publish(Change{Kind: ChangeLoaded, Removed: removed, Len: n})
}

// repairLoaded restores entry constraints on data read from disk. It
// returns false for entries that cannot be kept.
func repairLoaded(e *Entry) bool {
	if e.Address == "" {
		return false
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Title == "" {
		e.Title = e.Address
	}
	if e.VisitCount < 1 {
		e.VisitCount = 1
	}
	e.TypedCount = min(max(e.TypedCount, 0), e.VisitCount)
	return true
}

// Subscribe registers fn to be called after every mutation. The returned
// func unregisters it. fn runs on the mutating goroutine, outside the
// store's locks.
func (s *Store) Subscribe(fn func(Change)) func() {
	return s.subs.add(fn)
}

// IsExcluded reports whether visits to address would be dropped by the
// configured exclusion rules.
func (s *Store) IsExcluded(address string) bool {
	return s.opts.Exclusions.Excluded(hostOf(address))
}

// Record registers a visit. A repeat visit updates the existing entry; a
// visit to an excluded host is silently ignored. Only an invalid address is
// reported; persistence failures never reach the caller.
func (s *Store) Record(address, title string, kind Transition) error {
	addr, err := NormalizeAddress(address)
	if err != nil {
		return err
	}
	if s.IsExcluded(addr) {
		s.log.Debug("visit not recorded, host excluded", "address", addr)
		return nil
	}

	s.mu.Lock()
	now := s.now()
	if e, ok := s.entries[addr]; ok {
		e.visit(title, kind, now)
	} else {
		e := newEntry(addr, title, kind, now)
		s.entries[addr] = e
		s.byID[e.ID] = addr
	}
	removed := s.cleanupLocked(now)
	s.changedLocked()
	n := len(s.entries)
	s.mu.Unlock()

	s.schedulePersist()
	s.subs.publish(Change{Kind: ChangeRecorded, Address: addr, Removed: removed, Len: n})
	return nil
}

// Search ranks entries matching query and returns at most limit of them.
// An empty query returns the most recently visited entries instead.
func (s *Store) Search(query string, limit int) []Entry {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	results, ok := s.cache.get(query, limit)
	if !ok {
		results = s.searchLocked(query, limit, s.now())
		s.cache.set(query, limit, results)
	}
	return lo.Map(results, func(e Entry, _ int) Entry { return e.clone() })
}

type ranked struct {
	entry Entry
	score float64
}

func (s *Store) searchLocked(query string, limit int, now time.Time) []Entry {
	if query == "" {
		recent := s.sortedLocked()
		if len(recent) > limit {
			recent = recent[:limit]
		}
		return lo.Map(recent, func(e *Entry, _ int) Entry { return e.clone() })
	}

	candidates := lo.FilterMap(lo.Values(s.entries), func(e *Entry, _ int) (ranked, bool) {
		if !Matches(*e, query) {
			return ranked{}, false
		}
		return ranked{entry: e.clone(), score: RankScore(*e, query, now)}, true
	})
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.score != b.score {
			return a.score > b.score
		}
		return moreRecent(&a.entry, &b.entry)
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return lo.Map(candidates, func(r ranked, _ int) Entry { return r.entry })
}

// Autocomplete returns the address of the best match for query, but only
// when completing it would extend what the user typed: the address, or its
// host, must start with query.
func (s *Store) Autocomplete(query string) (string, bool) {
	if query == "" {
		return "", false
	}
	top := s.Search(query, 1)
	if len(top) == 0 {
		return "", false
	}
	q := strings.ToLower(query)
	best := top[0]
	if strings.HasPrefix(strings.ToLower(best.Address), q) ||
		strings.HasPrefix(strings.ToLower(best.Host()), q) {
		return best.Address, true
	}
	return "", false
}

// RemoveEntry deletes the entry with the given id.
func (s *Store) RemoveEntry(id string) error {
	s.mu.Lock()
	addr, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrEntryNotFound, id)
	}
	s.deleteLocked(addr)
	s.changedLocked()
	n := len(s.entries)
	s.mu.Unlock()

	s.schedulePersist()
	s.subs.publish(Change{Kind: ChangeRemoved, Address: addr, Removed: 1, Len: n})
	return nil
}

// ClearAll removes every entry.
func (s *Store) ClearAll() int {
	s.mu.Lock()
	removed := len(s.entries)
	s.entries = make(map[string]*Entry)
	s.byID = make(map[string]string)
	s.changedLocked()
	s.mu.Unlock()

	s.schedulePersist()
	s.subs.publish(Change{Kind: ChangeCleared, Removed: removed})
	return removed
}

// ClearOlderThan removes entries last visited at or before now minus days.
// With days == 0 that is every entry not visited in the future, which is
// how callers clear everything "from today".
func (s *Store) ClearOlderThan(days int) int {
	s.mu.Lock()
	cutoff := s.now().AddDate(0, 0, -days)
	removed := 0
	for addr, e := range s.entries {
		if !e.LastVisit.After(cutoff) {
			s.deleteLocked(addr)
			removed++
		}
	}
	s.changedLocked()
	n := len(s.entries)
	s.mu.Unlock()

	s.schedulePersist()
	s.subs.publish(Change{Kind: ChangeCleared, Removed: removed, Len: n})
	return removed
}

// UpdateFavicon stores icon bytes for an existing entry. It is a no-op
// when address has no entry, and never touches visit statistics.
func (s *Store) UpdateFavicon(address string, data []byte) error {
	addr, err := NormalizeAddress(address)
	if err != nil {
		return err
	}
	if s.opts.MaxFaviconBytes > 0 && len(data) > s.opts.MaxFaviconBytes {
		return fmt.Errorf("%w: %d bytes (limit %d)", ErrFaviconTooLarge, len(data), s.opts.MaxFaviconBytes)
	}

	s.mu.Lock()
	e, ok := s.entries[addr]
	if !ok {
		s.mu.Unlock()
		return nil
	}
	e.Favicon = append([]byte(nil), data...)
	s.changedLocked()
	n := len(s.entries)
	s.mu.Unlock()

	s.schedulePersist()
	s.subs.publish(Change{Kind: ChangeFaviconUpdated, Address: addr, Len: n})
	return nil
}

// Prune runs the retention pass on demand and returns how many entries it
// dropped.
func (s *Store) Prune() int {
	s.mu.Lock()
	removed := s.cleanupLocked(s.now())
	if removed > 0 {
		s.changedLocked()
	}
	n := len(s.entries)
	s.mu.Unlock()

	if removed > 0 {
		s.schedulePersist()
		s.subs.publish(Change{Kind: ChangePruned, Removed: removed, Len: n})
	}
	return removed
}

// PruneCandidates lists the entries the next retention pass would drop,
// without dropping them.
func (s *Store) PruneCandidates() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keep := make(map[string]bool, len(s.entries))
	for _, e := range s.survivorsLocked(s.now()) {
		keep[e.Address] = true
	}
	var out []Entry
	for _, e := range s.sortedLocked() {
		if !keep[e.Address] {
			out = append(out, e.clone())
		}
	}
	return out
}

// Get returns the entry for address.
func (s *Store) Get(address string) (Entry, bool) {
	addr, err := NormalizeAddress(address)
	if err != nil {
		return Entry{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[addr]
	if !ok {
		return Entry{}, false
	}
	return e.clone(), true
}

// GetByID returns the entry with the given id.
func (s *Store) GetByID(id string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	addr, ok := s.byID[id]
	if !ok {
		return Entry{}, false
	}
	return s.entries[addr].clone(), true
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Entries returns a copy of every entry, most recently visited first.
func (s *Store) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() []Entry {
	return lo.Map(s.sortedLocked(), func(e *Entry, _ int) Entry { return e.clone() })
}

// sortedLocked orders entries by last visit, newest first. Equal times fall
// back to address so the order is deterministic.
func (s *Store) sortedLocked() []*Entry {
	out := lo.Values(s.entries)
	sort.Slice(out, func(i, j int) bool { return moreRecent(out[i], out[j]) })
	return out
}

func moreRecent(a, b *Entry) bool {
	if !a.LastVisit.Equal(b.LastVisit) {
		return a.LastVisit.After(b.LastVisit)
	}
	return a.Address < b.Address
}

func (s *Store) deleteLocked(addr string) {
	if e, ok := s.entries[addr]; ok {
		delete(s.byID, e.ID)
		delete(s.entries, addr)
	}
}

func (s *Store) changedLocked() {
	s.gen++
	s.cache.clear()
}
