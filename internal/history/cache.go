package history

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/maypok86/otter"
)

// resultCache memoises ranked search results between mutations. Ranking is
// case-insensitive, so the key folds case. A nil *resultCache is a valid,
// disabled cache.
//
// Entries expire on wall-clock time, not Options.Now. A store driven by a
// fake clock keeps serving rankings computed at an earlier simulated time
// until the next mutation clears the cache.
type resultCache struct {
	c otter.Cache[string, []Entry]
}

func newResultCache(size int, ttl time.Duration) (*resultCache, error) {
	if size <= 0 || ttl <= 0 {
		return nil, nil
	}
	c, err := otter.MustBuilder[string, []Entry](size).
		WithTTL(ttl).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build result cache: %w", err)
	}
	return &resultCache{c: c}, nil
}

func cacheKey(query string, limit int) string {
	return strconv.Itoa(limit) + "\x00" + strings.ToLower(query)
}

func (rc *resultCache) get(query string, limit int) ([]Entry, bool) {
	if rc == nil {
		return nil, false
	}
	return rc.c.Get(cacheKey(query, limit))
}

func (rc *resultCache) set(query string, limit int, results []Entry) {
	if rc == nil {
		return
	}
	rc.c.Set(cacheKey(query, limit), results)
}

func (rc *resultCache) clear() {
	if rc == nil {
		return
	}
	rc.c.Clear()
}

func (rc *resultCache) close() {
	if rc == nil {
		return
	}
	rc.c.Close()
}
