package history

import (
	"sort"
	"time"
)

const topHostsLimit = 10

// Stats summarises the collection.
type Stats struct {
	Entries      int
	TypedEntries int
	TotalVisits  int64
	FaviconBytes int64
	OldestVisit  time.Time
	NewestVisit  time.Time
	TopHosts     []HostCount
}

// HostCount pairs a host with the visits recorded against it.
type HostCount struct {
	Host   string
	Visits int64
}

// Stats computes aggregate statistics over the current collection.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{Entries: len(s.entries)}
	hosts := make(map[string]int64)
	for _, e := range s.entries {
		if e.TypedCount > 0 {
			st.TypedEntries++
		}
		st.TotalVisits += int64(e.VisitCount)
		st.FaviconBytes += int64(len(e.Favicon))
		if st.OldestVisit.IsZero() || e.LastVisit.Before(st.OldestVisit) {
			st.OldestVisit = e.LastVisit
		}
		if e.LastVisit.After(st.NewestVisit) {
			st.NewestVisit = e.LastVisit
		}
		if h := e.Host(); h != "" {
			hosts[h] += int64(e.VisitCount)
		}
	}

	for h, n := range hosts {
		st.TopHosts = append(st.TopHosts, HostCount{Host: h, Visits: n})
	}
	sort.Slice(st.TopHosts, func(i, j int) bool {
		if st.TopHosts[i].Visits != st.TopHosts[j].Visits {
			return st.TopHosts[i].Visits > st.TopHosts[j].Visits
		}
		return st.TopHosts[i].Host < st.TopHosts[j].Host
	})
	if len(st.TopHosts) > topHostsLimit {
		st.TopHosts = st.TopHosts[:topHostsLimit]
	}
	return st
}
