package history

import "time"

// survivorsLocked returns the entries a retention pass at now would keep:
// those visited within the retention horizon, capped to the MaxEntries most
// recent. Newest first.
func (s *Store) survivorsLocked(now time.Time) []*Entry {
	horizon := now.AddDate(0, 0, -s.opts.RetentionDays)
	sorted := s.sortedLocked()
	keep := make([]*Entry, 0, min(len(sorted), s.opts.MaxEntries))
	for _, e := range sorted {
		if e.LastVisit.Before(horizon) {
			continue
		}
		keep = append(keep, e)
		if len(keep) == s.opts.MaxEntries {
			break
		}
	}
	return keep
}

// cleanupLocked drops expired entries and evicts the oldest ones above the
// cap. It returns the number removed.
func (s *Store) cleanupLocked(now time.Time) int {
	horizon := now.AddDate(0, 0, -s.opts.RetentionDays)
	removed := 0
	for addr, e := range s.entries {
		if e.LastVisit.Before(horizon) {
			s.deleteLocked(addr)
			removed++
		}
	}

	if len(s.entries) <= s.opts.MaxEntries {
		return removed
	}
	for _, e := range s.sortedLocked()[s.opts.MaxEntries:] {
		s.deleteLocked(e.Address)
		removed++
	}
	return removed
}
