package history

import (
	"strings"
	"time"
)

// Match tiers returned by MatchScore.
const (
	ScoreExact           = 1000.0
	ScoreAddressPrefix   = 800.0
	ScoreTitlePrefix     = 700.0
	ScoreAddressBoundary = 600.0
	ScoreTitleWord       = 500.0
	ScoreAddressContains = 300.0
	ScoreTitleContains   = 200.0
)

const (
	typedBonus      = 2000.0
	visitBonus      = 100.0
	fallbackRecency = 10.0
)

// recencyBuckets maps an upper bound in whole days to a weight. Anything
// past the last bucket, or in the future, gets fallbackRecency.
var recencyBuckets = []struct {
	maxDays int
	weight  float64
}{
	{4, 100},
	{14, 70},
	{31, 50},
	{90, 30},
}

// addressBoundaries are the separators after which a query counts as a
// host, subdomain or path segment match.
var addressBoundaries = []string{"://", "/", "."}

// FrecencyScore blends recency, typed navigation and visit frequency. The
// signals are summed so a weak one never zeroes the result. Scores are only
// meaningful relative to each other.
func FrecencyScore(e Entry, now time.Time) float64 {
	score := recencyWeight(daysSince(e.LastVisit, now))
	if e.TypedCount > 0 {
		score += typedBonus
	}
	score += float64(e.VisitCount) * visitBonus
	return score
}

// daysSince counts whole elapsed days; negative when last is in the future.
func daysSince(last, now time.Time) int {
	return int(now.Sub(last) / (24 * time.Hour))
}

func recencyWeight(days int) float64 {
	if days < 0 {
		return fallbackRecency
	}
	for _, b := range recencyBuckets {
		if days <= b.maxDays {
			return b.weight
		}
	}
	return fallbackRecency
}

// Matches reports whether query occurs, case-insensitively, in the entry's
// address or title. Only matching entries take part in ranking.
func Matches(e Entry, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(e.Address), q) ||
		strings.Contains(strings.ToLower(e.Title), q)
}

// MatchScore grades how well query lines up with the entry. The first
// satisfied tier wins.
func MatchScore(e Entry, query string) float64 {
	q := strings.ToLower(query)
	addr := strings.ToLower(e.Address)
	title := strings.ToLower(e.Title)

	switch {
	case addr == q || title == q:
		return ScoreExact
	case strings.HasPrefix(addr, q):
		return ScoreAddressPrefix
	case strings.HasPrefix(title, q):
		return ScoreTitlePrefix
	case atAddressBoundary(addr, q):
		return ScoreAddressBoundary
	case titleWordPrefix(title, q):
		return ScoreTitleWord
	case strings.Contains(addr, q):
		return ScoreAddressContains
	case strings.Contains(title, q):
		return ScoreTitleContains
	}
	return 0
}

// RankScore is the ordering key used by Store.Search.
func RankScore(e Entry, query string, now time.Time) float64 {
	return MatchScore(e, query) + FrecencyScore(e, now)
}

func atAddressBoundary(addr, q string) bool {
	for _, sep := range addressBoundaries {
		if strings.Contains(addr, sep+q) {
			return true
		}
	}
	return false
}

func titleWordPrefix(title, q string) bool {
	for _, w := range strings.Fields(title) {
		if strings.HasPrefix(w, q) {
			return true
		}
	}
	return false
}
