package history

import (
	"fmt"
	"regexp"
	"strings"
)

// Exclusions decides which hosts are never recorded.
type Exclusions struct {
	domains []string
	regexes []*regexp.Regexp
}

// NewExclusions compiles domain and regex rules. A domain rule matches the
// host itself and any of its subdomains.
func NewExclusions(domains, patterns []string) (*Exclusions, error) {
	ex := &Exclusions{}
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			ex.domains = append(ex.domains, d)
		}
	}
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compile exclusion %q: %w", p, err)
		}
		ex.regexes = append(ex.regexes, re)
	}
	return ex, nil
}

// Excluded reports whether host is blocked by a rule.
func (ex *Exclusions) Excluded(host string) bool {
	if ex == nil || host == "" {
		return false
	}
	host = strings.ToLower(host)
	for _, d := range ex.domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	for _, re := range ex.regexes {
		if re.MatchString(host) {
			return true
		}
	}
	return false
}

// Len returns the number of rules.
func (ex *Exclusions) Len() int {
	if ex == nil {
		return 0
	}
	return len(ex.domains) + len(ex.regexes)
}
