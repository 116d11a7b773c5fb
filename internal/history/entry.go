package history

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Transition describes how a navigation happened.
type Transition string

const (
	TransitionTyped      Transition = "typed"
	TransitionLink       Transition = "link"
	TransitionReload     Transition = "reload"
	TransitionFormSubmit Transition = "form_submit"
	TransitionOther      Transition = "other"
)

// ParseTransition maps a user-supplied name onto a Transition. The empty
// string is treated as a link click.
func ParseTransition(s string) (Transition, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "link":
		return TransitionLink, nil
	case "typed":
		return TransitionTyped, nil
	case "reload":
		return TransitionReload, nil
	case "form_submit", "formsubmit", "form":
		return TransitionFormSubmit, nil
	case "other":
		return TransitionOther, nil
	default:
		return "", fmt.Errorf("unknown transition %q (use typed, link, reload, form_submit or other)", s)
	}
}

// Entry is a single history item. ID and Address never change once the
// entry exists; the visit statistics are updated in place by the Store.
type Entry struct {
	ID         string    `json:"id"`
	Address    string    `json:"address"`
	Title      string    `json:"title"`
	LastVisit  time.Time `json:"last_visit"`
	VisitCount int       `json:"visit_count"`
	TypedCount int       `json:"typed_count"`
	Favicon    []byte    `json:"favicon,omitempty"`
}

// newEntry creates the entry for a first visit to address.
func newEntry(address, title string, kind Transition, now time.Time) *Entry {
	if title == "" {
		title = address
	}
	e := &Entry{
		ID:         uuid.NewString(),
		Address:    address,
		Title:      title,
		LastVisit:  now,
		VisitCount: 1,
	}
	if kind == TransitionTyped {
		e.TypedCount = 1
	}
	return e
}

// visit applies a repeat visit to e.
func (e *Entry) visit(title string, kind Transition, now time.Time) {
	if title != "" {
		e.Title = title
	}
	if now.After(e.LastVisit) {
		e.LastVisit = now
	}
	e.VisitCount++
	if kind == TransitionTyped {
		e.TypedCount++
	}
}

// clone returns a copy of e that shares no memory with it.
func (e *Entry) clone() Entry {
	c := *e
	c.Favicon = bytes.Clone(e.Favicon)
	return c
}

// Host returns the host component of the entry's address without port,
// or "" for addresses that have none.
func (e Entry) Host() string {
	return hostOf(e.Address)
}

// hostlessSchemes may omit the authority. Any other scheme needs a host, so
// "localhost:3000" is not mistaken for scheme "localhost".
var hostlessSchemes = map[string]bool{
	"about":  true,
	"blob":   true,
	"data":   true,
	"file":   true,
	"mailto": true,
}

// NormalizeAddress validates raw as an absolute URI and returns its
// canonical string form: scheme and host are lower-cased, everything else
// is kept as given.
func NormalizeAddress(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty address", ErrInvalidAddress)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if u.Scheme == "" {
		return "", fmt.Errorf("%w: %q is not absolute", ErrInvalidAddress, raw)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	if u.Host == "" && !hostlessSchemes[u.Scheme] {
		return "", fmt.Errorf("%w: %q has no host", ErrInvalidAddress, raw)
	}
	if u.Opaque == "" && u.Host == "" && u.Path == "" {
		return "", fmt.Errorf("%w: %q has no host or path", ErrInvalidAddress, raw)
	}
	u.Host = strings.ToLower(u.Host)
	return u.String(), nil
}

func hostOf(address string) string {
	u, err := url.Parse(address)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
