package history

import "errors"

var (
	// ErrNotFound is returned by a Persister when nothing has been saved yet.
	ErrNotFound = errors.New("history: no saved history")
	// ErrDecode is returned by a Persister when saved history is unreadable.
	ErrDecode = errors.New("history: saved history is corrupt")

	ErrInvalidAddress  = errors.New("history: invalid address")
	ErrEntryNotFound   = errors.New("history: entry not found")
	ErrFaviconTooLarge = errors.New("history: favicon exceeds size limit")
)
