package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can tell a cache miss from a broken backend.
//
//   - ErrNotFound: entry does not exist in the store
//   - ErrExpired: entry existed but its TTL has passed
//   - ErrUnavailable: backend temporarily unavailable
var (
	ErrNotFound    = errors.New("not found")
	ErrExpired     = errors.New("expired")
	ErrUnavailable = errors.New("unavailable")
)

// IsMiss reports whether err means the entry is simply absent.
func IsMiss(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrExpired)
}
