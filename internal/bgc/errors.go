package bgc

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrAPI matches every error BGC reports inside a response, general or
	// product level. Use errors.As with *APIError or *ProductError to tell
	// the tiers apart.
	ErrAPI = errors.New("bgc api error")

	// ErrMalformedResponse is returned when a normalized response lacks the
	// nodes a product result is projected from.
	ErrMalformedResponse = errors.New("bgc malformed response")

	// ErrUnknownConnection is returned by Using for an unregistered name.
	ErrUnknownConnection = errors.New("bgc unknown connection")
)

// ErrorSet maps BGC error codes to their messages.
type ErrorSet map[string]string

// Codes returns the error codes in ascending order.
func (s ErrorSet) Codes() []string {
	codes := make([]string, 0, len(s))
	for code := range s {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func (s ErrorSet) String() string {
	parts := make([]string, 0, len(s))
	for _, code := range s.Codes() {
		parts = append(parts, fmt.Sprintf("%s: %s", code, s[code]))
	}
	return strings.Join(parts, "; ")
}

// APIError is a general failure reported at the root of the response, such
// as rejected credentials. It takes precedence over product errors.
type APIError struct {
	Errors ErrorSet
}

func (e *APIError) Error() string {
	return fmt.Sprintf("bgc api error: %s", e.Errors)
}

// Is reports ErrAPI as a match.
func (e *APIError) Is(target error) bool { return target == ErrAPI }

// ProductError is a failure reported inside a product's response block.
type ProductError struct {
	Product Product
	Errors  ErrorSet
}

func (e *ProductError) Error() string {
	return fmt.Sprintf("bgc %s error: %s", e.Product, e.Errors)
}

// Is reports ErrAPI as a match.
func (e *ProductError) Is(target error) bool { return target == ErrAPI }

// ErrorsOf returns the ErrorSet carried by err, if any.
func ErrorsOf(err error) (ErrorSet, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Errors, true
	}
	var productErr *ProductError
	if errors.As(err, &productErr) {
		return productErr.Errors, true
	}
	return nil, false
}
