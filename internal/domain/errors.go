package domain

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned by a SessionStore when the user has never
// completed (or started) setup.
var ErrSessionNotFound = errors.New("session not found")

// ValidationError reports input the service, or this client acting on its
// behalf, refused. The message is meant for the user verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// StatusError reports any other non-success outcome of a ledger call. Code
// is the HTTP status; zero means the request never completed (transport
// error or timeout). Detail is logged, never shown to the user.
type StatusError struct {
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Code == 0 {
		return fmt.Sprintf("ledger request failed: %s", e.Detail)
	}
	return fmt.Sprintf("ledger returned status %d: %s", e.Code, e.Detail)
}
