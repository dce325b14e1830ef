package session

import (
	"errors"
	"fmt"
)

// AuthErrorKind classifies why a login did not produce a session.
type AuthErrorKind int

const (
	// NoToken: the server reported success but sent neither token nor access_token.
	NoToken AuthErrorKind = iota + 1
	// Rejected: the server answered 2xx with success=false.
	Rejected
)

var (
	ErrNoToken  = errors.New("no token received from server")
	ErrRejected = errors.New("login rejected")
)

type AuthError struct {
	Kind    AuthErrorKind
	Message string // Server supplied reason, if any
}

func (e *AuthError) Error() string {
	switch e.Kind {
	case NoToken:
		return ErrNoToken.Error()
	case Rejected:
		if e.Message != "" {
			return e.Message
		}
		return ErrRejected.Error()
	}
	return fmt.Sprintf("auth error %d", e.Kind)
}

// Unwrap lets callers test the kind with errors.Is(err, ErrNoToken).
func (e *AuthError) Unwrap() error {
	switch e.Kind {
	case NoToken:
		return ErrNoToken
	case Rejected:
		return ErrRejected
	}
	return nil
}
