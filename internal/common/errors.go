// Package common defines shared sentinel errors used across portal
// components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// ErrInvalidToken marks a remember-me token that could not be decoded.
	ErrInvalidToken = errors.New("invalid remember token")

	// ErrUnknownBackend marks a storage or session backend name that is
	// not one of the supported values.
	ErrUnknownBackend = errors.New("unknown backend")
)
