package relayerrors

import "errors"

// Connect-time and protocol sentinel errors. Used by both relay and ws packages
// to avoid circular imports.
var (
	ErrInvalidIdentity   = errors.New("invalid identity")
	ErrDuplicateIdentity = errors.New("duplicate identity")
	ErrMalformedMessage  = errors.New("malformed message")
)
