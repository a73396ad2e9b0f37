package whatsapp

import "errors"

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrInvalidStatus      = errors.New("invalid session status")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrNotSessionOwner    = errors.New("session belongs to another user")
	ErrNoConnectedSession = errors.New("no connected session")
)
