package protocol

import "errors"

var (
	ErrUnknownEventType = errors.New("unknown event type")
	ErrInvalidEntry     = errors.New("invalid journal entry")
)
