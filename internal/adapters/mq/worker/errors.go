package worker

import "errors"

// Sentinel kinds for worker errors.
var (
	ErrUnknownEventType = errors.New("unknown event type")
)
