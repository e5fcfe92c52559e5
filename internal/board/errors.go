package board

import "errors"

// Board errors. None of them are fatal; callers report them and carry on.
var (
	ErrAlreadyDragging = errors.New("a drag is already in progress")
	ErrUnknownSlot     = errors.New("unknown slot")
	ErrUnknownEntry    = errors.New("unknown entry")
	ErrMalformedState  = errors.New("malformed persisted state")
	ErrEmptyName       = errors.New("name is empty")
)
