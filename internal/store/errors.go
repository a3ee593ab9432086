package store

import "errors"

var (
	ErrNotFound  = errors.New("record not found")
	ErrPending   = errors.New("record is still being saved")
	ErrNoSession = errors.New("store is not associated with a user")
	ErrStale     = errors.New("session changed before the operation completed")
	ErrClosed    = errors.New("store is closed")
)
