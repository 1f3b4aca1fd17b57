package util

import "errors"

var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrNotConfigured    = errors.New("progress is not configured")
	ErrDevotionNotFound = errors.New("devotion not found")
	ErrSphereNotFound   = errors.New("sphere not found")
)
