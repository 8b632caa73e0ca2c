package projectdata

import "errors"

var (
	// ErrDataUnavailable means no snapshot has been published yet, so callers must not treat an
	// empty answer as "no projects exist".
	ErrDataUnavailable = errors.New("project data unavailable")
	ErrNotFound        = errors.New("project not found")
)
