package domain

import "errors"

var (
	// ErrProjectNotFound covers absent, expired, not-owned and
	// wrong-storage-mode records alike so callers cannot probe for
	// other users' projects.
	ErrProjectNotFound = errors.New("project not found")

	// ErrEmptyPayload is returned when an upgrade carries no stage data.
	ErrEmptyPayload = errors.New("project data is required")
)
