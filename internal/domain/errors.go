package domain

import (
	"errors"
)

var (
	// ErrDataUnavailable signals a missing, unreadable or malformed dataset.
	ErrDataUnavailable = errors.New("dataset unavailable")
	// ErrEmptyCorpus signals an attempt to build a feature index over zero records.
	ErrEmptyCorpus = errors.New("empty corpus")
	// ErrInvalidCriteria signals invalid recommendation criteria.
	ErrInvalidCriteria = errors.New("invalid criteria")
	// ErrNotFound signals a missing restaurant.
	ErrNotFound = errors.New("not found")
	// ErrIndexUnavailable signals that the feature index was not built.
	ErrIndexUnavailable = errors.New("feature index unavailable")
)
