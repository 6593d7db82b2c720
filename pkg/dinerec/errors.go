package dinerec

import "github.com/kailas-cloud/dinerec/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrDataUnavailable  = domain.ErrDataUnavailable
	ErrInvalidCriteria  = domain.ErrInvalidCriteria
	ErrNotFound         = domain.ErrNotFound
	ErrIndexUnavailable = domain.ErrIndexUnavailable
)
