package hypothesis

import "errors"

// Sentinel kinds for hypothesis test errors.
var (
	// ErrInsufficientSample is returned when a sample has fewer than two
	// observations and its variance is undefined.
	ErrInsufficientSample = errors.New("sample needs at least two observations")
	// ErrZeroVariance is returned when both samples are constant, which
	// leaves the standard error at zero.
	ErrZeroVariance = errors.New("both samples have zero variance")
	// ErrInvalidAlpha is returned for a significance level outside (0, 1).
	ErrInvalidAlpha = errors.New("significance level must be in (0, 1)")
)
