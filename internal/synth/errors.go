package synth

import "errors"

// ErrInvalidConfig is returned by Generate for an unusable Config.
var ErrInvalidConfig = errors.New("invalid synth config")
