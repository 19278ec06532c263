package constants

import "math"

// Numeric limits and configuration values
const (
	// Unbounded is the demand value meaning "deliver everything".
	Unbounded int64 = math.MaxInt64

	// InterruptTimeoutSeconds is the timeout for interrupt handling
	InterruptTimeoutSeconds = 3

	// DefaultCatBatch is how many lines the CLI requests at a time
	DefaultCatBatch = 64
)
