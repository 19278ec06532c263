package constants

import "time"

// Timeout constants used throughout the application
const (
	// ShutdownGracePeriod is how long the CLI waits after a termination
	// signal before forcing the process to exit.
	ShutdownGracePeriod = 5 * time.Second
)
