package constants

// Buffer size constants in bytes
const (
	// DefaultChunkSize is the default chunk size for reading (256KB)
	DefaultChunkSize = 256 * 1024

	// SmallChunkSize is the chunk size pooled for small reads (4KB)
	SmallChunkSize = 4 * 1024

	// MaxLineLength is the accumulation limit after which a line is force cut
	MaxLineLength = 4096

	// DefaultHighWater is the pending line backlog at which a reader idles
	// until the consumer requests more lines.
	DefaultHighWater = 1024

	// WriteQueueSize is the buffer size of the writer's pending write queue
	WriteQueueSize = 64
)
