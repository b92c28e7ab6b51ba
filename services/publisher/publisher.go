package publisher

import "context"

// Publisher represents a service for mirroring record batches to a stream
type Publisher interface {
	// Publish appends a message to the stream
	Publish(ctx context.Context, message []byte) error

	// TrimStream trims the stream to the configured maximum length
	TrimStream(ctx context.Context) error

	// Close closes the publisher connection
	Close() error
}
