package publisher

// Publisher represents a service for publishing collected deals
type Publisher interface {
	// Publish publishes a message keyed by the source that produced it
	Publish(key string, message []byte) error

	// TrimStreams trims all streams to the configured maximum length
	TrimStreams() error

	// Close closes the publisher connection
	Close() error
}
