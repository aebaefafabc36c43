package publisher

import (
	"context"

	"sjsage522/mpcontacts/internal/contact"
)

// Publisher represents a destination for scraped contact records
type Publisher interface {
	// Publish writes one record scraped for jurisdiction. It may be called
	// from several goroutines at once.
	Publish(ctx context.Context, jurisdiction string, rec contact.Record) error

	// Close flushes buffered records and releases the connection
	Close() error
}

// Trimmer is implemented by publishers whose storage grows without bound
type Trimmer interface {
	// TrimStreams trims all streams to the configured maximum length
	TrimStreams(ctx context.Context) error
}
