package publisher

import (
	"context"
	"errors"

	"sjsage522/mpcontacts/internal/contact"
)

// Multi publishes every record to all of its publishers
type Multi []Publisher

// Publish tries every publisher and joins their errors
func (m Multi) Publish(ctx context.Context, jurisdiction string, rec contact.Record) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, jurisdiction, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// TrimStreams trims every publisher that supports it
func (m Multi) TrimStreams(ctx context.Context) error {
	var errs []error
	for _, p := range m {
		if t, ok := p.(Trimmer); ok {
			if err := t.TrimStreams(ctx); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Close closes every publisher
func (m Multi) Close() error {
	var errs []error
	for _, p := range m {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
