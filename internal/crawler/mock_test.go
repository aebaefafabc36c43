package crawler

import (
	"context"
	"sync"

	"sjsage522/mpcontacts/internal/contact"
)

// recorder collects emitted records for assertions
type recorder struct {
	mu      sync.Mutex
	records []contact.Record
	err     error
}

func (r *recorder) emit(_ context.Context, rec contact.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	return r.err
}

func (r *recorder) byURL() map[string]contact.Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]contact.Record, len(r.records))
	for _, rec := range r.records {
		out[rec.Url] = rec
	}
	return out
}
