package internal

import (
	"sjsage522/mpcontacts/services/cache"
	"sjsage522/mpcontacts/services/publisher"
)

// Dependencies holds all service dependencies
type Dependencies struct {
	Cache     cache.CacheService
	Gate      *cache.Gate
	Publisher publisher.Publisher
}

// Close flushes and closes the publisher
func (d *Dependencies) Close() error {
	if d == nil || d.Publisher == nil {
		return nil
	}
	return d.Publisher.Close()
}
