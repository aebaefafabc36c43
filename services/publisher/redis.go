package publisher

import (
	"context"
	"math/rand/v2"
	"strconv"

	"sjsage522/mpcontacts/internal/contact"
	apperrors "sjsage522/mpcontacts/pkg/errors"

	"github.com/redis/go-redis/v9"
)

// JurisdictionKey is the stream entry field carrying the profile ID.
const JurisdictionKey = "jurisdiction"

// RedisPublisher appends records to a set of Redis streams
type RedisPublisher struct {
	client          *redis.Client
	streamPrefix    string
	streamCount     int
	streamMaxLength int
}

// NewRedisPublisher creates a new Redis publisher. Records are spread over
// streamCount streams named <streamPrefix>:0 to <streamPrefix>:<streamCount-1>.
func NewRedisPublisher(addr string, db int, streamPrefix string, streamCount int, streamMaxLength int) *RedisPublisher {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if streamCount < 1 {
		streamCount = 1
	}

	return &RedisPublisher{
		client:          client,
		streamPrefix:    streamPrefix,
		streamCount:     streamCount,
		streamMaxLength: streamMaxLength,
	}
}

// Ping checks that the server is reachable
func (p *RedisPublisher) Ping(ctx context.Context) error {
	if err := p.client.Ping(ctx).Err(); err != nil {
		return apperrors.NewSink("", "ping redis", err)
	}
	return nil
}

// StreamName returns the name of stream shard i
func (p *RedisPublisher) StreamName(i int) string {
	return p.streamPrefix + ":" + strconv.Itoa(i)
}

// Publish adds rec as one stream entry whose fields are the record fields
// plus the jurisdiction.
func (p *RedisPublisher) Publish(ctx context.Context, jurisdiction string, rec contact.Record) error {
	values := make(map[string]interface{}, len(contact.Fields)+1)
	for k, v := range rec.Map() {
		values[k] = v
	}
	values[JurisdictionKey] = jurisdiction

	stream := p.StreamName(rand.IntN(p.streamCount))

	err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: values,
	}).Err()
	if err != nil {
		return apperrors.NewSink(jurisdiction, "xadd "+stream, err)
	}
	return nil
}

// TrimStreams trims every shard to the configured maximum length
func (p *RedisPublisher) TrimStreams(ctx context.Context) error {
	if p.streamMaxLength <= 0 {
		return nil
	}
	for i := 0; i < p.streamCount; i++ {
		stream := p.StreamName(i)
		if err := p.client.XTrimMaxLen(ctx, stream, int64(p.streamMaxLength)).Err(); err != nil {
			return apperrors.NewSink("", "trim "+stream, err)
		}
	}
	return nil
}

// Close closes the Redis connection
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
