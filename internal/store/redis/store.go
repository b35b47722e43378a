package redis

import (
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when a document does not exist in any collection.
var ErrNotFound = errors.New("document not found")

// Store is the document store adapter over Redis. Documents are JSON
// values under typed keys, collection membership lives in sets, and every
// committed write publishes a ping on its collection's event channel so
// live subscribers can re-read a fresh snapshot.
//
// Pure I/O boundary; no catalog or notification business logic here.
type Store struct {
	client *redis.Client
	now    func() time.Time
}

// NewStore creates a new Redis-backed document store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
		now:    time.Now,
	}
}

// WithClock overrides the timestamp source. Test hook.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}
