package snapshotstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/beka-birhanu/vinom-maze/generation"
	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
)

const (
	defaultPrefix = "maze"
	recordKeyFmt  = "%s:generation:%s"
	lockSuffix    = ":save_lock"
)

var ErrNotFound = errors.New("generation record not found")

var _ i.SnapshotStore = &RedisSnapshotStore{}

// RedisSnapshotStore keeps generation records in Redis as BSON documents with a TTL.
// Writes to one generation are serialized across processes with a redsync mutex.
type RedisSnapshotStore struct {
	client *redis.Client
	locker *redsync.Redsync
	prefix string
	ttl    time.Duration
}

// NewRedisSnapshotStore initializes a RedisSnapshotStore with the provided Redis client and TTL.
// A ttlSeconds of zero keeps records until they are deleted.
func NewRedisSnapshotStore(client *redis.Client, prefix string, ttlSeconds int) (*RedisSnapshotStore, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if prefix == "" {
		prefix = defaultPrefix
	}
	store := &RedisSnapshotStore{
		client: client,
		prefix: prefix,
		ttl:    time.Duration(max(ttlSeconds, 0)) * time.Second,
	}
	pool := goredis.NewPool(client)
	store.locker = redsync.New(pool)
	return store, nil
}

// Save stores the record of a generation, refreshing its TTL.
func (s *RedisSnapshotStore) Save(ctx context.Context, id uuid.UUID, rec generation.Record) error {
	payload, err := encodeRecord(rec)
	if err != nil {
		return err
	}

	key := s.key(id)
	mutex := s.locker.NewMutex(key+lockSuffix, redsync.WithExpiry(2*time.Second), redsync.WithTries(8))
	if err := mutex.LockContext(ctx); err != nil {
		return fmt.Errorf("locking %s: %w", key, err)
	}
	defer func() {
		_, _ = mutex.UnlockContext(ctx)
	}()

	return s.client.Set(ctx, key, payload, s.ttl).Err()
}

// Load returns the record of a generation.
func (s *RedisSnapshotStore) Load(ctx context.Context, id uuid.UUID) (generation.Record, error) {
	payload, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return generation.Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return generation.Record{}, err
	}
	return decodeRecord(payload)
}

// Delete removes the record of a generation.
func (s *RedisSnapshotStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.client.Del(ctx, s.key(id)).Err()
}

func (s *RedisSnapshotStore) key(id uuid.UUID) string {
	return fmt.Sprintf(recordKeyFmt, s.prefix, id)
}

func encodeRecord(rec generation.Record) ([]byte, error) {
	payload, err := bson.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encoding generation record: %w", err)
	}
	return payload, nil
}

func decodeRecord(payload []byte) (generation.Record, error) {
	var rec generation.Record
	if err := bson.Unmarshal(payload, &rec); err != nil {
		return generation.Record{}, fmt.Errorf("decoding generation record: %w", err)
	}
	return rec, nil
}
