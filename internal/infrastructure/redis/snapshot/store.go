package snapshot

import (
	"context"
	"encoding/json"
	"fmt"

	snapshotv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/snapshot/v1"
	"github.com/muhammadchandra19/spot-exchange/pkg/errors"
	"github.com/muhammadchandra19/spot-exchange/pkg/logger"
	"github.com/muhammadchandra19/spot-exchange/pkg/redis"
)

var _ snapshotv1.Store = (*Store)(nil)

// Store keeps the latest snapshot of every shard in Redis.
type Store struct {
	prefix      string
	logger      logger.Interface
	redisclient redis.Client
}

// NewSnapshotStore creates a Store writing keys under prefix, e.g. "spot:snapshot".
func NewSnapshotStore(redisclient redis.Client, prefix string, log logger.Interface) *Store {
	return &Store{
		prefix:      prefix,
		redisclient: redisclient,
		logger:      log,
	}
}

// Key returns the Redis key holding the snapshot of shard.
func (s *Store) Key(shard int) string {
	return fmt.Sprintf("%s:shard:%d", s.prefix, shard)
}

// Store stores the snapshot in Redis.
func (s *Store) Store(ctx context.Context, snapshot *snapshotv1.Snapshot) error {
	key := s.Key(snapshot.Shard)

	buf, err := json.Marshal(snapshot)
	if err != nil {
		s.logger.ErrorContext(ctx, err, logger.NewField("key", key))
		return errors.NewTracer(errors.SnapshotStoreError.String()).Wrap(err)
	}

	if err := s.redisclient.Set(ctx, key, buf, 0); err != nil {
		s.logger.ErrorContext(ctx, err, logger.NewField("key", key))
		return errors.NewTracer(errors.SnapshotStoreError.String()).Wrap(err)
	}

	s.logger.InfoContext(ctx, "Snapshot stored",
		logger.NewField("key", key),
		logger.NewField("offset", snapshot.OrderOffset),
		logger.NewField("books", len(snapshot.Books)),
	)
	return nil
}

// LoadStore loads the snapshot of shard from Redis.
func (s *Store) LoadStore(ctx context.Context, shard int) (*snapshotv1.Snapshot, error) {
	key := s.Key(shard)

	data, err := s.redisclient.Get(ctx, key)
	if err != nil {
		s.logger.ErrorContext(ctx, err, logger.NewField("key", key))
		return nil, errors.NewTracer(errors.SnapshotStoreError.String()).Wrap(err)
	}

	if data == "" {
		s.logger.WarnContext(ctx, "No snapshot found", logger.NewField("key", key))
		return nil, nil
	}

	var snapshot snapshotv1.Snapshot
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		s.logger.ErrorContext(ctx, err, logger.NewField("key", key))
		return nil, errors.NewTracer(errors.SnapshotStoreError.String()).Wrap(err)
	}

	return &snapshot, nil
}
