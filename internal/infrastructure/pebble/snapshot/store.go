package snapshot

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/cockroachdb/pebble"

	snapshotv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/snapshot/v1"
	"github.com/muhammadchandra19/spot-exchange/pkg/errors"
	"github.com/muhammadchandra19/spot-exchange/pkg/logger"
)

var _ snapshotv1.Store = (*Store)(nil)

// Store keeps the latest snapshot of every shard in a local Pebble database.
type Store struct {
	db     *pebble.DB
	logger logger.Interface
}

// NewStore opens or creates the database in dir.
func NewStore(dir string, log logger.Interface) (*Store, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, errors.NewTracer(errors.SnapshotStoreError.String()).Wrap(err)
	}
	return &Store{db: db, logger: log}, nil
}

// Close flushes and closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// keys: snapshot/shard/<shard zero padded>
func key(shard int) []byte {
	return []byte(fmt.Sprintf("snapshot/shard/%06d", shard))
}

// Store writes the snapshot with a synced write.
func (s *Store) Store(ctx context.Context, snapshot *snapshotv1.Snapshot) error {
	buf, err := json.Marshal(snapshot)
	if err != nil {
		return errors.NewTracer(errors.SnapshotStoreError.String()).Wrap(err)
	}
	if err := s.db.Set(key(snapshot.Shard), buf, pebble.Sync); err != nil {
		s.logger.ErrorContext(ctx, err, logger.NewField("shard", snapshot.Shard))
		return errors.NewTracer(errors.SnapshotStoreError.String()).Wrap(err)
	}

	s.logger.InfoContext(ctx, "Snapshot stored",
		logger.NewField("shard", snapshot.Shard),
		logger.NewField("offset", snapshot.OrderOffset),
		logger.NewField("books", len(snapshot.Books)),
	)
	return nil
}

// LoadStore reads the snapshot of shard.
func (s *Store) LoadStore(ctx context.Context, shard int) (*snapshotv1.Snapshot, error) {
	data, closer, err := s.db.Get(key(shard))
	if stderrors.Is(err, pebble.ErrNotFound) {
		s.logger.WarnContext(ctx, "No snapshot found", logger.NewField("shard", shard))
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewTracer(errors.SnapshotStoreError.String()).Wrap(err)
	}
	defer closer.Close()

	var snapshot snapshotv1.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, errors.NewTracer(errors.SnapshotStoreError.String()).Wrap(err)
	}
	return &snapshot, nil
}

// Shards lists the shards that have a snapshot.
func (s *Store) Shards() ([]int, error) {
	prefix := []byte("snapshot/shard/")
	upper := append(append([]byte{}, prefix[:len(prefix)-1]...), prefix[len(prefix)-1]+1)

	iter, err := s.db.NewIter(&pebble.IterOptions{LowerBound: prefix, UpperBound: upper})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var shards []int
	for iter.First(); iter.Valid(); iter.Next() {
		var shard int
		if _, err := fmt.Sscanf(string(iter.Key()[len(prefix):]), "%d", &shard); err != nil {
			continue
		}
		shards = append(shards, shard)
	}
	return shards, iter.Error()
}
