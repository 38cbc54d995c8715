package cluster

import (
	"context"
	"sort"

	"github.com/muhammadchandra19/spot-exchange/internal/app/engine"
	snapshotv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/snapshot/v1"
	"github.com/muhammadchandra19/spot-exchange/internal/usecase/aggregator"
	"github.com/muhammadchandra19/spot-exchange/internal/usecase/router"
	"github.com/muhammadchandra19/spot-exchange/pkg/errors"
	"github.com/muhammadchandra19/spot-exchange/pkg/logger"
)

var (
	_ router.Drainer = (*Cluster)(nil)
	_ router.HandOff = (*Cluster)(nil)
)

// Shard is the engine of one shard and the aggregator it feeds.
type Shard struct {
	ID         int
	Engine     *engine.Engine
	Aggregator *aggregator.Aggregator
}

// Cluster hosts the shard engines of one process. It serves the router as
// drainer and hand-off target.
type Cluster struct {
	shards map[int]*Shard
	logger logger.Interface
}

// NewCluster creates a Cluster hosting shards.
func NewCluster(log logger.Interface, shards ...*Shard) *Cluster {
	c := &Cluster{shards: make(map[int]*Shard, len(shards)), logger: log}
	for _, s := range shards {
		c.shards[s.ID] = s
	}
	return c
}

// Shard returns the shard with id.
func (c *Cluster) Shard(id int) (*Shard, error) {
	s, ok := c.shards[id]
	if !ok {
		return nil, errors.NewTracer(errors.RouterUnknownShard.String()).Wrap(router.ErrUnknownShard)
	}
	return s, nil
}

// IDs returns the hosted shard ids in ascending order.
func (c *Cluster) IDs() []int {
	ids := make([]int, 0, len(c.shards))
	for id := range c.shards {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Start starts every engine. Engines already started are stopped again
// when one fails.
func (c *Cluster) Start(ctx context.Context) error {
	var started []*Shard
	for _, id := range c.IDs() {
		s, _ := c.Shard(id)
		if err := s.Engine.Start(ctx); err != nil {
			c.logger.ErrorContext(ctx, err, logger.NewField("action", "start_shard"), logger.NewField("shard", id))
			for _, prev := range started {
				_ = prev.Engine.Stop(ctx)
			}
			return err
		}
		started = append(started, s)
	}
	c.logger.InfoContext(ctx, "Cluster started", logger.NewField("shards", len(started)))
	return nil
}

// Stop stops every engine and returns the first error.
func (c *Cluster) Stop(ctx context.Context) error {
	var first error
	for _, id := range c.IDs() {
		s, _ := c.Shard(id)
		if err := s.Engine.Stop(ctx); err != nil {
			c.logger.ErrorContext(ctx, err, logger.NewField("action", "stop_shard"), logger.NewField("shard", id))
			if first == nil {
				first = err
			}
		}
	}
	return first
}

// Snapshot stores a snapshot of every shard.
func (c *Cluster) Snapshot(ctx context.Context) error {
	for _, id := range c.IDs() {
		s, _ := c.Shard(id)
		if err := s.Engine.Snapshot(ctx); err != nil {
			return err
		}
	}
	return nil
}

// WaitProcessed blocks until shard processed every command up to sequence.
func (c *Cluster) WaitProcessed(ctx context.Context, shard int, sequence uint64) error {
	s, err := c.Shard(shard)
	if err != nil {
		return err
	}
	return s.Engine.WaitProcessed(ctx, sequence)
}

// Detach removes symbol from shard.
func (c *Cluster) Detach(ctx context.Context, shard int, symbol string) (*snapshotv1.SymbolState, error) {
	s, err := c.Shard(shard)
	if err != nil {
		return nil, err
	}
	return s.Engine.Detach(ctx, symbol)
}

// Attach installs state on shard.
func (c *Cluster) Attach(ctx context.Context, shard int, state *snapshotv1.SymbolState) error {
	s, err := c.Shard(shard)
	if err != nil {
		return err
	}
	return s.Engine.Attach(ctx, state)
}

// Halted returns the halted symbols of every shard.
func (c *Cluster) Halted(ctx context.Context) (map[int][]string, error) {
	out := make(map[int][]string)
	for _, id := range c.IDs() {
		s, _ := c.Shard(id)
		halted, err := s.Engine.Halted(ctx)
		if err != nil {
			return nil, err
		}
		if len(halted) > 0 {
			out[id] = halted
		}
	}
	return out, nil
}
