package depth

import (
	"context"
	"encoding/json"
	"fmt"

	v9 "github.com/redis/go-redis/v9"

	depthv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/depth/v1"
	"github.com/muhammadchandra19/spot-exchange/pkg/errors"
	"github.com/muhammadchandra19/spot-exchange/pkg/logger"
	"github.com/muhammadchandra19/spot-exchange/pkg/redis"
)

var _ depthv1.Publisher = (*Publisher)(nil)

// Publisher mirrors level rows into Redis hashes with a sorted price index
// and announces every batch on a per symbol channel.
//
// Layout:
//
//	<prefix>:<symbol>:<side>:<bucket>            hash  price -> row JSON
//	<prefix>:<symbol>:<side>:<bucket>:prices     zset  price scored by price
//	<prefix>:user:<user>:<symbol>:<side>         hash  price -> row JSON (raw prices only)
//	<prefix>:<symbol>                            channel, batch JSON
//
// Rows are written with their absolute values, so re-publishing a batch is harmless.
type Publisher struct {
	prefix      string
	redisclient redis.Client
	logger      logger.Interface
}

// NewPublisher creates a Publisher writing under prefix, e.g. "spot:depth".
func NewPublisher(redisclient redis.Client, prefix string, log logger.Interface) *Publisher {
	return &Publisher{prefix: prefix, redisclient: redisclient, logger: log}
}

// LevelsKey returns the hash holding the rows of one side at bucket.
func (p *Publisher) LevelsKey(symbol, side, bucket string) string {
	return fmt.Sprintf("%s:%s:%s:%s", p.prefix, symbol, side, bucket)
}

// UserKey returns the hash holding the raw price rows of userID.
func (p *Publisher) UserKey(userID, symbol, side string) string {
	return fmt.Sprintf("%s:user:%s:%s:%s", p.prefix, userID, symbol, side)
}

// Channel returns the pub/sub channel of symbol.
func (p *Publisher) Channel(symbol string) string {
	return fmt.Sprintf("%s:%s", p.prefix, symbol)
}

// Publish writes every update, then publishes the batch per symbol.
func (p *Publisher) Publish(ctx context.Context, updates []depthv1.Update) error {
	bySymbol := make(map[string][]depthv1.Update)
	var symbols []string

	for _, u := range updates {
		if err := p.write(ctx, u); err != nil {
			return errors.NewTracer(errors.PublishError.String()).Wrap(err)
		}
		if _, ok := bySymbol[u.Symbol]; !ok {
			symbols = append(symbols, u.Symbol)
		}
		bySymbol[u.Symbol] = append(bySymbol[u.Symbol], u)
	}

	for _, symbol := range symbols {
		buf, err := json.Marshal(bySymbol[symbol])
		if err != nil {
			return errors.NewTracer(errors.PublishError.String()).Wrap(err)
		}
		if _, err := p.redisclient.Publish(ctx, p.Channel(symbol), buf); err != nil {
			return errors.NewTracer(errors.PublishError.String()).Wrap(err)
		}
	}

	p.logger.DebugContext(ctx, "Published level updates",
		logger.NewField("updates", len(updates)),
		logger.NewField("symbols", len(symbols)),
	)
	return nil
}

func (p *Publisher) write(ctx context.Context, u depthv1.Update) error {
	price := u.Price.String()
	side := string(u.Side)

	if u.UserID != "" {
		if !u.Bucket.IsZero() {
			return nil
		}
		key := p.UserKey(u.UserID, u.Symbol, side)
		if u.Deleted {
			_, err := p.redisclient.HDel(ctx, key, price)
			return err
		}
		row, err := json.Marshal(u.Level)
		if err != nil {
			return err
		}
		_, err = p.redisclient.HSet(ctx, key, map[string]any{price: row})
		return err
	}

	key := p.LevelsKey(u.Symbol, side, u.Bucket.String())
	index := key + ":prices"
	if u.Deleted {
		if _, err := p.redisclient.HDel(ctx, key, price); err != nil {
			return err
		}
		_, err := p.redisclient.ZRem(ctx, index, price)
		return err
	}

	row, err := json.Marshal(u.Level)
	if err != nil {
		return err
	}
	if _, err := p.redisclient.HSet(ctx, key, map[string]any{price: row}); err != nil {
		return err
	}
	_, err = p.redisclient.ZAdd(ctx, index, v9.Z{Score: u.Price.InexactFloat64(), Member: price})
	return err
}
