package orderlog

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order/v1"
)

func command(seq uint64) orderv1.Command {
	return orderv1.Command{
		Code:     orderv1.PlaceOrder,
		Sequence: seq,
		Data:     orderv1.CommandData{ID: "o", Symbol: "BTC/USDT", Quantity: decimal.NewFromInt(1)},
	}
}

func TestLog_AppendAndRead(t *testing.T) {
	ctx := context.Background()
	log := NewLog()
	reader := log.NewReader(1)

	last, err := reader.LastOffset(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), last)

	for seq := uint64(1); seq <= 3; seq++ {
		require.NoError(t, log.Append(ctx, 1, command(seq)))
	}
	require.NoError(t, log.Append(ctx, 2, command(9)))

	seq, err := log.LastSequence(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), seq)

	for want := uint64(1); want <= 3; want++ {
		msg, cmd, err := reader.ReadMessage(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(want-1), msg.Offset)
		assert.Equal(t, want, cmd.Sequence)
		assert.Equal(t, 1, cmd.Shard)
	}

	require.NoError(t, reader.SetOffset(1))
	_, cmd, err := reader.ReadMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), cmd.Sequence)

	last, err = reader.LastOffset(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), last)
}

func TestLog_ReadBlocksUntilAppend(t *testing.T) {
	ctx := context.Background()
	log := NewLog()
	reader := log.NewReader(0)

	got := make(chan uint64, 1)
	go func() {
		_, cmd, err := reader.ReadMessage(ctx)
		if err == nil {
			got <- cmd.Sequence
		}
	}()

	select {
	case <-got:
		t.Fatal("read returned before append")
	case <-time.After(20 * time.Millisecond):
	}

	require.NoError(t, log.Append(ctx, 0, command(7)))
	select {
	case seq := <-got:
		assert.Equal(t, uint64(7), seq)
	case <-time.After(time.Second):
		t.Fatal("read did not wake up")
	}
}

func TestLog_ReadHonoursContextAndClose(t *testing.T) {
	log := NewLog()
	reader := log.NewReader(0)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, _, err := reader.ReadMessage(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	done := make(chan error, 1)
	go func() {
		_, _, err := reader.ReadMessage(context.Background())
		done <- err
	}()
	require.NoError(t, log.Close())
	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrClosed)
	case <-time.After(time.Second):
		t.Fatal("close did not wake the reader")
	}
	assert.ErrorIs(t, log.Append(context.Background(), 0, command(1)), ErrClosed)
}
