package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	depthv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/depth/v1"
	orderv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order/v1"
	"github.com/muhammadchandra19/spot-exchange/pkg/logger"
)

func level(symbol, userID, price string) depthv1.Update {
	return depthv1.Update{
		Level: depthv1.Level{
			Symbol:   symbol,
			Side:     orderv1.SideBuy,
			Price:    decimal.RequireFromString(price),
			Quantity: decimal.RequireFromString("1"),
			Count:    1,
			UserID:   userID,
		},
		QuantityDelta: decimal.RequireFromString("1"),
		CountDelta:    1,
	}
}

func startHub(t *testing.T, origins ...string) (*Hub, *httptest.Server) {
	hub := NewHub(logger.NewNopLogger(), origins...)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.ServeWS(w, r, r.URL.Query().Get("symbol"))
	}))
	t.Cleanup(func() {
		server.Close()
		cancel()
	})
	return hub, server
}

func dial(t *testing.T, server *httptest.Server, symbol string, header http.Header) (*websocket.Conn, *http.Response, error) {
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/?symbol=" + symbol
	return websocket.DefaultDialer.Dial(url, header)
}

func TestHub_StreamsSubscribedSymbol(t *testing.T) {
	hub, server := startHub(t)

	conn, _, err := dial(t, server, "BTC/USDT", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount("BTC/USDT") == 1 },
		2*time.Second, 10*time.Millisecond)

	err = hub.Publish(context.Background(), []depthv1.Update{
		level("ETH/USDT", "", "10"),
		level("BTC/USDT", "alice", "100"),
		level("BTC/USDT", "", "100"),
	})
	require.NoError(t, err)

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, MessageTypeDepth, msg.Type)
	assert.Equal(t, "BTC/USDT", msg.Symbol)
	require.Len(t, msg.Updates, 1)
	assert.Empty(t, msg.Updates[0].UserID)
	assert.Equal(t, "100", msg.Updates[0].Price.String())
}

func TestHub_UnregistersClosedClients(t *testing.T) {
	hub, server := startHub(t)

	conn, _, err := dial(t, server, "BTC/USDT", nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hub.ClientCount("BTC/USDT") == 1 },
		2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.ClientCount("BTC/USDT") == 0 },
		2*time.Second, 10*time.Millisecond)
	assert.NoError(t, hub.Publish(context.Background(), []depthv1.Update{level("BTC/USDT", "", "1")}))
}

func TestHub_RejectsUnknownOrigin(t *testing.T) {
	_, server := startHub(t, "https://exchange.example")

	header := http.Header{}
	header.Set("Origin", "https://evil.example")
	_, resp, err := dial(t, server, "BTC/USDT", header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	header.Set("Origin", "https://exchange.example")
	conn, _, err := dial(t, server, "BTC/USDT", header)
	require.NoError(t, err)
	conn.Close()
}

func TestHub_PublishAfterStop(t *testing.T) {
	hub := NewHub(logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	err := hub.Publish(context.Background(), []depthv1.Update{level("BTC/USDT", "", "1")})
	assert.ErrorIs(t, err, ErrHubClosed)
}
