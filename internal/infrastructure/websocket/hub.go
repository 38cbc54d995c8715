package websocket

import (
	"context"
	"encoding/json"
	"sync"

	depthv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/depth/v1"
	"github.com/muhammadchandra19/spot-exchange/pkg/errors"
	"github.com/muhammadchandra19/spot-exchange/pkg/logger"
)

// ErrHubClosed is returned once the hub stopped running.
var ErrHubClosed = errors.NewTransient("stream hub closed")

// MessageTypeDepth tags level update messages.
const MessageTypeDepth = "depth"

// Message is the frame sent to stream clients.
type Message struct {
	Type    string           `json:"type"`
	Symbol  string           `json:"symbol"`
	Updates []depthv1.Update `json:"updates"`
}

type broadcast struct {
	symbol string
	data   []byte
}

// Hub fans level updates out to the websocket clients subscribed to a
// symbol. It implements depthv1.Publisher. User scoped rows are never streamed.
type Hub struct {
	// clients is owned by Run.
	clients    map[string]map[*Client]struct{}
	broadcast  chan broadcast
	register   chan *Client
	unregister chan *Client
	// done is closed when Run returns.
	done chan struct{}

	mu     sync.RWMutex
	counts map[string]int

	origins map[string]struct{}
	logger  logger.Interface
}

// NewHub creates a Hub. Browser clients are accepted from origins only;
// an empty list accepts every origin.
func NewHub(log logger.Interface, origins ...string) *Hub {
	h := &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		broadcast:  make(chan broadcast, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		counts:     make(map[string]int),
		logger:     log,
	}
	if len(origins) > 0 {
		h.origins = make(map[string]struct{}, len(origins))
		for _, origin := range origins {
			h.origins[origin] = struct{}{}
		}
	}
	return h
}

// Run serves registrations and broadcasts until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		h.closeAll()
		close(h.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			subscribers, ok := h.clients[client.symbol]
			if !ok {
				subscribers = make(map[*Client]struct{})
				h.clients[client.symbol] = subscribers
			}
			subscribers[client] = struct{}{}
			h.setCount(client.symbol, len(subscribers))
			h.logger.Debug("Stream client connected",
				logger.NewField("symbol", client.symbol),
				logger.NewField("clients", len(subscribers)),
			)

		case client := <-h.unregister:
			h.remove(client)

		case msg := <-h.broadcast:
			for client := range h.clients[msg.symbol] {
				select {
				case client.send <- msg.data:
				default:
					// slow client
					h.remove(client)
				}
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	subscribers := h.clients[client.symbol]
	if _, ok := subscribers[client]; !ok {
		return
	}
	delete(subscribers, client)
	close(client.send)
	if len(subscribers) == 0 {
		delete(h.clients, client.symbol)
	}
	h.setCount(client.symbol, len(subscribers))
}

func (h *Hub) closeAll() {
	for _, subscribers := range h.clients {
		for client := range subscribers {
			h.remove(client)
		}
	}
}

func (h *Hub) setCount(symbol string, n int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if n == 0 {
		delete(h.counts, symbol)
		return
	}
	h.counts[symbol] = n
}

// ClientCount returns the number of clients subscribed to symbol.
func (h *Hub) ClientCount(symbol string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.counts[symbol]
}

// Publish broadcasts the global rows of updates, one message per symbol.
func (h *Hub) Publish(ctx context.Context, updates []depthv1.Update) error {
	select {
	case <-h.done:
		return ErrHubClosed
	default:
	}

	var (
		order    []string
		bySymbol = make(map[string][]depthv1.Update)
	)
	for _, u := range updates {
		if u.UserID != "" {
			continue
		}
		if _, ok := bySymbol[u.Symbol]; !ok {
			order = append(order, u.Symbol)
		}
		bySymbol[u.Symbol] = append(bySymbol[u.Symbol], u)
	}

	for _, symbol := range order {
		if h.ClientCount(symbol) == 0 {
			continue
		}
		data, err := json.Marshal(Message{Type: MessageTypeDepth, Symbol: symbol, Updates: bySymbol[symbol]})
		if err != nil {
			return err
		}
		select {
		case h.broadcast <- broadcast{symbol: symbol, data: data}:
		case <-h.done:
			return ErrHubClosed
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
