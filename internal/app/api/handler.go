package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	depthv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/depth/v1"
	orderv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order/v1"
	"github.com/muhammadchandra19/spot-exchange/pkg/errors"
	"github.com/muhammadchandra19/spot-exchange/pkg/logger"
)

const (
	defaultDepthLimit = 20
	maxDepthLimit     = 500
)

// Handler serves the exchange HTTP API.
type Handler struct {
	orders   OrderRouter
	books    BookReader
	accounts Accounts
	stream   Streamer
	logger   logger.Interface
}

// NewHandler creates a Handler. A nil stream disables the websocket route.
func NewHandler(orders OrderRouter, books BookReader, accounts Accounts, stream Streamer, log logger.Interface) *Handler {
	return &Handler{
		orders:   orders,
		books:    books,
		accounts: accounts,
		stream:   stream,
		logger:   log,
	}
}

// LevelsResponse is the aggregated depth of a symbol at one bucket.
type LevelsResponse struct {
	Symbol string          `json:"symbol"`
	Bucket decimal.Decimal `json:"bucket"`
	Bids   []depthv1.Level `json:"bids"`
	Asks   []depthv1.Level `json:"asks"`
}

// DepositRequest is the body of the admin deposit route.
type DepositRequest struct {
	UserID string          `json:"userId"`
	Asset  string          `json:"asset"`
	Amount decimal.Decimal `json:"amount"`
}

// RemapRequest is the body of the shard reassignment route.
type RemapRequest struct {
	Shard int `json:"shard"`
}

// pathSymbol reads a {symbol} path variable written as BTC-USDT.
func pathSymbol(r *http.Request) string {
	return strings.ToUpper(strings.ReplaceAll(mux.Vars(r)["symbol"], "-", "/"))
}

// PlaceOrder handles POST /v1/orders.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var data orderv1.CommandData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		writeFailure(w, http.StatusBadRequest, errors.GeneralBadRequestError, "malformed order body")
		return
	}
	data.Symbol = strings.ToUpper(data.Symbol)

	receipt, err := h.orders.Submit(r.Context(), orderv1.Command{Code: orderv1.PlaceOrder, Data: data})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusAccepted, receipt)
}

// CancelOrder handles DELETE /v1/orders/{symbol}/{id}?userId=.
func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	h.evict(w, r, orderv1.CancelOrder, r.URL.Query().Get("userId"))
}

// RemoveOrder handles DELETE /v1/admin/orders/{symbol}/{id}.
func (h *Handler) RemoveOrder(w http.ResponseWriter, r *http.Request) {
	h.evict(w, r, orderv1.RemoveOrder, "")
}

func (h *Handler) evict(w http.ResponseWriter, r *http.Request, code orderv1.CommandCode, userID string) {
	receipt, err := h.orders.Submit(r.Context(), orderv1.Command{
		Code: code,
		Data: orderv1.CommandData{
			ID:     mux.Vars(r)["id"],
			Symbol: pathSymbol(r),
			UserID: userID,
		},
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusAccepted, receipt)
}

// GetOrder handles GET /v1/orders/{symbol}/{id}.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, found, err := h.books.Order(r.Context(), pathSymbol(r), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if !found {
		writeFailure(w, http.StatusNotFound, errors.GeneralNotFoundError, "order is not live")
		return
	}
	writeData(w, http.StatusOK, order)
}

// GetDepth handles GET /v1/books/{symbol}/depth?bucket=&limit=.
// Without bucket the raw levels of the book are returned.
func (h *Handler) GetDepth(w http.ResponseWriter, r *http.Request) {
	symbol := pathSymbol(r)
	query := r.URL.Query()

	limit := defaultDepthLimit
	if raw := query.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxDepthLimit {
			writeFailure(w, http.StatusBadRequest, errors.GeneralBadRequestError, "limit must be between 1 and 500")
			return
		}
		limit = n
	}

	raw := query.Get("bucket")
	if raw == "" {
		depth, err := h.books.Depth(r.Context(), symbol, limit)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeData(w, http.StatusOK, depth)
		return
	}

	bucket, err := decimal.NewFromString(raw)
	if err != nil || bucket.IsNegative() {
		writeFailure(w, http.StatusBadRequest, errors.GeneralBadRequestError, "bucket must be a non-negative decimal")
		return
	}

	resp := LevelsResponse{Symbol: symbol, Bucket: bucket}
	if resp.Bids, err = h.books.Levels(r.Context(), symbol, orderv1.SideBuy, bucket, limit); err != nil {
		h.writeError(w, r, err)
		return
	}
	if resp.Asks, err = h.books.Levels(r.Context(), symbol, orderv1.SideSell, bucket, limit); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, resp)
}

// GetUserLevels handles GET /v1/users/{user}/levels?symbol=.
func (h *Handler) GetUserLevels(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(r.URL.Query().Get("symbol"))
	if symbol == "" {
		writeFailure(w, http.StatusBadRequest, errors.GeneralBadRequestError, "symbol is required")
		return
	}
	levels, err := h.books.UserLevels(r.Context(), mux.Vars(r)["user"], symbol)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, levels)
}

// GetBalance handles GET /v1/users/{user}/balances/{asset}.
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	balance, err := h.accounts.Balance(r.Context(), vars["user"], strings.ToUpper(vars["asset"]))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, balance)
}

// Deposit handles POST /v1/admin/deposits.
func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" || req.Asset == "" {
		writeFailure(w, http.StatusBadRequest, errors.GeneralBadRequestError, "deposit needs userId, asset and amount")
		return
	}
	req.Asset = strings.ToUpper(req.Asset)
	if err := h.accounts.Deposit(r.Context(), req.UserID, req.Asset, req.Amount); err != nil {
		h.writeError(w, r, err)
		return
	}
	balance, err := h.accounts.Balance(r.Context(), req.UserID, req.Asset)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, balance)
}

// Remap handles POST /v1/admin/symbols/{symbol}/shard.
func (h *Handler) Remap(w http.ResponseWriter, r *http.Request) {
	var req RemapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, errors.GeneralBadRequestError, "malformed remap body")
		return
	}
	symbol := pathSymbol(r)
	if err := h.orders.Remap(r.Context(), symbol, req.Shard); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{"symbol": symbol, "shard": req.Shard})
}

// Stream handles GET /v1/books/{symbol}/stream.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	symbol := pathSymbol(r)
	if err := h.stream.ServeWS(w, r, symbol); err != nil {
		// the upgrader already answered the client
		h.logger.WarnContext(r.Context(), "Stream upgrade failed",
			logger.NewField("symbol", symbol),
			logger.NewField("error", err.Error()),
		)
	}
}
