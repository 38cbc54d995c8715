package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/muhammadchandra19/spot-exchange/internal/app/api"
	orderv1 "github.com/muhammadchandra19/spot-exchange/internal/domain/order/v1"
	"github.com/muhammadchandra19/spot-exchange/pkg/logger"
)

type generator struct {
	rnd         *rand.Rand
	symbol      string
	users       []string
	basePrice   decimal.Decimal
	priceSpread float64
}

// next creates a random order. 70% are limit orders, split evenly between sides.
func (g *generator) next() orderv1.CommandData {
	kind := orderv1.KindLimit
	if g.rnd.Float64() < 0.3 {
		kind = orderv1.KindMarket
	}
	side := orderv1.SideSell
	if g.rnd.Float64() < 0.5 {
		side = orderv1.SideBuy
	}

	data := orderv1.CommandData{
		ID:          uuid.NewString(),
		Symbol:      g.symbol,
		Side:        side,
		Type:        kind,
		Quantity:    decimal.NewFromFloat(0.01 + g.rnd.Float64()*9.99).Round(3),
		UserID:      g.users[g.rnd.Intn(len(g.users))],
		TimeInForce: orderv1.GTC,
		Timestamp:   time.Now().UnixMilli(),
	}
	if kind == orderv1.KindMarket {
		data.TimeInForce = orderv1.IOC
		return data
	}

	// Bids rest below the base price and asks above it.
	offset := decimal.NewFromFloat(g.rnd.Float64() * g.priceSpread * 0.8)
	price := g.basePrice.Add(offset)
	if side == orderv1.SideBuy {
		price = g.basePrice.Sub(offset)
	}
	if !price.IsPositive() {
		price = g.basePrice
	}
	price = price.Round(1)
	data.Price = &price
	return data
}

type client struct {
	http *http.Client
	addr string
}

func (c *client) post(ctx context.Context, path string, body interface{}) (api.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return api.Response{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.addr+path, bytes.NewReader(payload))
	if err != nil {
		return api.Response{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return api.Response{}, err
	}
	defer res.Body.Close()

	var resp api.Response
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return api.Response{}, err
	}
	if res.StatusCode >= http.StatusBadRequest {
		return resp, fmt.Errorf("%s: %d %s", path, res.StatusCode, resp.Message)
	}
	return resp, nil
}

func main() {
	var (
		addr        = flag.String("addr", "http://localhost:8080", "Exchange API address")
		symbol      = flag.String("symbol", "BTC/USDT", "Symbol to trade")
		file        = flag.String("file", "", "JSON file with orders (optional, generates orders if not provided)")
		delay       = flag.Duration("delay", 100*time.Millisecond, "Delay between sending orders")
		count       = flag.Int("count", 1000, "Number of orders to generate")
		users       = flag.Int("users", 20, "Number of trading users")
		basePrice   = flag.String("base-price", "3945.5", "Base price for orders")
		priceSpread = flag.Float64("price-spread", 200.0, "Price spread range")
		deposit     = flag.String("deposit", "", "Amount of each asset deposited for every user before trading")
	)
	flag.Parse()

	log, err := logger.NewLogger(logger.WithEncoding("console"))
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	base, err := decimal.NewFromString(*basePrice)
	if err != nil {
		log.Error(err, logger.NewField("flag", "base-price"))
		os.Exit(1)
	}

	g := &generator{
		rnd:         rand.New(rand.NewSource(time.Now().UnixNano())),
		symbol:      strings.ToUpper(*symbol),
		basePrice:   base,
		priceSpread: *priceSpread,
	}
	for i := 0; i < *users; i++ {
		g.users = append(g.users, fmt.Sprintf("user-%03d", i))
	}

	c := &client{http: &http.Client{Timeout: 10 * time.Second}, addr: strings.TrimSuffix(*addr, "/")}
	ctx := context.Background()

	if *deposit != "" {
		amount, err := decimal.NewFromString(*deposit)
		if err != nil {
			log.Error(err, logger.NewField("flag", "deposit"))
			os.Exit(1)
		}
		coin, currency, _ := orderv1.ParseSymbol(g.symbol)
		for _, user := range g.users {
			for _, asset := range []string{coin, currency} {
				req := api.DepositRequest{UserID: user, Asset: asset, Amount: amount}
				if _, err := c.post(ctx, "/v1/admin/deposits", req); err != nil {
					log.Error(err, logger.NewField("user", user), logger.NewField("asset", asset))
					os.Exit(1)
				}
			}
		}
		log.Info("Deposited funds", logger.NewField("users", len(g.users)), logger.NewField("amount", amount.String()))
	}

	var orders []orderv1.CommandData
	if *file != "" {
		data, err := os.ReadFile(*file)
		if err != nil {
			log.Error(err, logger.NewField("file", *file))
			os.Exit(1)
		}
		if err := json.Unmarshal(data, &orders); err != nil {
			log.Error(err, logger.NewField("file", *file))
			os.Exit(1)
		}
	} else {
		for i := 0; i < *count; i++ {
			orders = append(orders, g.next())
		}
	}

	var sent, failed, market, buys int
	for i, order := range orders {
		if order.Type == orderv1.KindMarket {
			market++
		}
		if order.Side == orderv1.SideBuy {
			buys++
		}

		if _, err := c.post(ctx, "/v1/orders", order); err != nil {
			failed++
			log.Warn("Order rejected",
				logger.NewField("order_id", order.ID),
				logger.NewField("error", err.Error()),
			)
		} else {
			sent++
		}

		if (i+1)%100 == 0 || i == len(orders)-1 {
			log.Info("Progress",
				logger.NewField("sent", sent),
				logger.NewField("failed", failed),
				logger.NewField("total", len(orders)),
			)
		}
		if i < len(orders)-1 {
			time.Sleep(*delay)
		}
	}

	log.Info("Summary",
		logger.NewField("total", len(orders)),
		logger.NewField("market", market),
		logger.NewField("limit", len(orders)-market),
		logger.NewField("buy", buys),
		logger.NewField("sell", len(orders)-buys),
	)
}
