package postgresql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInsertBuilder(t *testing.T) {
	testCases := []struct {
		name         string
		build        func() InsertBuilder
		expectedSQL  string
		expectedArgs []any
	}{
		{
			name: "single row",
			build: func() InsertBuilder {
				return NewInsertBuilder().Into("trades").Columns("id", "symbol").Values("BTC/USDT-1", "BTC/USDT")
			},
			expectedSQL:  "INSERT INTO trades (id, symbol) VALUES ($1, $2)",
			expectedArgs: []any{"BTC/USDT-1", "BTC/USDT"},
		},
		{
			name: "upsert overwrites columns",
			build: func() InsertBuilder {
				return NewInsertBuilder().
					Into("account_balances").
					Columns("user_id", "asset", "balance", "available").
					Values("u1", "USDT", "10", "8").
					Values("u2", "USDT", "5", "5").
					OnConflict("user_id", "asset").
					DoUpdate("balance", "available")
			},
			expectedSQL: "INSERT INTO account_balances (user_id, asset, balance, available) VALUES ($1, $2, $3, $4), ($5, $6, $7, $8) " +
				"ON CONFLICT (user_id, asset) DO UPDATE SET balance = EXCLUDED.balance, available = EXCLUDED.available",
			expectedArgs: []any{"u1", "USDT", "10", "8", "u2", "USDT", "5", "5"},
		},
		{
			name: "do nothing with returning",
			build: func() InsertBuilder {
				return NewInsertBuilder().Into("trades").Columns("id").Values("t1").OnConflict("id").DoNothing().Returning("id")
			},
			expectedSQL:  "INSERT INTO trades (id) VALUES ($1) ON CONFLICT (id) DO NOTHING RETURNING id",
			expectedArgs: []any{"t1"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sql, args := tc.build().Build()
			assert.Equal(t, tc.expectedSQL, sql)
			assert.Equal(t, tc.expectedArgs, args)
		})
	}
}

func TestConfigConnString(t *testing.T) {
	cfg := Config{Host: "db", Port: 5433, Database: "ledger", Username: "svc", Password: "p@ss", SSLMode: "disable"}
	assert.Equal(t, "postgres://svc:p%40ss@db:5433/ledger?sslmode=disable", cfg.ConnString())
}
