package postgresql

import (
	"fmt"
	"net/url"
	"time"
)

// Config is the PostgreSQL client configuration.
type Config struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     int    `env:"PORT" envDefault:"5432"`
	Database string `env:"DATABASE" envDefault:"spot_exchange"`
	Username string `env:"USERNAME" envDefault:"postgres"`
	Password string `env:"PASSWORD" envDefault:""`
	SSLMode  string `env:"SSL_MODE" envDefault:"prefer"`

	// The ledger holds row locks for the duration of one trade, so the pool
	// is sized for many short transactions.
	MaxConns        int32         `env:"MAX_CONNS" envDefault:"32"`
	MinConns        int32         `env:"MIN_CONNS" envDefault:"4"`
	MaxConnLifetime time.Duration `env:"MAX_CONN_LIFETIME" envDefault:"1h"`
	MaxConnIdleTime time.Duration `env:"MAX_CONN_IDLE_TIME" envDefault:"10m"`
	ConnectTimeout  time.Duration `env:"CONNECT_TIMEOUT" envDefault:"5s"`

	ApplicationName string `env:"APPLICATION_NAME" envDefault:"spot-exchange"`
	SearchPath      string `env:"SEARCH_PATH" envDefault:"public"`

	// SerializationRetries bounds how many times a transaction aborted with
	// SQLSTATE 40001 is re-run.
	SerializationRetries int `env:"SERIALIZATION_RETRIES" envDefault:"8"`
}

// ConnString builds the postgres:// URL for the configuration.
func (c Config) ConnString() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.Username, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   "/" + c.Database,
	}
	q := u.Query()
	q.Set("sslmode", c.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
