package redis

import "time"

// Mode represents the mode of the Redis client.
type Mode string

const (
	// Standalone Mode is for a single Redis instance.
	Standalone Mode = "standalone"
	// Cluster Mode is for a Redis cluster setup.
	Cluster Mode = "cluster"
)

// Config holds the configuration for the Redis client.
type Config struct {
	Mode     Mode   `env:"MODE" envDefault:"standalone"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`

	Addrs []string `env:"ADDRS" envDefault:"localhost:6379"`

	ConnectTimeout  time.Duration `env:"CONNECT_TIMEOUT" envDefault:"5s"`
	MaxRetries      int           `env:"MAX_RETRIES" envDefault:"3"`
	MinRetryBackoff time.Duration `env:"MIN_RETRY_BACKOFF" envDefault:"100ms"`
	MaxRetryBackoff time.Duration `env:"MAX_RETRY_BACKOFF" envDefault:"2s"`
	PoolSize        int           `env:"POOL_SIZE" envDefault:"10"`
	MinIdleConns    int           `env:"MIN_IDLE_CONNS" envDefault:"2"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"10"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"30m"`
	ConnMaxIdleTime time.Duration `env:"CONN_MAX_IDLE_TIME" envDefault:"10m"`
	PoolTimeout     time.Duration `env:"POOL_TIMEOUT" envDefault:"4s"`

	// PrefixKey namespaces every key written by the exchange (snapshots, depth hashes).
	PrefixKey string `env:"PREFIX_KEY" envDefault:"spot:"`
}

// DefaultConfig returns a default configuration for the Redis client.
func DefaultConfig() *Config {
	return &Config{
		Mode:            Standalone,
		Addrs:           []string{"localhost:6379"},
		ConnectTimeout:  5 * time.Second,
		MaxRetries:      3,
		MinRetryBackoff: 100 * time.Millisecond,
		MaxRetryBackoff: 2 * time.Second,
		PoolSize:        10,
		MinIdleConns:    2,
		MaxIdleConns:    10,
		ConnMaxLifetime: 30 * time.Minute,
		ConnMaxIdleTime: 10 * time.Minute,
		PoolTimeout:     4 * time.Second,
		PrefixKey:       "spot:",
	}
}

// Key prefixes k with the configured namespace.
func (c *Config) Key(k string) string {
	return c.PrefixKey + k
}

// validate reports every invalid field at once.
func (c *Config) validate() error {
	var problems []string
	check := func(bad bool, field string) {
		if bad {
			problems = append(problems, field)
		}
	}

	check(len(c.Addrs) == 0, "addrs")
	check(c.Mode != Standalone && c.Mode != Cluster, "mode")
	check(c.ConnectTimeout <= 0, "connect_timeout")
	check(c.PoolSize <= 0, "pool_size")
	check(c.MinIdleConns < 0 || c.MaxIdleConns < 0, "idle_conns")
	check(c.ConnMaxLifetime <= 0, "conn_max_lifetime")
	check(c.ConnMaxIdleTime <= 0, "conn_max_idle_time")
	check(c.PoolTimeout <= 0, "pool_timeout")
	check(c.MaxRetries < 0, "max_retries")
	check(c.MinRetryBackoff < 0 || c.MaxRetryBackoff < 0, "retry_backoff")

	if len(problems) == 0 {
		return nil
	}
	return newConfigError(problems)
}
