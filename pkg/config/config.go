package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/muhammadchandra19/spot-exchange/pkg/postgresql"
	"github.com/muhammadchandra19/spot-exchange/pkg/redis"
)

// MustLoad loads the configuration from environment variables and .env file.
func MustLoad[T any](cfg T) {
	_ = godotenv.Load()

	env.Must(cfg, env.Parse(cfg))
}

// Load loads the configuration from environment variables and an optional .env file.
func Load[T any](cfg T) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	return env.Parse(cfg)
}

// Config holds the configuration for the exchange process.
type Config struct {
	App          AppConfig         `envPrefix:"APP_"`
	Kafka        KafkaConfig       `envPrefix:"KAFKA_"`
	Redis        redis.Config      `envPrefix:"REDIS_"`
	PostgreSQL   postgresql.Config `envPrefix:"POSTGRES_"`
	Snapshot     SnapshotConfig    `envPrefix:"SNAPSHOT_"`
	Ledger       LedgerConfig      `envPrefix:"LEDGER_"`
	SettingsFile string            `env:"SETTINGS_FILE" envDefault:"config/settings.yaml"`
}

// AppConfig holds process level settings.
type AppConfig struct {
	Name     string `env:"NAME" envDefault:"spot-exchange"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	HTTPPort int    `env:"HTTP_PORT" envDefault:"8080"`
	// Shards lists the shard ids this process runs a worker for.
	Shards []int `env:"SHARDS" envDefault:"0"`
	// OrderLog selects the ordered log backend: kafka or memory.
	OrderLog        string        `env:"ORDER_LOG" envDefault:"kafka"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
	// PublishBuffer bounds the queue between a shard worker and its publishers.
	PublishBuffer int `env:"PUBLISH_BUFFER" envDefault:"4096"`
	// AllowedOrigins restricts websocket subscribers. Empty allows any origin.
	AllowedOrigins []string `env:"ALLOWED_ORIGINS"`
}

// KafkaConfig holds the configuration for the order log and the event topics.
type KafkaConfig struct {
	Brokers           []string      `env:"BROKERS" envDefault:"localhost:9092"`
	OrdersTopic       string        `env:"ORDERS_TOPIC" envDefault:"spot.orders"`
	TradesTopic       string        `env:"TRADES_TOPIC" envDefault:"spot.trades"`
	OrderEventsTopic  string        `env:"ORDER_EVENTS_TOPIC" envDefault:"spot.order-events"`
	Partitions        int           `env:"PARTITIONS" envDefault:"4"`
	WriteTimeout      time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ReaderMaxWait     time.Duration `env:"READER_MAX_WAIT" envDefault:"500ms"`
	PublishEvents     bool          `env:"PUBLISH_EVENTS" envDefault:"true"`
	AppendMaxElapsed  time.Duration `env:"APPEND_MAX_ELAPSED" envDefault:"15s"`
	PublishMaxElapsed time.Duration `env:"PUBLISH_MAX_ELAPSED" envDefault:"30s"`
}

// SnapshotConfig controls when and where shard snapshots are written.
type SnapshotConfig struct {
	// Backend is redis or pebble.
	Backend     string        `env:"BACKEND" envDefault:"redis"`
	Interval    time.Duration `env:"INTERVAL" envDefault:"30s"`
	OffsetDelta int64         `env:"OFFSET_DELTA" envDefault:"1000"`
	PebbleDir   string        `env:"PEBBLE_DIR" envDefault:"data/snapshots"`
}

// LedgerConfig selects the balance store.
type LedgerConfig struct {
	// Backend is memory or postgres.
	Backend    string `env:"BACKEND" envDefault:"postgres"`
	FeeAccount string `env:"FEE_ACCOUNT" envDefault:""`
}
