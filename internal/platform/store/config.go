package store

import "time"

// Config aggregates per backend configuration
type Config struct {
	AppName string

	PG PGConfig
	KV KVConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	// Guard/boot knobs:
	ConnectRetries int           // default 20 with exponential backoff
	PingTimeout    time.Duration // default 3s
}

// KVConfig configures redis connectivity
type KVConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}
