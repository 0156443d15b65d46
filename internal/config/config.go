package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config carries every runtime setting, read from SLAM_* environment
// variables with an optional .env file layered underneath.
type Config struct {
	Addr          string        `envconfig:"ADDR" default:":8080"`
	JWTSecret     string        `envconfig:"JWT_SECRET" default:"slambook-dev-secret"`
	DataPath      string        `envconfig:"DATA_PATH" default:"data/slambook.slam"`
	StaticDir     string        `envconfig:"STATIC_DIR"`
	LogLevel      string        `envconfig:"LOG_LEVEL" default:"info"`
	LogEncoding   string        `envconfig:"LOG_ENCODING" default:"json"`
	FlushInterval time.Duration `envconfig:"FLUSH_INTERVAL" default:"30s"`
	TokenTTL      time.Duration `envconfig:"TOKEN_TTL" default:"720h"`
}

// Load reads the optional env file, then the process environment. A
// missing env file is not an error; shell-provided variables win.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		_ = godotenv.Load(envFile)
	}
	var cfg Config
	if err := envconfig.Process("SLAM", &cfg); err != nil {
		return nil, fmt.Errorf("process env config: %w", err)
	}
	return &cfg, nil
}
