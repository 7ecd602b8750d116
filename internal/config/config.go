package config

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type API struct {
	BaseURL      string        `yaml:"base_url" env:"MARKET_API_URL" env-default:"http://127.0.0.1:8000/api"`
	Timeout      time.Duration `yaml:"timeout" env:"MARKET_API_TIMEOUT" env-default:"10s"`
	ImageTimeout time.Duration `yaml:"image_timeout" env:"MARKET_API_IMAGE_TIMEOUT" env-default:"6s"`
	// Empty means stock is read from the product list.
	StockPath string `yaml:"stock_path" env:"MARKET_API_STOCK_PATH"`
}

type UI struct {
	Categories []string `yaml:"categories" env:"UI_CATEGORIES" env-default:"tea,sugar,flour,oil,other"`
	Width      float32  `yaml:"width" env:"UI_WIDTH" env-default:"1100"`
	Height     float32  `yaml:"height" env:"UI_HEIGHT" env-default:"720"`
}

type Metrics struct {
	// Empty disables the /metrics listener.
	Addr string `yaml:"address" env:"METRICS_ADDR"`
}

type OtelConfig struct {
	ServiceName string `yaml:"SERVICE_NAME" env:"OTEL_SERVICE_NAME" env-default:"market-admin"`
	// Empty disables trace export.
	ExporterEndpoint string  `yaml:"EXPORTER_ENDPOINT" env:"OTEL_EXPORTER_OTLP_TRACES_ENDPOINT"`
	SamplerRatio     float64 `yaml:"SAMPLER_RATIO" env:"OTEL_SAMPLER_RATIO" env-default:"1.0"`
}

type Config struct {
	Env      string     `yaml:"env" env:"ENV" env-default:"local"`
	LogLevel string     `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	API      API        `yaml:"api"`
	UI       UI         `yaml:"ui"`
	Metrics  Metrics    `yaml:"metrics"`
	Otel     OtelConfig `yaml:"otel"`
}

// MustLoad reads the file named by CONFIG_PATH or -config. Without either the
// configuration comes from the environment and defaults alone.
func MustLoad() *Config {

	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {

		flags := flag.String("config", "", "path to the YAML config file")

		flag.Parse()

		configPath = *flags

	}

	if configPath == "" {
		cfg, err := LoadFromEnv()
		if err != nil {
			log.Fatalf("can not read config from environment: %s", err.Error())
		}

		return cfg
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	cfg, err := LoadConfigFromPath(configPath)
	if err != nil {
		log.Fatalf("can not read config file: %s", err.Error())
	}

	return cfg

}

func LoadConfigFromPath(configPath string) (*Config, error) {
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("read config %s: %w", configPath, err)
	}

	return &cfg, nil
}

func LoadFromEnv() (*Config, error) {
	var cfg Config

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read config from environment: %w", err)
	}

	return &cfg, nil
}

// SlogLevel maps log_level to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	return slog.LevelInfo
}
