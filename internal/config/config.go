// Package config handles loading and parsing application configuration.
// Values come from three sources, later ones winning:
//  1. env-default tags on the structs below (the service runs with no
//     file at all)
//  2. an optional YAML file named by CONFIG_PATH or --config
//  3. environment variables (env:"..." tags), e.g. PORT=8080
package config

import (
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Storage drivers accepted in storage.driver.
const (
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Config is the root configuration structure.
type Config struct {
	// Env controls log format and verbosity: "dev", "staging" or "prod".
	Env string `yaml:"env" env:"ENV" env-default:"dev"`

	Storage Storage `yaml:"storage"`

	HTTPServer `yaml:"http_server"`
}

// Storage selects and locates the friend store.
type Storage struct {
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"mongo"`

	// URI, Database and Collection are used by the mongo driver.
	URI        string `yaml:"uri"        env:"MONGO_URI"        env-default:"mongodb://localhost/FriendList"`
	Database   string `yaml:"database"   env:"MONGO_DATABASE"   env-default:"FriendList"`
	Collection string `yaml:"collection" env:"MONGO_COLLECTION" env-default:"friends"`

	// Path is the SQLite database file used by the sqlite driver.
	Path string `yaml:"path" env:"STORAGE_PATH" env-default:"storage/friends.db"`

	// Timeout bounds every single store call.
	Timeout time.Duration `yaml:"timeout" env:"STORAGE_TIMEOUT" env-default:"5s"`
}

// HTTPServer holds settings specific to the HTTP server.
type HTTPServer struct {
	Host string `yaml:"host" env:"HTTP_HOST"`
	Port int    `yaml:"port" env:"PORT" env-default:"5005"`

	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"HTTP_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"HTTP_WRITE_TIMEOUT"    env-default:"10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"HTTP_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// Addr is the listen address, e.g. ":5005".
func (h HTTPServer) Addr() string {
	return net.JoinHostPort(h.Host, strconv.Itoa(h.Port))
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMongo, DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.Storage.Driver)
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config: port %d out of range", c.Port)
	}

	return nil
}

// Load builds the config from path (when non-empty) and the environment.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		// Check the file up front for a clearer message than the
		// "open: no such file" cleanenv would give.
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("config: file does not exist: %s", path)
		}

		// ReadConfig parses the YAML, then applies env overrides and
		// env-default values.
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad reads, validates, and returns the application config, exiting
// the process on failure.
//
// The config file path comes from CONFIG_PATH first, then --config:
//
//	go run ./cmd/friends-api --config=config/local.yaml
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot load config: %s", err.Error())
	}

	return cfg
}
