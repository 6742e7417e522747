package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	DriverPostgres = "postgres"
	DriverBadger   = "badger"
)

// Config holds everything the entry point needs to assemble the service.
type Config struct {
	Port  int         `koanf:"port" validate:"min=1,max=65535"`
	DB    DBConfig    `koanf:"db"`
	Store StoreConfig `koanf:"store"`
	Log   LogConfig   `koanf:"log"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `koanf:"host" validate:"required"`
	Port     int    `koanf:"port" validate:"min=1,max=65535"`
	User     string `koanf:"user" validate:"required"`
	Password string `koanf:"password"`
	Name     string `koanf:"name" validate:"required"`
	SSLMode  string `koanf:"sslmode" validate:"required"`
	MaxConns int    `koanf:"max_conns" validate:"min=1"`
}

type StoreConfig struct {
	Driver    string `koanf:"driver" validate:"oneof=postgres badger"`
	BadgerDir string `koanf:"badger_dir"`
}

type LogConfig struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `koanf:"json"`
}

// envKeys maps recognised environment variables to config paths.
var envKeys = map[string]string{
	"PORT":         "port",
	"DB_HOST":      "db.host",
	"DB_PORT":      "db.port",
	"DB_USER":      "db.user",
	"DB_PASS":      "db.password",
	"DB_NAME":      "db.name",
	"DB_SSLMODE":   "db.sslmode",
	"DB_MAX_CONNS": "db.max_conns",
	"STORE_DRIVER": "store.driver",
	"BADGER_DIR":   "store.badger_dir",
	"LOG_LEVEL":    "log.level",
	"LOG_JSON":     "log.json",
}

// Default returns the configuration used when no variables are set.
func Default() Config {
	return Config{
		Port: 3000,
		DB: DBConfig{
			Host:     "postgres",
			Port:     5432,
			User:     "bloguser",
			Password: "blogpass",
			Name:     "blogdb",
			SSLMode:  "disable",
			MaxConns: 10,
		},
		Store: StoreConfig{
			Driver:    DriverPostgres,
			BadgerDir: "data/badger",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads envFile (when it exists) into the process environment, then
// layers the environment over the defaults. The result is not validated;
// callers apply their own overrides and then call Validate.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat env file: %w", err)
		}
	}

	k := koanf.New(".")
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	if err := k.Load(env.Provider(".", env.Opt{
		TransformFunc: func(key string, value string) (string, any) {
			path, ok := envKeys[key]
			if !ok || value == "" {
				return "", nil
			}
			return path, strings.TrimSpace(value)
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// DSN renders the PostgreSQL connection URL. Credentials and database name
// are escaped so any character survives parsing.
func (d DBConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:   "/" + d.Name,
		RawQuery: url.Values{
			"sslmode":        {d.SSLMode},
			"pool_max_conns": {strconv.Itoa(d.MaxConns)},
		}.Encode(),
	}
	return u.String()
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("0.0.0.0:%d", c.Port)
}
