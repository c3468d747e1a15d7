package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the YAML config file to load.
const EnvConfigPath = "LASER_FINDER_CONFIG"

const (
	DefaultListenAddress = ":8080"
	DefaultFetchLimit    = 500
	MaxFetchLimit        = 1000
)

type Config struct {
	ListenAddress string `yaml:"listen_address"`
	// MachinesUrl is the base url serving GET /api/machines.
	MachinesUrl string `yaml:"machines_url"`
	// DatabaseUrl reads the machines table directly and takes precedence
	// over MachinesUrl.
	DatabaseUrl string `yaml:"database_url"`
	FetchLimit  int    `yaml:"fetch_limit"`
	DataDir     string `yaml:"data_dir"`
	LogLevel    string `yaml:"log_level"`

	Redis    RedisConfig    `yaml:"redis"`
	Rabbit   RabbitConfig   `yaml:"rabbit"`
	Admin    AdminConfig    `yaml:"admin"`
	Tracking TrackingConfig `yaml:"tracking"`
}

type RedisConfig struct {
	Url      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type RabbitConfig struct {
	Url    string `yaml:"url"`
	Prefix string `yaml:"prefix"`
}

type AdminConfig struct {
	JwtSecret string `yaml:"jwt_secret"`
}

type TrackingConfig struct {
	Context string `yaml:"context"`
}

func Default() *Config {
	return &Config{
		ListenAddress: DefaultListenAddress,
		FetchLimit:    DefaultFetchLimit,
		DataDir:       "data",
		LogLevel:      "info",
		Rabbit:        RabbitConfig{Prefix: "laser"},
		Tracking:      TrackingConfig{Context: "compare"},
	}
}

// Load reads .env (if present), then the YAML file named by
// LASER_FINDER_CONFIG (if set) and finally applies environment overrides.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return LoadFile(os.Getenv(EnvConfigPath))
}

// LoadFile loads defaults, the YAML file at path and environment overrides.
// A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	cfg.FetchLimit = ClampLimit(cfg.FetchLimit)
	return cfg, cfg.Validate()
}

func (c *Config) applyEnvOverrides() error {
	str := func(dst *string, env string) {
		if v, ok := os.LookupEnv(env); ok && v != "" {
			*dst = v
		}
	}
	str(&c.ListenAddress, "LISTEN_ADDRESS")
	str(&c.MachinesUrl, "MACHINES_URL")
	str(&c.DatabaseUrl, "DATABASE_URL")
	str(&c.DataDir, "DATA_DIR")
	str(&c.LogLevel, "LOG_LEVEL")
	str(&c.Redis.Url, "REDIS_URL")
	str(&c.Redis.Password, "REDIS_PASSWORD")
	str(&c.Rabbit.Url, "RABBIT_URL")
	str(&c.Admin.JwtSecret, "ADMIN_JWT_SECRET")

	if v := os.Getenv("FETCH_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid FETCH_LIMIT %q: %w", v, err)
		}
		c.FetchLimit = n
	}
	return nil
}

// ClampLimit keeps a requested limit within 1..1000, using the default for
// anything non positive.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultFetchLimit
	}
	return min(limit, MaxFetchLimit)
}

func (c *Config) Validate() error {
	if c.MachinesUrl == "" && c.DatabaseUrl == "" {
		return fmt.Errorf("no machine source configured (set MACHINES_URL or DATABASE_URL)")
	}
	if c.MachinesUrl != "" && !strings.HasPrefix(c.MachinesUrl, "http://") && !strings.HasPrefix(c.MachinesUrl, "https://") {
		return fmt.Errorf("invalid machines url: %s", c.MachinesUrl)
	}
	return nil
}

func (c *Config) UsesDatabase() bool {
	return c.DatabaseUrl != ""
}
