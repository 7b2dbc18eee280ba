package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Depot struct {
	Lat float64 `yaml:"lat"`
	Lon float64 `yaml:"lon"`
}

// Config is the process configuration.
//
// Values come from built-in defaults, then the optional YAML file named by
// CONFIG_FILE, then environment variables (a local .env file is loaded first).
type Config struct {
	Port        string `yaml:"port"`
	DatabaseURL string `yaml:"database_url"`
	RedisURL    string `yaml:"redis_url"`
	ORSAPIKey   string `yaml:"ors_api_key"`
	SeedPath    string `yaml:"seed_path"`

	Depot Depot `yaml:"depot"`
	// RegionSplitLon defaults to the depot longitude.
	RegionSplitLon  *float64 `yaml:"region_split_lon"`
	DefaultCapacity float64  `yaml:"default_capacity"`

	PlanLockTTL    time.Duration `yaml:"plan_lock_ttl"`
	PlanRatePerSec float64       `yaml:"plan_rate_per_sec"`
	PlanRateBurst  int           `yaml:"plan_rate_burst"`
}

func Defaults() Config {
	return Config{
		Port:            "8080",
		SeedPath:        "data/seeds/seed.json",
		Depot:           Depot{Lat: -6.2000, Lon: 106.8167},
		DefaultCapacity: 1000,
		PlanLockTTL:     2 * time.Minute,
		PlanRatePerSec:  2,
		PlanRateBurst:   4,
	}
}

// SplitLongitude returns the configured region split or the depot longitude.
func (c Config) SplitLongitude() float64 {
	if c.RegionSplitLon != nil {
		return *c.RegionSplitLon
	}
	return c.Depot.Lon
}

// Load builds the configuration for the current process.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg := Defaults()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.DefaultCapacity <= 0 {
		return fmt.Errorf("config: default capacity must be positive, got %v", c.DefaultCapacity)
	}
	if c.Depot.Lat < -90 || c.Depot.Lat > 90 || c.Depot.Lon < -180 || c.Depot.Lon > 180 {
		return fmt.Errorf("config: depot (%v, %v) out of range", c.Depot.Lat, c.Depot.Lon)
	}
	if c.PlanLockTTL <= 0 {
		return fmt.Errorf("config: plan lock ttl must be positive, got %v", c.PlanLockTTL)
	}
	if c.PlanRatePerSec <= 0 || c.PlanRateBurst < 1 {
		return fmt.Errorf("config: plan rate %v/s burst %d must be positive", c.PlanRatePerSec, c.PlanRateBurst)
	}
	return nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config: file %q not found: %w", path, err)
		}
		return fmt.Errorf("config: read %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config: parse %q: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Port, "PORT")
	setString(&cfg.DatabaseURL, "DATABASE_URL")
	setString(&cfg.RedisURL, "REDIS_URL")
	setString(&cfg.ORSAPIKey, "ORS_API_KEY")
	setString(&cfg.SeedPath, "SEED_PATH")

	floats := []struct {
		key string
		dst *float64
	}{
		{"DEPOT_LAT", &cfg.Depot.Lat},
		{"DEPOT_LON", &cfg.Depot.Lon},
		{"DEFAULT_CAPACITY", &cfg.DefaultCapacity},
		{"PLAN_RATE_PER_SEC", &cfg.PlanRatePerSec},
	}
	for _, f := range floats {
		if err := setFloat(f.dst, f.key); err != nil {
			return err
		}
	}

	if v := strings.TrimSpace(os.Getenv("REGION_SPLIT_LON")); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("config: REGION_SPLIT_LON=%q: %w", v, err)
		}
		cfg.RegionSplitLon = &f
	}

	if v := strings.TrimSpace(os.Getenv("PLAN_LOCK_TTL")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: PLAN_LOCK_TTL=%q: %w", v, err)
		}
		cfg.PlanLockTTL = d
	}

	if v := strings.TrimSpace(os.Getenv("PLAN_RATE_BURST")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: PLAN_RATE_BURST=%q: %w", v, err)
		}
		cfg.PlanRateBurst = n
	}

	return nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setFloat(dst *float64, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("config: %s=%q: %w", key, v, err)
	}
	*dst = f
	return nil
}

// Get returns the environment value for key or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
