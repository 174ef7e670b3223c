package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"littlelemon/internal/slots"
)

type Config struct {
	Restaurant struct {
		OpenTime        string `yaml:"open_time"`
		CloseTime       string `yaml:"close_time"`
		SlotMinutes     int    `yaml:"slot_minutes"`
		CapacityPerSlot int    `yaml:"capacity_per_slot"`
		MinPartySize    int    `yaml:"min_party_size"`
		MaxPartySize    int    `yaml:"max_party_size"`
		GraceMinutes    int    `yaml:"grace_minutes"`
		Timezone        string `yaml:"timezone"`
	} `yaml:"restaurant"`

	Storage struct {
		Backend    string `yaml:"backend"` // sqlite, file or redis
		SQLitePath string `yaml:"sqlite_path"`
		FileDir    string `yaml:"file_dir"`
	} `yaml:"storage"`

	Redis struct {
		Address  string `yaml:"address"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Server struct {
		Port            int `yaml:"port"`
		SubmitPerMinute int `yaml:"submit_per_minute"`
	} `yaml:"server"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   int64  `yaml:"chat_id"`
	} `yaml:"telegram"`

	UpcomingLimit int `yaml:"upcoming_limit"`
}

func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Run with defaults when no config is present.
			cfg.applyDefaults()
			return cfg, nil
		}
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Restaurant.OpenTime == "" {
		c.Restaurant.OpenTime = slots.DefaultOpen
	}
	if c.Restaurant.CloseTime == "" {
		c.Restaurant.CloseTime = slots.DefaultClose
	}
	if c.Restaurant.SlotMinutes <= 0 {
		c.Restaurant.SlotMinutes = slots.DefaultStep
	}
	if c.Restaurant.CapacityPerSlot <= 0 {
		c.Restaurant.CapacityPerSlot = 6
	}
	if c.Restaurant.MinPartySize <= 0 {
		c.Restaurant.MinPartySize = 1
	}
	if c.Restaurant.MaxPartySize <= 0 {
		c.Restaurant.MaxPartySize = 12
	}
	if c.Restaurant.GraceMinutes <= 0 {
		c.Restaurant.GraceMinutes = 5
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = "sqlite"
	}
	if c.Storage.SQLitePath == "" {
		c.Storage.SQLitePath = "data/littlelemon.db"
	}
	if c.Storage.FileDir == "" {
		c.Storage.FileDir = "data/kv"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.SubmitPerMinute <= 0 {
		c.Server.SubmitPerMinute = 30
	}
	if c.UpcomingLimit <= 0 {
		c.UpcomingLimit = 50
	}
}

// GraceWindow returns how far in the past a booking may start and still
// be admitted.
func (c *Config) GraceWindow() time.Duration {
	return time.Duration(c.Restaurant.GraceMinutes) * time.Minute
}

// Location resolves the restaurant time zone, falling back to local.
func (c *Config) Location() *time.Location {
	if c.Restaurant.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Restaurant.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
