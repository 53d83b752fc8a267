package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DB         DBConfig
	HTTP       HTTPConfig
	Log        LogConfig
	Telegram   TelegramConfig
	Restaurant RestaurantConfig
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	// AutoMigrate applies embedded migrations on serve.
	AutoMigrate bool
}

// URL returns the pgx connection string.
func (c DBConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s",
		c.User, c.Password, c.Host, c.Port, c.Database,
	)
}

type HTTPConfig struct {
	Addr string
	// ReservationRPS and ReservationBurst bound guest reservation creation.
	ReservationRPS   float64
	ReservationBurst int
	AllowedOrigins   []string
}

type LogConfig struct {
	Level  string
	Format string // "json" or "console"
}

type TelegramConfig struct {
	Token    string
	AdminIDs []int64 // users allowed to talk to the reservations bot
	// APIEndpoint overrides the Bot API URL format, e.g. for a local Bot API server.
	APIEndpoint string
}

// RestaurantConfig holds the seating capacity and the bookable time slots.
type RestaurantConfig struct {
	Capacity int      `yaml:"capacity"`
	Slots    []string `yaml:"slots"`
	Timezone string   `yaml:"timezone"`
}

const DefaultCapacity = 80

// DefaultSlots are the evening slots, every 30 minutes from 17:00 to 21:30.
var DefaultSlots = []string{
	"17:00", "17:30", "18:00", "18:30", "19:00",
	"19:30", "20:00", "20:30", "21:00", "21:30",
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	rps, err := strconv.ParseFloat(getEnv("RESERVATION_RPS", "5"), 64)
	if err != nil {
		return nil, fmt.Errorf("RESERVATION_RPS: %w", err)
	}
	burst, err := strconv.Atoi(getEnv("RESERVATION_BURST", "10"))
	if err != nil {
		return nil, fmt.Errorf("RESERVATION_BURST: %w", err)
	}
	adminIDs, err := parseIDs(getEnv("ADMIN_IDS", ""))
	if err != nil {
		return nil, fmt.Errorf("ADMIN_IDS: %w", err)
	}

	cfg := &Config{
		DB: DBConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        port,
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", ""),
			Database:    getEnv("DB_NAME", "restaurant"),
			AutoMigrate: isTrue(getEnv("AUTO_MIGRATE", "")),
		},
		HTTP: HTTPConfig{
			Addr:             getEnv("HTTP_ADDR", ":2022"),
			ReservationRPS:   rps,
			ReservationBurst: burst,
			AllowedOrigins:   splitList(getEnv("CORS_ORIGINS", "*")),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Telegram: TelegramConfig{
			Token:       getEnv("TELEGRAM_TOKEN", ""),
			AdminIDs:    adminIDs,
			APIEndpoint: getEnv("TELEGRAM_API_ENDPOINT", ""),
		},
		Restaurant: RestaurantConfig{
			Capacity: DefaultCapacity,
			Slots:    append([]string(nil), DefaultSlots...),
			Timezone: getEnv("RESTAURANT_TZ", "UTC"),
		},
	}

	if path := getEnv("RESTAURANT_CONFIG", ""); path != "" {
		if err := cfg.Restaurant.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.Restaurant.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile overrides the fields present in a restaurant YAML file.
func (r *RestaurantConfig) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read restaurant config: %w", err)
	}
	var file RestaurantConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse restaurant config %s: %w", path, err)
	}
	if file.Capacity != 0 {
		r.Capacity = file.Capacity
	}
	if len(file.Slots) > 0 {
		r.Slots = file.Slots
	}
	if file.Timezone != "" {
		r.Timezone = file.Timezone
	}
	return nil
}

// Validate checks capacity, slot format and timezone.
func (r *RestaurantConfig) Validate() error {
	if r.Capacity <= 0 {
		return fmt.Errorf("restaurant capacity must be > 0, got %d", r.Capacity)
	}
	if len(r.Slots) == 0 {
		return fmt.Errorf("restaurant has no time slots")
	}
	seen := make(map[string]bool, len(r.Slots))
	for _, s := range r.Slots {
		if _, err := time.Parse("15:04", s); err != nil || len(s) != 5 {
			return fmt.Errorf("invalid time slot %q, want HH:MM", s)
		}
		if seen[s] {
			return fmt.Errorf("duplicate time slot %q", s)
		}
		seen[s] = true
	}
	if _, err := r.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone; empty means UTC.
func (r *RestaurantConfig) Location() (*time.Location, error) {
	if r.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return nil, fmt.Errorf("restaurant timezone %q: %w", r.Timezone, err)
	}
	return loc, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func isTrue(v string) bool {
	v = strings.TrimSpace(v)
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func parseIDs(v string) ([]int64, error) {
	var ids []int64
	for _, s := range splitList(v) {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
