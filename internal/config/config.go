package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultPort      = "8080"
	DefaultAPIURL    = "http://localhost:8080"
	DefaultJWTIssuer = "kanso-dashboard"
	DefaultTokenTTL  = 72 * time.Hour
	DefaultRateLimit = 100

	StoragePostgres = "postgres"
	StorageMemory   = "memory"

	fileName = "kanso"
	fileType = "toml"
)

// Server holds the settings of the API binary.
type Server struct {
	DatabaseURL   string
	Port          string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	JWTSecret     string
	JWTIssuer     string
	TokenTTL      time.Duration
	RateLimit     int
	Storage       string
	Timezone      string
}

// Client holds the settings of the kanso command.
type Client struct {
	APIURL   string
	Token    string
	Timezone string

	// File is the config file that was read, if any.
	File string
}

// ClientOverrides are flag values; empty fields are ignored.
type ClientOverrides struct {
	APIURL   string
	Token    string
	Timezone string
}

// LoadServer resolves server settings from, in decreasing priority, the
// config file, the environment (after .env) and defaults.
func LoadServer() (*Server, error) {
	_ = godotenv.Load()

	v := newBaseViper()
	_ = v.ReadInConfig()

	cfg := &Server{
		Port:      DefaultPort,
		RedisAddr: "localhost:6379",
		JWTIssuer: DefaultJWTIssuer,
		TokenTTL:  DefaultTokenTTL,
		RateLimit: DefaultRateLimit,
		Storage:   StoragePostgres,
	}

	cfg.DatabaseURL = lookup(v, "database_url", "DATABASE_URL", "")
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = dsnFromParts()
	}
	cfg.Port = lookup(v, "port", "PORT", cfg.Port)

	host := lookup(v, "redis_host", "REDIS_HOST", "localhost")
	port := lookup(v, "redis_port", "REDIS_PORT", "6379")
	cfg.RedisAddr = fmt.Sprintf("%s:%s", host, port)
	cfg.RedisPassword = lookup(v, "redis_password", "REDIS_PASSWORD", "")

	if raw := lookup(v, "redis_db", "REDIS_DB", "0"); raw != "" {
		db, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid redis_db %q: %w", raw, err)
		}
		cfg.RedisDB = db
	}

	cfg.JWTSecret = lookup(v, "jwt_secret", "JWT_SECRET", "")
	cfg.JWTIssuer = lookup(v, "jwt_issuer", "JWT_ISSUER", cfg.JWTIssuer)

	if raw := lookup(v, "token_ttl", "TOKEN_TTL", ""); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid token_ttl %q: %w", raw, err)
		}
		cfg.TokenTTL = ttl
	}

	if raw := lookup(v, "rate_limit", "RATE_LIMIT", ""); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid rate_limit %q", raw)
		}
		cfg.RateLimit = n
	}

	cfg.Storage = strings.ToLower(lookup(v, "storage", "KANSO_STORAGE", cfg.Storage))
	if cfg.Storage != StoragePostgres && cfg.Storage != StorageMemory {
		return nil, fmt.Errorf("unknown storage %q (want postgres or memory)", cfg.Storage)
	}

	cfg.Timezone = lookup(v, "timezone", "KANSO_TIMEZONE", "")
	if _, err := LoadLocation(cfg.Timezone); err != nil {
		return nil, err
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt_secret is required")
	}

	return cfg, nil
}

// LoadClient resolves client settings. Flags override the config file, which
// overrides the environment.
func LoadClient(o ClientOverrides) (*Client, error) {
	_ = godotenv.Load()

	v := newBaseViper()
	_ = v.ReadInConfig()

	cfg := &Client{
		APIURL:   lookup(v, "api_url", "KANSO_API_URL", DefaultAPIURL),
		Token:    lookup(v, "token", "KANSO_TOKEN", ""),
		Timezone: lookup(v, "timezone", "KANSO_TIMEZONE", ""),
		File:     v.ConfigFileUsed(),
	}

	if o.APIURL != "" {
		cfg.APIURL = o.APIURL
	}
	if o.Token != "" {
		cfg.Token = o.Token
	}
	if o.Timezone != "" {
		cfg.Timezone = o.Timezone
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")

	if _, err := LoadLocation(cfg.Timezone); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Location returns the zone that decides what "today" is for the viewer.
func (c *Client) Location() *time.Location {
	loc, err := LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func (s *Server) Location() *time.Location {
	loc, err := LoadLocation(s.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// LoadLocation resolves an IANA zone name. Empty means the local zone.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return loc, nil
}

// SaveToken stores token in the user's config file, keeping the other keys,
// and returns the file path.
func SaveToken(token string) (string, error) {
	dir := configDir()
	if dir == "" {
		return "", fmt.Errorf("cannot determine config directory")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	path := filepath.Join(dir, fileName+"."+fileType)

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType(fileType)
	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
	}
	v.Set("token", token)

	if err := v.WriteConfigAs(path); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Chmod(path, 0o600); err != nil {
		return "", fmt.Errorf("chmod %s: %w", path, err)
	}
	return path, nil
}

func newBaseViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName(fileName)
	v.SetConfigType(fileType)
	v.AddConfigPath(".")
	if dir := configDir(); dir != "" {
		v.AddConfigPath(dir)
	}
	return v
}

func configDir() string {
	home := os.Getenv("XDG_CONFIG_HOME")
	if home == "" {
		if h, err := os.UserHomeDir(); err == nil {
			home = filepath.Join(h, ".config")
		}
	}
	if home == "" {
		return ""
	}
	return filepath.Join(home, "kanso")
}

// lookup returns the config file value for key, else the environment
// variable env, else def.
func lookup(v *viper.Viper, key, env, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	if val := os.Getenv(env); val != "" {
		return val
	}
	return def
}

func dsnFromParts() string {
	user := os.Getenv("DB_USER")
	name := os.Getenv("DB_NAME")
	if user == "" || name == "" {
		return ""
	}
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		user, os.Getenv("DB_PASSWORD"), host, port, name)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}
