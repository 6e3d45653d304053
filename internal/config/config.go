package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int                   `yaml:"port"`
	Env            string                `yaml:"env"` // "development" | "production"
	Timezone       string                `yaml:"timezone"`
	AllowedOrigins []string              `yaml:"allowed_origins"`
	Paths          RuntimePathsConfig    `yaml:"paths"`
	Database       DatabaseRuntimeConfig `yaml:"database"`
	Redis          RedisRuntimeConfig    `yaml:"redis"`
	OriginHeaders  OriginHeadersConfig   `yaml:"origin_headers"`
	Guestbook      GuestbookConfig       `yaml:"guestbook"`

	DSN      string `yaml:"-"`
	RedisURL string `yaml:"-"`
}

type DatabaseRuntimeConfig struct {
	Driver    string            `yaml:"driver"`
	DSN       string            `yaml:"dsn"`
	Host      string            `yaml:"host"`
	Port      int               `yaml:"port"`
	User      string            `yaml:"user"`
	Password  string            `yaml:"password"`
	Name      string            `yaml:"name"`
	Charset   string            `yaml:"charset"`
	ParseTime bool              `yaml:"parse_time"`
	Loc       string            `yaml:"loc"`
	Path      string            `yaml:"path"` // sqlite file
	Params    map[string]string `yaml:"params"`
}

type RedisRuntimeConfig struct {
	Enable   bool   `yaml:"enable"`
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TLS      bool   `yaml:"tls"`
}

// OriginHeadersConfig names the proxy headers carrying visitor identity and
// geolocation.
type OriginHeadersConfig struct {
	Identity      string `yaml:"identity"`
	City          string `yaml:"city"`
	Country       string `yaml:"country"`
	TrustClientIP bool   `yaml:"trust_client_ip"`
}

type GuestbookConfig struct {
	Window           time.Duration   `yaml:"window"`
	RecentHorizon    time.Duration   `yaml:"recent_horizon"`
	LatestLimit      int             `yaml:"latest_limit"`
	StrictWrites     bool            `yaml:"strict_writes"`
	TimelineCacheTTL time.Duration   `yaml:"timeline_cache_ttl"`
	RedirectURL      string          `yaml:"redirect_url"`
	Title            string          `yaml:"title"`
	Retention        RetentionConfig `yaml:"retention"`
}

type RetentionConfig struct {
	AnonymousAfter time.Duration `yaml:"anonymous_after"`
}

type RuntimePathsConfig struct {
	Logs string `yaml:"logs"`
}

type rawAppConfig struct {
	Port           int                `yaml:"port"`
	Env            string             `yaml:"env"`
	NodeEnv        string             `yaml:"node_env"`
	Timezone       string             `yaml:"timezone"`
	TZ             string             `yaml:"tz"`
	AllowedOrigins []string           `yaml:"allowed_origins"`
	Paths          rawPathsConfig     `yaml:"paths"`
	LogDir         string             `yaml:"log_dir"`
	Database       rawDatabaseConfig  `yaml:"database"`
	Redis          rawRedisConfig     `yaml:"redis"`
	OriginHeaders  rawOriginHeaders   `yaml:"origin_headers"`
	Guestbook      rawGuestbookConfig `yaml:"guestbook"`
}

type rawDatabaseConfig struct {
	Driver    string            `yaml:"driver"`
	DSN       string            `yaml:"dsn"`
	URL       string            `yaml:"url"`
	Host      string            `yaml:"host"`
	Port      int               `yaml:"port"`
	User      string            `yaml:"user"`
	Username  string            `yaml:"username"`
	Password  string            `yaml:"password"`
	Name      string            `yaml:"name"`
	DBName    string            `yaml:"db_name"`
	Charset   string            `yaml:"charset"`
	ParseTime *bool             `yaml:"parse_time"`
	Loc       string            `yaml:"loc"`
	Path      string            `yaml:"path"`
	Params    map[string]string `yaml:"params"`
}

type rawRedisConfig struct {
	Enable   *bool  `yaml:"enable"`
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       *int   `yaml:"db"`
	TLS      *bool  `yaml:"tls"`
}

type rawOriginHeaders struct {
	Identity      string `yaml:"identity"`
	City          string `yaml:"city"`
	Country       string `yaml:"country"`
	TrustClientIP *bool  `yaml:"trust_client_ip"`
}

type rawGuestbookConfig struct {
	Window           *time.Duration     `yaml:"window"`
	RecentHorizon    *time.Duration     `yaml:"recent_horizon"`
	LatestLimit      *int               `yaml:"latest_limit"`
	StrictWrites     *bool              `yaml:"strict_writes"`
	TimelineCacheTTL *time.Duration     `yaml:"timeline_cache_ttl"`
	RedirectURL      string             `yaml:"redirect_url"`
	Title            string             `yaml:"title"`
	Retention        rawRetentionConfig `yaml:"retention"`
}

type rawRetentionConfig struct {
	AnonymousAfter *time.Duration `yaml:"anonymous_after"`
}

type rawPathsConfig struct {
	Logs string `yaml:"logs"`
}

// Load reads and validates the YAML config at configPath. A missing file at
// the default path yields the defaults.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && path == DefaultConfigPath {
			cfg := defaultAppConfig()
			return &cfg, nil
		}
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}
	return Parse(content, path)
}

// Parse decodes YAML content on top of the defaults. source names the input in
// error messages.
func Parse(content []byte, source string) (*AppConfig, error) {
	cfg := defaultAppConfig()
	raw := rawAppConfig{}
	if len(bytes.TrimSpace(content)) > 0 {
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)
		if err := decoder.Decode(&raw); err != nil {
			return nil, fmt.Errorf("parse config file %q: %w", source, err)
		}
	}

	applyRawAppConfig(&cfg, raw)
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", source, err)
	}
	return &cfg, nil
}

func (c *AppConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d, expected 1-65535", c.Port)
	}
	switch c.Database.Driver {
	case DriverMySQL:
		if c.Database.Port < 1 || c.Database.Port > 65535 {
			return fmt.Errorf("invalid database.port %d, expected 1-65535", c.Database.Port)
		}
	case DriverSQLite:
	default:
		return fmt.Errorf("unknown database.driver %q, expected %s or %s", c.Database.Driver, DriverMySQL, DriverSQLite)
	}
	if c.Redis.Port < 1 || c.Redis.Port > 65535 {
		return fmt.Errorf("invalid redis.port %d, expected 1-65535", c.Redis.Port)
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("invalid redis.db %d, expected >= 0", c.Redis.DB)
	}
	g := c.Guestbook
	if g.Window <= 0 {
		return fmt.Errorf("invalid guestbook.window %s, expected > 0", g.Window)
	}
	if g.RecentHorizon <= 0 {
		return fmt.Errorf("invalid guestbook.recent_horizon %s, expected > 0", g.RecentHorizon)
	}
	if g.LatestLimit < 0 {
		return fmt.Errorf("invalid guestbook.latest_limit %d, expected >= 0", g.LatestLimit)
	}
	if g.TimelineCacheTTL < 0 {
		return fmt.Errorf("invalid guestbook.timeline_cache_ttl %s, expected >= 0", g.TimelineCacheTTL)
	}
	if g.Retention.AnonymousAfter < 0 {
		return fmt.Errorf("invalid guestbook.retention.anonymous_after %s, expected >= 0", g.Retention.AnonymousAfter)
	}
	if g.Retention.AnonymousAfter > 0 && g.Retention.AnonymousAfter < g.Window {
		return fmt.Errorf("guestbook.retention.anonymous_after %s is shorter than guestbook.window %s", g.Retention.AnonymousAfter, g.Window)
	}
	return nil
}

func defaultAppConfig() AppConfig {
	cfg := AppConfig{
		Port: defaultPort,
		Env:  defaultEnv,
		Database: DatabaseRuntimeConfig{
			Driver:    defaultDBDriver,
			Host:      defaultDBHost,
			Port:      defaultDBPort,
			User:      defaultDBUser,
			Password:  defaultDBPassword,
			Name:      defaultDBName,
			Charset:   defaultDBCharset,
			ParseTime: true,
			Loc:       defaultDBLoc,
			Path:      defaultSQLitePath,
		},
		Redis: RedisRuntimeConfig{
			Host: defaultRedisHost,
			Port: defaultRedisPort,
			DB:   defaultRedisDB,
		},
		OriginHeaders: OriginHeadersConfig{
			Identity: defaultIdentityHeader,
			City:     defaultCityHeader,
			Country:  defaultCountryHeader,
		},
		Guestbook: GuestbookConfig{
			Window:        defaultWindow,
			RecentHorizon: defaultRecentHorizon,
			LatestLimit:   defaultLatestLimit,
			RedirectURL:   defaultRedirectURL,
			Title:         defaultTitle,
		},
	}
	cfg.Database = normalizeDatabaseConfig(cfg.Database)
	cfg.Redis = normalizeRedisConfig(cfg.Redis)
	cfg.DSN = cfg.Database.DSNValue()
	cfg.RedisURL = cfg.Redis.URLValue()
	return cfg
}

func applyRawAppConfig(cfg *AppConfig, raw rawAppConfig) {
	if raw.Port != 0 {
		cfg.Port = raw.Port
	}
	if v := strings.TrimSpace(raw.Env); v != "" {
		cfg.Env = v
	}
	if v := strings.TrimSpace(raw.NodeEnv); v != "" {
		cfg.Env = v
	}
	if v := strings.TrimSpace(raw.Timezone); v != "" {
		cfg.Timezone = v
	}
	if v := strings.TrimSpace(raw.TZ); v != "" {
		cfg.Timezone = v
	}
	if raw.AllowedOrigins != nil {
		cfg.AllowedOrigins = normalizeOrigins(raw.AllowedOrigins)
	}
	if v := strings.TrimSpace(raw.Paths.Logs); v != "" {
		cfg.Paths.Logs = v
	}
	if v := strings.TrimSpace(raw.LogDir); v != "" {
		cfg.Paths.Logs = v
	}

	cfg.Database = applyRawDatabaseConfig(cfg.Database, raw.Database)
	cfg.Redis = applyRawRedisConfig(cfg.Redis, raw.Redis)
	cfg.OriginHeaders = applyRawOriginHeaders(cfg.OriginHeaders, raw.OriginHeaders)
	cfg.Guestbook = applyRawGuestbookConfig(cfg.Guestbook, raw.Guestbook)

	cfg.DSN = cfg.Database.DSNValue()
	cfg.RedisURL = cfg.Redis.URLValue()
	cfg.Env = normalizeEnv(cfg.Env)
}

func applyRawDatabaseConfig(current DatabaseRuntimeConfig, raw rawDatabaseConfig) DatabaseRuntimeConfig {
	cfg := current
	if v := strings.TrimSpace(raw.Driver); v != "" {
		cfg.Driver = v
	}
	if v := strings.TrimSpace(raw.DSN); v != "" {
		cfg.DSN = v
	}
	if v := strings.TrimSpace(raw.URL); v != "" {
		cfg.DSN = v
	}
	if v := strings.TrimSpace(raw.Host); v != "" {
		cfg.Host = v
	}
	if raw.Port != 0 {
		cfg.Port = raw.Port
	}
	if v := strings.TrimSpace(raw.User); v != "" {
		cfg.User = v
	}
	if v := strings.TrimSpace(raw.Username); v != "" {
		cfg.User = v
	}
	if v := strings.TrimSpace(raw.Password); v != "" {
		cfg.Password = v
	}
	if v := strings.TrimSpace(raw.Name); v != "" {
		cfg.Name = v
	}
	if v := strings.TrimSpace(raw.DBName); v != "" {
		cfg.Name = v
	}
	if v := strings.TrimSpace(raw.Charset); v != "" {
		cfg.Charset = v
	}
	if raw.ParseTime != nil {
		cfg.ParseTime = *raw.ParseTime
	}
	if v := strings.TrimSpace(raw.Loc); v != "" {
		cfg.Loc = v
	}
	if v := strings.TrimSpace(raw.Path); v != "" {
		cfg.Path = v
	}
	if raw.Params != nil {
		cfg.Params = raw.Params
	}
	return normalizeDatabaseConfig(cfg)
}

func applyRawRedisConfig(current RedisRuntimeConfig, raw rawRedisConfig) RedisRuntimeConfig {
	cfg := current
	if raw.Enable != nil {
		cfg.Enable = *raw.Enable
	}
	if v := strings.TrimSpace(raw.URL); v != "" {
		cfg.URL = v
	}
	if v := strings.TrimSpace(raw.Host); v != "" {
		cfg.Host = v
	}
	if raw.Port != 0 {
		cfg.Port = raw.Port
	}
	if v := strings.TrimSpace(raw.Username); v != "" {
		cfg.Username = v
	}
	if v := strings.TrimSpace(raw.Password); v != "" {
		cfg.Password = v
	}
	if raw.DB != nil {
		cfg.DB = *raw.DB
	}
	if raw.TLS != nil {
		cfg.TLS = *raw.TLS
	}
	return normalizeRedisConfig(cfg)
}

func applyRawOriginHeaders(current OriginHeadersConfig, raw rawOriginHeaders) OriginHeadersConfig {
	cfg := current
	if v := strings.TrimSpace(raw.Identity); v != "" {
		cfg.Identity = v
	}
	if v := strings.TrimSpace(raw.City); v != "" {
		cfg.City = v
	}
	if v := strings.TrimSpace(raw.Country); v != "" {
		cfg.Country = v
	}
	if raw.TrustClientIP != nil {
		cfg.TrustClientIP = *raw.TrustClientIP
	}
	return cfg
}

func applyRawGuestbookConfig(current GuestbookConfig, raw rawGuestbookConfig) GuestbookConfig {
	cfg := current
	if raw.Window != nil {
		cfg.Window = *raw.Window
	}
	if raw.RecentHorizon != nil {
		cfg.RecentHorizon = *raw.RecentHorizon
	}
	if raw.LatestLimit != nil {
		cfg.LatestLimit = *raw.LatestLimit
	}
	if raw.StrictWrites != nil {
		cfg.StrictWrites = *raw.StrictWrites
	}
	if raw.TimelineCacheTTL != nil {
		cfg.TimelineCacheTTL = *raw.TimelineCacheTTL
	}
	if v := strings.TrimSpace(raw.RedirectURL); v != "" {
		cfg.RedirectURL = v
	}
	if v := strings.TrimSpace(raw.Title); v != "" {
		cfg.Title = v
	}
	if raw.Retention.AnonymousAfter != nil {
		cfg.Retention.AnonymousAfter = *raw.Retention.AnonymousAfter
	}
	return cfg
}

func (c *AppConfig) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// LogDir returns the configured native log directory, or "" to let the log
// pipeline pick its own default.
func (c *AppConfig) LogDir() string {
	dir := strings.TrimSpace(c.Paths.Logs)
	if dir == "" {
		return ""
	}
	return filepath.Clean(dir)
}
