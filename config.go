package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds everything the site needs at startup.
type Config struct {
	Port            string        `koanf:"port"`
	Mode            string        `koanf:"mode"`
	SiteTitle       string        `koanf:"site_title"`
	ImagesDir       string        `koanf:"images_dir"`
	LoaderDelay     time.Duration `koanf:"loader_delay"`
	WhatsAppNumber  string        `koanf:"whatsapp_number"`
	DatabasePath    string        `koanf:"database_path"`
	TrackingEnabled bool          `koanf:"tracking_enabled"`
	Retention       time.Duration `koanf:"retention"`
	SMTP            SMTPConfig    `koanf:"smtp"`
	Admin           AdminConfig   `koanf:"admin"`
}

// SMTPConfig configures the optional contact mailer.
type SMTPConfig struct {
	Host string `koanf:"host"`
	Port string `koanf:"port"`
	User string `koanf:"user"`
	Pass string `koanf:"pass"`
	To   string `koanf:"to"`
}

// AdminConfig holds the dashboard credentials.
type AdminConfig struct {
	Username string `koanf:"username"`
	Password string `koanf:"password"`
}

// ContactEnabled reports whether submissions can be delivered.
func (s SMTPConfig) ContactEnabled() bool {
	return s.User != "" && s.Pass != ""
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() *Config {
	return &Config{
		Port:            "8080",
		Mode:            gin.ReleaseMode,
		SiteTitle:       "MK Delegate",
		ImagesDir:       "./images",
		LoaderDelay:     2 * time.Second,
		WhatsAppNumber:  "+2348125513891",
		DatabasePath:    "portfolio.db",
		TrackingEnabled: true,
		Retention:       365 * 24 * time.Hour,
		SMTP: SMTPConfig{
			Host: "smtp.gmail.com",
			Port: "587",
		},
		Admin: AdminConfig{
			Username: "admin",
			Password: "admin123",
		},
	}
}

// envKeys maps the environment variables the site understands to config keys.
var envKeys = map[string]string{
	"PORT":             "port",
	"GIN_MODE":         "mode",
	"SITE_TITLE":       "site_title",
	"IMAGES_DIR":       "images_dir",
	"LOADER_DELAY":     "loader_delay",
	"WHATSAPP_NUMBER":  "whatsapp_number",
	"DATABASE_PATH":    "database_path",
	"TRACKING_ENABLED": "tracking_enabled",
	"RETENTION":        "retention",
	"SMTP_HOST":        "smtp.host",
	"SMTP_PORT":        "smtp.port",
	"SMTP_USER":        "smtp.user",
	"SMTP_PASS":        "smtp.pass",
	"TO_EMAIL":         "smtp.to",
	"ADMIN_USERNAME":   "admin.username",
	"ADMIN_PASSWORD":   "admin.password",
}

// LoadConfig starts from the defaults, overlays the YAML file at path when it
// exists, then overlays environment variables.
func LoadConfig(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", func(s string) string {
		return envKeys[s]
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if cfg.SMTP.To == "" {
		cfg.SMTP.To = cfg.SMTP.User
	}

	return cfg, nil
}

var validModes = map[string]bool{
	gin.DebugMode:   true,
	gin.ReleaseMode: true,
	gin.TestMode:    true,
}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("invalid port %q", c.Port)
	}
	if !validModes[c.Mode] {
		return fmt.Errorf("invalid mode %q: must be one of debug, release, test", c.Mode)
	}
	if strings.TrimSpace(c.ImagesDir) == "" {
		return fmt.Errorf("images_dir is required")
	}
	if c.LoaderDelay < 0 {
		return fmt.Errorf("loader_delay must be non-negative")
	}
	if c.TrackingEnabled && c.DatabasePath == "" {
		return fmt.Errorf("database_path is required when tracking is enabled")
	}
	if c.Retention <= 0 {
		return fmt.Errorf("retention must be positive")
	}
	if (c.SMTP.User == "") != (c.SMTP.Pass == "") {
		return fmt.Errorf("smtp user and password must be set together")
	}
	if c.SMTP.ContactEnabled() && (c.SMTP.Host == "" || c.SMTP.Port == "") {
		return fmt.Errorf("smtp host and port are required when contact is enabled")
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return ":" + c.Port
}
