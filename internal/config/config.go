// Package config merges defaults, an optional config file, FOLIO_* env vars
// and command-line flags into one Config.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Zachkp/folio/internal/contact"
)

// Config is the full server configuration.
type Config struct {
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
	HTTPPort int    `mapstructure:"http_port"`

	DBPath      string `mapstructure:"db_path"`
	ProfilePath string `mapstructure:"profile_path"`

	AdminUsername string `mapstructure:"admin_username"`
	AdminPassword string `mapstructure:"admin_password"`

	SMTPHost string `mapstructure:"smtp_host"`
	SMTPPort int    `mapstructure:"smtp_port"`
	SMTPUser string `mapstructure:"smtp_user"`
	SMTPPass string `mapstructure:"smtp_pass"`
	ToEmail  string `mapstructure:"to_email"`

	SubmitDelay    time.Duration `mapstructure:"submit_delay"`
	ScrollLead     float64       `mapstructure:"scroll_lead"`
	ScrollInterval time.Duration `mapstructure:"scroll_interval"`
	VisitRetention time.Duration `mapstructure:"visit_retention"`
}

// Mail returns the SMTP settings for the contact mailer.
func (c Config) Mail() contact.MailConfig {
	return contact.MailConfig{
		Host:     c.SMTPHost,
		Port:     c.SMTPPort,
		Username: c.SMTPUser,
		Password: c.SMTPPass,
		To:       c.ToEmail,
	}
}

// Dump returns the config as indented JSON with secrets redacted.
func (c Config) Dump() string {
	cp := c
	if cp.AdminPassword != "" {
		cp.AdminPassword = "REDACTED"
	}
	if cp.SMTPPass != "" {
		cp.SMTPPass = "REDACTED"
	}
	b, _ := json.MarshalIndent(cp, "", "  ")
	return string(b)
}

var keys = []string{
	"env", "log_level", "http_port",
	"db_path", "profile_path",
	"admin_username", "admin_password",
	"smtp_host", "smtp_port", "smtp_user", "smtp_pass", "to_email",
	"submit_delay", "scroll_lead", "scroll_interval", "visit_retention",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")
	v.SetDefault("log_level", "debug")
	v.SetDefault("http_port", 8080)
	v.SetDefault("db_path", "data/folio.db")
	v.SetDefault("profile_path", "")
	v.SetDefault("admin_username", "")
	v.SetDefault("admin_password", "")
	v.SetDefault("smtp_host", "")
	v.SetDefault("smtp_port", 587)
	v.SetDefault("smtp_user", "")
	v.SetDefault("smtp_pass", "")
	v.SetDefault("to_email", "")
	v.SetDefault("submit_delay", "2s")
	v.SetDefault("scroll_lead", 150)
	v.SetDefault("scroll_interval", "16ms")
	v.SetDefault("visit_retention", "8760h")
}

func flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("folio", pflag.ContinueOnError)
	fs.String("env", "dev", `Runtime environment "dev"|"prod"`)
	fs.String("log_level", "debug", "Log level")
	fs.Int("http_port", 8080, "HTTP port")
	fs.String("db_path", "data/folio.db", "SQLite database file")
	fs.String("profile_path", "", "Profile YAML (empty uses the built-in profile)")
	fs.String("submit_delay", "2s", "Simulated contact submission delay")
	fs.Float64("scroll_lead", 150, "Header offset added to the scroll position")
	fs.String("scroll_interval", "16ms", "Minimum interval between scroll updates per visitor")
	return fs
}

// Load reads the configuration. Precedence, highest first: explicit flags,
// FOLIO_* env, config.yaml/config.json in the working directory, defaults.
func Load(args []string, logger *zap.Logger) (*Config, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := godotenv.Load(); err == nil {
		logger.Info("Loaded .env file")
	}

	fs := flags()
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("config: parse flags: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("FOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	for _, ext := range [...]string{"yaml", "yml", "json"} {
		file := "config." + ext
		b, err := os.ReadFile(file)
		if err != nil {
			continue
		}
		v.SetConfigType(ext)
		if err := v.MergeConfig(bytes.NewReader(b)); err != nil {
			logger.Warn("cannot decode config file", zap.String("file", file), zap.Error(err))
			continue
		}
		logger.Info("Loaded config file", zap.String("file", file))
	}

	setDefaults(v)

	fs.VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			_ = v.BindPFlag(f.Name, f)
		}
	})

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c Config) validate() error {
	switch c.Env {
	case "dev", "prod":
	default:
		return fmt.Errorf("config: env must be dev or prod, got %q", c.Env)
	}
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("config: http_port out of range: %d", c.HTTPPort)
	}
	if c.SubmitDelay < 0 || c.ScrollInterval < 0 {
		return fmt.Errorf("config: durations must not be negative")
	}
	if c.Env == "prod" && (c.AdminUsername == "" || c.AdminPassword == "") {
		return fmt.Errorf("config: admin_username and admin_password are required in prod")
	}
	return nil
}
