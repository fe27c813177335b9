package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type EmailConfig struct {
	// Resend (HTTP provider). FromDomain is the verified sending domain;
	// when empty the sandbox sender is substituted at send time.
	ResendAPIKey string `yaml:"resend_api_key"`
	FromDomain   string `yaml:"from_domain"`
	FromName     string `yaml:"from_name"`

	// SMTP provider (fallback, or primary when no Resend key is set).
	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     int    `yaml:"smtp_port"`
	SMTPUser     string `yaml:"smtp_user"`
	SMTPPassword string `yaml:"smtp_password"`
	FromEmail    string `yaml:"from_email"`
}

type TelegramConfig struct {
	BotToken    string `yaml:"bot_token"`
	AlertChatID int64  `yaml:"alert_chat_id"`
}

type Config struct {
	Env    string `yaml:"env"` // "production" or "development"
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	Email    EmailConfig    `yaml:"email"`
	Telegram TelegramConfig `yaml:"telegram"`
}

func LoadConfig() *Config {
	path := os.Getenv("SHOPCORE_CONFIG")
	if path == "" {
		path = "config/config.yaml"
	}
	f, err := os.Open(path)
	if err != nil {
		panic("Failed to open " + path + ": " + err.Error())
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		panic("Failed to parse " + path + ": " + err.Error())
	}
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	return &cfg
}

func (c *Config) IsProduction() bool {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = c.Env
	}
	return strings.EqualFold(env, "production")
}

// ResendKey is read at call time so a key added or rotated in the
// environment takes effect without a restart.
func (e *EmailConfig) ResendKey() string {
	if k := os.Getenv("RESEND_API_KEY"); k != "" {
		return k
	}
	return e.ResendAPIKey
}

func (e *EmailConfig) SMTPPass() string {
	if p := os.Getenv("SMTP_PASSWORD"); p != "" {
		return p
	}
	return e.SMTPPassword
}

// SMTPConfigured reports whether the SMTP provider has enough
// configuration to be dialed at all.
func (e *EmailConfig) SMTPConfigured() bool {
	return e.SMTPHost != "" && e.SMTPUser != ""
}
