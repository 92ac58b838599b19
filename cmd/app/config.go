package main

import (
	"errors"
	"io/fs"

	"github.com/spf13/viper"
)

type Config struct {
	Port           string   `mapstructure:"PORT"`
	Environment    string   `mapstructure:"ENVIRONMENT"`
	Version        string   `mapstructure:"VERSION"`
	TrustedOrigins []string `mapstructure:"TRUSTED_ORIGINS"`
	TLSCertFile    string   `mapstructure:"TLS_CERT_FILE"`
	TLSKeyFile     string   `mapstructure:"TLS_KEY_FILE"`

	DB       DBConfig       `mapstructure:",squash"`
	RabbitMQ RabbitMQConfig `mapstructure:",squash"`
	Mail     MailConfig     `mapstructure:",squash"`
	Auth     AuthConfig     `mapstructure:",squash"`
	Limiter  LimiterConfig  `mapstructure:",squash"`
}

type DBConfig struct {
	Host     string `mapstructure:"POSTGRES_HOST"`
	Port     string `mapstructure:"POSTGRES_PORT"`
	User     string `mapstructure:"POSTGRES_USER"`
	Password string `mapstructure:"POSTGRES_PASSWORD"`
	Name     string `mapstructure:"POSTGRES_DB"`
}

type RabbitMQConfig struct {
	Host     string `mapstructure:"RABBITMQ_HOST"`
	Port     string `mapstructure:"RABBITMQ_PORT"`
	User     string `mapstructure:"RABBITMQ_USER"`
	Password string `mapstructure:"RABBITMQ_PASSWORD"`
}

type MailConfig struct {
	Host         string `mapstructure:"MAIL_HOST"`
	Port         int    `mapstructure:"MAIL_PORT"`
	User         string `mapstructure:"MAIL_USER"`
	Password     string `mapstructure:"MAIL_PASSWORD"`
	Sender       string `mapstructure:"MAIL_SENDER"`
	AdminAddress string `mapstructure:"MAIL_ADMIN_ADDRESS"`
	AdminName    string `mapstructure:"MAIL_ADMIN_NAME"`
	AutoReply    bool   `mapstructure:"MAIL_AUTO_REPLY"`
}

type AuthConfig struct {
	AdminPassword string `mapstructure:"BLOG_ADMIN_PASSWORD"`
	JWTSecret     string `mapstructure:"JWT_SECRET"`
}

type LimiterConfig struct {
	RPS     float64 `mapstructure:"RATE_LIMIT_RPS"`
	Burst   int     `mapstructure:"RATE_LIMIT_BURST"`
	Enabled bool    `mapstructure:"RATE_LIMIT_ENABLED"`
}

var defaults = map[string]any{
	"PORT":                "4000",
	"ENVIRONMENT":         "development",
	"VERSION":             "1.0.0",
	"TRUSTED_ORIGINS":     "",
	"TLS_CERT_FILE":       "",
	"TLS_KEY_FILE":        "",
	"POSTGRES_HOST":       "localhost",
	"POSTGRES_PORT":       "5432",
	"POSTGRES_USER":       "",
	"POSTGRES_PASSWORD":   "",
	"POSTGRES_DB":         "portfolio",
	"RABBITMQ_HOST":       "localhost",
	"RABBITMQ_PORT":       "5672",
	"RABBITMQ_USER":       "guest",
	"RABBITMQ_PASSWORD":   "guest",
	"MAIL_HOST":           "localhost",
	"MAIL_PORT":           25,
	"MAIL_USER":           "",
	"MAIL_PASSWORD":       "",
	"MAIL_SENDER":         "",
	"MAIL_ADMIN_ADDRESS":  "",
	"MAIL_ADMIN_NAME":     "",
	"MAIL_AUTO_REPLY":     true,
	"BLOG_ADMIN_PASSWORD": "",
	"JWT_SECRET":          "",
	"RATE_LIMIT_RPS":      2,
	"RATE_LIMIT_BURST":    4,
	"RATE_LIMIT_ENABLED":  true,
}

// loadConfig reads path as a dotenv file. Environment variables override the
// file, and a missing file leaves only the environment and defaults.
func loadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
