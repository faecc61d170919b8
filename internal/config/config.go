package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// ErrStartup - конфигурация не позволяет запустить бота.
var ErrStartup = errors.New("startup configuration error")

type Config struct {
	BotToken    string `mapstructure:"bot_token"`
	AdminID     int64  `mapstructure:"admin_id"`
	AppID       int    `mapstructure:"app_id"`
	AppHash     string `mapstructure:"app_hash"`
	DBFile      string `mapstructure:"db_file"`
	DatabaseURL string `mapstructure:"database_url"`
	SessionFile string `mapstructure:"session_file"`
	HTTPPort    string `mapstructure:"http_port"`
	APIToken    string `mapstructure:"api_token"`
	ProxyAddr   string `mapstructure:"proxy_addr"`
	ProxyLogin  string `mapstructure:"proxy_login"`
	ProxyPass   string `mapstructure:"proxy_password"`
	ContactText string `mapstructure:"contact_text"`
	Debug       bool   `mapstructure:"debug"`
}

var keys = []string{
	"bot_token", "admin_id", "app_id", "app_hash", "db_file", "database_url",
	"session_file", "http_port", "api_token", "proxy_addr", "proxy_login", "proxy_password",
	"contact_text", "debug",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db_file", "db.json")
	v.SetDefault("session_file", "session.json")
	v.SetDefault("http_port", "8080")
}

// Load читает конфигурацию: значения по умолчанию, затем YAML-файл (если указан),
// затем переменные окружения BOT_TOKEN, ADMIN_ID и т.д.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: чтение %s: %v", ErrStartup, path, err)
		}
	}

	// Unmarshal видит переменные окружения только для привязанных ключей
	for _, k := range keys {
		if err := v.BindEnv(k, strings.ToUpper(k)); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStartup, err)
	}
	return &cfg, nil
}

// Validate проверяет, что заданы параметры для запуска бота.
func (c *Config) Validate() error {
	var missing []string
	if c.BotToken == "" {
		missing = append(missing, "BOT_TOKEN")
	}
	if c.AdminID == 0 {
		missing = append(missing, "ADMIN_ID")
	}
	if c.AppID == 0 {
		missing = append(missing, "APP_ID")
	}
	if c.AppHash == "" {
		missing = append(missing, "APP_HASH")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: не заданы %s", ErrStartup, strings.Join(missing, ", "))
	}
	return nil
}

// UsePostgres - каталог и сессия хранятся в Postgres вместо файлов.
func (c *Config) UsePostgres() bool {
	return c.DatabaseURL != ""
}
