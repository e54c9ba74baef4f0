package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/gaqzi/review-ledger/internal/platform/database"
)

// DriverMemory keeps everything in memory, nothing survives a restart.
const DriverMemory = "memory"

type Config struct {
	Addr     string          `mapstructure:"addr"`
	LogLevel string          `mapstructure:"log_level"`
	Database database.Config `mapstructure:"database"`
}

func NewConfig() Config {
	return Config{
		Addr:     "127.0.0.1:3000",
		LogLevel: "info",
		Database: database.Config{
			Driver: database.DriverSQLite,
			DSN:    "file:restaurant_reviews.db?_foreign_keys=on",
		},
	}
}

// LoadConfig starts from NewConfig and overrides it with ledger.yaml in the working directory, if there is one,
// and then with LEDGER_ prefixed environment variables, like LEDGER_DATABASE_DSN.
func LoadConfig() (Config, error) {
	cfg := NewConfig()

	v := viper.New()
	v.SetDefault("addr", cfg.Addr)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("database.driver", cfg.Database.Driver)
	v.SetDefault("database.dsn", cfg.Database.DSN)

	v.SetConfigName("ledger")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("ledger")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Logger builds the logger for the configured level, unknown levels log at info.
func (c Config) Logger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
