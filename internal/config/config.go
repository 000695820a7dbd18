package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	TelegramToken    string  `mapstructure:"TELEGRAM_TOKEN"`
	DBDSN            string  `mapstructure:"DB_DSN"`
	Environment      string  `mapstructure:"ENV"`
	AdminTelegramIDs []int64 `mapstructure:"ADMIN_TELEGRAM_IDS"`
	Storage          string  `mapstructure:"STORAGE"`
	AutoGenerate     bool    `mapstructure:"AUTO_GENERATE"`
	Currency         string  `mapstructure:"CURRENCY"`
}

func LoadConfig() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	return fromEnv(os.Getenv)
}

// fromEnv собирает конфиг из переданного источника переменных
func fromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		TelegramToken: getenv("TELEGRAM_TOKEN"),
		DBDSN:         getenv("DB_DSN"),
		Environment:   getenv("ENV"),
		Storage:       strings.ToLower(strings.TrimSpace(getenv("STORAGE"))),
		Currency:      getenv("CURRENCY"),
	}

	// Устанавливаем дефолтные значения
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.Storage == "" {
		cfg.Storage = StoragePostgres
	}
	if cfg.Currency == "" {
		cfg.Currency = "₽"
	}

	adminIDs, err := parseIDs(getenv("ADMIN_TELEGRAM_IDS"))
	if err != nil {
		return nil, fmt.Errorf("ADMIN_TELEGRAM_IDS: %w", err)
	}
	cfg.AdminTelegramIDs = adminIDs

	if raw := getenv("AUTO_GENERATE"); raw != "" {
		cfg.AutoGenerate, err = strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("AUTO_GENERATE: %w", err)
		}
	}

	// Проверяем обязательные поля
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}
	switch cfg.Storage {
	case StoragePostgres:
		if cfg.DBDSN == "" {
			return nil, fmt.Errorf("DB_DSN is required but not set")
		}
	case StorageMemory:
	default:
		return nil, fmt.Errorf("unknown STORAGE %q", cfg.Storage)
	}

	return cfg, nil
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}

func parseIDs(raw string) ([]int64, error) {
	ids := make([]int64, 0)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid telegram id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
