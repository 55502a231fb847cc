package config

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string           `yaml:"env" env-default:"development"` // environment
	HTTPServer HTTPServerConfig `yaml:"http_server"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	JWT        JWTConfig        `yaml:"jwt"`
	Migrations MigrationsConfig `yaml:"migrations"`
	Payments   PaymentsConfig   `yaml:"payments"`
}

// HTTPServerConfig структура http сервера
type HTTPServerConfig struct {
	Address     string        `yaml:"address" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// DatabaseConfig структура по работе с БД
type DatabaseConfig struct {
	Host     string `yaml:"host" env-default:"localhost"`
	Port     int    `yaml:"port" env-default:"5432"`
	User     string `yaml:"user" env-required:"true"`
	Password string `yaml:"-" env:"DB_PASSWORD" env-required:"true"`
	Name     string `yaml:"name" env-required:"true"`
}

// RedisConfig — кеш витринных выборок; при пустом addr кеширование отключено
type RedisConfig struct {
	Addr     string        `yaml:"addr" env-default:""`
	DB       int           `yaml:"db" env-default:"0"`
	CacheTTL time.Duration `yaml:"cache_ttl" env-default:"5m"`
}

// JWTConfig настройка jwt
type JWTConfig struct {
	Secret   string `yaml:"-" env:"JWT_SECRET" env-required:"true"`
	TokenTTL int    `yaml:"token_ttl" env-default:"60"`
}

type MigrationsConfig struct {
	Path string `yaml:"path" env-default:"./migrations"`
}

// PaymentsConfig — настройки платежных интеграций.
// Валюта фиксируется на деплой; FrontendStoreURL — база для shopperResultUrl
// и success/cancel ссылок hosted-потока, проверяется в момент запроса.
type PaymentsConfig struct {
	Currency         string         `yaml:"currency" env-default:"JOD"`
	FrontendStoreURL string         `yaml:"frontend_store_url" env:"FRONTEND_STORE_URL"`
	HyperPay         HyperPayConfig `yaml:"hyperpay"`
	PayLink          PayLinkConfig  `yaml:"paylink"`
}

// HyperPayConfig — виджетный (синхронный COPYandPAY) поток
type HyperPayConfig struct {
	BaseURL     string `yaml:"base_url" env:"HYPERPAY_BASE_URL" env-default:"https://eu-prod.oppwa.com/"`
	EntityID    string `yaml:"-" env:"HYPERPAY_ENTITY_ID"`
	AccessToken string `yaml:"-" env:"HYPERPAY_ACCESS_TOKEN"`
	PaymentType string `yaml:"payment_type" env-default:"DB"`
}

// PayLinkConfig — redirect-поток с hosted-страницей оплаты
type PayLinkConfig struct {
	BaseURL string `yaml:"base_url" env:"PAYLINK_BASE_URL"`
	APIKey  string `yaml:"-" env:"PAYLINK_API_KEY"`
}

// MustLoad - если не загружаем - паникуем
func MustLoad() *Config {
	configPath := fetchConfigPath()
	if configPath == "" {
		log.Fatal("CONFIG_PATH not exists")
	}
	return MustLoadByPath(configPath)
}

func fetchConfigPath() string {
	var path string

	flag.StringVar(&path, "config", "", "path to config file")
	flag.Parse()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	return path
}

func MustLoadByPath(configPath string) *Config {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file not found: " + configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("can't read config file %s", configPath)
	}

	return &cfg
}
