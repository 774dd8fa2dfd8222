package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type PaymentConfig struct {
	Env        string `yaml:"env"`
	HTTPServer `yaml:"http_server"`
	Metrics    `yaml:"metrics"`
	PaymentDB  `yaml:"payment_db"`
	Gateway    `yaml:"gateway"`
	Auth       `yaml:"auth"`
	Kafka      `yaml:"kafka"`
	Sweep      `yaml:"pending_sweep"`
}

type HTTPServer struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type Metrics struct {
	Addr string `yaml:"addr"`
}

type PaymentDB struct {
	Dsn            string `yaml:"dsn"`
	MigrationsPath string `yaml:"migrations_path"`
}

type Gateway struct {
	BaseURL         string        `yaml:"base_url"`
	APIKey          string        `yaml:"api_key"`
	PGKey           string        `yaml:"pg_key"`
	DefaultSchoolID string        `yaml:"default_school_id"`
	CallbackURL     string        `yaml:"callback_url"`
	Name            string        `yaml:"name"`
	Timeout         time.Duration `yaml:"timeout" env-default:"10s"`
}

type Auth struct {
	JWTSecret string `yaml:"jwt_secret"`
}

type Kafka struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    string `yaml:"port"`
	Topic   string `yaml:"topic"`
}

type Sweep struct {
	Enabled    bool          `yaml:"enabled"`
	Interval   time.Duration `yaml:"interval" env-default:"5m"`
	PendingAge time.Duration `yaml:"pending_age" env-default:"30m"`
}

func MustLoad() *PaymentConfig {

	configPath := os.Getenv("PAYMENT_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("PAYMENT_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	var cfg PaymentConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
