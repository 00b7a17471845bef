package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	configFilePathENV = "CONFIG_FILE"
	tokenTelegramENV  = "TELEGRAM_TOKEN"
	databaseDSN       = "DATABASE_DSN"
	bridgeTokenENV    = "BRIDGE_TOKEN"
)

// Config ...
type Config struct {
	Telegram struct {
		Token  string `yaml:"token"`
		ChatID int64  `yaml:"chat_id"`
	} `yaml:"telegram"`
	DB      string `yaml:"db_dsn"`
	Service struct {
		Host      string `yaml:"host"`
		Port      int    `yaml:"port"`       // intake webhook
		AdminPort int    `yaml:"admin_port"` // healthz + metrics
	} `yaml:"service"`

	// Мост к терминалу MT5 (REST + поток котировок)
	Bridge struct {
		URL   string `yaml:"url"`
		WSURL string `yaml:"ws_url"`
		Token string `yaml:"token"`
	} `yaml:"bridge"`

	Jaeger struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"jaeger"`

	// Файл money-менеджмента (риск-ставки, таблица фиксированных лотов).
	// Перечитывается на лету, см. money.go.
	MoneyFile string `yaml:"money_file"`

	// Каденс главного цикла (dispatch -> reconcile -> sleep) и срок жизни
	// котировки из ws-кеша. Задаются через TICK_INTERVAL / QUOTE_MAX_AGE:
	// yaml.v2 не умеет парсить duration-строки.
	TickInterval time.Duration `yaml:"-"`
	QuoteMaxAge  time.Duration `yaml:"-"`
}

func NewConfig() (*Config, error) {

	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = "values_local.yaml"
	}
	file, err := os.Open("configs/" + configFileName)
	if err != nil {
		log.Fatalf("Failed to open config file: %v", err)
	}

	defer func() {
		_ = file.Close()
	}()

	decoder := yaml.NewDecoder(file)
	config := Config{
		MoneyFile:    getenvDefault("MONEY_FILE", "configs/money.yaml"),
		TickInterval: durationFromEnv("TICK_INTERVAL", "1s"),
		QuoteMaxAge:  durationFromEnv("QUOTE_MAX_AGE", "5s"),
	}
	err = decoder.Decode(&config)
	if err != nil {
		log.Fatalf("Failed to decode config file: %v", err)
	}

	token := os.Getenv(tokenTelegramENV)
	if token != "" {
		config.Telegram.Token = token
	}

	dsn := os.Getenv(databaseDSN)
	if dsn != "" {
		config.DB = dsn
	}

	if t := os.Getenv(bridgeTokenENV); t != "" {
		config.Bridge.Token = t
	}

	if config.TickInterval <= 0 {
		config.TickInterval = time.Second
	}
	if config.Service.AdminPort == 0 {
		config.Service.AdminPort = 8081
	}

	return &config, nil
}

func getenvRequired(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("env %s is required", key))
	}
	return v
}

func intFromEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationFromEnv(key, def string) time.Duration {
	val := getenvDefault(key, def)
	d, err := time.ParseDuration(val)
	if err != nil {
		d, _ = time.ParseDuration(def)
	}
	return d
}
