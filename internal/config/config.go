package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host string
	Port int
}

type ProviderConfig struct {
	APIKey        string
	BaseURL       string
	ClassifyModel string
	ChatModel     string
	Timeout       time.Duration
}

type SimulatorConfig struct {
	Tick         time.Duration
	HistoryLimit int
}

type DBConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	AccessSecret string
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	Provider    ProviderConfig
	Simulator   SimulatorConfig
	DB          DBConfig
	Redis       RedisConfig
	Auth        AuthConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AutomaticEnv()

	_ = v.ReadInConfig()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		Provider: ProviderConfig{
			APIKey:        v.GetString("OPENAI_API_KEY"),
			BaseURL:       v.GetString("OPENAI_BASE_URL"),
			ClassifyModel: v.GetString("CLASSIFY_MODEL"),
			ChatModel:     v.GetString("CHAT_MODEL"),
			Timeout:       v.GetDuration("PROVIDER_TIMEOUT"),
		},
		Simulator: SimulatorConfig{
			Tick:         v.GetDuration("SIMULATOR_TICK"),
			HistoryLimit: v.GetInt("SIMULATOR_HISTORY"),
		},
		DB: DBConfig{
			DSN:          v.GetString("DB_DSN"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
		},
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 7090
	}
	if cfg.Provider.BaseURL == "" {
		cfg.Provider.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Provider.ClassifyModel == "" {
		cfg.Provider.ClassifyModel = "gpt-4o"
	}
	if cfg.Provider.ChatModel == "" {
		cfg.Provider.ChatModel = "gpt-4o-mini"
	}
	if cfg.Provider.Timeout == 0 {
		cfg.Provider.Timeout = 30 * time.Second
	}
	if cfg.Simulator.Tick == 0 {
		cfg.Simulator.Tick = 2 * time.Second
	}
	if cfg.Simulator.HistoryLimit == 0 {
		cfg.Simulator.HistoryLimit = 20
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Simulator.Tick < 10*time.Millisecond {
		return fmt.Errorf("SIMULATOR_TICK must be at least 10ms")
	}
	if cfg.Simulator.HistoryLimit < 1 {
		return fmt.Errorf("SIMULATOR_HISTORY must be positive")
	}
	if cfg.Environment == "production" && cfg.Auth.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required in production")
	}
	return nil
}
