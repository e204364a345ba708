package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel string   `yaml:"log-level" env-default:"info"`
	HTTPPort string   `yaml:"http-port" env-default:"9090"`
	Redis    Redis    `yaml:"redis"`
	Promo    Promo    `yaml:"promo"`
	Telegram Telegram `yaml:"telegram"`
	Session  Session  `yaml:"session"`
}

type Redis struct {
	Host string `yaml:"host" env-default:"localhost"`
	Port string `yaml:"port" env-default:"6379"`
}

type Promo struct {
	Length   int    `yaml:"length" env-default:"5"`
	Alphabet string `yaml:"alphabet" env-default:"ABCDEFGHJKLMNPQRSTUVWXYZ23456789"`
	// MaxAttempts bounds the retry loop on code collisions; hitting it
	// means the alphabet/length configuration is too small for the number
	// of codes already issued.
	MaxAttempts     int `yaml:"max-attempts" env-default:"25"`
	DiscountPercent int `yaml:"discount-percent" env-default:"15"`
}

type Telegram struct {
	BotToken string `yaml:"bot-token" env:"TELEGRAM_BOT_TOKEN" env-default:""`
	GameURL  string `yaml:"game-url" env-default:"http://localhost"`
}

type Session struct {
	AbandonAfter time.Duration `yaml:"abandon-after" env-default:"24h"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
