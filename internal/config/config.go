package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	Store   StoreConfig   `mapstructure:"store"`
	Dataset DatasetConfig `mapstructure:"dataset"`
	Market  MarketConfig  `mapstructure:"market"`
	Cron    CronConfig    `mapstructure:"cron"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type StoreConfig struct {
	RedisURL    string `mapstructure:"redis_url"`
	PostgresDSN string `mapstructure:"postgres_dsn"`
}

type DatasetConfig struct {
	Dir string `mapstructure:"dir"`
}

type MarketConfig struct {
	ESIBaseURL       string        `mapstructure:"esi_base_url"`
	AggregateBaseURL string        `mapstructure:"aggregate_base_url"`
	Timeout          time.Duration `mapstructure:"timeout"`
	CacheTTL         time.Duration `mapstructure:"cache_ttl"`
	MaxPages         int           `mapstructure:"max_pages"`
	Concurrency      int           `mapstructure:"concurrency"`
}

type CronConfig struct {
	Enabled          bool   `mapstructure:"enabled"`
	WatchlistRefresh string `mapstructure:"watchlist_refresh"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("INDY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("store.redis_url", "")
	v.SetDefault("store.postgres_dsn", "")
	v.SetDefault("dataset.dir", "data")
	v.SetDefault("market.esi_base_url", "https://esi.evetech.net/latest")
	v.SetDefault("market.aggregate_base_url", "")
	v.SetDefault("market.timeout", "15s")
	v.SetDefault("market.cache_ttl", "30m")
	v.SetDefault("market.max_pages", 10)
	v.SetDefault("market.concurrency", 4)
	v.SetDefault("cron.enabled", true)
	v.SetDefault("cron.watchlist_refresh", "@every 20m")

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
