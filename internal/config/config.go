package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Storage       StorageConfig       `mapstructure:"storage"`
	Mongo         MongoConfig         `mapstructure:"mongo"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Auth          AuthConfig          `mapstructure:"auth"`
	Authorization AuthorizationConfig `mapstructure:"authorization"`
	MultiTenancy  MultiTenancyConfig  `mapstructure:"multitenancy"`
	RateLimit     RateLimitConfig     `mapstructure:"ratelimit"`
}

type ServerConfig struct {
	Environment string `mapstructure:"environment"`
	Port        string `mapstructure:"port"`
}

// StorageConfig selects the backing store. Both drivers satisfy the
// same repository contract.
type StorageConfig struct {
	Driver string `mapstructure:"driver"` // "mongo" or "redis"
}

type MongoConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig points at the OpenID Connect provider. Disabled means
// every request runs as the fixed dev identity.
type AuthConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Authority string `mapstructure:"authority"`
	Audience  string `mapstructure:"audience"`
}

type AuthorizationConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type MultiTenancyConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type RateLimitConfig struct {
	RequestsPerSecond int `mapstructure:"requests_per_second"`
}

func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetEnvPrefix("TGK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("server.port", ":8080")
	viper.SetDefault("server.environment", "dev")
	viper.SetDefault("storage.driver", "mongo")
	viper.SetDefault("mongo.uri", "mongodb://localhost:27017")
	viper.SetDefault("mongo.database", "feature-toggle")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			panic(err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		panic(err)
	}

	return &cfg
}
