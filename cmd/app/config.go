package main

import (
	"fmt"
	"strings"
	"time"

	"crew_loyalty/internal/repository"
	"crew_loyalty/internal/telemetry"

	"github.com/spf13/viper"
)

const (
	configPath   = "./"
	configName   = "config"
	configFormat = "yaml"
)

type Config struct {
	Database repository.Config      `yaml:"database"`
	Redis    repository.RedisConfig `yaml:"redis"`
	Kafka    telemetry.KafkaConfig  `yaml:"kafka"`
	Server   ServerConfig           `yaml:"server"`

	SnapshotTTL time.Duration `yaml:"snapshotTTL"`
	LogLevel    string        `yaml:"logLevel"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(configName)
	viper.AddConfigPath(configPath)
	viper.SetConfigType(configFormat)

	viper.SetDefault("snapshotTTL", 30*24*time.Hour)
	viper.SetDefault("logLevel", "info")

	viper.AutomaticEnv()
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
