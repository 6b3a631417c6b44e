package main

import (
	"fmt"
	"strings"

	"drawit_backend/internal/ai"
	"drawit_backend/internal/repository"

	"github.com/spf13/viper"
)

const (
	configPath   = "./"
	configName   = "config"
	configFormat = "yaml"
)

type Config struct {
	Database repository.Config `yaml:"database"`
	Server   ServerConfig      `yaml:"server"`
	AI       ai.Config         `yaml:"ai"`
	Auth     AuthConfig        `yaml:"auth"`

	QuotaStorePath string `yaml:"quotaStorePath"`

	LogLevel string `yaml:"logLevel"`
	DevMode  bool   `yaml:"devMode"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwtSecret"`
	DebugMode bool   `yaml:"debugMode"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(configName)
	viper.AddConfigPath(configPath)
	viper.SetConfigType(configFormat)

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

	if cfg.QuotaStorePath == "" {
		cfg.QuotaStorePath = "./data/quota.db"
	}

	return &cfg, nil
}
