package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type JWTConfig struct {
	SecretKey string        `mapstructure:"secretKey"`
	Issuer    string        `mapstructure:"issuer"`
	Audience  string        `mapstructure:"audience"`
	TokenTTL  time.Duration `mapstructure:"tokenTTL"`
}

type Config struct {
	Mode   string `mapstructure:"mode"`
	Server struct {
		HTTPPort    string        `mapstructure:"HTTPPort"`
		MetricsPort string        `mapstructure:"metricsPort"`
		Timeout     time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	Repositories struct {
		Postgres struct {
			Host     string `mapstructure:"host"`
			Password string `mapstructure:"password"`
			Port     string `mapstructure:"port"`
			Username string `mapstructure:"username"`
			DB       string `mapstructure:"db"`
			SSLMode  string `mapstructure:"sslmode"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	JWT       JWTConfig `mapstructure:"jwt"`
	RateLimit struct {
		Requests int           `mapstructure:"requests"`
		Window   time.Duration `mapstructure:"window"`
	} `mapstructure:"rateLimit"`
	Storage struct {
		Endpoint  string `mapstructure:"endpoint"`
		AccessKey string `mapstructure:"accessKey"`
		SecretKey string `mapstructure:"secretKey"`
		Bucket    string `mapstructure:"bucket"`
		UseSSL    bool   `mapstructure:"useSSL"`
	} `mapstructure:"storage"`
	Seed struct {
		AdminEmail    string `mapstructure:"adminEmail"`
		AdminPhone    string `mapstructure:"adminPhone"`
		AdminPassword string `mapstructure:"adminPassword"`
	} `mapstructure:"seed"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	// Add file-based config paths
	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	v.SetEnvPrefix("STORE")
	v.AutomaticEnv()

	// Try to load file-based config
	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}
	return config, nil
}
