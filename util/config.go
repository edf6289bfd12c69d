package util

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variable.
type Config struct {
	Environment       string   `mapstructure:"ENVIRONMENT"`
	LogLevel          string   `mapstructure:"LOG_LEVEL"`
	HTTPServerAddress string   `mapstructure:"HTTP_SERVER_ADDRESS"`
	AllowedOrigins    []string `mapstructure:"ALLOWED_ORIGINS"`

	// network instances, "name=path,name=path"
	Instances      string        `mapstructure:"INSTANCES"`
	DefaultProfile string        `mapstructure:"DEFAULT_PROFILE"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	ReloadSchedule string        `mapstructure:"RELOAD_SCHEDULE"`

	// optional; when set requests must carry one of the keys in X-API-Key
	APIKeys []string `mapstructure:"API_KEYS"`

	RedisAddress  string        `mapstructure:"REDIS_ADDRESS"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RouteCacheTTL time.Duration `mapstructure:"ROUTE_CACHE_TTL"`

	TracingEnabled     bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter    string  `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint       string  `mapstructure:"OTLP_ENDPOINT"`
	TracingSampleRatio float64 `mapstructure:"TRACING_SAMPLE_RATIO"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")

	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("HTTP_SERVER_ADDRESS", "0.0.0.0:8080")
	viper.SetDefault("DEFAULT_PROFILE", "car.fastest")
	viper.SetDefault("REQUEST_TIMEOUT", 60*time.Second)
	viper.SetDefault("ROUTE_CACHE_TTL", 10*time.Minute)
	viper.SetDefault("TRACING_EXPORTER", "stdout")
	viper.SetDefault("TRACING_SAMPLE_RATIO", 1.0)

	viper.AutomaticEnv()

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	// Normalize common quoted values from .env (e.g. REDIS_PASSWORD="...")
	config.RedisPassword = trimOptionalQuotes(config.RedisPassword)
	config.Instances = trimOptionalQuotes(config.Instances)
	config.AllowedOrigins = splitList(config.AllowedOrigins)
	config.APIKeys = splitList(config.APIKeys)
	return
}

func trimOptionalQuotes(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "\"")
	s = strings.TrimSuffix(s, "\"")
	s = strings.TrimPrefix(s, "'")
	s = strings.TrimSuffix(s, "'")
	return s
}

// splitList flattens comma separated entries and drops empty ones.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(trimOptionalQuotes(v), ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
