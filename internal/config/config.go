package config

import "github.com/spf13/viper"

// Config holds the runtime configuration, loaded from environment
// variables with sensible defaults. RabbitMQURL and RedisAddr are empty
// by default, which disables event publishing and read caching.
type Config struct {
	AppPort     string
	DatabaseDSN string
	SQLitePath  string
	RabbitMQURL string
	RedisAddr   string
}

// Load reads the configuration from the environment via viper.
func Load() Config {
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_DSN", "")
	viper.SetDefault("SQLITE_PATH", "products.db")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("REDIS_ADDR", "")
	viper.AutomaticEnv()

	return Config{
		AppPort:     viper.GetString("APP_PORT"),
		DatabaseDSN: viper.GetString("DATABASE_DSN"),
		SQLitePath:  viper.GetString("SQLITE_PATH"),
		RabbitMQURL: viper.GetString("RABBITMQ_URL"),
		RedisAddr:   viper.GetString("REDIS_ADDR"),
	}
}
