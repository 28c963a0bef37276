package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	MongoDB MongoDBConfig
	Kafka   KafkaConfig
	Session SessionConfig
}

type ServerConfig struct {
	Port        string
	Environment string
	Version     string
}

type MongoDBConfig struct {
	URI         string
	Database    string
	MaxPoolSize uint64
	MinPoolSize uint64
	MaxRetries  int
}

type KafkaConfig struct {
	Brokers         []string
	ProducerTimeout int
	ClientID        string
	Username        string
	Password        string
	SSL             bool
	SASLMechanism   string
	Topics          KafkaTopics
}

type KafkaTopics struct {
	UserRegistered string
	UserLoggedIn   string
	UserLoggedOut  string
}

type SessionConfig struct {
	CookieName    string
	TTLMinutes    int
	SweepSeconds  int
	SecureCookies bool
}

// TTL returns the session idle timeout as a duration.
func (c SessionConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

// SweepInterval returns how often expired sessions are swept.
func (c SessionConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepSeconds) * time.Second
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	// Set default values
	setDefaults()

	// Enable reading from environment variables
	viper.AutomaticEnv()

	// Try to read config file (optional)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/session-tracker")

	// Reading config file is optional
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, use environment variables and defaults
	}

	var config Config

	// Server configuration
	config.Server = ServerConfig{
		Port:        viper.GetString("server.port"),
		Environment: viper.GetString("server.environment"),
		Version:     viper.GetString("server.version"),
	}

	// MongoDB configuration
	config.MongoDB = MongoDBConfig{
		URI:         viper.GetString("mongodb.uri"),
		Database:    viper.GetString("mongodb.database"),
		MaxPoolSize: viper.GetUint64("mongodb.max_pool_size"),
		MinPoolSize: viper.GetUint64("mongodb.min_pool_size"),
		MaxRetries:  viper.GetInt("mongodb.max_retries"),
	}

	// Kafka configuration
	config.Kafka = KafkaConfig{
		Brokers:         viper.GetStringSlice("kafka.brokers"),
		ProducerTimeout: viper.GetInt("kafka.producer_timeout"),
		ClientID:        viper.GetString("kafka.client_id"),
		Username:        viper.GetString("kafka.username"),
		Password:        viper.GetString("kafka.password"),
		SSL:             viper.GetBool("kafka.ssl"),
		SASLMechanism:   viper.GetString("kafka.sasl_mechanism"),
		Topics: KafkaTopics{
			UserRegistered: viper.GetString("kafka.topics.user_registered"),
			UserLoggedIn:   viper.GetString("kafka.topics.user_logged_in"),
			UserLoggedOut:  viper.GetString("kafka.topics.user_logged_out"),
		},
	}

	// Session configuration
	config.Session = SessionConfig{
		CookieName:    viper.GetString("session.cookie_name"),
		TTLMinutes:    viper.GetInt("session.ttl_minutes"),
		SweepSeconds:  viper.GetInt("session.sweep_seconds"),
		SecureCookies: viper.GetBool("session.secure_cookies"),
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.environment", "development")
	viper.SetDefault("server.version", "1.0.0")

	// MongoDB defaults
	viper.SetDefault("mongodb.uri", "mongodb://localhost:27017")
	viper.SetDefault("mongodb.database", "session_tracker")
	viper.SetDefault("mongodb.max_pool_size", 100)
	viper.SetDefault("mongodb.min_pool_size", 10)
	viper.SetDefault("mongodb.max_retries", 5)

	// Kafka defaults
	viper.SetDefault("kafka.brokers", []string{"localhost:9092"})
	viper.SetDefault("kafka.producer_timeout", 5000)
	viper.SetDefault("kafka.client_id", "session-tracker-producer")
	viper.SetDefault("kafka.username", "")
	viper.SetDefault("kafka.password", "")
	viper.SetDefault("kafka.ssl", false)
	viper.SetDefault("kafka.sasl_mechanism", "plain")

	// Kafka topic defaults
	viper.SetDefault("kafka.topics.user_registered", "users.registered")
	viper.SetDefault("kafka.topics.user_logged_in", "users.logged_in")
	viper.SetDefault("kafka.topics.user_logged_out", "users.logged_out")

	// Session defaults
	viper.SetDefault("session.cookie_name", "session_id")
	viper.SetDefault("session.ttl_minutes", 30)
	viper.SetDefault("session.sweep_seconds", 60)
	viper.SetDefault("session.secure_cookies", false) // Set to true in production
}
