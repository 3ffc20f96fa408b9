package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Gateway  GatewayConfig
	Media    MediaConfig
	Mail     MailConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Observ   ObservabilityConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	URL string
}

type AuthConfig struct {
	// JWTSecret signs the session tokens issued at login.
	JWTSecret string
}

type GatewayConfig struct {
	// KeyID/KeySecret authenticate order creation against the payment
	// gateway; KeySecret is also the webhook HMAC secret.
	KeyID     string
	KeySecret string
	BaseURL   string
	Currency  string
}

type MediaConfig struct {
	PublicKey   string
	PrivateKey  string
	URLEndpoint string
}

type MailConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Brokers       []string
	TopicOrder    string
	ConsumerGroup string
}

type ObservabilityConfig struct {
	JaegerEndpoint string
}

func Load() *Config {
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			URL: mustEnv("DATABASE_URL"),
		},
		Auth: AuthConfig{
			JWTSecret: mustEnv("SESSION_SECRET"),
		},
		Gateway: GatewayConfig{
			KeyID:     mustEnv("RAZORPAY_KEY_ID"),
			KeySecret: mustEnv("RAZORPAY_KEY_SECRET"),
			BaseURL:   getEnv("RAZORPAY_BASE_URL", "https://api.razorpay.com"),
			Currency:  getEnv("CURRENCY", "INR"),
		},
		Media: MediaConfig{
			PublicKey:   mustEnv("IMAGEKIT_PUBLIC_KEY"),
			PrivateKey:  mustEnv("IMAGEKIT_PRIVATE_KEY"),
			URLEndpoint: mustEnv("IMAGEKIT_URL_ENDPOINT"),
		},
		Mail: MailConfig{
			Host:     mustEnv("MAIL_HOST"),
			Port:     getEnv("MAIL_PORT", "587"),
			Username: mustEnv("MAIL_USERNAME"),
			Password: mustEnv("MAIL_PASSWORD"),
			From:     getEnv("MAIL_FROM", "store@image-store.local"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Kafka: KafkaConfig{
			Brokers:       strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			TopicOrder:    getEnv("KAFKA_TOPIC_ORDER_EVENTS", "order-events"),
			ConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "image-store-group"),
		},
		Observ: ObservabilityConfig{
			JaegerEndpoint: getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
		},
	}

	log.Printf("Config loaded: env=%s, port=%s", cfg.Server.Env, cfg.Server.Port)
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// mustEnv aborts startup when a required value is missing.
func mustEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return val
}
