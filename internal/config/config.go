package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/corray333/atlas-cafe/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func MustInit() {
	if err := godotenv.Load("./.env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic("error while loading .env file: " + err.Error())
	}

	setDefaults()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("/etc/cafe-svc")
	viper.AddConfigPath(".")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			panic("error while reading config file: " + err.Error())
		}
	}
	SetupLogger()
}

func SetupLogger() {
	handler := logger.NewHandler(&logger.Options{
		Format: logger.Format(viper.GetString("log.format")),
		Level:  logger.ParseLevel(viper.GetString("log.level")),
	})
	log := slog.New(handler)
	slog.SetDefault(log)
}

func setDefaults() {
	viper.SetDefault("log.format", "text")
	viper.SetDefault("log.level", "info")

	viper.SetDefault("server.http.port", "8080")
	viper.SetDefault("server.http.cors.allowed_origins", []string{"*"})
	viper.SetDefault("server.http.cors.allowed_methods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	viper.SetDefault("server.http.cors.allowed_headers", []string{"Accept", "Content-Type", "X-Request-Id"})
	viper.SetDefault("server.http.cors.allow_credentials", true)
	viper.SetDefault("server.http.cors.max_age", 300)
	viper.SetDefault("server.http.session_cookie", "session_id")

	viper.SetDefault("session.idle_ttl", 2*time.Hour)
	viper.SetDefault("session.reap_interval", time.Minute)

	viper.SetDefault("server.grpc.enabled", false)
	viper.SetDefault("server.grpc.port", "9090")
	viper.SetDefault("server.grpc.keepalive.max_connection_idle", 15*time.Minute)
	viper.SetDefault("server.grpc.keepalive.max_connection_age", 30*time.Minute)
	viper.SetDefault("server.grpc.keepalive.time", 5*time.Minute)
	viper.SetDefault("server.grpc.keepalive.timeout", 20*time.Second)
	viper.SetDefault("server.grpc.keepalive.min_time", 30*time.Second)
	viper.SetDefault("server.grpc.keepalive.permit_without_stream", true)

	viper.SetDefault("football_data.base_url", "https://api.football-data.org/v4")
	viper.SetDefault("football_data.timezone", "Africa/Casablanca")
	viper.SetDefault("football_data.timeout", 10*time.Second)
	viper.SetDefault("schedule.poll_interval", 30*time.Second)

	viper.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com/v1beta")
	viper.SetDefault("gemini.poll_interval", 5*time.Second)
	viper.SetDefault("gemini.video_timeout", 10*time.Minute)
	viper.SetDefault("gemini.request_timeout", 2*time.Minute)
	viper.SetDefault("gemini.max_video_bytes", 100<<20)

	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.pool_size", 10)
	viper.SetDefault("redis.matches_ttl", time.Hour)

	viper.SetDefault("rabbitmq.enabled", false)
	viper.SetDefault("rabbitmq.host", "rabbitmq")
	viper.SetDefault("rabbitmq.port", 5672)
	viper.SetDefault("rabbitmq.kitchen_queue", "cafe.kitchen.orders")

	viper.SetDefault("outbox.poll_interval", 10*time.Second)
	viper.SetDefault("outbox.batch_size", 100)
	viper.SetDefault("outbox.retry_interval", 30*time.Second)
	viper.SetDefault("outbox.max_retries", 5)

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.service_name", "cafe-svc")
	viper.SetDefault("otel.jaeger_endpoint", "http://jaeger:14268/api/traces")
}
