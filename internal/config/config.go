package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is loaded once at process start. A .env file is honored when
// present; real environment variables win.
type Config struct {
	Port        string
	DatabaseURL string
	AMQPURL     string

	AdminEmail    string
	AdminPassword string

	MailHost     string
	MailPort     int
	MailUser     string
	MailPassword string
	MailFrom     string
	MailNotifyTo string

	AllowedOrigins []string
	LogLevel       string
	ExposeDevOTP   bool
}

func Load() *Config {
	godotenv.Load()

	return &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/thelocaljewel?sslmode=disable"),
		AMQPURL:     getEnv("AMQP_URL", ""),

		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@thelocaljewel.com"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		MailHost:     getEnv("MAIL_HOST", ""),
		MailPort:     getEnvInt("MAIL_PORT", 587),
		MailUser:     getEnv("MAIL_USER", ""),
		MailPassword: getEnv("MAIL_PASS", ""),
		MailFrom:     getEnv("MAIL_FROM", "no-reply@thelocaljewel.com"),
		MailNotifyTo: getEnv("MAIL_NOTIFY_TO", "admin@thelocaljewel.com"),

		AllowedOrigins: []string{getEnv("CORS_ORIGIN", "*")},
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		ExposeDevOTP:   getEnv("EXPOSE_DEV_OTP", "false") == "true",
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
