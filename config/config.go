package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
)

// Config holds the process-wide configuration. It is built once in main and
// passed down to the routes and handlers; nothing reads the environment after
// startup.
type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
	RedisAddr   string
	SMTP        SMTPConfig
	Agora       AgoraConfig
	Cloudinary  CloudinaryConfig
}

// SMTPConfig holds the outgoing mail settings.
type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
}

// Configured reports whether mail can be sent at all.
func (s SMTPConfig) Configured() bool {
	return s.Host != "" && s.User != ""
}

// AgoraConfig holds the video-call provider credentials.
type AgoraConfig struct {
	AppID          string
	AppCertificate string
}

func (a AgoraConfig) Configured() bool {
	return a.AppID != "" && a.AppCertificate != ""
}

// CloudinaryConfig holds the image-hosting credentials.
type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

func (c CloudinaryConfig) Configured() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Println("Warning: JWT_SECRET is not set, using insecure default")
		secret = "solid_secret_key"
	}

	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	return &Config{
		Port:        getEnv("PORT", "8000"),
		DatabaseURL: dbURL,
		JWTSecret:   secret,
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		SMTP: SMTPConfig{
			Host: os.Getenv("SMTP_HOST"),
			Port: smtpPort,
			User: os.Getenv("EMAIL_USER"),
			Pass: os.Getenv("EMAIL_PASS"),
		},
		Agora: AgoraConfig{
			AppID:          os.Getenv("AGORA_APP_ID"),
			AppCertificate: os.Getenv("AGORA_APP_CERTIFICATE"),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:    os.Getenv("CLOUDINARY_API_KEY"),
			APISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
