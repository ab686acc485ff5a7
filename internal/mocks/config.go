package mocks

import (
	"time"

	"github.com/cradoe/sellerverify/internal/config"
)

// NewMockConfig returns a config suitable for handler and middleware tests
func NewMockConfig() *config.Config {
	cfg := &config.Config{
		BaseURL:      "http://localhost",
		HttpPort:     8080,
		KafkaServers: "localhost:9092",
	}

	cfg.Db.Dsn = "mock_dsn"
	cfg.Redis.Addr = "localhost:6379"
	cfg.Jwt.SecretKey = "test_secret"
	cfg.Notifications.Email = "no-reply@example.com"

	cfg.Smtp.Host = "smtp.example.com"
	cfg.Smtp.Port = 587
	cfg.Smtp.Username = "user@example.com"
	cfg.Smtp.Password = "password"
	cfg.Smtp.From = "no-reply@example.com"

	cfg.Otp.TTL = 60 * time.Second
	cfg.Otp.Retention = 10 * time.Minute
	cfg.Sms.Provider = "log"
	cfg.Verification.PhoneReverifyGrace = 72 * time.Hour

	return cfg
}
