package config

import "time"

type Config struct {
	BaseURL  string
	HttpPort int
	Db       struct {
		Dsn         string
		Automigrate bool
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
	}
	Jwt struct {
		SecretKey string
	}
	Notifications struct {
		Email string
	}
	Smtp struct {
		Host     string
		Port     int
		Username string
		Password string
		From     string
	}
	FileUploader struct {
		CloudName string
		ApiKey    string
		ApiSecret string
		Folder    string
	}
	KafkaServers string
	Otp          struct {
		TTL            time.Duration
		Retention      time.Duration
		MaxAttempts    int
		ResendCooldown time.Duration
	}
	Sms struct {
		Provider   string
		ApiURL     string
		AccessKey  string
		TemplateID int
		Timeout    time.Duration
		MaxRetries int
	}
	Verification struct {
		PhoneReverifyGrace time.Duration
		ApprovalValidity   time.Duration
	}
	Seed struct {
		AdminEmail    string
		AdminPassword string
	}
}
