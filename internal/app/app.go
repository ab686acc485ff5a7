package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cradoe/sellerverify/internal/cache"
	"github.com/cradoe/sellerverify/internal/config"
	"github.com/cradoe/sellerverify/internal/env"
	"github.com/cradoe/sellerverify/internal/errHandler"
	"github.com/cradoe/sellerverify/internal/file"
	"github.com/cradoe/sellerverify/internal/helper"
	"github.com/cradoe/sellerverify/internal/notification"
	"github.com/cradoe/sellerverify/internal/repository"
	"github.com/cradoe/sellerverify/internal/sms"
	"github.com/cradoe/sellerverify/internal/smtp"
	"github.com/cradoe/sellerverify/internal/stream"
	"github.com/cradoe/sellerverify/internal/verification"
	"github.com/joho/godotenv"
)

// Essential services and resources are exposed to the application
// this makes it possible for methods to have access to these items and when they need them
type Application struct {
	Config       config.Config
	DB           repository.Database
	Cache        *cache.Cache
	Logger       *slog.Logger
	Mailer       *smtp.Mailer
	WG           sync.WaitGroup
	Kafka        *stream.KafkaStream
	FileUploader *file.FileUploader
	Helper       *helper.HelperRepository
	Verification *verification.Service

	errorHandler *errHandler.ErrorRepository
}

// LoadConfig reads the environment, after merging in a .env file when there is one
func LoadConfig(logger *slog.Logger) config.Config {
	if err := godotenv.Load(); err != nil {
		logger.Warn("no .env file loaded", "error", err)
	}

	var cfg config.Config

	// config values are loaded from the .env file
	// Default values are provided for these items and these should  strictly be values for development mode only
	// make sure no production-level value is exposed as default value here
	cfg.BaseURL = env.GetString("BASE_URL", "http://localhost:4444")
	cfg.HttpPort = env.GetInt("HTTP_PORT", 4444)

	cfg.Db.Dsn = env.GetString("DB_DSN", "user:pass@localhost:5432/db?sslmode=disable")
	cfg.Db.Automigrate = env.GetBool("DB_AUTOMIGRATE", true)

	cfg.Redis.Addr = env.GetString("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = env.GetString("REDIS_PASSWORD", "")
	cfg.Redis.DB = env.GetInt("REDIS_DB", 0)

	cfg.Jwt.SecretKey = env.GetString("JWT_SECRET_KEY", "ajf5nx3qmp6zquevllxocxqvyz42ypuo")

	// server errors won't be sent via email if the NOTIFICATIONS_EMAIL wasn't set in the .env file
	cfg.Notifications.Email = env.GetString("NOTIFICATIONS_EMAIL", "")

	cfg.Smtp.Host = env.GetString("SMTP_HOST", "example.smtp.host")
	cfg.Smtp.Port = env.GetInt("SMTP_PORT", 25)
	cfg.Smtp.Username = env.GetString("SMTP_USERNAME", "example_username")
	cfg.Smtp.Password = env.GetString("SMTP_PASSWORD", "pa55word")
	cfg.Smtp.From = env.GetString("SMTP_FROM", "Example Name <no_reply@example.org>")

	cfg.KafkaServers = env.GetString("KAFKA_SERVERS", "localhost:9092")

	cfg.FileUploader.ApiKey = env.GetString("CLOUDINARY_API_KEY", "")
	cfg.FileUploader.CloudName = env.GetString("CLOUDINARY_CLOUD_NAME", "")
	cfg.FileUploader.ApiSecret = env.GetString("CLOUDINARY_API_SECRET", "")
	cfg.FileUploader.Folder = env.GetString("CLOUDINARY_FOLDER", "seller-verifications")

	cfg.Otp.TTL = env.GetDuration("OTP_TTL", 60*time.Second)
	cfg.Otp.Retention = env.GetDuration("OTP_RETENTION", 10*time.Minute)
	cfg.Otp.MaxAttempts = env.GetInt("OTP_MAX_ATTEMPTS", 0)
	cfg.Otp.ResendCooldown = env.GetDuration("OTP_RESEND_COOLDOWN", 0)

	// "log" writes codes to the application log, only use it locally
	cfg.Sms.Provider = env.GetString("SMS_PROVIDER", "log")
	cfg.Sms.ApiURL = env.GetString("SMS_API_URL", "")
	cfg.Sms.AccessKey = env.GetString("SMS_ACCESS_KEY", "")
	cfg.Sms.TemplateID = env.GetInt("SMS_TEMPLATE_ID", 0)
	cfg.Sms.Timeout = env.GetDuration("SMS_TIMEOUT", 10*time.Second)
	cfg.Sms.MaxRetries = env.GetInt("SMS_MAX_RETRIES", 3)

	cfg.Verification.PhoneReverifyGrace = env.GetDuration("PHONE_REVERIFY_GRACE", 72*time.Hour)
	cfg.Verification.ApprovalValidity = env.GetDuration("APPROVAL_VALIDITY", 0)

	cfg.Seed.AdminEmail = env.GetString("SEED_ADMIN_EMAIL", "")
	cfg.Seed.AdminPassword = env.GetString("SEED_ADMIN_PASSWORD", "")

	return cfg
}

func NewApplication(logger *slog.Logger) (*Application, error) {
	cfg := LoadConfig(logger)

	db, err := repository.New(cfg.Db.Dsn, cfg.Db.Automigrate)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	redisCache := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err := redisCache.Ping(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	mailer, err := smtp.NewMailer(cfg.Smtp.Host, cfg.Smtp.Port, cfg.Smtp.Username, cfg.Smtp.Password, cfg.Smtp.From)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize mailer: %w", err)
	}

	smsSender, err := sms.New(sms.Config{
		Provider:   cfg.Sms.Provider,
		AccessKey:  cfg.Sms.AccessKey,
		TemplateID: cfg.Sms.TemplateID,
		APIURL:     cfg.Sms.ApiURL,
		Timeout:    cfg.Sms.Timeout,
		MaxRetries: cfg.Sms.MaxRetries,
		RetryDelay: time.Second,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sms sender: %w", err)
	}

	fileUploader, err := file.New(cfg.FileUploader.CloudName, cfg.FileUploader.ApiKey, cfg.FileUploader.ApiSecret, cfg.FileUploader.Folder)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file uploader: %w", err)
	}

	kafkaStream := stream.New(cfg.KafkaServers, logger)

	app := &Application{
		Config:       cfg,
		DB:           db,
		Cache:        redisCache,
		Logger:       logger,
		Mailer:       mailer,
		Kafka:        kafkaStream,
		FileUploader: fileUploader,
	}

	app.errorHandler = errHandler.New(cfg.Notifications.Email, cfg.BaseURL, mailer, logger)
	app.Helper = helper.New(cfg.BaseURL, &app.WG, app.errorHandler)

	app.Verification = verification.NewService(verification.Config{
		OtpTTL:             cfg.Otp.TTL,
		OtpMaxAttempts:     cfg.Otp.MaxAttempts,
		OtpResendCooldown:  cfg.Otp.ResendCooldown,
		PhoneReverifyGrace: cfg.Verification.PhoneReverifyGrace,
		ApprovalValidity:   cfg.Verification.ApprovalValidity,
	}, verification.Dependencies{
		Verifications:      db.Verification(),
		PhoneVerifications: db.PhoneVerification(),
		Challenges:         cache.NewChallengeStore(redisCache, cfg.Otp.Retention),
		Sender:             smsSender,
		Documents:          fileUploader,
		Notifier:           notification.NewKafkaNotifier(kafkaStream),
		Background:         app.Helper,
		Logger:             logger,
	})

	return app, nil
}

// Close releases every connection the application opened
func (app *Application) Close() {
	app.Kafka.Close()

	if err := app.Cache.Close(); err != nil {
		app.Logger.Error("closing redis", "error", err)
	}

	if err := app.DB.Close(); err != nil {
		app.Logger.Error("closing database", "error", err)
	}
}
