package seeder

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cradoe/gopass"
	"github.com/cradoe/sellerverify/internal/models"
	"github.com/cradoe/sellerverify/internal/repository"
	"github.com/cradoe/sellerverify/internal/validator"
)

const defaultTimeout = 5 * time.Second

type AdminAccount struct {
	Email    string
	Password string
}

type Seeder struct {
	Users  repository.UserRepository
	Logger *slog.Logger
}

func New(users repository.UserRepository, logger *slog.Logger) *Seeder {
	return &Seeder{
		Users:  users,
		Logger: logger,
	}
}

// Run creates the first admin account. It is safe to run against a seeded database.
func (seeder *Seeder) Run(ctx context.Context, admin AdminAccount) error {
	return seeder.seedAdmin(ctx, admin)
}

func (seeder *Seeder) seedAdmin(ctx context.Context, admin AdminAccount) error {
	if admin.Email == "" || admin.Password == "" {
		seeder.Logger.Info("admin seed skipped, SEED_ADMIN_EMAIL or SEED_ADMIN_PASSWORD not set")
		return nil
	}

	if !validator.IsEmail(admin.Email) {
		return errors.New("SEED_ADMIN_EMAIL is not a valid email address")
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	hashedPassword, err := gopass.Hash(admin.Password)
	if err != nil {
		return err
	}

	id, err := seeder.Users.Insert(ctx, &models.User{
		FirstName:      "Platform",
		LastName:       "Admin",
		Email:          admin.Email,
		Role:           models.RoleAdmin,
		HashedPassword: hashedPassword,
	})
	if err != nil {
		return err
	}

	seeder.Logger.Info("admin seeded", "user_id", id)
	return nil
}
