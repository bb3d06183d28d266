// Package bootstrap wires the store, cache and startup provisioning shared by
// the server and the command line tools.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"outfitted/internal/cache"
	"outfitted/internal/config"
	"outfitted/internal/database"
	"outfitted/internal/middleware"
	"outfitted/internal/models"
	"outfitted/internal/repository"
	"outfitted/internal/service"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// InitRuntime connects to the database and Redis and provisions the bootstrap
// admin when enabled. The Redis client is nil when Redis is unreachable.
func InitRuntime(ctx context.Context, cfg *config.Config) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	rdb := cache.NewRedisClient(cfg.RedisURL)

	if cfg.AdminBootstrap {
		if _, err := EnsureAdmin(ctx, db, AdminAccount{
			Username: cfg.AdminUsername,
			Email:    cfg.AdminEmail,
			Password: cfg.AdminPassword,
		}); err != nil {
			if rdb != nil {
				_ = rdb.Close()
			}
			_ = database.Close(db)
			return nil, nil, fmt.Errorf("failed to bootstrap admin: %w", err)
		}
	}

	return db, rdb, nil
}

// AdminAccount describes the account EnsureAdmin provisions.
type AdminAccount struct {
	Username string
	Email    string
	Password string
}

// EnsureAdmin makes sure an admin with the account's username exists.
// A missing account is created with the given password. An existing account
// is promoted, keeping its password, only when both its username and email
// match the configured ones. Holding just the email is never enough.
func EnsureAdmin(ctx context.Context, db *gorm.DB, account AdminAccount) (*models.User, error) {
	username := strings.TrimSpace(account.Username)
	email := strings.ToLower(strings.TrimSpace(account.Email))
	if username == "" || email == "" || account.Password == "" {
		return nil, errors.New("admin username, email and password are required")
	}

	users := repository.NewUserRepository(db)

	existing, err := users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		if !strings.EqualFold(existing.Email, email) {
			return nil, fmt.Errorf("username %q is registered with a different email", username)
		}
		if existing.IsAdmin {
			return existing, nil
		}
		existing.IsAdmin = true
		if err := users.Update(ctx, existing); err != nil {
			return nil, err
		}
		middleware.Logger.Info("Promoted existing user to admin",
			slog.Uint64("user_id", uint64(existing.ID)),
			slog.String("username", existing.Username),
		)
		return existing, nil
	}

	// Create fails with a conflict when another account already holds the email.
	hash, err := service.HashPassword(account.Password)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	admin := &models.User{
		Username: username,
		Email:    email,
		Password: hash,
		IsAdmin:  true,
	}
	if err := users.Create(ctx, admin); err != nil {
		return nil, err
	}

	middleware.Logger.Info("Bootstrap admin created",
		slog.Uint64("user_id", uint64(admin.ID)),
		slog.String("username", admin.Username),
	)
	return admin, nil
}
