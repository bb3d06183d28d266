package repository

import (
	"context"
	"errors"

	"outfitted/internal/database"
	"outfitted/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	ListAdmins(ctx context.Context) ([]models.User, error)
}

type userRepository struct {
	base
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB, opts ...Option) UserRepository {
	return &userRepository{base: newBase(db, "users", opts)}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.run(ctx, "GetByID", func(db *gorm.DB) error {
		return db.First(&user, id).Error
	})
	if err != nil {
		return nil, r.translate(err, "User not found")
	}
	return &user, nil
}

// GetByUsername returns nil without error when no user has that name.
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, "GetByUsername", "username = ?", username)
}

// GetByEmail returns nil without error when no user has that email.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "GetByEmail", "email = ?", email)
}

// FindByUsernameOrEmail returns any user holding either identifier, or nil.
func (r *userRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	return r.findOne(ctx, "FindByUsernameOrEmail", "username = ? OR email = ?", username, email)
}

func (r *userRepository) findOne(ctx context.Context, method, query string, args ...interface{}) (*models.User, error) {
	var user models.User
	err := r.run(ctx, method, func(db *gorm.DB) error {
		return db.Where(query, args...).First(&user).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, r.translate(err, "")
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	err := r.run(ctx, "Create", func(db *gorm.DB) error {
		return db.Create(user).Error
	})
	if database.IsUniqueViolation(err) {
		return r.conflict("Username or email already registered")
	}
	return r.translate(err, "")
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	err := r.run(ctx, "Update", func(db *gorm.DB) error {
		return db.Save(user).Error
	})
	if database.IsUniqueViolation(err) {
		return r.conflict("Username or email already registered")
	}
	return r.translate(err, "")
}

func (r *userRepository) ListAdmins(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.run(ctx, "ListAdmins", func(db *gorm.DB) error {
		return db.Where("is_admin = ?", true).Order("id ASC").Find(&users).Error
	})
	if err != nil {
		return nil, r.translate(err, "")
	}
	return users, nil
}
