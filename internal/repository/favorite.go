package repository

import (
	"context"

	"outfitted/internal/database"
	"outfitted/internal/models"

	"gorm.io/gorm"
)

// Favorite error messages shared with the service layer.
const (
	MsgAlreadyFavorited = "Outfit already in favorites"
	MsgNotFavorited     = "Outfit not in favorites"
)

// FavoriteRepository defines persistence operations for a user's favorites.
type FavoriteRepository interface {
	Add(ctx context.Context, userID, outfitID uint) error
	Remove(ctx context.Context, userID, outfitID uint) error
	Exists(ctx context.Context, userID, outfitID uint) (bool, error)
	ListOutfits(ctx context.Context, userID uint) ([]models.Outfit, error)
}

type favoriteRepository struct {
	base
}

// NewFavoriteRepository returns a new FavoriteRepository implementation.
func NewFavoriteRepository(db *gorm.DB, opts ...Option) FavoriteRepository {
	return &favoriteRepository{base: newBase(db, "favorites", opts)}
}

// Add inserts the pair. The composite primary key rejects duplicates and the
// foreign key rejects outfits removed concurrently.
func (r *favoriteRepository) Add(ctx context.Context, userID, outfitID uint) error {
	err := r.run(ctx, "Add", func(db *gorm.DB) error {
		return db.Create(&models.Favorite{UserID: userID, OutfitID: outfitID}).Error
	})
	switch {
	case database.IsUniqueViolation(err):
		return r.conflict(MsgAlreadyFavorited)
	case database.IsForeignKeyViolation(err):
		return models.NewNotFoundError(MsgOutfitNotFound)
	}
	return r.translate(err, "")
}

func (r *favoriteRepository) Remove(ctx context.Context, userID, outfitID uint) error {
	var affected int64
	err := r.run(ctx, "Remove", func(db *gorm.DB) error {
		res := db.Where("user_id = ? AND outfit_id = ?", userID, outfitID).Delete(&models.Favorite{})
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return r.translate(err, "")
	}
	if affected == 0 {
		return models.NewNotFoundError(MsgNotFavorited)
	}
	return nil
}

func (r *favoriteRepository) Exists(ctx context.Context, userID, outfitID uint) (bool, error) {
	var count int64
	err := r.run(ctx, "Exists", func(db *gorm.DB) error {
		return db.Model(&models.Favorite{}).
			Where("user_id = ? AND outfit_id = ?", userID, outfitID).
			Count(&count).Error
	})
	if err != nil {
		return false, r.translate(err, "")
	}
	return count > 0, nil
}

// ListOutfits returns the user's favorited outfits in the order they were favorited.
func (r *favoriteRepository) ListOutfits(ctx context.Context, userID uint) ([]models.Outfit, error) {
	outfits := make([]models.Outfit, 0)
	err := r.run(ctx, "ListOutfits", func(db *gorm.DB) error {
		return db.Scopes(preloadOutfit).
			Joins("JOIN favorites ON favorites.outfit_id = outfits.id").
			Where("favorites.user_id = ?", userID).
			Order("favorites.created_at ASC").
			Order("outfits.id ASC").
			Find(&outfits).Error
	})
	if err != nil {
		return nil, r.translate(err, "")
	}
	normalizeOutfits(outfits)
	return outfits, nil
}
