package repository

import (
	"context"
	"errors"

	"outfitted/internal/database"
	"outfitted/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Pagination bounds for outfit listings.
const (
	DefaultListLimit = 12
	MaxListLimit     = 100
)

// MsgOutfitNotFound is returned for reads and writes of a missing outfit.
const MsgOutfitNotFound = "Outfit not found"

// OutfitFilter selects a page of outfits, optionally within one category.
type OutfitFilter struct {
	CategoryID *uint
	Limit      int
	Offset     int
}

// OutfitRepository defines persistence operations for outfits and their items.
type OutfitRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Outfit, error)
	List(ctx context.Context, filter OutfitFilter) ([]models.Outfit, int64, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Create(ctx context.Context, outfit *models.Outfit, items []models.ItemInput) error
	// Replace overwrites an outfit and its item set, returning the image URL it
	// held before the write.
	Replace(ctx context.Context, outfit *models.Outfit, items []models.ItemInput) (*string, error)
	// Delete removes an outfit with its items and favorites, returning the image
	// URL it held.
	Delete(ctx context.Context, id uint) (*string, error)
}

type outfitRepository struct {
	base
}

// NewOutfitRepository returns a new OutfitRepository implementation.
func NewOutfitRepository(db *gorm.DB, opts ...Option) OutfitRepository {
	return &outfitRepository{base: newBase(db, "outfits", opts)}
}

// preloadOutfit expands the category and the items, items in insertion order.
func preloadOutfit(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Category").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("items.id ASC")
		})
}

func normalizeOutfits(outfits []models.Outfit) {
	for i := range outfits {
		if outfits[i].Items == nil {
			outfits[i].Items = []models.Item{}
		}
	}
}

func (r *outfitRepository) GetByID(ctx context.Context, id uint) (*models.Outfit, error) {
	var outfit models.Outfit
	err := r.run(ctx, "GetByID", func(db *gorm.DB) error {
		return db.Scopes(preloadOutfit).First(&outfit, id).Error
	})
	if err != nil {
		return nil, r.translate(err, MsgOutfitNotFound)
	}
	if outfit.Items == nil {
		outfit.Items = []models.Item{}
	}
	return &outfit, nil
}

func (r *outfitRepository) List(ctx context.Context, filter OutfitFilter) ([]models.Outfit, int64, error) {
	limit := clampLimit(filter.Limit)
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	byCategory := func(db *gorm.DB) *gorm.DB {
		if filter.CategoryID != nil {
			return db.Where("category_id = ?", *filter.CategoryID)
		}
		return db
	}

	var total int64
	outfits := make([]models.Outfit, 0)
	err := r.run(ctx, "List", func(db *gorm.DB) error {
		if err := db.Model(&models.Outfit{}).Scopes(byCategory).Count(&total).Error; err != nil {
			return err
		}
		return db.Scopes(byCategory, preloadOutfit).
			Order("id ASC").
			Limit(limit).
			Offset(offset).
			Find(&outfits).Error
	})
	if err != nil {
		return nil, 0, r.translate(err, "")
	}
	normalizeOutfits(outfits)
	return outfits, total, nil
}

func (r *outfitRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.run(ctx, "Exists", func(db *gorm.DB) error {
		return db.Model(&models.Outfit{}).Where("id = ?", id).Count(&count).Error
	})
	if err != nil {
		return false, r.translate(err, "")
	}
	return count > 0, nil
}

// Create inserts the outfit, one fresh item per descriptor and the join rows
// in a single transaction. On success outfit carries its id, category and items.
func (r *outfitRepository) Create(ctx context.Context, outfit *models.Outfit, items []models.ItemInput) error {
	err := r.run(ctx, "Create", func(db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {
			category, err := loadCategory(tx, outfit.CategoryID)
			if err != nil {
				return err
			}

			outfit.ID = 0
			if err := tx.Omit(clause.Associations).Create(outfit).Error; err != nil {
				return err
			}

			created, err := attachItems(tx, outfit.ID, items)
			if err != nil {
				return err
			}
			outfit.Category = category
			outfit.Items = created
			return nil
		})
	})
	if err != nil {
		outfit.ID = 0
	}
	if database.IsForeignKeyViolation(err) {
		return models.NewNotFoundError(MsgCategoryNotFound)
	}
	return r.translate(err, "")
}

func (r *outfitRepository) Replace(ctx context.Context, outfit *models.Outfit, items []models.ItemInput) (*string, error) {
	var previousImage *string
	err := r.run(ctx, "Replace", func(db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {
			var existing models.Outfit
			if err := tx.First(&existing, outfit.ID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return models.NewNotFoundError(MsgOutfitNotFound)
				}
				return err
			}
			previousImage = existing.ImageURL

			category, err := loadCategory(tx, outfit.CategoryID)
			if err != nil {
				return err
			}

			if err := detachItems(tx, outfit.ID); err != nil {
				return err
			}

			if err := tx.Model(&existing).Updates(map[string]interface{}{
				"title":       outfit.Title,
				"description": outfit.Description,
				"image_url":   outfit.ImageURL,
				"category_id": outfit.CategoryID,
			}).Error; err != nil {
				return err
			}

			created, err := attachItems(tx, outfit.ID, items)
			if err != nil {
				return err
			}
			outfit.CreatedAt = existing.CreatedAt
			outfit.UpdatedAt = existing.UpdatedAt
			outfit.Category = category
			outfit.Items = created
			return nil
		})
	})
	if database.IsForeignKeyViolation(err) {
		return nil, models.NewNotFoundError(MsgCategoryNotFound)
	}
	if err != nil {
		return nil, r.translate(err, "")
	}
	return previousImage, nil
}

func (r *outfitRepository) Delete(ctx context.Context, id uint) (*string, error) {
	var imageURL *string
	err := r.run(ctx, "Delete", func(db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {
			var existing models.Outfit
			if err := tx.First(&existing, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return models.NewNotFoundError(MsgOutfitNotFound)
				}
				return err
			}
			imageURL = existing.ImageURL

			if err := tx.Where("outfit_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
				return err
			}
			if err := detachItems(tx, id); err != nil {
				return err
			}
			return tx.Delete(&models.Outfit{}, id).Error
		})
	})
	if err != nil {
		return nil, r.translate(err, "")
	}
	return imageURL, nil
}

// loadCategory loads the category an outfit is about to reference.
func loadCategory(tx *gorm.DB, id uint) (*models.Category, error) {
	var category models.Category
	if err := tx.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError(MsgCategoryNotFound)
		}
		return nil, err
	}
	return &category, nil
}

// attachItems materializes one item row per descriptor and links each to the outfit.
func attachItems(tx *gorm.DB, outfitID uint, inputs []models.ItemInput) ([]models.Item, error) {
	items := make([]models.Item, 0, len(inputs))
	if len(inputs) == 0 {
		return items, nil
	}

	for _, in := range inputs {
		items = append(items, models.Item{Name: in.Name, Brand: in.Brand, Model: in.Model})
	}
	if err := tx.Create(&items).Error; err != nil {
		return nil, err
	}

	links := make([]models.OutfitItem, 0, len(items))
	for _, item := range items {
		links = append(links, models.OutfitItem{OutfitID: outfitID, ItemID: item.ID})
	}
	if err := tx.Create(&links).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// detachItems removes the outfit's join rows and the item rows it owned.
func detachItems(tx *gorm.DB, outfitID uint) error {
	var itemIDs []uint
	if err := tx.Model(&models.OutfitItem{}).Where("outfit_id = ?", outfitID).Pluck("item_id", &itemIDs).Error; err != nil {
		return err
	}
	if err := tx.Where("outfit_id = ?", outfitID).Delete(&models.OutfitItem{}).Error; err != nil {
		return err
	}
	if len(itemIDs) == 0 {
		return nil
	}
	return tx.Where("id IN ?", itemIDs).Delete(&models.Item{}).Error
}
