package repository

import (
	"context"

	"outfitted/internal/database"
	"outfitted/internal/models"

	"gorm.io/gorm"
)

// Category error messages shared with the service layer.
const (
	MsgCategoryNotFound  = "Category not found"
	MsgCategoryExists    = "Category already exists"
	MsgCategoryHasOutfit = "Category has outfits"
)

// CategoryRepository defines persistence operations for categories.
type CategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	GetByName(ctx context.Context, name string) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id uint) error
	CountOutfits(ctx context.Context, id uint) (int64, error)
}

type categoryRepository struct {
	base
}

// NewCategoryRepository returns a new CategoryRepository implementation.
func NewCategoryRepository(db *gorm.DB, opts ...Option) CategoryRepository {
	return &categoryRepository{base: newBase(db, "categories", opts)}
}

func (r *categoryRepository) List(ctx context.Context) ([]models.Category, error) {
	categories := make([]models.Category, 0)
	err := r.run(ctx, "List", func(db *gorm.DB) error {
		return db.Order("id ASC").Find(&categories).Error
	})
	if err != nil {
		return nil, r.translate(err, "")
	}
	return categories, nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	err := r.run(ctx, "GetByID", func(db *gorm.DB) error {
		return db.First(&category, id).Error
	})
	if err != nil {
		return nil, r.translate(err, MsgCategoryNotFound)
	}
	return &category, nil
}

func (r *categoryRepository) GetByName(ctx context.Context, name string) (*models.Category, error) {
	var category models.Category
	err := r.run(ctx, "GetByName", func(db *gorm.DB) error {
		return db.Where("name = ?", name).First(&category).Error
	})
	if err != nil {
		return nil, r.translate(err, MsgCategoryNotFound)
	}
	return &category, nil
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	err := r.run(ctx, "Create", func(db *gorm.DB) error {
		return db.Create(category).Error
	})
	if database.IsUniqueViolation(err) {
		return r.conflict(MsgCategoryExists)
	}
	return r.translate(err, "")
}

// Update renames an existing category.
func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	var affected int64
	err := r.run(ctx, "Update", func(db *gorm.DB) error {
		res := db.Model(&models.Category{}).
			Where("id = ?", category.ID).
			Update("name", category.Name)
		affected = res.RowsAffected
		return res.Error
	})
	if database.IsUniqueViolation(err) {
		return r.conflict(MsgCategoryExists)
	}
	if err != nil {
		return r.translate(err, "")
	}
	if affected == 0 {
		return models.NewNotFoundError(MsgCategoryNotFound)
	}
	return nil
}

// Delete removes a category. Categories still referenced by outfits are
// rejected with a Conflict.
func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	err := r.run(ctx, "Delete", func(db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {
			var count int64
			if err := tx.Model(&models.Outfit{}).Where("category_id = ?", id).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return models.NewConflictError(MsgCategoryHasOutfit)
			}

			res := tx.Delete(&models.Category{}, id)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return models.NewNotFoundError(MsgCategoryNotFound)
			}
			return nil
		})
	})
	if database.IsForeignKeyViolation(err) {
		return r.conflict(MsgCategoryHasOutfit)
	}
	return r.translate(err, "")
}

func (r *categoryRepository) CountOutfits(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := r.run(ctx, "CountOutfits", func(db *gorm.DB) error {
		return db.Model(&models.Outfit{}).Where("category_id = ?", id).Count(&count).Error
	})
	if err != nil {
		return 0, r.translate(err, "")
	}
	return count, nil
}
