package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"outfitted/internal/middleware"
	"outfitted/internal/models"
	"outfitted/internal/repository"

	"gorm.io/gorm"
)

// Result counts what an Apply call created.
type Result struct {
	Categories int
	Outfits    int
	Items      int
}

// Seeder writes catalogs through the repositories.
type Seeder struct {
	db         *gorm.DB
	categories repository.CategoryRepository
	outfits    repository.OutfitRepository
}

// NewSeeder creates a Seeder bound to db.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{
		db:         db,
		categories: repository.NewCategoryRepository(db),
		outfits:    repository.NewOutfitRepository(db),
	}
}

// Apply creates the catalog's categories and outfits. Existing categories are
// reused by name and an outfit whose title already exists in its category is
// skipped, so applying the same catalog twice is a no-op.
func (s *Seeder) Apply(ctx context.Context, catalog *Catalog) (Result, error) {
	var res Result
	if err := catalog.Validate(); err != nil {
		return res, err
	}

	for _, spec := range catalog.Categories {
		category, created, err := s.ensureCategory(ctx, strings.TrimSpace(spec.Name))
		if err != nil {
			return res, fmt.Errorf("category %q: %w", spec.Name, err)
		}
		if created {
			res.Categories++
		}

		for _, outfitSpec := range spec.Outfits {
			exists, err := s.outfitExists(ctx, category.ID, outfitSpec.Title)
			if err != nil {
				return res, err
			}
			if exists {
				continue
			}

			outfit := &models.Outfit{
				Title:       strings.TrimSpace(outfitSpec.Title),
				Description: optional(outfitSpec.Description),
				ImageURL:    optional(outfitSpec.ImageURL),
				CategoryID:  category.ID,
			}
			items := make([]models.ItemInput, 0, len(outfitSpec.Items))
			for _, item := range outfitSpec.Items {
				items = append(items, models.ItemInput{
					Name:  strings.TrimSpace(item.Name),
					Brand: optional(item.Brand),
					Model: optional(item.Model),
				})
			}
			if err := s.outfits.Create(ctx, outfit, items); err != nil {
				return res, fmt.Errorf("outfit %q: %w", outfitSpec.Title, err)
			}
			res.Outfits++
			res.Items += len(items)
		}
	}

	middleware.Logger.Info("Catalog seeded",
		slog.Int("categories", res.Categories),
		slog.Int("outfits", res.Outfits),
		slog.Int("items", res.Items),
	)
	return res, nil
}

// Clear removes all catalog data and favorites. Users are kept.
func (s *Seeder) Clear(ctx context.Context) error {
	tables := []string{"favorites", "outfit_items", "outfits", "items", "categories"}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range tables {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		middleware.Logger.Info("Catalog cleared")
		return nil
	})
}

func (s *Seeder) ensureCategory(ctx context.Context, name string) (*models.Category, bool, error) {
	category, err := s.categories.GetByName(ctx, name)
	if err == nil {
		return category, false, nil
	}
	if !models.IsCode(err, models.CodeNotFound) {
		return nil, false, err
	}

	category = &models.Category{Name: name}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, false, err
	}
	return category, true, nil
}

func (s *Seeder) outfitExists(ctx context.Context, categoryID uint, title string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Outfit{}).
		Where("category_id = ? AND title = ?", categoryID, strings.TrimSpace(title)).
		Count(&count).Error
	return count > 0, err
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
