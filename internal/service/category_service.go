package service

import (
	"context"
	"strings"

	"outfitted/internal/models"
	"outfitted/internal/observability"
	"outfitted/internal/repository"
	"outfitted/internal/validation"
)

type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *CategoryService) Get(ctx context.Context, id uint) (*models.Category, error) {
	return s.categoryRepo.GetByID(ctx, id)
}

func (s *CategoryService) Create(ctx context.Context, actor *models.User, name string) (*models.Category, error) {
	if err := RequireAdmin(actor, "create categories"); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if err := validation.ValidateCategoryName(name); err != nil {
		return nil, models.NewFieldValidationError("name", err.Error())
	}

	category := &models.Category{Name: name}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	observability.CatalogMutations.WithLabelValues("category", "create").Inc()
	return category, nil
}

// Rename changes a category's name. Renaming to the current name is a no-op success.
func (s *CategoryService) Rename(ctx context.Context, actor *models.User, id uint, name string) (*models.Category, error) {
	if err := RequireAdmin(actor, "update categories"); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if err := validation.ValidateCategoryName(name); err != nil {
		return nil, models.NewFieldValidationError("name", err.Error())
	}

	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category.Name == name {
		return category, nil
	}

	category.Name = name
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	observability.CatalogMutations.WithLabelValues("category", "update").Inc()
	return category, nil
}

// Delete removes a category that no outfit references.
func (s *CategoryService) Delete(ctx context.Context, actor *models.User, id uint) error {
	if err := RequireAdmin(actor, "delete categories"); err != nil {
		return err
	}

	if _, err := s.categoryRepo.GetByID(ctx, id); err != nil {
		return err
	}
	count, err := s.categoryRepo.CountOutfits(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return models.NewConflictError(repository.MsgCategoryHasOutfit)
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}
	observability.CatalogMutations.WithLabelValues("category", "delete").Inc()
	return nil
}
