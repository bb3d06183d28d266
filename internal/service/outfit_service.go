package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"outfitted/internal/middleware"
	"outfitted/internal/models"
	"outfitted/internal/observability"
	"outfitted/internal/repository"
	"outfitted/internal/validation"
)

// MaxOutfitItems caps the number of item descriptors accepted per outfit.
const MaxOutfitItems = 100

// ImageSink stores uploaded outfit images and hands back their public URL.
type ImageSink interface {
	Save(ctx context.Context, in ImageUpload) (string, error)
	Remove(ctx context.Context, url string) error
}

// OutfitInput is the full description of an outfit for create and replace.
// An Image, when present, takes precedence over ImageURL.
type OutfitInput struct {
	Title       string
	Description *string
	ImageURL    *string
	CategoryID  uint
	Items       []models.ItemInput
	Image       *ImageUpload
}

// OutfitPage is one page of a filtered outfit listing.
type OutfitPage struct {
	Total int64           `json:"total"`
	Items []models.Outfit `json:"items"`
}

type OutfitService struct {
	outfitRepo repository.OutfitRepository
	images     ImageSink
}

func NewOutfitService(outfitRepo repository.OutfitRepository, images ImageSink) *OutfitService {
	return &OutfitService{outfitRepo: outfitRepo, images: images}
}

func (s *OutfitService) Get(ctx context.Context, id uint) (*models.Outfit, error) {
	return s.outfitRepo.GetByID(ctx, id)
}

func (s *OutfitService) List(ctx context.Context, filter repository.OutfitFilter) (*OutfitPage, error) {
	outfits, total, err := s.outfitRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &OutfitPage{Total: total, Items: outfits}, nil
}

func (s *OutfitService) Create(ctx context.Context, actor *models.User, in OutfitInput) (*models.Outfit, error) {
	if err := RequireAdmin(actor, "create outfits"); err != nil {
		return nil, err
	}
	outfit, items, err := s.prepare(ctx, in)
	if err != nil {
		return nil, err
	}

	if err := s.outfitRepo.Create(ctx, outfit, items); err != nil {
		if in.Image != nil {
			s.removeImage(ctx, outfit.ImageURL)
		}
		return nil, err
	}
	observability.CatalogMutations.WithLabelValues("outfit", "create").Inc()
	return outfit, nil
}

// Update replaces every field and the whole item set of an existing outfit.
func (s *OutfitService) Update(ctx context.Context, actor *models.User, id uint, in OutfitInput) (*models.Outfit, error) {
	if err := RequireAdmin(actor, "update outfits"); err != nil {
		return nil, err
	}
	outfit, items, err := s.prepare(ctx, in)
	if err != nil {
		return nil, err
	}
	outfit.ID = id

	previous, err := s.outfitRepo.Replace(ctx, outfit, items)
	if err != nil {
		if in.Image != nil {
			s.removeImage(ctx, outfit.ImageURL)
		}
		return nil, err
	}
	if previous != nil && (outfit.ImageURL == nil || *outfit.ImageURL != *previous) {
		s.removeImage(ctx, previous)
	}
	observability.CatalogMutations.WithLabelValues("outfit", "update").Inc()
	return outfit, nil
}

func (s *OutfitService) Delete(ctx context.Context, actor *models.User, id uint) error {
	if err := RequireAdmin(actor, "delete outfits"); err != nil {
		return err
	}

	imageURL, err := s.outfitRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.removeImage(ctx, imageURL)
	observability.CatalogMutations.WithLabelValues("outfit", "delete").Inc()
	return nil
}

// prepare validates and normalizes input, storing the uploaded image if any.
func (s *OutfitService) prepare(ctx context.Context, in OutfitInput) (*models.Outfit, []models.ItemInput, error) {
	title := strings.TrimSpace(in.Title)
	if err := validation.ValidateOutfitTitle(title); err != nil {
		return nil, nil, models.NewFieldValidationError("title", err.Error())
	}
	if in.CategoryID == 0 {
		return nil, nil, models.NewFieldValidationError("category_id", "category_id is required")
	}
	if len(in.Items) > MaxOutfitItems {
		return nil, nil, models.NewFieldValidationError("items",
			fmt.Sprintf("an outfit can have at most %d items", MaxOutfitItems))
	}

	items := make([]models.ItemInput, 0, len(in.Items))
	for i, item := range in.Items {
		name := strings.TrimSpace(item.Name)
		if err := validation.ValidateItemName(name); err != nil {
			return nil, nil, models.NewFieldValidationError(fmt.Sprintf("items[%d].name", i), err.Error())
		}
		brand, model := optionalString(item.Brand), optionalString(item.Model)
		if brand != nil {
			if err := validation.ValidateItemAttribute("brand", *brand); err != nil {
				return nil, nil, models.NewFieldValidationError(fmt.Sprintf("items[%d].brand", i), err.Error())
			}
		}
		if model != nil {
			if err := validation.ValidateItemAttribute("model", *model); err != nil {
				return nil, nil, models.NewFieldValidationError(fmt.Sprintf("items[%d].model", i), err.Error())
			}
		}
		items = append(items, models.ItemInput{Name: name, Brand: brand, Model: model})
	}

	imageURL := optionalString(in.ImageURL)
	if imageURL != nil {
		if err := validation.ValidateImageURL(*imageURL); err != nil {
			return nil, nil, models.NewFieldValidationError("image_url", err.Error())
		}
	}

	outfit := &models.Outfit{
		Title:       title,
		Description: optionalString(in.Description),
		ImageURL:    imageURL,
		CategoryID:  in.CategoryID,
	}

	if in.Image != nil {
		if s.images == nil {
			return nil, nil, models.NewFieldValidationError("image", "Image uploads are not enabled")
		}
		url, err := s.images.Save(ctx, *in.Image)
		if err != nil {
			return nil, nil, err
		}
		outfit.ImageURL = &url
	}
	return outfit, items, nil
}

func (s *OutfitService) removeImage(ctx context.Context, url *string) {
	if s.images == nil || url == nil {
		return
	}
	if err := s.images.Remove(ctx, *url); err != nil {
		middleware.Logger.WarnContext(ctx, "Outfit image cleanup failed",
			slog.String("url", *url),
			slog.String("error", err.Error()),
		)
	}
}

// optionalString trims v and maps blank values to nil.
func optionalString(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
