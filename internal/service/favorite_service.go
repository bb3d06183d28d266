package service

import (
	"context"

	"outfitted/internal/models"
	"outfitted/internal/observability"
	"outfitted/internal/repository"
)

type FavoriteService struct {
	favoriteRepo repository.FavoriteRepository
	outfitRepo   repository.OutfitRepository
}

func NewFavoriteService(favoriteRepo repository.FavoriteRepository, outfitRepo repository.OutfitRepository) *FavoriteService {
	return &FavoriteService{favoriteRepo: favoriteRepo, outfitRepo: outfitRepo}
}

// Add bookmarks an outfit for user.
func (s *FavoriteService) Add(ctx context.Context, user *models.User, outfitID uint) error {
	exists, err := s.outfitRepo.Exists(ctx, outfitID)
	if err != nil {
		return err
	}
	if !exists {
		return models.NewNotFoundError(repository.MsgOutfitNotFound)
	}

	favorited, err := s.favoriteRepo.Exists(ctx, user.ID, outfitID)
	if err != nil {
		return err
	}
	if favorited {
		return models.NewConflictError(repository.MsgAlreadyFavorited)
	}

	// The pair key still rejects a concurrent duplicate insert as a Conflict.
	if err := s.favoriteRepo.Add(ctx, user.ID, outfitID); err != nil {
		return err
	}
	observability.FavoriteToggles.WithLabelValues("add").Inc()
	return nil
}

// Remove drops an outfit from user's favorites. A missing outfit and a
// never-favorited one are reported the same way.
func (s *FavoriteService) Remove(ctx context.Context, user *models.User, outfitID uint) error {
	if err := s.favoriteRepo.Remove(ctx, user.ID, outfitID); err != nil {
		return err
	}
	observability.FavoriteToggles.WithLabelValues("remove").Inc()
	return nil
}

// List returns user's favorite outfits, oldest favorite first.
func (s *FavoriteService) List(ctx context.Context, user *models.User) ([]models.Outfit, error) {
	return s.favoriteRepo.ListOutfits(ctx, user.ID)
}

// Profile returns user with the favorites relation filled in.
func (s *FavoriteService) Profile(ctx context.Context, user *models.User) (*models.User, error) {
	favorites, err := s.List(ctx, user)
	if err != nil {
		return nil, err
	}
	profile := *user
	profile.Favorites = favorites
	return &profile, nil
}
