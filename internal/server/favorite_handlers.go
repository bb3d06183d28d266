package server

import (
	"github.com/gofiber/fiber/v2"
)

// ListFavorites handles GET /favorites
// @Summary List favorite outfits
// @Description Outfits the current user has favorited, oldest favorite first
// @Tags favorites
// @Produce json
// @Success 200 {array} models.Outfit
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /favorites/ [get]
func (s *Server) ListFavorites(c *fiber.Ctx) error {
	outfits, err := s.favoriteService.List(c.UserContext(), currentUser(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(outfits)
}

// AddFavorite handles POST /favorites/:outfitId
// @Summary Add an outfit to favorites
// @Tags favorites
// @Produce json
// @Param outfitId path int true "Outfit ID"
// @Success 200 {object} object{detail=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /favorites/{outfitId} [post]
func (s *Server) AddFavorite(c *fiber.Ctx) error {
	outfitID, err := s.parseID(c, "outfitId")
	if err != nil {
		return nil
	}

	if err := s.favoriteService.Add(c.UserContext(), currentUser(c), outfitID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"detail": "Added to favorites"})
}

// RemoveFavorite handles DELETE /favorites/:outfitId
// @Summary Remove an outfit from favorites
// @Tags favorites
// @Produce json
// @Param outfitId path int true "Outfit ID"
// @Success 200 {object} object{detail=string}
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /favorites/{outfitId} [delete]
func (s *Server) RemoveFavorite(c *fiber.Ctx) error {
	outfitID, err := s.parseID(c, "outfitId")
	if err != nil {
		return nil
	}

	if err := s.favoriteService.Remove(c.UserContext(), currentUser(c), outfitID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"detail": "Removed from favorites"})
}
