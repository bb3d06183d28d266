package server

import (
	"strings"

	"outfitted/internal/models"
	"outfitted/internal/repository"
	"outfitted/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListOutfits handles GET /outfits
// @Summary List outfits
// @Description Outfits ordered by id, optionally within one category
// @Tags outfits
// @Produce json
// @Param category_id query int false "Category filter (0 or absent lists all)"
// @Param limit query int false "Page size (default 12, clamped to 1..100)"
// @Param offset query int false "Rows to skip"
// @Success 200 {object} service.OutfitPage
// @Failure 400 {object} models.ErrorResponse
// @Router /outfits/ [get]
func (s *Server) ListOutfits(c *fiber.Ctx) error {
	page, err := parsePagination(c, repository.DefaultListLimit)
	if err != nil {
		return respondServiceError(c, err)
	}
	categoryID, err := parseOptionalID(c, "category_id")
	if err != nil {
		return respondServiceError(c, err)
	}

	result, err := s.outfitService.List(c.UserContext(), repository.OutfitFilter{
		CategoryID: categoryID,
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(result)
}

// GetOutfit handles GET /outfits/:id
// @Summary Get an outfit
// @Tags outfits
// @Produce json
// @Param id path int true "Outfit ID"
// @Success 200 {object} models.Outfit
// @Failure 404 {object} models.ErrorResponse
// @Router /outfits/{id} [get]
func (s *Server) GetOutfit(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	outfit, err := s.outfitService.Get(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(outfit)
}

// CreateOutfit handles POST /outfits
// @Summary Create an outfit
// @Description Accepts JSON or multipart/form-data with items[i][name|brand|model] and an optional image file
// @Tags outfits
// @Accept json,mpfd
// @Produce json
// @Param request body outfitRequest true "Outfit"
// @Success 200 {object} models.Outfit
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /outfits/ [post]
func (s *Server) CreateOutfit(c *fiber.Ctx) error {
	in, err := s.decodeOutfitInput(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	outfit, err := s.outfitService.Create(c.UserContext(), currentUser(c), in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(outfit)
}

// UpdateOutfit handles PUT /outfits/:id
// @Summary Replace an outfit
// @Description Overwrites every field and the whole item set
// @Tags outfits
// @Accept json,mpfd
// @Produce json
// @Param id path int true "Outfit ID"
// @Param request body outfitRequest true "Outfit"
// @Success 200 {object} models.Outfit
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /outfits/{id} [put]
func (s *Server) UpdateOutfit(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	in, err := s.decodeOutfitInput(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	outfit, err := s.outfitService.Update(c.UserContext(), currentUser(c), id, in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(outfit)
}

// DeleteOutfit handles DELETE /outfits/:id
// @Summary Delete an outfit
// @Tags outfits
// @Produce json
// @Param id path int true "Outfit ID"
// @Success 200 {object} object{detail=string}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /outfits/{id} [delete]
func (s *Server) DeleteOutfit(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.outfitService.Delete(c.UserContext(), currentUser(c), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"detail": "Outfit deleted"})
}

// decodeOutfitInput reads an outfit from a JSON or multipart body.
// Authorization is checked by the service, so a non-admin with a malformed
// body still sees the validation error first.
func (s *Server) decodeOutfitInput(c *fiber.Ctx) (service.OutfitInput, error) {
	contentType := strings.ToLower(c.Get(fiber.HeaderContentType))
	if !strings.HasPrefix(contentType, fiber.MIMEMultipartForm) {
		var req outfitRequest
		if err := c.BodyParser(&req); err != nil {
			return service.OutfitInput{}, models.NewValidationError("Invalid request body")
		}
		return req.input(), nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return service.OutfitInput{}, models.NewValidationError("Invalid multipart form")
	}
	in, err := decodeOutfitForm(form.Value)
	if err != nil {
		return service.OutfitInput{}, err
	}
	upload, err := readUpload(form)
	if err != nil {
		return service.OutfitInput{}, err
	}
	in.Image = upload
	return in, nil
}
