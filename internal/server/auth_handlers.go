package server

import (
	"outfitted/internal/models"
	"outfitted/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Register handles POST /users/register
// @Summary User registration
// @Description Register a new, non-admin user account
// @Tags users
// @Accept json
// @Produce json
// @Param request body object{username=string,email=string,password=string} true "Registration request"
// @Success 200 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Router /users/register [post]
func (s *Server) Register(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.authService.Register(c.UserContext(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// Login handles POST /users/login
// @Summary User login
// @Description Exchange form-encoded credentials for a bearer token
// @Tags users
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Username"
// @Param password formData string true "Password"
// @Success 200 {object} object{access_token=string,token_type=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /users/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	username := c.FormValue("username")
	password := c.FormValue("password")
	if username == "" || password == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Username and password are required"))
	}

	token, err := s.authService.Login(c.UserContext(), username, password)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"access_token": token,
		"token_type":   "bearer",
	})
}

// Logout handles POST /users/logout
// @Summary Revoke the current token
// @Tags users
// @Produce json
// @Success 200 {object} object{detail=string}
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	token, _ := c.Locals("token").(string)
	if err := s.authService.Logout(c.UserContext(), token); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"detail": "Logged out"})
}

// GetMe handles GET /users/me
// @Summary Current user profile
// @Description Returns the authenticated user with their favorite outfits
// @Tags users
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/me [get]
func (s *Server) GetMe(c *fiber.Ctx) error {
	profile, err := s.favoriteService.Profile(c.UserContext(), currentUser(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(profile)
}
