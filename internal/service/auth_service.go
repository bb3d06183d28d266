// Package service contains the business rules of the catalog, favorites and accounts.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"outfitted/internal/cache"
	"outfitted/internal/middleware"
	"outfitted/internal/models"
	"outfitted/internal/repository"
	"outfitted/internal/validation"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	msgBadCredentials     = "Incorrect username or password"
	msgInvalidToken       = "Could not validate credentials"
	msgRevokedToken       = "Token has been revoked"
	msgAlreadyRegistered  = "Username or email already registered"
	msgMissingCredentials = "Not authenticated"
)

// DefaultTokenTTL is the lifetime of issued tokens when none is configured.
const DefaultTokenTTL = 7 * 24 * time.Hour

// AuthConfig holds token signing parameters.
type AuthConfig struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

// TokenClaims is the verified content of a bearer token.
type TokenClaims struct {
	UserID    uint
	Username  string
	JTI       string
	ExpiresAt time.Time
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// AuthService issues and resolves bearer tokens and manages accounts.
type AuthService struct {
	userRepo  repository.UserRepository
	blacklist *cache.TokenBlacklist
	cfg       AuthConfig
	now       func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, blacklist *cache.TokenBlacklist, cfg AuthConfig) *AuthService {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTokenTTL
	}
	return &AuthService{
		userRepo:  userRepo,
		blacklist: blacklist,
		cfg:       cfg,
		now:       time.Now,
	}
}

// HashPassword returns the bcrypt hash of plaintext.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether plaintext matches hash.
func VerifyPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// RequireAdmin fails with a ForbiddenError unless user holds the admin flag.
// action completes the sentence "Only administrators can ...".
func RequireAdmin(user *models.User, action string) error {
	if user == nil {
		return models.NewUnauthorizedError(msgMissingCredentials)
	}
	if !user.IsAdmin {
		return models.NewForbiddenError("Only administrators can " + action)
	}
	return nil
}

// IssueToken signs an HS256 token for user.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	if s.cfg.Secret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := s.now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(user.ID), 10),
		"username": user.Username,
		"iss":      s.cfg.Issuer,
		"aud":      s.cfg.Audience,
		"exp":      now.Add(s.cfg.TTL).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Secret))
}

// ParseToken verifies signature, lifetime, issuer and audience without
// touching the store.
func (s *AuthService) ParseToken(tokenString string) (*TokenClaims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return nil, models.NewUnauthorizedError(msgMissingCredentials)
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.cfg.Issuer))
	}
	if s.cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(s.cfg.Audience))
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return []byte(s.cfg.Secret), nil
	}, opts...)
	if err != nil || !token.Valid {
		return nil, models.NewUnauthorizedError(msgInvalidToken)
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, models.NewUnauthorizedError(msgInvalidToken)
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || userID == 0 {
		return nil, models.NewUnauthorizedError(msgInvalidToken)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, models.NewUnauthorizedError(msgInvalidToken)
	}

	out := &TokenClaims{
		UserID:    uint(userID),
		ExpiresAt: exp.Time,
	}
	out.Username, _ = claims["username"].(string)
	out.JTI, _ = claims["jti"].(string)
	return out, nil
}

// ResolvePrincipal maps a bearer token to the user it was issued for.
func (s *AuthService) ResolvePrincipal(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := s.ParseToken(tokenString)
	if err != nil {
		return nil, err
	}

	revoked, err := s.blacklist.IsRevoked(ctx, claims.JTI)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "Token revocation check failed",
			slog.String("error", err.Error()),
		)
	}
	if revoked {
		return nil, models.NewUnauthorizedError(msgRevokedToken)
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			return nil, models.NewUnauthorizedError(msgInvalidToken)
		}
		return nil, err
	}
	return user, nil
}

// Register creates a regular account. Either identifier being taken is a Conflict.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewFieldValidationError("username", err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewFieldValidationError("email", err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewFieldValidationError("password", err.Error())
	}

	existing, err := s.userRepo.FindByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError(msgAlreadyRegistered)
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: hash,
	}
	// The unique indexes still reject a concurrent registration of the same names.
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	user.Favorites = []models.Outfit{}
	return user, nil
}

// Login checks credentials and returns a fresh bearer token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return "", err
	}
	if user == nil || !VerifyPassword(password, user.Password) {
		return "", models.NewUnauthorizedError(msgBadCredentials)
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return token, nil
}

// Logout revokes the token until it would have expired. Without Redis nothing
// is recorded and the token stays valid until expiry.
func (s *AuthService) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.ParseToken(tokenString)
	if err != nil {
		return err
	}
	ttl := claims.ExpiresAt.Sub(s.now())
	if err := s.blacklist.Revoke(ctx, claims.JTI, ttl); err != nil {
		return models.NewStoreUnavailableError(err)
	}
	return nil
}

