package service

import (
	"context"
	"errors"
	"testing"

	"outfitted/internal/models"
	"outfitted/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userRepoStub struct {
	getByIDFn               func(context.Context, uint) (*models.User, error)
	getByUsernameFn         func(context.Context, string) (*models.User, error)
	getByEmailFn            func(context.Context, string) (*models.User, error)
	findByUsernameOrEmailFn func(context.Context, string, string) (*models.User, error)
	createFn                func(context.Context, *models.User) error
	updateFn                func(context.Context, *models.User) error
	listAdminsFn            func(context.Context) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	return s.findByUsernameOrEmailFn(ctx, username, email)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) ListAdmins(ctx context.Context) ([]models.User, error) {
	return s.listAdminsFn(ctx)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:               func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByUsernameFn:         func(context.Context, string) (*models.User, error) { return nil, nil },
		getByEmailFn:            func(context.Context, string) (*models.User, error) { return nil, nil },
		findByUsernameOrEmailFn: func(context.Context, string, string) (*models.User, error) { return nil, nil },
		createFn:                func(context.Context, *models.User) error { return nil },
		updateFn:                func(context.Context, *models.User) error { return nil },
		listAdminsFn:            func(context.Context) ([]models.User, error) { return nil, nil },
	}
}

type categoryRepoStub struct {
	listFn         func(context.Context) ([]models.Category, error)
	getByIDFn      func(context.Context, uint) (*models.Category, error)
	getByNameFn    func(context.Context, string) (*models.Category, error)
	createFn       func(context.Context, *models.Category) error
	updateFn       func(context.Context, *models.Category) error
	deleteFn       func(context.Context, uint) error
	countOutfitsFn func(context.Context, uint) (int64, error)
}

func (s *categoryRepoStub) List(ctx context.Context) ([]models.Category, error) {
	return s.listFn(ctx)
}
func (s *categoryRepoStub) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	return s.getByIDFn(ctx, id)
}
func (s *categoryRepoStub) GetByName(ctx context.Context, name string) (*models.Category, error) {
	return s.getByNameFn(ctx, name)
}
func (s *categoryRepoStub) Create(ctx context.Context, category *models.Category) error {
	return s.createFn(ctx, category)
}
func (s *categoryRepoStub) Update(ctx context.Context, category *models.Category) error {
	return s.updateFn(ctx, category)
}
func (s *categoryRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *categoryRepoStub) CountOutfits(ctx context.Context, id uint) (int64, error) {
	return s.countOutfitsFn(ctx, id)
}

func noopCategoryRepo() *categoryRepoStub {
	return &categoryRepoStub{
		listFn: func(context.Context) ([]models.Category, error) { return []models.Category{}, nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Category, error) {
			return &models.Category{ID: id, Name: "Existing"}, nil
		},
		getByNameFn:    func(context.Context, string) (*models.Category, error) { return nil, nil },
		createFn:       func(context.Context, *models.Category) error { return nil },
		updateFn:       func(context.Context, *models.Category) error { return nil },
		deleteFn:       func(context.Context, uint) error { return nil },
		countOutfitsFn: func(context.Context, uint) (int64, error) { return 0, nil },
	}
}

type outfitRepoStub struct {
	getByIDFn func(context.Context, uint) (*models.Outfit, error)
	listFn    func(context.Context, repository.OutfitFilter) ([]models.Outfit, int64, error)
	existsFn  func(context.Context, uint) (bool, error)
	createFn  func(context.Context, *models.Outfit, []models.ItemInput) error
	replaceFn func(context.Context, *models.Outfit, []models.ItemInput) (*string, error)
	deleteFn  func(context.Context, uint) (*string, error)
}

func (s *outfitRepoStub) GetByID(ctx context.Context, id uint) (*models.Outfit, error) {
	return s.getByIDFn(ctx, id)
}
func (s *outfitRepoStub) List(ctx context.Context, filter repository.OutfitFilter) ([]models.Outfit, int64, error) {
	return s.listFn(ctx, filter)
}
func (s *outfitRepoStub) Exists(ctx context.Context, id uint) (bool, error) {
	return s.existsFn(ctx, id)
}
func (s *outfitRepoStub) Create(ctx context.Context, outfit *models.Outfit, items []models.ItemInput) error {
	return s.createFn(ctx, outfit, items)
}
func (s *outfitRepoStub) Replace(ctx context.Context, outfit *models.Outfit, items []models.ItemInput) (*string, error) {
	return s.replaceFn(ctx, outfit, items)
}
func (s *outfitRepoStub) Delete(ctx context.Context, id uint) (*string, error) {
	return s.deleteFn(ctx, id)
}

func noopOutfitRepo() *outfitRepoStub {
	return &outfitRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.Outfit, error) { return &models.Outfit{ID: id}, nil },
		listFn: func(context.Context, repository.OutfitFilter) ([]models.Outfit, int64, error) {
			return []models.Outfit{}, 0, nil
		},
		existsFn: func(context.Context, uint) (bool, error) { return true, nil },
		createFn: func(_ context.Context, o *models.Outfit, _ []models.ItemInput) error {
			o.ID = 1
			return nil
		},
		replaceFn: func(context.Context, *models.Outfit, []models.ItemInput) (*string, error) { return nil, nil },
		deleteFn:  func(context.Context, uint) (*string, error) { return nil, nil },
	}
}

type favoriteRepoStub struct {
	addFn         func(context.Context, uint, uint) error
	removeFn      func(context.Context, uint, uint) error
	existsFn      func(context.Context, uint, uint) (bool, error)
	listOutfitsFn func(context.Context, uint) ([]models.Outfit, error)
}

func (s *favoriteRepoStub) Add(ctx context.Context, userID, outfitID uint) error {
	return s.addFn(ctx, userID, outfitID)
}
func (s *favoriteRepoStub) Remove(ctx context.Context, userID, outfitID uint) error {
	return s.removeFn(ctx, userID, outfitID)
}
func (s *favoriteRepoStub) Exists(ctx context.Context, userID, outfitID uint) (bool, error) {
	return s.existsFn(ctx, userID, outfitID)
}
func (s *favoriteRepoStub) ListOutfits(ctx context.Context, userID uint) ([]models.Outfit, error) {
	return s.listOutfitsFn(ctx, userID)
}

func noopFavoriteRepo() *favoriteRepoStub {
	return &favoriteRepoStub{
		addFn:         func(context.Context, uint, uint) error { return nil },
		removeFn:      func(context.Context, uint, uint) error { return nil },
		existsFn:      func(context.Context, uint, uint) (bool, error) { return false, nil },
		listOutfitsFn: func(context.Context, uint) ([]models.Outfit, error) { return []models.Outfit{}, nil },
	}
}

// imageSinkStub records saved and removed URLs.
type imageSinkStub struct {
	saveErr error
	saved   []string
	removed []string
}

func (s *imageSinkStub) Save(_ context.Context, in ImageUpload) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	url := "/static/images/" + in.Filename
	s.saved = append(s.saved, url)
	return url, nil
}

func (s *imageSinkStub) Remove(_ context.Context, url string) error {
	s.removed = append(s.removed, url)
	return nil
}

var (
	adminUser   = &models.User{ID: 1, Username: "shelf", IsAdmin: true}
	regularUser = &models.User{ID: 2, Username: "ann"}
)

func strPtr(s string) *string { return &s }

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeValidation)
}
