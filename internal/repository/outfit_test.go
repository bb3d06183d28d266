package repository

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"outfitted/internal/database"
	"outfitted/internal/models"
	"outfitted/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := database.Open(postgres.New(postgres.Config{
		Conn: db,
	}))
	require.NoError(t, err)

	return gormDB, mock
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestOutfitRepository_CreateRoundTrip(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewOutfitRepository(db)
	ctx := context.Background()
	category := testutil.CreateCategory(t, db, "Streetwear")

	outfit := &models.Outfit{
		Title:       "Look A",
		Description: testutil.Ptr("oversized"),
		CategoryID:  category.ID,
	}
	items := []models.ItemInput{
		{Name: "Jacket", Brand: testutil.Ptr("X")},
		{Name: "Sneakers", Brand: testutil.Ptr("Y"), Model: testutil.Ptr("Low")},
		{Name: "Cap"},
	}
	require.NoError(t, repo.Create(ctx, outfit, items))
	require.NotZero(t, outfit.ID)
	require.Len(t, outfit.Items, 3)
	require.NotNil(t, outfit.Category)
	assert.Equal(t, "Streetwear", outfit.Category.Name)

	got, err := repo.GetByID(ctx, outfit.ID)
	require.NoError(t, err)
	assert.Equal(t, "Look A", got.Title)
	require.Len(t, got.Items, 3)
	assert.Equal(t, "Jacket", got.Items[0].Name)
	assert.Equal(t, "X", *got.Items[0].Brand)
	assert.Nil(t, got.Items[0].Model)
	assert.Equal(t, "Low", *got.Items[1].Model)
	assert.Equal(t, "Cap", got.Items[2].Name)
	assert.Equal(t, category.ID, got.Category.ID)
}

func TestOutfitRepository_CreateWithoutItems(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewOutfitRepository(db)
	category := testutil.CreateCategory(t, db, "Minimal")

	outfit := &models.Outfit{Title: "Bare", CategoryID: category.ID}
	require.NoError(t, repo.Create(context.Background(), outfit, nil))

	got, err := repo.GetByID(context.Background(), outfit.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.Items)
	assert.Empty(t, got.Items)
}

func TestOutfitRepository_CreateMissingCategoryLeavesNothing(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewOutfitRepository(db)

	outfit := &models.Outfit{Title: "Orphan", CategoryID: 42}
	err := repo.Create(context.Background(), outfit, []models.ItemInput{{Name: "Shirt"}})
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
	assert.EqualError(t, err, MsgCategoryNotFound)
	assert.Zero(t, outfit.ID)

	assert.Zero(t, countRows(t, db, &models.Outfit{}))
	assert.Zero(t, countRows(t, db, &models.Item{}))
	assert.Zero(t, countRows(t, db, &models.OutfitItem{}))
}

func TestOutfitRepository_CreateRollsBackOnItemFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewOutfitRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "categories"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "Streetwear"))
	mock.ExpectQuery(`INSERT INTO "outfits"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery(`INSERT INTO "items"`).
		WillReturnError(errors.New("insert items: unexpected EOF"))
	mock.ExpectRollback()

	outfit := &models.Outfit{Title: "Look", CategoryID: 1}
	err := repo.Create(context.Background(), outfit, []models.ItemInput{{Name: "Jacket"}})
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeInternal))
	assert.Zero(t, outfit.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutfitRepository_CreateValueTooLongIsValidation(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewOutfitRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "categories"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "Streetwear"))
	mock.ExpectQuery(`INSERT INTO "outfits"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery(`INSERT INTO "items"`).
		WillReturnError(&pgconn.PgError{Code: "22001", Message: "value too long for type character varying(255)"})
	mock.ExpectRollback()

	outfit := &models.Outfit{Title: "Look", CategoryID: 1}
	err := repo.Create(context.Background(), outfit, []models.ItemInput{{Name: "Jacket"}})
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeValidation))
	assert.Zero(t, outfit.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutfitRepository_StoreUnavailable(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewOutfitRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "outfits"`).
		WillReturnError(&net.OpError{Op: "read", Net: "tcp", Err: errors.New("connection reset by peer")})

	_, _, err := repo.List(context.Background(), OutfitFilter{})
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeStoreUnavailable))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutfitRepository_ReplaceItems(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewOutfitRepository(db)
	ctx := context.Background()
	casual := testutil.CreateCategory(t, db, "Casual")
	formal := testutil.CreateCategory(t, db, "Formal")

	outfit := &models.Outfit{Title: "Before", ImageURL: testutil.Ptr("/static/images/a.png"), CategoryID: casual.ID}
	require.NoError(t, repo.Create(ctx, outfit, []models.ItemInput{{Name: "A"}, {Name: "B"}}))

	replacement := &models.Outfit{ID: outfit.ID, Title: "After", CategoryID: formal.ID}
	previous, err := repo.Replace(ctx, replacement, []models.ItemInput{{Name: "C"}})
	require.NoError(t, err)
	require.NotNil(t, previous)
	assert.Equal(t, "/static/images/a.png", *previous)

	got, err := repo.GetByID(ctx, outfit.ID)
	require.NoError(t, err)
	assert.Equal(t, "After", got.Title)
	assert.Nil(t, got.ImageURL)
	assert.Equal(t, formal.ID, got.CategoryID)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "C", got.Items[0].Name)

	// The A and B rows are reclaimed, not left orphaned.
	assert.Equal(t, int64(1), countRows(t, db, &models.Item{}))
	assert.Equal(t, int64(1), countRows(t, db, &models.OutfitItem{}))
}

func TestOutfitRepository_ReplaceFailures(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewOutfitRepository(db)
	ctx := context.Background()
	category := testutil.CreateCategory(t, db, "Casual")

	outfit := &models.Outfit{Title: "Keep", CategoryID: category.ID}
	require.NoError(t, repo.Create(ctx, outfit, []models.ItemInput{{Name: "A"}}))

	_, err := repo.Replace(ctx, &models.Outfit{ID: 999, Title: "X", CategoryID: category.ID}, nil)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
	assert.EqualError(t, err, MsgOutfitNotFound)

	_, err = repo.Replace(ctx, &models.Outfit{ID: outfit.ID, Title: "X", CategoryID: 999}, []models.ItemInput{{Name: "Z"}})
	assert.True(t, models.IsCode(err, models.CodeNotFound))
	assert.EqualError(t, err, MsgCategoryNotFound)

	got, err := repo.GetByID(ctx, outfit.ID)
	require.NoError(t, err)
	assert.Equal(t, "Keep", got.Title)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "A", got.Items[0].Name)
}

func TestOutfitRepository_Delete(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewOutfitRepository(db)
	favorites := NewFavoriteRepository(db)
	ctx := context.Background()
	category := testutil.CreateCategory(t, db, "Casual")
	user := testutil.CreateUser(t, db, "ann", "secret", false)

	outfit := &models.Outfit{Title: "Gone", ImageURL: testutil.Ptr("/static/images/g.png"), CategoryID: category.ID}
	require.NoError(t, repo.Create(ctx, outfit, []models.ItemInput{{Name: "A"}, {Name: "B"}}))
	require.NoError(t, favorites.Add(ctx, user.ID, outfit.ID))

	imageURL, err := repo.Delete(ctx, outfit.ID)
	require.NoError(t, err)
	require.NotNil(t, imageURL)
	assert.Equal(t, "/static/images/g.png", *imageURL)

	_, err = repo.GetByID(ctx, outfit.ID)
	assert.True(t, models.IsCode(err, models.CodeNotFound))

	exists, err := repo.Exists(ctx, outfit.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	assert.Zero(t, countRows(t, db, &models.Item{}))
	assert.Zero(t, countRows(t, db, &models.OutfitItem{}))
	assert.Zero(t, countRows(t, db, &models.Favorite{}))

	_, err = repo.Delete(ctx, outfit.ID)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestOutfitRepository_ListFilterAndPagination(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewOutfitRepository(db)
	ctx := context.Background()
	casual := testutil.CreateCategory(t, db, "Casual")
	formal := testutil.CreateCategory(t, db, "Formal")

	for i := 0; i < 15; i++ {
		require.NoError(t, repo.Create(ctx, &models.Outfit{Title: fmt.Sprintf("Casual %d", i), CategoryID: casual.ID}, nil))
	}
	for i := 0; i < 4; i++ {
		require.NoError(t, repo.Create(ctx, &models.Outfit{Title: fmt.Sprintf("Formal %d", i), CategoryID: formal.ID}, nil))
	}

	tests := []struct {
		name      string
		filter    OutfitFilter
		wantLen   int
		wantTotal int64
		firstName string
	}{
		{name: "first page", filter: OutfitFilter{CategoryID: &casual.ID, Limit: 12}, wantLen: 12, wantTotal: 15, firstName: "Casual 0"},
		{name: "second page", filter: OutfitFilter{CategoryID: &casual.ID, Limit: 12, Offset: 12}, wantLen: 3, wantTotal: 15, firstName: "Casual 12"},
		{name: "other category", filter: OutfitFilter{CategoryID: &formal.ID, Limit: 12}, wantLen: 4, wantTotal: 4, firstName: "Formal 0"},
		{name: "no filter default limit", filter: OutfitFilter{}, wantLen: 12, wantTotal: 19, firstName: "Casual 0"},
		{name: "limit clamped", filter: OutfitFilter{Limit: 1000}, wantLen: 19, wantTotal: 19, firstName: "Casual 0"},
		{name: "past the end", filter: OutfitFilter{Offset: 50}, wantLen: 0, wantTotal: 19},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outfits, total, err := repo.List(ctx, tt.filter)
			require.NoError(t, err)
			assert.Len(t, outfits, tt.wantLen)
			assert.Equal(t, tt.wantTotal, total)
			if tt.firstName != "" {
				assert.Equal(t, tt.firstName, outfits[0].Title)
				assert.NotNil(t, outfits[0].Category)
				assert.NotNil(t, outfits[0].Items)
			}
		})
	}
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultListLimit, clampLimit(0))
	assert.Equal(t, 1, clampLimit(-3))
	assert.Equal(t, 1, clampLimit(1))
	assert.Equal(t, MaxListLimit, clampLimit(101))
}
