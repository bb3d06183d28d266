package repository

import (
	"context"
	"regexp"
	"testing"

	"outfitted/internal/models"
	"outfitted/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	tests := []struct {
		name         string
		userID       uint
		mockBehavior func()
		wantUsername string
		wantCode     string
	}{
		{
			name:   "Success",
			userID: 1,
			mockBehavior: func() {
				rows := sqlmock.NewRows([]string{"id", "username", "email", "is_admin"}).
					AddRow(1, "testuser", "test@example.com", true)
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1 ORDER BY "users"."id" LIMIT $2`)).
					WithArgs(1, 1).
					WillReturnRows(rows)
			},
			wantUsername: "testuser",
		},
		{
			name:   "Not Found",
			userID: 99,
			mockBehavior: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1 ORDER BY "users"."id" LIMIT $2`)).
					WithArgs(99, 1).
					WillReturnRows(sqlmock.NewRows([]string{"id"}))
			},
			wantCode: models.CodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockBehavior()
			user, err := repo.GetByID(ctx, tt.userID)

			if tt.wantCode != "" {
				assert.True(t, models.IsCode(err, tt.wantCode), "got %v", err)
			} else if assert.NotNil(t, user) {
				assert.Equal(t, tt.wantUsername, user.Username)
				assert.True(t, user.IsAdmin)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_CreateAndLookup(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{Username: "ann", Email: "ann@example.com", Password: "hash"}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotZero(t, user.ID)
	assert.False(t, user.IsAdmin)

	byName, err := repo.GetByUsername(ctx, "ann")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, user.ID, byName.ID)

	byEmail, err := repo.GetByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)

	missing, err := repo.GetByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)

	either, err := repo.FindByUsernameOrEmail(ctx, "someone-else", "ann@example.com")
	require.NoError(t, err)
	require.NotNil(t, either)
	assert.Equal(t, "ann", either.Username)

	neither, err := repo.FindByUsernameOrEmail(ctx, "x", "x@example.com")
	require.NoError(t, err)
	assert.Nil(t, neither)
}

func TestUserRepository_DuplicateIsConflict(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{Username: "ann", Email: "ann@example.com", Password: "hash"}))

	err := repo.Create(ctx, &models.User{Username: "other", Email: "ann@example.com", Password: "hash"})
	assert.True(t, models.IsCode(err, models.CodeConflict))

	err = repo.Create(ctx, &models.User{Username: "ann", Email: "other@example.com", Password: "hash"})
	assert.True(t, models.IsCode(err, models.CodeConflict))
}

func TestUserRepository_UpdateAndListAdmins(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	ann := testutil.CreateUser(t, db, "ann", "secret", false)
	testutil.CreateUser(t, db, "root", "secret", true)

	admins, err := repo.ListAdmins(ctx)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "root", admins[0].Username)

	ann.IsAdmin = true
	require.NoError(t, repo.Update(ctx, ann))

	admins, err = repo.ListAdmins(ctx)
	require.NoError(t, err)
	assert.Len(t, admins, 2)
}
