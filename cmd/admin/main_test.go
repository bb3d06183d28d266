package main

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"outfitted/internal/config"
	"outfitted/internal/models"
	"outfitted/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	cfg := &config.Config{AdminUsername: "shelf", AdminEmail: "shelf@outfitted.ru", AdminPassword: "shelf"}
	ann := testutil.CreateUser(t, db, "ann", "pw", false)

	exec := func(args ...string) (string, error) {
		var out bytes.Buffer
		err := run(ctx, db, cfg, args, &out)
		return out.String(), err
	}

	out, err := exec("list-admins")
	require.NoError(t, err)
	assert.Contains(t, out, "No admins found")

	out, err = exec("ensure")
	require.NoError(t, err)
	assert.Contains(t, out, "Admin shelf")

	id := fmt.Sprint(ann.ID)
	out, err = exec("promote", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully promoted to admin: ann")

	out, err = exec("promote", id)
	require.NoError(t, err)
	assert.Contains(t, out, "already an admin")

	out, err = exec("list-admins")
	require.NoError(t, err)
	assert.Contains(t, out, "Username: shelf")
	assert.Contains(t, out, "Username: ann")

	out, err = exec("demote", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully demoted from admin: ann")

	var stored models.User
	require.NoError(t, db.First(&stored, ann.ID).Error)
	assert.False(t, stored.IsAdmin)

	out, err = exec("demote", id)
	require.NoError(t, err)
	assert.Contains(t, out, "is not an admin")
}

func TestRun_Errors(t *testing.T) {
	db := testutil.NewTestDB(t)
	cfg := &config.Config{}

	tests := []struct {
		args []string
		want string
	}{
		{args: []string{"promote"}, want: "usage"},
		{args: []string{"promote", "abc"}, want: "invalid user id"},
		{args: []string{"demote", "999"}, want: "not found"},
		{args: []string{"ensure"}, want: "required"},
		{args: []string{"explode"}, want: "unknown command"},
	}
	for _, tt := range tests {
		t.Run(tt.args[0], func(t *testing.T) {
			err := run(context.Background(), db, cfg, tt.args, &bytes.Buffer{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
