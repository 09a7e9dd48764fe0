package service

import (
	"context"
	"testing"

	"shareit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.db, &f.logger)
	ctx := context.Background()

	ann, err := svc.CreateUser(ctx, &models.User{Name: "Ann", Email: "ann@example.com"})
	require.NoError(t, err)
	assert.NotZero(t, ann.ID)
	bob, err := svc.CreateUser(ctx, &models.User{Name: "Bob", Email: "bob@example.com"})
	require.NoError(t, err)

	t.Run("CreateValidation", func(t *testing.T) {
		_, err := svc.CreateUser(ctx, &models.User{Name: "", Email: "x@example.com"})
		isValidation(t, err)
		_, err = svc.CreateUser(ctx, &models.User{Name: "X", Email: "not-an-email"})
		isValidation(t, err)
		_, err = svc.CreateUser(ctx, &models.User{Name: "X", Email: ""})
		isValidation(t, err)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		_, err := svc.CreateUser(ctx, &models.User{Name: "Ann 2", Email: "ann@example.com"})
		var conflict *ConflictError
		assert.ErrorAs(t, err, &conflict)
	})

	t.Run("GetAndList", func(t *testing.T) {
		got, err := svc.GetUser(ctx, ann.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ann", got.Name)

		_, err = svc.GetUser(ctx, 999)
		isNotFound(t, err)

		users, err := svc.ListUsers(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 2)
	})

	t.Run("UpdateUser", func(t *testing.T) {
		got, err := svc.UpdateUser(ctx, ann.ID, models.UserPatch{Name: strPtr("Anna"), Email: strPtr(" ")})
		require.NoError(t, err)
		assert.Equal(t, "Anna", got.Name)
		assert.Equal(t, "ann@example.com", got.Email)

		_, err = svc.UpdateUser(ctx, ann.ID, models.UserPatch{Email: strPtr("bob@example.com")})
		var conflict *ConflictError
		assert.ErrorAs(t, err, &conflict)

		_, err = svc.UpdateUser(ctx, ann.ID, models.UserPatch{Email: strPtr("broken")})
		isValidation(t, err)

		_, err = svc.UpdateUser(ctx, 999, models.UserPatch{Name: strPtr("Ghost")})
		isNotFound(t, err)
	})

	t.Run("DeleteUser", func(t *testing.T) {
		require.NoError(t, svc.DeleteUser(ctx, bob.ID))
		_, err := svc.GetUser(ctx, bob.ID)
		isNotFound(t, err)
		isNotFound(t, svc.DeleteUser(ctx, bob.ID))
	})
}
