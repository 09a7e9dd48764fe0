package database

import (
	"context"
	"testing"
	"time"

	"shareit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsers(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	ann := createTestUser(t, db, "Ann", "ann@example.com")
	bob := createTestUser(t, db, "Bob", "bob@example.com")
	assert.NotZero(t, ann.ID)
	assert.False(t, ann.CreatedAt.IsZero())

	t.Run("GetUserByID", func(t *testing.T) {
		got, err := db.GetUserByID(ctx, ann.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ann", got.Name)
		assert.Equal(t, "ann@example.com", got.Email)

		_, err = db.GetUserByID(ctx, 999)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		err := db.CreateUser(ctx, &models.User{Name: "Other", Email: "ann@example.com"})
		assert.ErrorIs(t, err, ErrDuplicateEmail)

		bob.Email = "ann@example.com"
		assert.ErrorIs(t, db.UpdateUser(ctx, bob), ErrDuplicateEmail)
		bob.Email = "bob@example.com"
	})

	t.Run("UpdateUser", func(t *testing.T) {
		bob.Name = "Robert"
		require.NoError(t, db.UpdateUser(ctx, bob))

		got, err := db.GetUserByID(ctx, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, "Robert", got.Name)

		assert.ErrorIs(t, db.UpdateUser(ctx, &models.User{ID: 999, Name: "x", Email: "x@example.com"}), ErrNotFound)
	})

	t.Run("GetAllUsers", func(t *testing.T) {
		users, err := db.GetAllUsers(ctx)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, ann.ID, users[0].ID)
		assert.Equal(t, bob.ID, users[1].ID)
	})
}

func TestDeleteUserCascades(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	booker := createTestUser(t, db, "Booker", "booker@example.com")
	item := createTestItem(t, db, owner.ID, "Drill", "Cordless drill", true)
	now := testNow()
	booking := createTestBooking(t, db, item.ID, booker.ID, now.Add(time.Hour), now.Add(2*time.Hour))

	require.NoError(t, db.DeleteUser(ctx, owner.ID))

	_, err := db.GetItemByID(ctx, item.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = db.GetBooking(ctx, booking.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = db.GetUserByID(ctx, booker.ID)
	assert.NoError(t, err)

	assert.ErrorIs(t, db.DeleteUser(ctx, owner.ID), ErrNotFound)
}
