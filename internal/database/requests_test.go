package database

import (
	"context"
	"testing"

	"shareit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequests(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	ann := createTestUser(t, db, "Ann", "ann@example.com")
	bob := createTestUser(t, db, "Bob", "bob@example.com")

	first := &models.ItemRequest{Description: "Need a drill", RequestorID: ann.ID}
	require.NoError(t, db.CreateRequest(ctx, first))
	second := &models.ItemRequest{Description: "Need a ladder", RequestorID: ann.ID}
	require.NoError(t, db.CreateRequest(ctx, second))
	third := &models.ItemRequest{Description: "Need a tent", RequestorID: bob.ID}
	require.NoError(t, db.CreateRequest(ctx, third))

	t.Run("GetRequestByID", func(t *testing.T) {
		got, err := db.GetRequestByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "Need a drill", got.Description)
		assert.Equal(t, ann.ID, got.RequestorID)

		_, err = db.GetRequestByID(ctx, 999)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("GetRequestsByRequestor", func(t *testing.T) {
		reqs, err := db.GetRequestsByRequestor(ctx, ann.ID)
		require.NoError(t, err)
		require.Len(t, reqs, 2)
		assert.Equal(t, second.ID, reqs[0].ID)
		assert.Equal(t, first.ID, reqs[1].ID)
	})

	t.Run("GetRequestsByOthers", func(t *testing.T) {
		reqs, err := db.GetRequestsByOthers(ctx, bob.ID, models.Page{From: 0, Size: 1})
		require.NoError(t, err)
		require.Len(t, reqs, 1)
		assert.Equal(t, second.ID, reqs[0].ID)

		reqs, err = db.GetRequestsByOthers(ctx, ann.ID, models.Page{Size: 10})
		require.NoError(t, err)
		require.Len(t, reqs, 1)
		assert.Equal(t, third.ID, reqs[0].ID)
	})
}

func TestComments(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "Owner", "owner@example.com")
	author := createTestUser(t, db, "Author", "author@example.com")
	drill := createTestItem(t, db, owner.ID, "Drill", "Cordless drill", true)
	saw := createTestItem(t, db, owner.ID, "Saw", "Hand saw", true)

	c1 := &models.Comment{Text: "Great drill", ItemID: drill.ID, AuthorID: author.ID}
	require.NoError(t, db.CreateComment(ctx, c1))
	c2 := &models.Comment{Text: "Still great", ItemID: drill.ID, AuthorID: author.ID}
	require.NoError(t, db.CreateComment(ctx, c2))

	grouped, err := db.GetCommentsByItemIDs(ctx, []int64{drill.ID, saw.ID})
	require.NoError(t, err)
	require.Len(t, grouped[drill.ID], 2)
	assert.Equal(t, c1.ID, grouped[drill.ID][0].ID)
	assert.Equal(t, "Author", grouped[drill.ID][0].AuthorName)
	assert.Equal(t, c2.ID, grouped[drill.ID][1].ID)
	assert.Empty(t, grouped[saw.ID])
}
