package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promoplay/tictactoe-backend/testing/suite"
)

func TestLinkRepository_Upsert(t *testing.T) {
	t.Run("Upsert_CreatesLink", func(t *testing.T) {
		ctx, st := suite.New(t)

		linkRepo := NewLinkRepository(st.Storage)

		// When: a link is stored for a new player
		link, err := linkRepo.Upsert(ctx, "player-1", "12345")

		// Then: the link comes back with both timestamps set
		require.NoError(t, err)
		assert.Equal(t, "player-1", link.PlayerID)
		assert.Equal(t, "12345", link.TelegramChatID)
		assert.False(t, link.CreatedAt.IsZero())
		assert.False(t, link.LastUpdated.IsZero())
	})

	t.Run("Upsert_KeepsCreatedAt", func(t *testing.T) {
		ctx, st := suite.New(t)

		linkRepo := NewLinkRepository(st.Storage)

		// Given: an existing link
		original, err := linkRepo.Upsert(ctx, "player-1", "12345")
		require.NoError(t, err)

		// When: the player re-links with a different chat
		updated, err := linkRepo.Upsert(ctx, "player-1", "98765")

		// Then: the chat id changes but CreatedAt survives
		require.NoError(t, err)
		assert.Equal(t, "98765", updated.TelegramChatID)
		assert.Equal(t, original.CreatedAt, updated.CreatedAt)

		retrieved, err := linkRepo.GetByPlayerID(ctx, "player-1")
		require.NoError(t, err)
		assert.Equal(t, "98765", retrieved.TelegramChatID)
		assert.True(t, retrieved.CreatedAt.Equal(original.CreatedAt))
	})
}

func TestLinkRepository_GetByPlayerID(t *testing.T) {
	t.Run("GetByPlayerID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		linkRepo := NewLinkRepository(st.Storage)

		// When: GetByPlayerID is called for an unlinked player
		link, err := linkRepo.GetByPlayerID(ctx, "player-1")

		// Then: an ErrLinkNotFound error should be returned
		require.ErrorIs(t, err, ErrLinkNotFound)
		assert.Nil(t, link)
	})
}
