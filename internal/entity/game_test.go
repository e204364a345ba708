package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promoplay/tictactoe-backend/internal/apperror"
)

func TestNewGame(t *testing.T) {
	t.Run("Starts in progress with the player to move on an empty board", func(t *testing.T) {
		// When: creating a game
		game := NewGame("p1", "chat42")

		// Then: the session starts fresh
		assert.Equal(t, "p1", game.PlayerID)
		assert.Equal(t, "chat42", game.TelegramChatID)
		assert.Equal(t, PlayerMark, game.Turn)
		assert.Equal(t, StatusInProgress, game.Status)
		assert.Equal(t, 0, game.Board.OccupiedCount())
		assert.False(t, game.CreatedAt.IsZero())
		assert.Nil(t, game.FinishedAt)
	})
}

func TestGame_StatusMethods(t *testing.T) {
	t.Run("IsInProgress only for the in-progress status", func(t *testing.T) {
		assert.True(t, (&Game{Status: StatusInProgress}).IsInProgress())
		assert.False(t, (&Game{Status: StatusDraw}).IsInProgress())
	})

	t.Run("IsFinished for every terminal status", func(t *testing.T) {
		for _, status := range []string{StatusPlayerWon, StatusComputerWon, StatusDraw, StatusAbandoned} {
			assert.True(t, (&Game{Status: status}).IsFinished(), status)
		}
		assert.False(t, (&Game{Status: StatusInProgress}).IsFinished())
	})
}

func TestGame_Finish(t *testing.T) {
	t.Run("Finishing an in-progress game stamps FinishedAt and freezes the turn", func(t *testing.T) {
		// Given: an in-progress game
		game := NewGame("p1", "")
		finishedAt := game.CreatedAt.Add(time.Minute)

		// When: finishing it as a player win
		err := game.Finish(StatusPlayerWon, finishedAt)

		// Then: the terminal state is recorded
		require.NoError(t, err)
		assert.Equal(t, StatusPlayerWon, game.Status)
		require.NotNil(t, game.FinishedAt)
		assert.Equal(t, EmptyCell, game.Turn)
		assert.Equal(t, time.Minute, game.Duration())
	})

	t.Run("A terminal game cannot finish again", func(t *testing.T) {
		// Given: a finished game
		game := NewGame("p1", "")
		require.NoError(t, game.Finish(StatusDraw, time.Now()))
		firstFinishedAt := *game.FinishedAt

		// When: finishing it a second time
		err := game.Finish(StatusComputerWon, time.Now().Add(time.Hour))

		// Then: the transition is rejected and nothing changed
		require.ErrorIs(t, err, apperror.ErrGameFinished)
		assert.Equal(t, StatusDraw, game.Status)
		assert.Equal(t, firstFinishedAt, *game.FinishedAt)
	})

	t.Run("Finishing into a non-terminal status is rejected", func(t *testing.T) {
		// Given: an in-progress game
		game := NewGame("p1", "")

		// When: trying to finish into in_progress
		err := game.Finish(StatusInProgress, time.Now())

		// Then: the transition is rejected
		require.ErrorIs(t, err, apperror.ErrUnknownStatus)
		assert.Equal(t, StatusInProgress, game.Status)
	})
}

func TestGame_PassTurn(t *testing.T) {
	t.Run("Alternates the turn while in progress", func(t *testing.T) {
		// Given: a fresh game with the player to move
		game := NewGame("p1", "")

		// When: handing the turn over and back
		require.NoError(t, game.PassTurn(ComputerMark))
		assert.Equal(t, ComputerMark, game.Turn)
		require.NoError(t, game.PassTurn(PlayerMark))
		assert.Equal(t, PlayerMark, game.Turn)
	})

	t.Run("A terminal game keeps its turn frozen", func(t *testing.T) {
		// Given: a finished game
		game := NewGame("p1", "")
		require.NoError(t, game.Finish(StatusPlayerWon, time.Now()))

		// When: trying to pass the turn
		err := game.PassTurn(ComputerMark)

		// Then: the transition is rejected
		require.ErrorIs(t, err, apperror.ErrGameFinished)
		assert.Equal(t, EmptyCell, game.Turn)
	})
}

func TestGame_Duration(t *testing.T) {
	t.Run("Zero until the game finishes", func(t *testing.T) {
		game := NewGame("p1", "")
		assert.Equal(t, time.Duration(0), game.Duration())
	})
}
