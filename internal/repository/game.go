package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/promoplay/tictactoe-backend/internal/apperror"
	"github.com/promoplay/tictactoe-backend/internal/entity"
)

const (
	gameKeyPrefix        = "game:"
	gameIDCounterKey     = "game:next-id"
	playerGamesKeyPrefix = "player:games:"
	chatGamesKeyPrefix   = "chat:games:"
	activeGamesKey       = "games:active"
)

type GameRepository interface {
	Create(ctx context.Context, game *entity.Game) error
	Update(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id int64) (*entity.Game, error)
	GetByPlayerID(ctx context.Context, playerID string) ([]*entity.Game, error)
	GetLatestByChatID(ctx context.Context, chatID string) (*entity.Game, error)
	GetActiveIDs(ctx context.Context) ([]int64, error)
}

type dbGame struct {
	client *redis.Client
}

func NewGameRepository(client *redis.Client) GameRepository {
	return &dbGame{
		client: client,
	}
}

// Create assigns the next id from a Redis counter, stores the game and
// indexes it under its owner and the active set.
func (that *dbGame) Create(ctx context.Context, game *entity.Game) error {
	id, err := that.client.Incr(ctx, gameIDCounterKey).Result()
	if err != nil {
		return fmt.Errorf("failed to allocate game id: %w", err)
	}

	game.ID = id

	if err = that.write(ctx, game); err != nil {
		return err
	}

	pipe := that.client.TxPipeline()
	pipe.SAdd(ctx, playerGamesKeyPrefix+game.PlayerID, game.ID)
	pipe.SAdd(ctx, activeGamesKey, game.ID)

	if game.TelegramChatID != "" {
		pipe.SAdd(ctx, chatGamesKeyPrefix+game.TelegramChatID, game.ID)
	}

	if _, err = pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to index game: %w", err)
	}

	return nil
}

// Update rewrites the full game record. Terminal games drop out of the
// active index so the housekeeping pass never revisits them.
func (that *dbGame) Update(ctx context.Context, game *entity.Game) error {
	if err := that.write(ctx, game); err != nil {
		return err
	}

	if game.IsFinished() {
		if err := that.client.SRem(ctx, activeGamesKey, game.ID).Err(); err != nil {
			return fmt.Errorf("failed to deindex finished game: %w", err)
		}
	}

	return nil
}

func (that *dbGame) GetByID(ctx context.Context, id int64) (*entity.Game, error) {
	gameKey := gameKeyPrefix + strconv.FormatInt(id, 10)

	response, err := that.client.Get(ctx, gameKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrGameNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	var existingGame entity.Game
	if err = json.Unmarshal([]byte(response), &existingGame); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	return &existingGame, nil
}

func (that *dbGame) GetByPlayerID(ctx context.Context, playerID string) ([]*entity.Game, error) {
	ids, err := that.client.SMembers(ctx, playerGamesKeyPrefix+playerID).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list games for player: %w", err)
	}

	games := make([]*entity.Game, 0, len(ids))
	for _, rawID := range ids {
		id, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt game id %q in player index: %w", rawID, err)
		}

		game, err := that.GetByID(ctx, id)
		if errors.Is(err, apperror.ErrGameNotFound) {
			continue
		}

		if err != nil {
			return nil, err
		}

		games = append(games, game)
	}

	return games, nil
}

// GetLatestByChatID returns the most recently created game linked to the
// chat, ids being monotonic.
func (that *dbGame) GetLatestByChatID(ctx context.Context, chatID string) (*entity.Game, error) {
	rawIDs, err := that.client.SMembers(ctx, chatGamesKeyPrefix+chatID).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list games for chat: %w", err)
	}

	var latest int64
	for _, rawID := range rawIDs {
		id, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt game id %q in chat index: %w", rawID, err)
		}

		if id > latest {
			latest = id
		}
	}

	if latest == 0 {
		return nil, apperror.ErrGameNotFound
	}

	return that.GetByID(ctx, latest)
}

func (that *dbGame) GetActiveIDs(ctx context.Context) ([]int64, error) {
	rawIDs, err := that.client.SMembers(ctx, activeGamesKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list active games: %w", err)
	}

	ids := make([]int64, 0, len(rawIDs))
	for _, rawID := range rawIDs {
		id, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt game id %q in active index: %w", rawID, err)
		}

		ids = append(ids, id)
	}

	return ids, nil
}

func (that *dbGame) write(ctx context.Context, game *entity.Game) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	gameKey := gameKeyPrefix + strconv.FormatInt(game.ID, 10)
	if err = that.client.Set(ctx, gameKey, gameJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set game: %w", err)
	}

	return nil
}
