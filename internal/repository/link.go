package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/promoplay/tictactoe-backend/internal/entity"
)

var ErrLinkNotFound = errors.New("player telegram link not found")

const linkKeyPrefix = "telegram:link:"

type LinkRepository interface {
	Upsert(ctx context.Context, playerID, telegramChatID string) (*entity.PlayerTelegramLink, error)
	GetByPlayerID(ctx context.Context, playerID string) (*entity.PlayerTelegramLink, error)
}

type dbLink struct {
	client *redis.Client
}

func NewLinkRepository(client *redis.Client) LinkRepository {
	return &dbLink{
		client: client,
	}
}

// Upsert overwrites the chat id for the player, keeping the original
// CreatedAt when a link already exists.
func (that *dbLink) Upsert(ctx context.Context, playerID, telegramChatID string) (*entity.PlayerTelegramLink, error) {
	now := time.Now().UTC()

	link := &entity.PlayerTelegramLink{
		PlayerID:       playerID,
		TelegramChatID: telegramChatID,
		CreatedAt:      now,
		LastUpdated:    now,
	}

	existing, err := that.GetByPlayerID(ctx, playerID)
	if err != nil && !errors.Is(err, ErrLinkNotFound) {
		return nil, err
	}

	if existing != nil {
		link.CreatedAt = existing.CreatedAt
	}

	linkJSON, err := json.Marshal(link)
	if err != nil {
		return nil, fmt.Errorf("could not marshal link: %w", err)
	}

	if err = that.client.Set(ctx, linkKeyPrefix+playerID, linkJSON, 0).Err(); err != nil {
		return nil, fmt.Errorf("failed to set link: %w", err)
	}

	return link, nil
}

func (that *dbLink) GetByPlayerID(ctx context.Context, playerID string) (*entity.PlayerTelegramLink, error) {
	response, err := that.client.Get(ctx, linkKeyPrefix+playerID).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrLinkNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get link by player id: %w", err)
	}

	var link entity.PlayerTelegramLink
	if err = json.Unmarshal([]byte(response), &link); err != nil {
		return nil, fmt.Errorf("failed to unmarshal link: %w", err)
	}

	return &link, nil
}
