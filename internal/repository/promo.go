package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/promoplay/tictactoe-backend/internal/apperror"
	"github.com/promoplay/tictactoe-backend/internal/entity"
)

// ErrCodeTaken signals that another generator claimed the same code first;
// the caller retries with a fresh one.
var ErrCodeTaken = errors.New("promo code already exists")

const (
	promoIDCounterKey  = "promo:next-id"
	promoCodeKeyPrefix = "promo:code:"
	promoGameKeyPrefix = "promo:game:"
	promoUsedKeyPrefix = "promo:used:"
)

type PromoCodeRepository interface {
	Create(ctx context.Context, promo *entity.PromoCode) error
	Update(ctx context.Context, promo *entity.PromoCode) error
	GetByCode(ctx context.Context, code string) (*entity.PromoCode, error)
	GetByGameID(ctx context.Context, gameID int64) (*entity.PromoCode, error)
	ClaimRedemption(ctx context.Context, code string, at time.Time) (bool, error)
}

type dbPromo struct {
	client *redis.Client
}

func NewPromoCodeRepository(client *redis.Client) PromoCodeRepository {
	return &dbPromo{
		client: client,
	}
}

// Create claims the code key with SETNX, which is what makes code
// uniqueness hold across concurrent generators: the existence check and
// the insert are one atomic operation.
func (that *dbPromo) Create(ctx context.Context, promo *entity.PromoCode) error {
	id, err := that.client.Incr(ctx, promoIDCounterKey).Result()
	if err != nil {
		return fmt.Errorf("failed to allocate promo id: %w", err)
	}

	promo.ID = id

	promoJSON, err := json.Marshal(promo)
	if err != nil {
		return fmt.Errorf("could not marshal promo code: %w", err)
	}

	claimed, err := that.client.SetNX(ctx, promoCodeKeyPrefix+promo.Code, promoJSON, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to set promo code: %w", err)
	}

	if !claimed {
		return fmt.Errorf("%w: %s", ErrCodeTaken, promo.Code)
	}

	gameKey := promoGameKeyPrefix + strconv.FormatInt(promo.GameID, 10)
	if err = that.client.Set(ctx, gameKey, promo.Code, 0).Err(); err != nil {
		return fmt.Errorf("failed to index promo code by game: %w", err)
	}

	return nil
}

func (that *dbPromo) Update(ctx context.Context, promo *entity.PromoCode) error {
	promoJSON, err := json.Marshal(promo)
	if err != nil {
		return fmt.Errorf("could not marshal promo code: %w", err)
	}

	if err = that.client.Set(ctx, promoCodeKeyPrefix+promo.Code, promoJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to update promo code: %w", err)
	}

	return nil
}

func (that *dbPromo) GetByCode(ctx context.Context, code string) (*entity.PromoCode, error) {
	response, err := that.client.Get(ctx, promoCodeKeyPrefix+code).Result()
	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrPromoNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get promo code: %w", err)
	}

	var promo entity.PromoCode
	if err = json.Unmarshal([]byte(response), &promo); err != nil {
		return nil, fmt.Errorf("failed to unmarshal promo code: %w", err)
	}

	// A claimed redemption marker outranks the record: between the claim
	// and the record rewrite the code must already read as used.
	if !promo.Used {
		redeemed, err := that.client.Exists(ctx, promoUsedKeyPrefix+code).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to check redemption marker: %w", err)
		}

		promo.Used = redeemed > 0
	}

	return &promo, nil
}

func (that *dbPromo) GetByGameID(ctx context.Context, gameID int64) (*entity.PromoCode, error) {
	gameKey := promoGameKeyPrefix + strconv.FormatInt(gameID, 10)

	code, err := that.client.Get(ctx, gameKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrPromoNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get promo code by game: %w", err)
	}

	return that.GetByCode(ctx, code)
}

// ClaimRedemption marks the code used with SETNX. Exactly one of any
// number of concurrent redeemers gets true.
func (that *dbPromo) ClaimRedemption(ctx context.Context, code string, at time.Time) (bool, error) {
	claimed, err := that.client.SetNX(ctx, promoUsedKeyPrefix+code, at.UTC().Format(time.RFC3339Nano), 0).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim redemption: %w", err)
	}

	return claimed, nil
}
