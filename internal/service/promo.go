package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/promoplay/tictactoe-backend/internal/apperror"
	"github.com/promoplay/tictactoe-backend/internal/config"
	"github.com/promoplay/tictactoe-backend/internal/entity"
	"github.com/promoplay/tictactoe-backend/internal/repository"
)

type PromoService interface {
	Generate(ctx context.Context, game *entity.Game) (string, error)
	IsValid(ctx context.Context, code string) (bool, error)
	Redeem(ctx context.Context, code string) (bool, error)
	GetByCode(ctx context.Context, code string) (*entity.PromoCode, error)
}

type promoRepo interface {
	Create(ctx context.Context, promo *entity.PromoCode) error
	Update(ctx context.Context, promo *entity.PromoCode) error
	GetByCode(ctx context.Context, code string) (*entity.PromoCode, error)
	ClaimRedemption(ctx context.Context, code string, at time.Time) (bool, error)
}

type promoService struct {
	logger    *slog.Logger
	promoRepo promoRepo
	conf      config.Promo
}

func NewPromoService(logger *slog.Logger, promoRepo promoRepo, conf config.Promo) PromoService {
	return &promoService{
		logger:    logger.With("component", "promo_service"),
		promoRepo: promoRepo,
		conf:      conf,
	}
}

// Generate mints a globally unique code for the winning game. The
// storage layer rejects a code another generator claimed first, so the
// loop just draws again; running out of attempts means the configured
// alphabet/length cannot yield fresh codes anymore.
func (that *promoService) Generate(ctx context.Context, game *entity.Game) (string, error) {
	for attempt := 0; attempt < that.conf.MaxAttempts; attempt++ {
		promo := &entity.PromoCode{
			Code:            that.randomCode(),
			GameID:          game.ID,
			DiscountPercent: that.conf.DiscountPercent,
			CreatedAt:       time.Now().UTC(),
		}

		err := that.promoRepo.Create(ctx, promo)
		if errors.Is(err, repository.ErrCodeTaken) {
			continue
		}

		if err != nil {
			return "", fmt.Errorf("failed to save promo code: %w", err)
		}

		that.logger.Info("promo code generated", "code", promo.Code, "game_id", game.ID)

		return promo.Code, nil
	}

	return "", fmt.Errorf("%w after %d attempts", apperror.ErrCodesExhausted, that.conf.MaxAttempts)
}

// IsValid reports whether the code exists and is still unused.
func (that *promoService) IsValid(ctx context.Context, code string) (bool, error) {
	promo, err := that.promoRepo.GetByCode(ctx, code)
	if errors.Is(err, apperror.ErrPromoNotFound) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("failed to get promo code: %w", err)
	}

	return !promo.Used, nil
}

// Redeem marks the code used. Of any number of concurrent calls for the
// same code exactly one returns true; an absent or already-used code
// returns false without mutation.
func (that *promoService) Redeem(ctx context.Context, code string) (bool, error) {
	promo, err := that.promoRepo.GetByCode(ctx, code)
	if errors.Is(err, apperror.ErrPromoNotFound) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("failed to get promo code: %w", err)
	}

	if promo.Used {
		return false, nil
	}

	now := time.Now().UTC()

	claimed, err := that.promoRepo.ClaimRedemption(ctx, code, now)
	if err != nil {
		return false, fmt.Errorf("failed to claim redemption: %w", err)
	}

	if !claimed {
		return false, nil
	}

	promo.Used = true
	promo.UsedAt = &now

	if err = that.promoRepo.Update(ctx, promo); err != nil {
		return false, fmt.Errorf("failed to update redeemed promo code: %w", err)
	}

	that.logger.Info("promo code redeemed", "code", code)

	return true, nil
}

func (that *promoService) GetByCode(ctx context.Context, code string) (*entity.PromoCode, error) {
	promo, err := that.promoRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get promo code: %w", err)
	}

	return promo, nil
}

func (that *promoService) randomCode() string {
	var builder strings.Builder
	builder.Grow(that.conf.Length)

	alphabetLen := big.NewInt(int64(len(that.conf.Alphabet)))
	for i := 0; i < that.conf.Length; i++ {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			panic("failed to read random source: " + err.Error())
		}

		builder.WriteByte(that.conf.Alphabet[n.Int64()])
	}

	return builder.String()
}
