package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/promoplay/tictactoe-backend/internal/bot"
	"github.com/promoplay/tictactoe-backend/internal/config"
	"github.com/promoplay/tictactoe-backend/internal/repository"
	"github.com/promoplay/tictactoe-backend/internal/repository/storage"
	"github.com/promoplay/tictactoe-backend/internal/service"
	"github.com/promoplay/tictactoe-backend/transport/rest"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

const housekeepingInterval = 10 * time.Minute

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	gameRepo := repository.NewGameRepository(redisStorage)
	promoRepo := repository.NewPromoCodeRepository(redisStorage)
	linkRepo := repository.NewLinkRepository(redisStorage)

	promoService := service.NewPromoService(logger, promoRepo, conf.Promo)

	notifier, telegramBot, err := buildNotifier(logger, conf, gameRepo, promoRepo, linkRepo)
	if err != nil {
		return fmt.Errorf("could not set up telegram bot: %w", err)
	}

	gamePlayService := service.NewGamePlayService(logger, gameRepo, linkRepo, promoService, notifier)

	if telegramBot != nil {
		go telegramBot.Run(ctx)
	}

	go runHousekeeping(ctx, log, gamePlayService, conf.Session.AbandonAfter)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.Start(ctx, logger, conf.HTTPPort, gamePlayService, promoService); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

func buildNotifier(
	logger *slog.Logger,
	conf *config.Config,
	gameRepo repository.GameRepository,
	promoRepo repository.PromoCodeRepository,
	linkRepo repository.LinkRepository,
) (service.Notifier, *bot.Bot, error) {
	if conf.Telegram.BotToken == "" {
		logger.Warn("telegram bot token is empty, notifications disabled")
		return bot.NewNoop(logger), nil, nil
	}

	telegramBot, err := bot.New(logger, conf.Telegram.BotToken, conf.Telegram.GameURL, gameRepo, promoRepo, linkRepo)
	if err != nil {
		return nil, nil, err
	}

	return telegramBot, telegramBot, nil
}

// runHousekeeping periodically abandons sessions that never reached a
// terminal state. This is the only writer of the abandoned status.
func runHousekeeping(ctx context.Context, log *slog.Logger, gamePlay service.GamePlayService, abandonAfter time.Duration) {
	ticker := time.NewTicker(housekeepingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			abandoned, err := gamePlay.AbandonIdleGames(ctx, abandonAfter)
			if err != nil {
				log.Error("housekeeping pass failed", "error", err)
				continue
			}

			if abandoned > 0 {
				log.Info("abandoned idle games", "count", abandoned)
			}
		}
	}
}
