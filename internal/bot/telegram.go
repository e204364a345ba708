package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/promoplay/tictactoe-backend/internal/apperror"
	"github.com/promoplay/tictactoe-backend/internal/entity"
	"github.com/promoplay/tictactoe-backend/internal/service"
)

const updateTimeoutSeconds = 60

type gameReader interface {
	GetLatestByChatID(ctx context.Context, chatID string) (*entity.Game, error)
}

type promoReader interface {
	GetByGameID(ctx context.Context, gameID int64) (*entity.PromoCode, error)
}

type linkWriter interface {
	Upsert(ctx context.Context, playerID, telegramChatID string) (*entity.PlayerTelegramLink, error)
}

// Bot is the Telegram collaborator: it pushes game-outcome notifications
// and answers player commands over long polling.
type Bot struct {
	api     *tgbotapi.BotAPI
	logger  *slog.Logger
	games   gameReader
	promos  promoReader
	links   linkWriter
	gameURL string
}

func New(logger *slog.Logger, token, gameURL string, games gameReader, promos promoReader, links linkWriter) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	log := logger.With("component", "telegram_bot")
	log.Info("telegram bot authorized", "username", api.Self.UserName)

	return &Bot{
		api:     api,
		logger:  log,
		games:   games,
		promos:  promos,
		links:   links,
		gameURL: gameURL,
	}, nil
}

// Notify implements service.Notifier.
func (that *Bot) Notify(ctx context.Context, chatID string, kind service.NotificationKind, payload string) error {
	var text string

	switch kind {
	case service.NotifyWin:
		text = "You won! Your promo code: " + payload
	case service.NotifyLose:
		text = "The computer won this one. Play again to earn a promo code!"
	case service.NotifyDraw:
		text = "Draw. Play again — the next game decides the winner!"
	case service.NotifyNewCode:
		text = "A new promo code has been issued: " + payload
	default:
		return fmt.Errorf("unknown notification kind: %q", kind)
	}

	return that.send(chatID, text)
}

// Run consumes the update channel until the context is cancelled.
func (that *Bot) Run(ctx context.Context) {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = updateTimeoutSeconds

	updates := that.api.GetUpdatesChan(updateConfig)
	that.logger.Info("telegram bot update loop started")

	for {
		select {
		case <-ctx.Done():
			that.api.StopReceivingUpdates()
			that.logger.Info("telegram bot update loop stopped")

			return
		case update, ok := <-updates:
			if !ok {
				return
			}

			if update.Message == nil || update.Message.Text == "" {
				continue
			}

			that.handleMessage(ctx, update.Message)
		}
	}
}

func (that *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	chatID := strconv.FormatInt(message.Chat.ID, 10)

	var err error

	switch message.Text {
	case "/start":
		err = that.handleStart(ctx, chatID)
	case "/promo":
		err = that.handlePromo(ctx, chatID)
	case "/game":
		err = that.handleGame(ctx, chatID)
	default:
		err = that.send(chatID, "Commands:\n/start - link this chat and get your game link\n/promo - your latest promo code\n/game - your latest game")
	}

	if err != nil {
		that.logger.Error("failed to handle command", "chat_id", chatID, "text", message.Text, "error", err)
	}
}

// handleStart registers a fresh player id for the chat and replies with a
// personalized game link that carries both identifiers.
func (that *Bot) handleStart(ctx context.Context, chatID string) error {
	playerID := "player_" + uuid.NewString()

	if _, err := that.links.Upsert(ctx, playerID, chatID); err != nil {
		return fmt.Errorf("failed to save telegram link: %w", err)
	}

	link := fmt.Sprintf("%s/?playerId=%s&telegramChatId=%s", strings.TrimRight(that.gameURL, "/"), playerID, chatID)

	text := "Welcome to tic-tac-toe!\n\n" +
		"Your player id: " + playerID + "\n\n" +
		"Open the link to play:\n" + link + "\n\n" +
		"Win a game and your promo code arrives in this chat."

	return that.send(chatID, text)
}

func (that *Bot) handlePromo(ctx context.Context, chatID string) error {
	game, err := that.games.GetLatestByChatID(ctx, chatID)
	if errors.Is(err, apperror.ErrGameNotFound) {
		return that.send(chatID, "No promo codes yet. Win a game to earn one!")
	}

	if err != nil {
		return fmt.Errorf("failed to get latest game: %w", err)
	}

	promo, err := that.promos.GetByGameID(ctx, game.ID)
	if errors.Is(err, apperror.ErrPromoNotFound) {
		return that.send(chatID, "No promo codes yet. Win a game to earn one!")
	}

	if err != nil {
		return fmt.Errorf("failed to get promo code: %w", err)
	}

	status := "active"
	if promo.Used {
		status = "used"
	}

	text := fmt.Sprintf("Your latest promo code:\nCode: %s\nDiscount: %d%%\nStatus: %s", promo.Code, promo.DiscountPercent, status)

	return that.send(chatID, text)
}

func (that *Bot) handleGame(ctx context.Context, chatID string) error {
	game, err := that.games.GetLatestByChatID(ctx, chatID)
	if errors.Is(err, apperror.ErrGameNotFound) {
		return that.send(chatID, "No games yet. Open "+that.gameURL+" to start one!")
	}

	if err != nil {
		return fmt.Errorf("failed to get latest game: %w", err)
	}

	text := fmt.Sprintf("Game #%d\nStatus: %s\n\n%s", game.ID, game.Status, renderBoard(game.Board))

	return that.send(chatID, text)
}

func (that *Bot) send(chatID, text string) error {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid chat id %q: %w", chatID, err)
	}

	if _, err = that.api.Send(tgbotapi.NewMessage(id, text)); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}

	return nil
}

func renderBoard(board entity.Board) string {
	var builder strings.Builder

	for row := 0; row < entity.BoardSize; row++ {
		for col := 0; col < entity.BoardSize; col++ {
			switch board.Get(row, col) {
			case entity.PlayerMark:
				builder.WriteString("X")
			case entity.ComputerMark:
				builder.WriteString("O")
			default:
				builder.WriteString(".")
			}

			if col < entity.BoardSize-1 {
				builder.WriteString(" ")
			}
		}

		builder.WriteString("\n")
	}

	return builder.String()
}
