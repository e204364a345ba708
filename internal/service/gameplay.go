package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/promoplay/tictactoe-backend/internal/apperror"
	"github.com/promoplay/tictactoe-backend/internal/entity"
	"github.com/promoplay/tictactoe-backend/internal/repository"
	"github.com/promoplay/tictactoe-backend/internal/tictactoe"
)

type GamePlayService interface {
	CreateGame(ctx context.Context, playerID, telegramChatID string) (*entity.Game, error)
	MakeMove(ctx context.Context, gameID int64, row, col int) (*MoveOutcome, error)
	GetGame(ctx context.Context, gameID int64) (*entity.Game, error)
	ListGamesByPlayer(ctx context.Context, playerID string) ([]*entity.Game, error)
	AbandonIdleGames(ctx context.Context, maxAge time.Duration) (int, error)
}

type gameRepo interface {
	Create(ctx context.Context, game *entity.Game) error
	Update(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id int64) (*entity.Game, error)
	GetByPlayerID(ctx context.Context, playerID string) ([]*entity.Game, error)
	GetActiveIDs(ctx context.Context) ([]int64, error)
}

type linkRepo interface {
	Upsert(ctx context.Context, playerID, telegramChatID string) (*entity.PlayerTelegramLink, error)
	GetByPlayerID(ctx context.Context, playerID string) (*entity.PlayerTelegramLink, error)
}

type promoGenerator interface {
	Generate(ctx context.Context, game *entity.Game) (string, error)
}

// MoveOutcome is the result of one accepted player move, including the
// computer's reply when the game went on.
type MoveOutcome struct {
	Game         *entity.Game  `json:"game"`
	Message      string        `json:"message"`
	ComputerMove *ComputerMove `json:"computer_move,omitempty"`
	PromoCode    string        `json:"promo_code,omitempty"`
}

type ComputerMove struct {
	Row  int    `json:"row"`
	Col  int    `json:"column"`
	Mark string `json:"mark"`
}

type gamePlayService struct {
	logger *slog.Logger

	gameRepo gameRepo
	linkRepo linkRepo
	promo    promoGenerator
	notifier Notifier

	// one mutex per game id: concurrent moves against the same game
	// serialize, moves against different games never contend.
	locksMu sync.Mutex
	locks   map[int64]*sync.Mutex
}

func NewGamePlayService(logger *slog.Logger, gameRepo gameRepo, linkRepo linkRepo, promo promoGenerator, notifier Notifier) GamePlayService {
	return &gamePlayService{
		logger:   logger.With("component", "gameplay_service"),
		gameRepo: gameRepo,
		linkRepo: linkRepo,
		promo:    promo,
		notifier: notifier,
		locks:    make(map[int64]*sync.Mutex),
	}
}

// CreateGame starts a fresh session. A blank player id gets a generated
// one. The notification chat is resolved in a fixed order: an explicit
// non-blank argument wins and is persisted as the player's link, then a
// previously stored link, then none.
func (that *gamePlayService) CreateGame(ctx context.Context, playerID, telegramChatID string) (*entity.Game, error) {
	if strings.TrimSpace(playerID) == "" {
		playerID = generatePlayerID()
	}

	chatID, err := that.resolveChatID(ctx, playerID, telegramChatID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve telegram chat: %w", err)
	}

	game := entity.NewGame(playerID, chatID)
	if err = that.gameRepo.Create(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.logger.Info("game created", "game_id", game.ID, "player_id", playerID, "has_chat", chatID != "")

	return game, nil
}

// MakeMove runs one full turn: validate, apply the player's mark, check
// the outcome, let the computer reply, check again. The whole sequence
// holds the game's lock, so a second caller observes either the state
// before the move or the fully applied result, never an interleaving.
func (that *gamePlayService) MakeMove(ctx context.Context, gameID int64, row, col int) (*MoveOutcome, error) {
	lock := that.lockFor(gameID)
	lock.Lock()
	defer lock.Unlock()

	game, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	if err = tictactoe.ValidateMove(game, row, col); err != nil {
		return nil, err
	}

	game.Board.Set(row, col, entity.PlayerMark)

	if tictactoe.HasWin(game.Board, entity.PlayerMark) {
		return that.finishPlayerWon(ctx, game)
	}

	if tictactoe.IsDraw(game.Board) {
		return that.finishDraw(ctx, game, nil)
	}

	if err = game.PassTurn(entity.ComputerMark); err != nil {
		return nil, fmt.Errorf("failed to pass turn: %w", err)
	}

	if err = that.gameRepo.Update(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	compRow, compCol := tictactoe.ChooseMove(game.Board)
	game.Board.Set(compRow, compCol, entity.ComputerMark)
	computerMove := &ComputerMove{Row: compRow, Col: compCol, Mark: entity.ComputerMark}

	if tictactoe.HasWin(game.Board, entity.ComputerMark) {
		return that.finishComputerWon(ctx, game, computerMove)
	}

	// the computer's reply can fill the last cell with no winner
	if tictactoe.IsDraw(game.Board) {
		return that.finishDraw(ctx, game, computerMove)
	}

	if err = game.PassTurn(entity.PlayerMark); err != nil {
		return nil, fmt.Errorf("failed to pass turn: %w", err)
	}

	if err = that.gameRepo.Update(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	return &MoveOutcome{
		Game:         game,
		Message:      "Move accepted. The computer has moved.",
		ComputerMove: computerMove,
	}, nil
}

func (that *gamePlayService) GetGame(ctx context.Context, gameID int64) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	return game, nil
}

func (that *gamePlayService) ListGamesByPlayer(ctx context.Context, playerID string) ([]*entity.Game, error) {
	games, err := that.gameRepo.GetByPlayerID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list games by player: %w", err)
	}

	return games, nil
}

// AbandonIdleGames finishes in-progress games older than maxAge. It is
// the housekeeping collaborator: the move path never abandons anything.
func (that *gamePlayService) AbandonIdleGames(ctx context.Context, maxAge time.Duration) (int, error) {
	ids, err := that.gameRepo.GetActiveIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list active games: %w", err)
	}

	now := time.Now().UTC()
	abandoned := 0

	for _, id := range ids {
		count, err := that.abandonIfIdle(ctx, id, now, maxAge)
		if err != nil {
			return abandoned, err
		}

		abandoned += count
	}

	return abandoned, nil
}

func (that *gamePlayService) abandonIfIdle(ctx context.Context, gameID int64, now time.Time, maxAge time.Duration) (int, error) {
	lock := that.lockFor(gameID)
	lock.Lock()
	defer lock.Unlock()

	game, err := that.gameRepo.GetByID(ctx, gameID)
	if errors.Is(err, apperror.ErrGameNotFound) {
		return 0, nil
	}

	if err != nil {
		return 0, fmt.Errorf("failed to get game by id: %w", err)
	}

	if !game.IsInProgress() || now.Sub(game.CreatedAt) < maxAge {
		return 0, nil
	}

	if err = game.Finish(entity.StatusAbandoned, now); err != nil {
		return 0, fmt.Errorf("failed to abandon game: %w", err)
	}

	if err = that.gameRepo.Update(ctx, game); err != nil {
		return 0, fmt.Errorf("failed to update abandoned game: %w", err)
	}

	that.logger.Info("game abandoned", "game_id", game.ID, "age", now.Sub(game.CreatedAt).String())

	return 1, nil
}

func (that *gamePlayService) finishPlayerWon(ctx context.Context, game *entity.Game) (*MoveOutcome, error) {
	if err := game.Finish(entity.StatusPlayerWon, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to finish game: %w", err)
	}

	code, err := that.promo.Generate(ctx, game)
	if err != nil {
		return nil, fmt.Errorf("failed to generate promo code: %w", err)
	}

	game.PromoCode = code

	if err = that.gameRepo.Update(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	that.notify(ctx, game, NotifyWin, code)

	return &MoveOutcome{
		Game:      game,
		Message:   "You won! A promo code has been issued.",
		PromoCode: code,
	}, nil
}

func (that *gamePlayService) finishComputerWon(ctx context.Context, game *entity.Game, computerMove *ComputerMove) (*MoveOutcome, error) {
	if err := game.Finish(entity.StatusComputerWon, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to finish game: %w", err)
	}

	if err := that.gameRepo.Update(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	that.notify(ctx, game, NotifyLose, "")

	return &MoveOutcome{
		Game:         game,
		Message:      "The computer won.",
		ComputerMove: computerMove,
	}, nil
}

func (that *gamePlayService) finishDraw(ctx context.Context, game *entity.Game, computerMove *ComputerMove) (*MoveOutcome, error) {
	if err := game.Finish(entity.StatusDraw, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to finish game: %w", err)
	}

	if err := that.gameRepo.Update(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	that.notify(ctx, game, NotifyDraw, "")

	return &MoveOutcome{
		Game:         game,
		Message:      "Draw.",
		ComputerMove: computerMove,
	}, nil
}

// notify is best-effort: a failed or unaddressed notification never
// fails the move that triggered it.
func (that *gamePlayService) notify(ctx context.Context, game *entity.Game, kind NotificationKind, payload string) {
	if game.TelegramChatID == "" {
		that.logger.Debug("notification skipped, no chat linked", "game_id", game.ID, "kind", string(kind))
		return
	}

	if err := that.notifier.Notify(ctx, game.TelegramChatID, kind, payload); err != nil {
		that.logger.Error("failed to send notification", "game_id", game.ID, "kind", string(kind), "error", err)
	}
}

// resolveChatID applies the fixed resolution order for the notification
// target. The literal string "null" arrives from frontends that
// stringify an absent value; it counts as blank.
func (that *gamePlayService) resolveChatID(ctx context.Context, playerID, explicit string) (string, error) {
	trimmed := strings.TrimSpace(explicit)
	if trimmed != "" && !strings.EqualFold(trimmed, "null") {
		if _, err := that.linkRepo.Upsert(ctx, playerID, trimmed); err != nil {
			return "", fmt.Errorf("failed to save telegram link: %w", err)
		}

		return trimmed, nil
	}

	link, err := that.linkRepo.GetByPlayerID(ctx, playerID)
	if errors.Is(err, repository.ErrLinkNotFound) {
		return "", nil
	}

	if err != nil {
		return "", fmt.Errorf("failed to get telegram link: %w", err)
	}

	return link.TelegramChatID, nil
}

func (that *gamePlayService) lockFor(gameID int64) *sync.Mutex {
	that.locksMu.Lock()
	defer that.locksMu.Unlock()

	lock, ok := that.locks[gameID]
	if !ok {
		lock = &sync.Mutex{}
		that.locks[gameID] = lock
	}

	return lock
}

func generatePlayerID() string {
	return "player_" + uuid.NewString()
}
