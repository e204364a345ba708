package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/promoplay/tictactoe-backend/internal/apperror"
	"github.com/promoplay/tictactoe-backend/internal/entity"
	"github.com/promoplay/tictactoe-backend/internal/service"
)

type gamePlayService interface {
	CreateGame(ctx context.Context, playerID, telegramChatID string) (*entity.Game, error)
	MakeMove(ctx context.Context, gameID int64, row, col int) (*service.MoveOutcome, error)
	GetGame(ctx context.Context, gameID int64) (*entity.Game, error)
	ListGamesByPlayer(ctx context.Context, playerID string) ([]*entity.Game, error)
}

type promoService interface {
	IsValid(ctx context.Context, code string) (bool, error)
	Redeem(ctx context.Context, code string) (bool, error)
}

type handlers struct {
	logger   *slog.Logger
	gamePlay gamePlayService
	promo    promoService
}

func newHandlers(logger *slog.Logger, gamePlay gamePlayService, promo promoService) *handlers {
	return &handlers{
		logger:   logger.With("component", "rest_handlers"),
		gamePlay: gamePlay,
		promo:    promo,
	}
}

func (that *handlers) ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

func (that *handlers) newGame(w http.ResponseWriter, r *http.Request) {
	var request newGameRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		that.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	game, err := that.gamePlay.CreateGame(r.Context(), request.PlayerID, request.TelegramChatID)
	if err != nil {
		that.writeServerError(w, "failed to create game", err)
		return
	}

	that.writeJSON(w, http.StatusCreated, game)
}

func (that *handlers) makeMove(w http.ResponseWriter, r *http.Request) {
	var request moveRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		that.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	outcome, err := that.gamePlay.MakeMove(r.Context(), request.GameID, request.Row, request.Column)
	if err != nil {
		that.writeMoveFailure(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, moveResponse{
		Success:      true,
		Message:      outcome.Message,
		Game:         outcome.Game,
		ComputerMove: outcome.ComputerMove,
		PromoCode:    outcome.PromoCode,
	})
}

func (that *handlers) getGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := strconv.ParseInt(chi.URLParam(r, "gameID"), 10, 64)
	if err != nil {
		that.writeError(w, http.StatusBadRequest, "invalid game id")
		return
	}

	game, err := that.gamePlay.GetGame(r.Context(), gameID)
	if errors.Is(err, apperror.ErrGameNotFound) {
		that.writeError(w, http.StatusNotFound, "game not found")
		return
	}

	if err != nil {
		that.writeServerError(w, "failed to get game", err)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *handlers) listPlayerGames(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "playerID")

	games, err := that.gamePlay.ListGamesByPlayer(r.Context(), playerID)
	if err != nil {
		that.writeServerError(w, "failed to list games", err)
		return
	}

	that.writeJSON(w, http.StatusOK, games)
}

func (that *handlers) checkPromo(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	valid, err := that.promo.IsValid(r.Context(), code)
	if err != nil {
		that.writeServerError(w, "failed to check promo code", err)
		return
	}

	that.writeJSON(w, http.StatusOK, promoCheckResponse{Code: code, Valid: valid})
}

func (that *handlers) usePromo(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	redeemed, err := that.promo.Redeem(r.Context(), code)
	if err != nil {
		that.writeServerError(w, "failed to redeem promo code", err)
		return
	}

	that.writeJSON(w, http.StatusOK, promoUseResponse{Code: code, Success: redeemed})
}

// writeMoveFailure translates engine sentinels into structured move
// outcomes. Rule violations stay HTTP 200 with success=false, an absent
// game is 404, everything else (including an exhausted code space, which
// is misconfiguration) is a server fault.
func (that *handlers) writeMoveFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperror.ErrGameNotFound):
		that.writeError(w, http.StatusNotFound, "game not found")
	case errors.Is(err, apperror.ErrGameFinished):
		that.writeRejectedMove(w, "the game is already finished")
	case errors.Is(err, apperror.ErrNotYourTurn):
		that.writeRejectedMove(w, "it's not your turn")
	case errors.Is(err, apperror.ErrCellOutOfRange):
		that.writeRejectedMove(w, "cell coordinates are out of range")
	case errors.Is(err, apperror.ErrCellOccupied):
		that.writeRejectedMove(w, "the cell is already occupied")
	default:
		that.writeServerError(w, "failed to make move", err)
	}
}

func (that *handlers) writeRejectedMove(w http.ResponseWriter, message string) {
	that.writeJSON(w, http.StatusOK, moveResponse{Success: false, Message: message})
}

func (that *handlers) writeError(w http.ResponseWriter, status int, message string) {
	that.writeJSON(w, status, errorResponse{Success: false, Message: message})
}

func (that *handlers) writeServerError(w http.ResponseWriter, message string, err error) {
	that.logger.Error(message, "error", err)
	that.writeError(w, http.StatusInternalServerError, message)
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}
