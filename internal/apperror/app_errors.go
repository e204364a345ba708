package apperror

import "errors"

var (
	ErrGameNotFound   = errors.New("game not found")
	ErrGameFinished   = errors.New("game is already finished")
	ErrNotYourTurn    = errors.New("it's not your turn")
	ErrCellOutOfRange = errors.New("cell coordinates out of range")
	ErrCellOccupied   = errors.New("cell is already occupied")
	ErrUnknownStatus  = errors.New("unknown game status")

	ErrPromoNotFound  = errors.New("promo code not found")
	ErrCodesExhausted = errors.New("promo code space exhausted")
)
