package apperror

import "errors"

var (
	ErrInvalidCell     = errors.New("invalid cell index")
	ErrStepOutOfRange  = errors.New("step is out of history range")
	ErrGameNotFound    = errors.New("game not found")
	ErrInvalidGameData = errors.New("invalid game data")
)
