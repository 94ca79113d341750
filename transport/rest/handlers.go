package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/usecase"
)

type gameManager interface {
	CreateGame(ctx context.Context) (entity.Game, error)
	GetGame(ctx context.Context, id string) (entity.Game, error)
	MakeMove(ctx context.Context, id string, cell int) (usecase.MoveResult, error)
	JumpTo(ctx context.Context, id string, step int) (entity.Game, error)
	DeleteGame(ctx context.Context, id string) error
}

// maxBodyBytes fits {"cell": n} and {"step": n} with room to spare.
const maxBodyBytes = 1 << 10

type moveRequest struct {
	Cell *int `json:"cell"`
}

type jumpRequest struct {
	Step *int `json:"step"`
}

// GameResponse is what a front end needs to draw the board, the status line and the history list.
type GameResponse struct {
	ID         string           `json:"id"`
	Board      entity.Board     `json:"board"`
	Step       int              `json:"step"`
	Latest     bool             `json:"latest"`
	Status     string           `json:"status"`
	Winner     entity.Mark      `json:"winner"`
	NextPlayer entity.Mark      `json:"next_player"`
	Applied    *bool            `json:"applied,omitempty"`
	Moves      []tictactoe.Move `json:"moves"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type handlers struct {
	logger *slog.Logger
	games  gameManager
}

func newHandlers(logger *slog.Logger, games gameManager) *handlers {
	return &handlers{
		logger: logger.With("component", "rest_handlers"),
		games:  games,
	}
}

func (that *handlers) createGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.CreateGame(r.Context())
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusCreated, newGameResponse(game))
}

func (that *handlers) getGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.GetGame(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusOK, newGameResponse(game))
}

func (that *handlers) deleteGame(w http.ResponseWriter, r *http.Request) {
	if err := that.games.DeleteGame(r.Context(), chi.URLParam(r, "gameID")); err != nil {
		that.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *handlers) makeMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decodeBody(w, r, &req); err != nil || req.Cell == nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "body must be {\"cell\": <0-8>}"})
		return
	}

	result, err := that.games.MakeMove(r.Context(), chi.URLParam(r, "gameID"), *req.Cell)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	response := newGameResponse(result.Game)
	response.Applied = &result.Applied

	that.writeJSON(w, http.StatusOK, response)
}

func (that *handlers) jumpTo(w http.ResponseWriter, r *http.Request) {
	var req jumpRequest
	if err := decodeBody(w, r, &req); err != nil || req.Step == nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "body must be {\"step\": <n>}"})
		return
	}

	game, err := that.games.JumpTo(r.Context(), chi.URLParam(r, "gameID"), *req.Step)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusOK, newGameResponse(game))
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("failed to decode body: %w", err)
	}

	return nil
}

func newGameResponse(game entity.Game) GameResponse {
	status := tictactoe.GetStatus(game)

	return GameResponse{
		ID:         game.ID,
		Board:      game.Current(),
		Step:       game.Step,
		Latest:     game.IsLatest(),
		Status:     status.String(),
		Winner:     status.Winner,
		NextPlayer: status.Next,
		Moves:      tictactoe.Moves(game),
	}
}

func (that *handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, apperror.ErrGameNotFound):
		that.writeJSON(w, http.StatusNotFound, errorResponse{Error: apperror.ErrGameNotFound.Error()})
	case errors.Is(err, apperror.ErrInvalidCell), errors.Is(err, apperror.ErrStepOutOfRange):
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		that.logger.Error("request failed", "path", r.URL.Path, "error", err)
		that.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
