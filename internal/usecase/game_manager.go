package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/tictactoe"
)

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game entity.Game) error
	GetByID(ctx context.Context, id string) (entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type recorder interface {
	GameCreated()
	MoveApplied(mark string)
	MoveIgnored()
	Jumped()
	GameWon(mark string)
}

// MoveResult is the game after a move and whether the move changed it.
type MoveResult struct {
	Game    entity.Game
	Applied bool
}

type GameManager struct {
	logger   *slog.Logger
	gameRepo gameRepo
	recorder recorder
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo, recorder recorder) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		gameRepo: gameRepo,
		recorder: recorder,
	}
}

func (that *GameManager) CreateGame(ctx context.Context) (entity.Game, error) {
	game := tictactoe.New()
	game.ID = pkg.GenerateGameID()

	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return entity.Game{}, fmt.Errorf("failed to create game: %w", err)
	}

	that.recorder.GameCreated()
	that.logger.Debug("game created", "game_id", game.ID)

	return game, nil
}

func (that *GameManager) GetGame(ctx context.Context, id string) (entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return entity.Game{}, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// MakeMove applies a move to the stored game. Ignored moves are not written back.
func (that *GameManager) MakeMove(ctx context.Context, id string, cell int) (MoveResult, error) {
	log := that.logger.With("method", "MakeMove", "game_id", id)

	game, err := that.GetGame(ctx, id)
	if err != nil {
		return MoveResult{}, err
	}

	next, err := tictactoe.ApplyMove(game, cell)
	if err != nil {
		return MoveResult{Game: game}, fmt.Errorf("failed make move: %w", err)
	}

	if !tictactoe.Applied(game, next) {
		that.recorder.MoveIgnored()
		log.Debug("move ignored", "cell", cell, "step", game.Step)

		return MoveResult{Game: game}, nil
	}

	if err = that.updateGame(ctx, next); err != nil {
		return MoveResult{}, err
	}

	mark := next.Current()[cell]
	that.recorder.MoveApplied(string(mark))

	if winner := tictactoe.CalculateWinner(next.Current()); winner != entity.EmptyCell {
		that.recorder.GameWon(string(winner))
		log.Info("game won", "winner", winner, "step", next.Step)
	}

	return MoveResult{Game: next, Applied: true}, nil
}

func (that *GameManager) JumpTo(ctx context.Context, id string, step int) (entity.Game, error) {
	game, err := that.GetGame(ctx, id)
	if err != nil {
		return entity.Game{}, err
	}

	next, err := tictactoe.JumpTo(game, step)
	if err != nil {
		return game, fmt.Errorf("failed jump: %w", err)
	}

	if err = that.updateGame(ctx, next); err != nil {
		return entity.Game{}, err
	}

	that.recorder.Jumped()

	return next, nil
}

func (that *GameManager) DeleteGame(ctx context.Context, id string) error {
	if err := that.gameRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	that.logger.Debug("game deleted", "game_id", id)

	return nil
}

func (that *GameManager) updateGame(ctx context.Context, game entity.Game) error {
	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	return nil
}
