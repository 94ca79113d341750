package tictactoe

import (
	"fmt"
	"strconv"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
)

// WinCombos are checked in order: rows, columns, then the two diagonals.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Status describes the active step: either the winner or who moves next.
type Status struct {
	Winner entity.Mark `json:"winner,omitempty"`
	Next   entity.Mark `json:"next_player,omitempty"`
}

func (that Status) HasWinner() bool {
	return that.Winner != entity.EmptyCell
}

func (that Status) String() string {
	if that.HasWinner() {
		return "Winner: " + string(that.Winner)
	}
	return "Next player: " + string(that.Next)
}

// Move is one entry of the history listing.
type Move struct {
	Step        int    `json:"step"`
	Description string `json:"description"`
	Current     bool   `json:"current"`
}

// New returns a game holding only the empty board.
func New() entity.Game {
	return entity.Game{
		History: []entity.Board{{}},
		Step:    0,
	}
}

// ApplyMove places the next mark into cell on the board at the active step.
// An occupied cell or a board that already has a winner leaves the game unchanged.
// Snapshots after the active step are discarded. The input game is never modified.
func ApplyMove(game entity.Game, cell int) (entity.Game, error) {
	if cell < 0 || cell >= entity.BoardSize {
		return game, fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	board := game.Current()
	if CalculateWinner(board) != entity.EmptyCell || !board.IsEmpty(cell) {
		return game, nil
	}

	history := make([]entity.Board, game.Step+1, game.Step+2)
	copy(history, game.History[:game.Step+1])

	board[cell] = markFor(len(history))
	history = append(history, board)

	return entity.Game{
		ID:      game.ID,
		History: history,
		Step:    len(history) - 1,
	}, nil
}

// Applied reports whether ApplyMove advanced the game from before to after.
func Applied(before, after entity.Game) bool {
	return after.Step != before.Step || len(after.History) != len(before.History)
}

// JumpTo makes step the active one. History is left untouched.
func JumpTo(game entity.Game, step int) (entity.Game, error) {
	if step < 0 || step >= len(game.History) {
		return game, fmt.Errorf("%w: step %d, history length %d", apperror.ErrStepOutOfRange, step, len(game.History))
	}

	game.Step = step

	return game, nil
}

// CalculateWinner returns the mark of the first complete line, or EmptyCell.
func CalculateWinner(board entity.Board) entity.Mark {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != entity.EmptyCell && a == b && b == c {
			return a
		}
	}

	return entity.EmptyCell
}

func GetStatus(game entity.Game) Status {
	if winner := CalculateWinner(game.Current()); winner != entity.EmptyCell {
		return Status{Winner: winner}
	}

	return Status{Next: game.NextPlayer()}
}

// Moves lists every snapshot in history, marking the active one.
func Moves(game entity.Game) []Move {
	moves := make([]Move, 0, len(game.History))

	for step := range game.History {
		description := "Go to game start"
		if step > 0 {
			description = "Go to move #" + strconv.Itoa(step)
		}

		moves = append(moves, Move{
			Step:        step,
			Description: description,
			Current:     step == game.Step,
		})
	}

	return moves
}

// markFor - a history of odd length was last moved by O, so X goes next.
func markFor(historyLen int) entity.Mark {
	if historyLen%2 == 1 {
		return entity.PlayerX
	}
	return entity.PlayerO
}
