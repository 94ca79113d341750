package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/apperror"
)

const (
	PlayerX Mark = "X"
	PlayerO Mark = "O"

	EmptyCell Mark = ""
)

const BoardSize = 9

// Mark is the symbol a player places in a cell.
type Mark string

// Board is a 3x3 grid in row-major order.
type Board [BoardSize]Mark

// Game is one session: every snapshot since the start and the step being looked at.
type Game struct {
	ID      string  `json:"id"`
	History []Board `json:"history"`
	Step    int     `json:"step"`
}

// Current returns the snapshot at the active step.
func (that Game) Current() Board {
	return that.History[that.Step]
}

// NextPlayer - X moves on even steps, O on odd ones.
func (that Game) NextPlayer() Mark {
	if that.Step%2 == 0 {
		return PlayerX
	}
	return PlayerO
}

func (that Game) IsLatest() bool {
	return that.Step == len(that.History)-1
}

func (that Board) IsEmpty(cell int) bool {
	return that[cell] == EmptyCell
}

// Validate checks a game loaded from outside the engine: the history starts
// from the empty board and every later snapshot adds exactly one mark, X on odd
// steps and O on even ones.
func (that Game) Validate() error {
	if len(that.History) == 0 {
		return fmt.Errorf("%w: empty history", apperror.ErrInvalidGameData)
	}

	if that.Step < 0 || that.Step >= len(that.History) {
		return fmt.Errorf("%w: step %d of %d", apperror.ErrInvalidGameData, that.Step, len(that.History))
	}

	if that.History[0] != (Board{}) {
		return fmt.Errorf("%w: step 0 is not the empty board", apperror.ErrInvalidGameData)
	}

	for step := 1; step < len(that.History); step++ {
		if err := validateTransition(that.History[step-1], that.History[step], markForStep(step)); err != nil {
			return fmt.Errorf("%w: step %d: %w", apperror.ErrInvalidGameData, step, err)
		}
	}

	return nil
}

// markForStep is the mark placed by the move that produced snapshot step.
func markForStep(step int) Mark {
	if step%2 == 1 {
		return PlayerX
	}
	return PlayerO
}

func validateTransition(prev, next Board, want Mark) error {
	changed := 0

	for cell := range next {
		if prev[cell] == next[cell] {
			continue
		}

		changed++

		if prev[cell] != EmptyCell {
			return fmt.Errorf("cell %d overwritten", cell)
		}

		if next[cell] != want {
			return fmt.Errorf("cell %d holds %q, expected %q", cell, next[cell], want)
		}
	}

	if changed != 1 {
		return fmt.Errorf("%d cells changed", changed)
	}

	return nil
}
