package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/tictactoe"
)

const help = `commands:
  0-8       place the next mark (cells are numbered row by row)
  jump N    go back (or forward) to step N
  history   list the steps
  new       start over
  quit      leave`

// Console is a hot-seat game on a terminal. It owns the only reference to the current game.
type Console struct {
	logger *slog.Logger
	out    io.Writer
	game   entity.Game
}

func New(logger *slog.Logger, out io.Writer) *Console {
	return &Console{
		logger: logger.With("component", "console"),
		out:    out,
		game:   tictactoe.New(),
	}
}

// Game returns the current game state.
func (that *Console) Game() entity.Game {
	return that.game
}

// Run reads commands line by line until quit, EOF or ctx is done.
func (that *Console) Run(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)

	// The reader can stay blocked in Scan after Run returns on ctx until in
	// yields or fails. For os.Stdin that lasts until the process exits, so
	// callers that keep running should pass a reader they can close.
	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		readErr <- scanner.Err()
	}()

	that.printf("%s\n\n", help)
	that.render()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				if err := <-readErr; err != nil {
					return fmt.Errorf("failed to read input: %w", err)
				}
				return nil
			}

			if quit := that.handle(strings.TrimSpace(line)); quit {
				return nil
			}
		}
	}
}

// handle executes one command and reports whether the user asked to quit.
func (that *Console) handle(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	switch fields[0] {
	case "quit", "exit", "q":
		return true
	case "help", "?":
		that.printf("%s\n", help)
	case "history":
		that.printHistory()
	case "new":
		that.game = tictactoe.New()
		that.render()
	case "jump":
		that.jump(fields[1:])
	default:
		that.move(fields[0])
	}

	return false
}

func (that *Console) move(arg string) {
	cell, err := strconv.Atoi(arg)
	if err != nil {
		that.printf("unknown command %q, type help\n", arg)
		return
	}

	next, err := tictactoe.ApplyMove(that.game, cell)
	if err != nil {
		that.printf("%v\n", err)
		return
	}

	if !tictactoe.Applied(that.game, next) {
		that.logger.Debug("move ignored", "cell", cell, "step", that.game.Step)
	}

	that.game = next
	that.render()
}

func (that *Console) jump(args []string) {
	if len(args) != 1 {
		that.printf("usage: jump N\n")
		return
	}

	step, err := strconv.Atoi(args[0])
	if err != nil {
		that.printf("step must be a number\n")
		return
	}

	next, err := tictactoe.JumpTo(that.game, step)
	if err != nil {
		that.printf("%v\n", err)
		return
	}

	that.game = next
	that.render()
}

func (that *Console) render() {
	board := that.game.Current()

	for row := 0; row < 3; row++ {
		cells := make([]string, 3)
		for col := range cells {
			i := row*3 + col
			cells[col] = string(board[i])
			if board.IsEmpty(i) {
				cells[col] = strconv.Itoa(i)
			}
		}

		that.printf(" %s\n", strings.Join(cells, " | "))
		if row < 2 {
			that.printf("---+---+---\n")
		}
	}

	that.printf("%s\n", tictactoe.GetStatus(that.game))
}

func (that *Console) printHistory() {
	for _, move := range tictactoe.Moves(that.game) {
		marker := " "
		if move.Current {
			marker = ">"
		}
		that.printf("%s %d. %s\n", marker, move.Step, move.Description)
	}
}

func (that *Console) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(that.out, format, args...); err != nil {
		that.logger.Error("failed to write output", "error", err)
	}
}
