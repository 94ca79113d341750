package console

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, input string) (*Console, string) {
	t.Helper()

	var out bytes.Buffer
	c := New(slog.New(slog.NewJSONHandler(io.Discard, nil)), &out)

	require.NoError(t, c.Run(context.Background(), strings.NewReader(input)))

	return c, out.String()
}

func TestConsole_Win(t *testing.T) {
	// When: X completes the top row and O tries to continue
	c, out := run(t, "0\n3\n1\n4\n2\n8\nquit\n")

	// Then: the winner is announced and the extra move is ignored
	assert.Contains(t, out, "Winner: X")
	assert.Equal(t, 5, c.Game().Step)
	assert.Equal(t, entity.EmptyCell, c.Game().Current()[8])
}

func TestConsole_JumpAndOverwrite(t *testing.T) {
	// When: two moves are made, the game is rewound and a different move is played
	c, out := run(t, "4\n0\njump 1\n8\nhistory\n")

	// Then: the old future is gone
	game := c.Game()
	require.Len(t, game.History, 3)
	assert.Equal(t, entity.Board{"", "", "", "", "X", "", "", "", "O"}, game.Current())
	assert.Contains(t, out, "> 2. Go to move #2")
	assert.Contains(t, out, "  0. Go to game start")
}

func TestConsole_BadInput(t *testing.T) {
	// When: garbage and out of range values are entered
	c, out := run(t, "foo\n9\njump 7\njump\njump x\n")

	// Then: each is reported and the game is untouched
	assert.Contains(t, out, `unknown command "foo"`)
	assert.Contains(t, out, "invalid cell index")
	assert.Contains(t, out, "step is out of history range")
	assert.Contains(t, out, "usage: jump N")
	assert.Contains(t, out, "step must be a number")
	assert.Len(t, c.Game().History, 1)
}

func TestConsole_New(t *testing.T) {
	c, _ := run(t, "0\n1\nnew\n")

	assert.Len(t, c.Game().History, 1)
	assert.Equal(t, "Next player: X", strings.TrimSpace(lastLine(t, c)))
}

func TestConsole_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pr, pw := io.Pipe()
	defer pw.Close()

	c := New(slog.New(slog.NewJSONHandler(io.Discard, nil)), io.Discard)

	require.NoError(t, c.Run(ctx, pr))
}

// closeWatcher reports when a Read call fails, which is what ends the reader goroutine.
type closeWatcher struct {
	io.Reader
	failed chan struct{}
	once   sync.Once
}

func (that *closeWatcher) Read(p []byte) (int, error) {
	n, err := that.Reader.Read(p)
	if err != nil {
		that.once.Do(func() { close(that.failed) })
	}

	return n, err
}

func TestConsole_ReaderReleasedOnClose(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	// Given: a console reading from a pipe nobody writes to
	pr, pw := io.Pipe()
	in := &closeWatcher{Reader: pr, failed: make(chan struct{})}

	c := New(slog.New(slog.NewJSONHandler(io.Discard, nil)), io.Discard)

	runErr := make(chan error, 1)
	go func() { runErr <- c.Run(ctx, in) }()

	// When: ctx is canceled and the caller then closes its reader
	cancel()
	require.NoError(t, <-runErr)
	require.NoError(t, pw.Close())

	// Then: the blocked read returns and the reader goroutine can exit
	select {
	case <-in.failed:
	case <-time.After(5 * time.Second):
		t.Fatal("reader still blocked after close")
	}
}

func lastLine(t *testing.T, c *Console) string {
	t.Helper()

	var out bytes.Buffer
	c.out = &out
	c.render()

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	return lines[len(lines)-1]
}
