package rest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/metrics"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/repository"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-timetravel/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	_, st := suite.New(t)

	m := metrics.New()
	repo := repository.NewGameRepository(st.Storage, time.Hour)
	manager := usecase.NewGameManager(st.Logger, repo, m)

	srv := httptest.NewServer(New(st.Logger, manager, m.Handler()).Handler())
	t.Cleanup(srv.Close)

	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) (int, GameResponse) {
	t.Helper()

	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var game GameResponse
	if resp.StatusCode < http.StatusBadRequest && resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&game))
	}

	return resp.StatusCode, game
}

func createGame(t *testing.T, srv *httptest.Server) GameResponse {
	t.Helper()

	code, game := do(t, srv, http.MethodPost, "/games", "")
	require.Equal(t, http.StatusCreated, code)

	return game
}

func TestPing(t *testing.T) {
	srv := newTestServer(t)

	resp, err := srv.Client().Get(srv.URL + "/ping")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateGame(t *testing.T) {
	srv := newTestServer(t)

	// When: a game is created
	game := createGame(t, srv)

	// Then: it starts empty with X to move
	assert.NotEmpty(t, game.ID)
	assert.Equal(t, entity.Board{}, game.Board)
	assert.Equal(t, "Next player: X", game.Status)
	assert.Equal(t, entity.PlayerX, game.NextPlayer)
	require.Len(t, game.Moves, 1)
	assert.Equal(t, "Go to game start", game.Moves[0].Description)
}

func TestPlayAndRewind(t *testing.T) {
	srv := newTestServer(t)
	game := createGame(t, srv)
	path := "/games/" + game.ID

	// Given: X wins along the top row
	var code int
	for _, cell := range []string{"0", "3", "1", "4", "2"} {
		code, game = do(t, srv, http.MethodPost, path+"/moves", `{"cell": `+cell+`}`)
		require.Equal(t, http.StatusOK, code)
		require.NotNil(t, game.Applied)
		require.True(t, *game.Applied)
	}
	assert.Equal(t, "Winner: X", game.Status)

	// When: O tries to keep playing
	code, game = do(t, srv, http.MethodPost, path+"/moves", `{"cell": 8}`)

	// Then: the move is ignored
	require.Equal(t, http.StatusOK, code)
	assert.False(t, *game.Applied)
	assert.Equal(t, 5, game.Step)

	// When: rewinding to step 2 and playing a different move
	code, game = do(t, srv, http.MethodPost, path+"/jump", `{"step": 2}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Next player: X", game.Status)
	assert.False(t, game.Latest)
	require.Len(t, game.Moves, 6)

	code, game = do(t, srv, http.MethodPost, path+"/moves", `{"cell": 8}`)
	require.Equal(t, http.StatusOK, code)

	// Then: the future was discarded
	assert.Equal(t, 3, game.Step)
	assert.True(t, game.Latest)
	assert.Len(t, game.Moves, 4)
	assert.Equal(t, entity.Board{"X", "", "", "O", "", "", "", "", "X"}, game.Board)

	// And: the stored game reflects it
	code, stored := do(t, srv, http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, game.Board, stored.Board)
	assert.Nil(t, stored.Applied)
}

func TestErrors(t *testing.T) {
	srv := newTestServer(t)
	game := createGame(t, srv)
	path := "/games/" + game.ID

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"Unknown game", http.MethodGet, "/games/nope", "", http.StatusNotFound},
		{"Move on unknown game", http.MethodPost, "/games/nope/moves", `{"cell": 0}`, http.StatusNotFound},
		{"Cell out of range", http.MethodPost, path + "/moves", `{"cell": 9}`, http.StatusBadRequest},
		{"Missing cell", http.MethodPost, path + "/moves", `{}`, http.StatusBadRequest},
		{"Malformed body", http.MethodPost, path + "/moves", `{`, http.StatusBadRequest},
		{"Step out of range", http.MethodPost, path + "/jump", `{"step": 3}`, http.StatusBadRequest},
		{"Negative step", http.MethodPost, path + "/jump", `{"step": -1}`, http.StatusBadRequest},
		{"Delete unknown game", http.MethodDelete, "/games/nope", "", http.StatusNotFound},
		{"Oversized move body", http.MethodPost, path + "/moves", `{"cell": 0, "pad": "` + strings.Repeat("x", 2048) + `"}`, http.StatusBadRequest},
		{"Oversized jump body", http.MethodPost, path + "/jump", `{"step": 0, "pad": "` + strings.Repeat("x", 2048) + `"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _ := do(t, srv, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, code)
		})
	}
}

func TestMoveBodyWithinLimit(t *testing.T) {
	srv := newTestServer(t)
	game := createGame(t, srv)

	// Given: a body with extra fields that still fits the limit
	body := `{"cell": 4, "pad": "` + strings.Repeat("x", 512) + `"}`

	// When: the move is sent
	code, game := do(t, srv, http.MethodPost, "/games/"+game.ID+"/moves", body)

	// Then: it is applied as usual
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, entity.PlayerX, game.Board[4])
}

func TestDeleteGame(t *testing.T) {
	srv := newTestServer(t)
	game := createGame(t, srv)

	code, _ := do(t, srv, http.MethodDelete, "/games/"+game.ID, "")
	require.Equal(t, http.StatusNoContent, code)

	code, _ = do(t, srv, http.MethodGet, "/games/"+game.ID, "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	createGame(t, srv)

	resp, err := srv.Client().Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body strings.Builder
	_, err = io.Copy(&body, resp.Body)
	require.NoError(t, err)
	assert.Contains(t, body.String(), "tictactoe_games_created_total 1")
}
