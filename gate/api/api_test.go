package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mhttp "mahjong/common/http"
	"mahjong/core/infrastructure/persistence"
	"mahjong/framework/conn"
	"mahjong/framework/game"
	"mahjong/framework/game/engines/mahjong"
)

const secret = "test-secret"

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type apiServer struct {
	t       *testing.T
	handler http.Handler
	api     *Handler
}

func newAPIServer(t *testing.T) *apiServer {
	t.Helper()
	seed := int64(100)
	rooms := game.NewRoomManager(
		game.WithGameRecordRepository(persistence.NewMemoryGameRecordRepository()),
		game.WithTokenSecret(secret, time.Hour),
		game.WithRandSource(func() *rand.Rand {
			seed++
			return rand.New(rand.NewSource(seed))
		}),
	)
	h := NewHandler(rooms, mahjong.NewSearcher(nil), conn.NewManager(), secret)
	server := mhttp.NewHttpServer(mhttp.WithMode("test"))
	RegisterRoutes(server, h)
	return &apiServer{t: t, handler: server.Handler(), api: h}
}

func (s *apiServer) do(method, path, token string, body any) (int, envelope) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			s.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		s.t.Fatalf("%s %s: bad response body %q", method, path, rec.Body.String())
	}
	return rec.Code, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
	return out
}

func TestPing(t *testing.T) {
	s := newAPIServer(t)
	if code, env := s.do(http.MethodGet, "/ping", "", nil); code != http.StatusOK || env.Code != mhttp.CodeSuccess {
		t.Fatalf("ping: %d %+v", code, env)
	}
}

func TestHealth(t *testing.T) {
	s := newAPIServer(t)
	if code, _ := s.do(http.MethodGet, "/health", "", nil); code != http.StatusOK {
		t.Fatalf("health without checks should be ok, got %d", code)
	}
	s.api.AddHealthCheck("redis", func(context.Context) error { return errors.New("down") })
	code, env := s.do(http.MethodGet, "/health", "", nil)
	if code != http.StatusServiceUnavailable {
		t.Fatalf("failing check should answer 503, got %d", code)
	}
	status := decode[struct {
		Healthy  bool              `json:"healthy"`
		Services map[string]string `json:"services"`
	}](t, env)
	if status.Healthy || status.Services["redis"] != "down" {
		t.Fatalf("unexpected health %+v", status)
	}
}

func TestEvaluateHand(t *testing.T) {
	s := newAPIServer(t)

	code, env := s.do(http.MethodPost, "/api/v1/hands/evaluate", "", map[string]string{"hand": "111m222m333m456p77s"})
	if code != http.StatusOK {
		t.Fatalf("evaluate: %d %+v", code, env)
	}
	win := decode[evaluateResponse](t, env)
	if !win.Win || win.Tenpai || win.Count != 14 || win.Agari == nil || len(win.Agari.Melds) != 4 {
		t.Fatalf("unexpected evaluation %+v", win)
	}

	_, env = s.do(http.MethodPost, "/api/v1/hands/evaluate", "", map[string]string{"hand": "123m456p789s23s11z"})
	tenpai := decode[evaluateResponse](t, env)
	if tenpai.Win || !tenpai.Tenpai || len(tenpai.Waits) != 2 || tenpai.Waits[0].String() != "1s" {
		t.Fatalf("unexpected evaluation %+v", tenpai)
	}

	code, env = s.do(http.MethodPost, "/api/v1/hands/evaluate", "", map[string]string{"hand": "111m"})
	short := decode[evaluateResponse](t, env)
	if code != http.StatusOK || short.Win || short.Tenpai || short.Waits == nil || len(short.Waits) != 0 {
		t.Fatalf("wrong size should be a tolerant false: %d %+v", code, short)
	}

	if code, _ := s.do(http.MethodPost, "/api/v1/hands/evaluate", "", map[string]any{"hand": "111m", "strict": true}); code != http.StatusBadRequest {
		t.Fatalf("strict mode should reject a wrong hand size, got %d", code)
	}
	if code, _ := s.do(http.MethodPost, "/api/v1/hands/evaluate", "", map[string]string{"hand": "12x"}); code != http.StatusBadRequest {
		t.Fatalf("bad notation should answer 400, got %d", code)
	}
	if code, _ := s.do(http.MethodPost, "/api/v1/hands/evaluate", "", map[string]string{}); code != http.StatusBadRequest {
		t.Fatalf("missing hand should answer 400, got %d", code)
	}
}

func createGame(t *testing.T, s *apiServer) game.CreatedGame {
	t.Helper()
	code, env := s.do(http.MethodPost, "/api/v1/games", "", map[string][]string{"players": {"alice", "bob", "carol", "dave"}})
	if code != http.StatusOK {
		t.Fatalf("create game: %d %+v", code, env)
	}
	return decode[game.CreatedGame](t, env)
}

func TestGameFlow(t *testing.T) {
	s := newAPIServer(t)
	created := createGame(t, s)
	base := "/api/v1/games/" + created.ID

	code, env := s.do(http.MethodGet, base, "", nil)
	state := decode[game.State](t, env)
	if code != http.StatusOK || state.CurrentSeat != 0 || state.WallRemaining != 136-52 {
		t.Fatalf("unexpected state %d %+v", code, state)
	}

	if code, _ := s.do(http.MethodPost, base+"/draw", "", nil); code != http.StatusUnauthorized {
		t.Fatalf("draw without token should answer 401, got %d", code)
	}
	if code, _ := s.do(http.MethodPost, base+"/draw", created.Tokens[1].Token, nil); code != http.StatusConflict {
		t.Fatalf("draw out of turn should answer 409, got %d", code)
	}

	other := createGame(t, s)
	if code, _ := s.do(http.MethodPost, base+"/draw", other.Tokens[0].Token, nil); code != http.StatusForbidden {
		t.Fatalf("token of another table should answer 403, got %d", code)
	}

	east := created.Tokens[0].Token
	code, env = s.do(http.MethodPost, base+"/draw", east, nil)
	if code != http.StatusOK {
		t.Fatalf("draw: %d %+v", code, env)
	}
	drawn := decode[game.DrawResult](t, env)
	if drawn.Tile == nil {
		t.Fatalf("draw should return the tile %+v", drawn)
	}
	if drawn.Win {
		t.Skip("seeded wall produced an immediate win")
	}

	_, env = s.do(http.MethodGet, base+"/hand", east, nil)
	hand := decode[game.HandView](t, env)
	if len(hand.Tiles) != 14 {
		t.Fatalf("hand should have 14 tiles after drawing, got %d", len(hand.Tiles))
	}

	missing := "C"
	for _, kind := range mahjong.AllTileKinds() {
		held := false
		for _, tile := range hand.Tiles {
			held = held || tile == kind
		}
		if !held {
			missing = kind.String()
			break
		}
	}
	if code, _ := s.do(http.MethodPost, base+"/discard", east, map[string]string{"tile": missing}); code != http.StatusBadRequest {
		t.Fatalf("discarding a tile not in hand should answer 400, got %d", code)
	}

	code, env = s.do(http.MethodPost, base+"/discard", east, map[string]string{"tile": hand.Tiles[0].String()})
	if code != http.StatusOK {
		t.Fatalf("discard: %d %+v", code, env)
	}
	state = decode[game.State](t, env)
	if state.CurrentSeat != 1 || len(state.Players[0].Discards) != 1 {
		t.Fatalf("turn should pass to seat 1: %+v", state)
	}

	code, env = s.do(http.MethodGet, base+"/record", "", nil)
	if code != http.StatusOK {
		t.Fatalf("record: %d %+v", code, env)
	}
	code, env = s.do(http.MethodGet, "/api/v1/records?player=alice", "", nil)
	records := decode[struct {
		Total int `json:"total"`
	}](t, env)
	if code != http.StatusOK || records.Total != 2 {
		t.Fatalf("alice should have two records: %d %+v", code, records)
	}
}

func TestGameNotFound(t *testing.T) {
	s := newAPIServer(t)
	if code, _ := s.do(http.MethodGet, "/api/v1/games/nope", "", nil); code != http.StatusNotFound {
		t.Fatalf("unknown game should answer 404, got %d", code)
	}
	if code, _ := s.do(http.MethodGet, "/ws/games/nope", "", nil); code != http.StatusNotFound {
		t.Fatalf("watching an unknown game should answer 404, got %d", code)
	}
	if code, _ := s.do(http.MethodPost, "/api/v1/games", "", map[string][]string{"players": {"a", "b"}}); code != http.StatusBadRequest {
		t.Fatalf("two players should answer 400, got %d", code)
	}
}
