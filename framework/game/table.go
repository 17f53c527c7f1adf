package game

import (
	"fmt"
	"math/rand"
	"time"

	"mahjong/common/log"
	"mahjong/framework/game/engines/mahjong"
)

const (
	PlayerCount  = 4
	InitialHand  = mahjong.HandSizeTenpai
	NoWinner     = -1
	maxSeatIndex = PlayerCount - 1
)

// Phase 牌桌阶段
type Phase int

const (
	PhaseWaiting Phase = iota // 未开局
	PhaseDraw                 // 等待当前玩家摸牌
	PhaseDiscard              // 等待当前玩家打牌
	PhaseOver                 // 和了或流局
)

var phaseNames = [...]string{"waiting", "draw", "discard", "over"}

func (p Phase) String() string {
	if p < PhaseWaiting || p > PhaseOver {
		return "unknown"
	}
	return phaseNames[p]
}

func parsePhase(s string) (Phase, error) {
	for i, name := range phaseNames {
		if name == s {
			return Phase(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown phase %q", ErrBadSnapshot, s)
}

// Table 一张四人麻将桌。不加锁，并发访问由 RoomManager 串行化
type Table struct {
	ID        string
	Players   []*Player
	Round     int
	RoundWind mahjong.Tile

	wall      *mahjong.Wall
	rng       *rand.Rand
	searcher  *mahjong.Searcher
	current   int
	phase     Phase
	winner    int
	turns     int
	startedAt time.Time
}

type TableOption func(*Table)

// WithRand 固定洗牌种子，复盘与测试使用
func WithRand(rng *rand.Rand) TableOption {
	return func(t *Table) {
		t.rng = rng
	}
}

// WithSearcher 使用带缓存的判定器
func WithSearcher(s *mahjong.Searcher) TableOption {
	return func(t *Table) {
		t.searcher = s
	}
}

func NewTable(id string, names []string, opts ...TableOption) (*Table, error) {
	if len(names) != PlayerCount {
		return nil, fmt.Errorf("%w: got %d", ErrPlayerCount, len(names))
	}
	t := &Table{
		ID:        id,
		Players:   make([]*Player, 0, PlayerCount),
		Round:     1,
		RoundWind: mahjong.MustTile(mahjong.SuitHonor, 0, mahjong.East),
		winner:    NoWinner,
	}
	for _, name := range names {
		t.Players = append(t.Players, NewPlayer(name))
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.searcher == nil {
		t.searcher = mahjong.NewSearcher(nil)
	}
	return t, nil
}

// Start 重新洗牌并给每人发 13 张，东家先摸
func (t *Table) Start() error {
	t.wall = mahjong.NewWall(t.rng)
	t.current = 0
	t.winner = NoWinner
	t.turns = 0
	t.startedAt = time.Now()
	for _, p := range t.Players {
		p.reset()
		tiles, err := t.wall.DrawN(InitialHand)
		if err != nil {
			return fmt.Errorf("发牌失败: %w", err)
		}
		p.Hand.AddAll(tiles)
	}
	t.phase = PhaseDraw
	log.Debug("牌桌 %s 开局，牌山剩余 %d", t.ID, t.wall.Remaining())
	return nil
}

func (t *Table) Phase() Phase { return t.phase }

func (t *Table) IsOver() bool { return t.phase == PhaseOver }

// Winner 和了玩家座位，没有时为 NoWinner
func (t *Table) Winner() int { return t.winner }

func (t *Table) Turns() int { return t.turns }

func (t *Table) StartedAt() time.Time { return t.startedAt }

func (t *Table) CurrentSeat() int { return t.current }

func (t *Table) CurrentPlayer() *Player { return t.Players[t.current] }

func (t *Table) WallRemaining() int {
	if t.wall == nil {
		return 0
	}
	return t.wall.Remaining()
}

func (t *Table) Player(seat int) (*Player, error) {
	if seat < 0 || seat > maxSeatIndex {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSeat, seat)
	}
	return t.Players[seat], nil
}

func (t *Table) checkPhase(want Phase) error {
	switch t.phase {
	case want:
		return nil
	case PhaseWaiting:
		return ErrGameNotStart
	case PhaseOver:
		return ErrGameOver
	default:
		return fmt.Errorf("%w: want %s, now %s", ErrWrongPhase, want, t.phase)
	}
}

// DrawPhase 当前玩家摸牌。牌山摸完时牌桌结束（流局），摸牌后和了时牌桌结束
func (t *Table) DrawPhase() (mahjong.Tile, error) {
	if err := t.checkPhase(PhaseDraw); err != nil {
		return mahjong.Tile{}, err
	}
	tile, err := t.wall.Draw()
	if err != nil {
		t.phase = PhaseOver
		return mahjong.Tile{}, err
	}
	p := t.CurrentPlayer()
	p.Draw(tile)
	t.turns++

	if t.searcher.CheckWin(p.Hand.Tiles()) {
		t.winner = t.current
		t.phase = PhaseOver
		log.Info("牌桌 %s: %s 自摸 %s 和了", t.ID, p.Name, tile)
		return tile, nil
	}
	t.phase = PhaseDiscard
	return tile, nil
}

// DiscardPhase 当前玩家打出一张，然后轮到下家
func (t *Table) DiscardPhase(tile mahjong.Tile) error {
	if err := t.checkPhase(PhaseDiscard); err != nil {
		return err
	}
	if !t.CurrentPlayer().Discard(tile) {
		return fmt.Errorf("%w: %s", ErrTileNotInHand, tile)
	}
	t.NextPlayer()
	t.phase = PhaseDraw
	return nil
}

// NextPlayer 轮到下家
func (t *Table) NextPlayer() {
	t.current = (t.current + 1) % PlayerCount
}

func (t *Table) CheckWin(seat int) (bool, error) {
	p, err := t.Player(seat)
	if err != nil {
		return false, err
	}
	return t.searcher.CheckWin(p.Hand.Tiles()), nil
}

func (t *Table) CheckTenpai(seat int) (bool, error) {
	p, err := t.Player(seat)
	if err != nil {
		return false, err
	}
	return t.searcher.CheckTenpai(p.Hand.Tiles()), nil
}

// Waits 听牌集合，已排序；手牌不是 13 张时为空
func (t *Table) Waits(seat int) ([]mahjong.Tile, error) {
	p, err := t.Player(seat)
	if err != nil {
		return nil, err
	}
	return t.searcher.WaitingTiles(p.Hand.Tiles()).Sorted(), nil
}

// PlayerState 对外公开的玩家信息，不含手牌
type PlayerState struct {
	Seat     int            `json:"seat"`
	Name     string         `json:"name"`
	Score    int            `json:"score"`
	HandSize int            `json:"handSize"`
	Discards []mahjong.Tile `json:"discards"`
}

// State 牌桌公开状态
type State struct {
	ID            string        `json:"id"`
	Round         int           `json:"round"`
	RoundWind     mahjong.Tile  `json:"roundWind"`
	CurrentSeat   int           `json:"currentSeat"`
	CurrentPlayer string        `json:"currentPlayer"`
	WallRemaining int           `json:"wallRemaining"`
	Phase         string        `json:"phase"`
	Winner        int           `json:"winner"`
	Turns         int           `json:"turns"`
	Players       []PlayerState `json:"players"`
}

func (t *Table) State() State {
	s := State{
		ID:            t.ID,
		Round:         t.Round,
		RoundWind:     t.RoundWind,
		CurrentSeat:   t.current,
		CurrentPlayer: t.CurrentPlayer().Name,
		WallRemaining: t.WallRemaining(),
		Phase:         t.phase.String(),
		Winner:        t.winner,
		Turns:         t.turns,
		Players:       make([]PlayerState, 0, len(t.Players)),
	}
	for seat, p := range t.Players {
		s.Players = append(s.Players, PlayerState{
			Seat:     seat,
			Name:     p.Name,
			Score:    p.Score,
			HandSize: p.Hand.Count(),
			Discards: append([]mahjong.Tile{}, p.Discards...),
		})
	}
	return s
}

// Names 按座位顺序的玩家名
func (t *Table) Names() []string {
	names := make([]string, len(t.Players))
	for i, p := range t.Players {
		names[i] = p.Name
	}
	return names
}

// Scores 按座位顺序的点数
func (t *Table) Scores() [PlayerCount]int {
	var scores [PlayerCount]int
	for i, p := range t.Players {
		scores[i] = p.Score
	}
	return scores
}
