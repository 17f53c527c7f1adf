package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"mahjong/common/jwts"
	"mahjong/common/log"
	"mahjong/core/domain/entity"
	"mahjong/core/domain/repository"
	"mahjong/framework/game/engines/mahjong"

	"github.com/google/uuid"
)

// RoomManager 管理所有牌桌。同一张牌桌的操作串行执行，不同牌桌互不阻塞
type RoomManager struct {
	tables map[string]*tableEntry // gameID -> 牌桌
	mu     sync.RWMutex

	searcher    *mahjong.Searcher
	snapshots   repository.SnapshotRepository
	records     repository.GameRecordRepository
	publisher   Publisher
	secret      string
	tokenExpire time.Duration
	snapshotTTL time.Duration
	newRand     func() *rand.Rand
}

type tableEntry struct {
	mu     sync.Mutex
	table  *Table
	record *entity.GameRecord
}

type RoomOption func(*RoomManager)

func WithSnapshotRepository(repo repository.SnapshotRepository, ttl time.Duration) RoomOption {
	return func(rm *RoomManager) {
		rm.snapshots = repo
		rm.snapshotTTL = ttl
	}
}

func WithGameRecordRepository(repo repository.GameRecordRepository) RoomOption {
	return func(rm *RoomManager) {
		rm.records = repo
	}
}

func WithPublisher(p Publisher) RoomOption {
	return func(rm *RoomManager) {
		rm.publisher = p
	}
}

func WithTableSearcher(s *mahjong.Searcher) RoomOption {
	return func(rm *RoomManager) {
		rm.searcher = s
	}
}

// WithTokenSecret 座位凭证的签名密钥与有效期
func WithTokenSecret(secret string, expire time.Duration) RoomOption {
	return func(rm *RoomManager) {
		rm.secret = secret
		rm.tokenExpire = expire
	}
}

// WithRandSource 每张新牌桌的随机源，测试中用来固定牌山
func WithRandSource(fn func() *rand.Rand) RoomOption {
	return func(rm *RoomManager) {
		rm.newRand = fn
	}
}

func NewRoomManager(opts ...RoomOption) *RoomManager {
	rm := &RoomManager{
		tables:   make(map[string]*tableEntry),
		searcher: mahjong.NewSearcher(nil),
	}
	for _, opt := range opts {
		opt(rm)
	}
	return rm
}

// SeatToken 座位凭证
type SeatToken struct {
	Seat   int    `json:"seat"`
	Player string `json:"player"`
	Token  string `json:"token"`
}

type CreatedGame struct {
	ID     string      `json:"id"`
	State  State       `json:"state"`
	Tokens []SeatToken `json:"tokens"`
}

// HandView 玩家自己看到的手牌
type HandView struct {
	Seat   int            `json:"seat"`
	Tiles  []mahjong.Tile `json:"tiles"`
	Win    bool           `json:"win"`
	Tenpai bool           `json:"tenpai"`
	Waits  []mahjong.Tile `json:"waits"`
}

type DrawResult struct {
	Tile      *mahjong.Tile `json:"tile,omitempty"`
	Win       bool          `json:"win"`
	Exhausted bool          `json:"exhausted"`
	State     State         `json:"state"`
}

func (rm *RoomManager) tableOptions() []TableOption {
	opts := []TableOption{WithSearcher(rm.searcher)}
	if rm.newRand != nil {
		opts = append(opts, WithRand(rm.newRand()))
	}
	return opts
}

// CreateGame 创建牌桌、开局并签发四个座位凭证
func (rm *RoomManager) CreateGame(ctx context.Context, names []string) (*CreatedGame, error) {
	id := uuid.NewString()
	table, err := NewTable(id, names, rm.tableOptions()...)
	if err != nil {
		return nil, err
	}
	if err := table.Start(); err != nil {
		return nil, err
	}

	tokens := make([]SeatToken, 0, PlayerCount)
	infos := make([]entity.PlayerInfo, 0, PlayerCount)
	for seat, name := range table.Names() {
		token, err := jwts.GetToken(jwts.NewSeatClaims(id, seat, name, rm.tokenExpire), rm.secret)
		if err != nil {
			return nil, fmt.Errorf("签发座位凭证失败: %w", err)
		}
		tokens = append(tokens, SeatToken{Seat: seat, Player: name, Token: token})
		infos = append(infos, entity.PlayerInfo{Name: name, SeatIndex: seat})
	}

	entry := &tableEntry{table: table, record: entity.NewGameRecord(id, infos)}
	entry.record.StartTime = table.StartedAt()

	rm.mu.Lock()
	rm.tables[id] = entry
	rm.mu.Unlock()

	entry.mu.Lock()
	defer entry.mu.Unlock()
	rm.saveRecord(ctx, entry.record)
	rm.afterAction(ctx, entry, newEvent(table, EventGameStarted, table.CurrentSeat(), nil))

	log.Info("RoomManager 创建牌桌 %s，玩家: %v", id, table.Names())
	return &CreatedGame{ID: id, State: table.State(), Tokens: tokens}, nil
}

// entry 内存中没有时尝试从快照恢复
func (rm *RoomManager) entry(ctx context.Context, id string) (*tableEntry, error) {
	rm.mu.RLock()
	entry, ok := rm.tables[id]
	rm.mu.RUnlock()
	if ok {
		return entry, nil
	}
	if rm.snapshots == nil {
		return nil, ErrGameNotFound
	}

	snap, err := rm.snapshots.LoadSnapshot(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSnapshotNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	table, err := RestoreTable(snap, rm.tableOptions()...)
	if err != nil {
		return nil, err
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()
	if existing, ok := rm.tables[id]; ok {
		return existing, nil
	}
	entry = &tableEntry{table: table}
	rm.tables[id] = entry
	log.Info("RoomManager 从快照恢复牌桌 %s", id)
	return entry, nil
}

func (rm *RoomManager) withTable(ctx context.Context, id string, fn func(*tableEntry) error) error {
	entry, err := rm.entry(ctx, id)
	if err != nil {
		return err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return fn(entry)
}

func (rm *RoomManager) GetState(ctx context.Context, id string) (State, error) {
	var state State
	err := rm.withTable(ctx, id, func(e *tableEntry) error {
		state = e.table.State()
		return nil
	})
	return state, err
}

func (rm *RoomManager) Hand(ctx context.Context, id string, seat int) (*HandView, error) {
	var view *HandView
	err := rm.withTable(ctx, id, func(e *tableEntry) error {
		p, err := e.table.Player(seat)
		if err != nil {
			return err
		}
		tiles := p.Hand.Tiles()
		view = &HandView{
			Seat:   seat,
			Tiles:  tiles,
			Win:    rm.searcher.CheckWin(tiles),
			Tenpai: rm.searcher.CheckTenpai(tiles),
			Waits:  rm.searcher.WaitingTiles(tiles).Sorted(),
		}
		return nil
	})
	return view, err
}

// Draw seat 必须是当前玩家。牌山摸完不是错误，返回 Exhausted
func (rm *RoomManager) Draw(ctx context.Context, id string, seat int) (*DrawResult, error) {
	var result *DrawResult
	err := rm.withTable(ctx, id, func(e *tableEntry) error {
		t := e.table
		if t.Phase() == PhaseDraw && t.CurrentSeat() != seat {
			return ErrNotYourTurn
		}
		tile, err := t.DrawPhase()
		switch {
		case errors.Is(err, mahjong.ErrWallExhausted):
			result = &DrawResult{Exhausted: true, State: t.State()}
			rm.finish(ctx, e)
			rm.afterAction(ctx, e, newEvent(t, EventWallExhausted, seat, nil))
			return nil
		case err != nil:
			return err
		}

		result = &DrawResult{Tile: &tile, Win: t.Winner() == seat, State: t.State()}
		rm.afterAction(ctx, e, newEvent(t, EventTileDrawn, seat, nil))
		if result.Win {
			rm.finish(ctx, e)
			rm.afterAction(ctx, e, newEvent(t, EventGameWon, seat, &tile))
		}
		return nil
	})
	return result, err
}

func (rm *RoomManager) Discard(ctx context.Context, id string, seat int, tile mahjong.Tile) (State, error) {
	var state State
	err := rm.withTable(ctx, id, func(e *tableEntry) error {
		t := e.table
		if t.Phase() == PhaseDiscard && t.CurrentSeat() != seat {
			return ErrNotYourTurn
		}
		if err := t.DiscardPhase(tile); err != nil {
			return err
		}
		state = t.State()
		rm.afterAction(ctx, e, newEvent(t, EventTileDiscarded, seat, &tile))
		return nil
	})
	return state, err
}

// Stats 牌桌数与玩家数
func (rm *RoomManager) Stats() (games, players int) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	games = len(rm.tables)
	return games, games * PlayerCount
}

// afterAction 保存快照并发布事件；外部存储失败只记日志，内存中的牌桌为准
func (rm *RoomManager) afterAction(ctx context.Context, e *tableEntry, event Event) {
	if rm.snapshots != nil {
		if err := rm.snapshots.SaveSnapshot(ctx, e.table.Snapshot(), rm.snapshotTTL); err != nil {
			log.Warn("RoomManager 保存快照失败 %s: %v", e.table.ID, err)
		}
	}
	if rm.publisher != nil {
		if err := rm.publisher.Publish(ctx, event); err != nil {
			log.Warn("RoomManager 发布事件失败 %s %s: %v", event.GameID, event.Type, err)
		}
	}
}

func (rm *RoomManager) finish(ctx context.Context, e *tableEntry) {
	t := e.table
	if e.record == nil {
		e.record = rm.loadRecord(ctx, t)
	}
	if t.Winner() != NoWinner {
		winner := t.Players[t.Winner()]
		e.record.CompleteWin(t.Turns(), t.Winner(), tilesToStrings(winner.Hand.Tiles()), t.Scores())
	} else {
		e.record.CompleteExhausted(t.Turns(), t.Scores())
	}
	rm.saveRecord(ctx, e.record)
	log.Info("RoomManager 牌桌 %s 结束: %s", t.ID, e.record.Status)
}

func (rm *RoomManager) loadRecord(ctx context.Context, t *Table) *entity.GameRecord {
	if rm.records != nil {
		if record, err := rm.records.FindGameRecord(ctx, t.ID); err == nil {
			return record
		}
	}
	infos := make([]entity.PlayerInfo, 0, PlayerCount)
	for seat, name := range t.Names() {
		infos = append(infos, entity.PlayerInfo{Name: name, SeatIndex: seat})
	}
	record := entity.NewGameRecord(t.ID, infos)
	record.StartTime = t.StartedAt()
	return record
}

func (rm *RoomManager) saveRecord(ctx context.Context, record *entity.GameRecord) {
	if rm.records == nil {
		return
	}
	if err := rm.records.SaveGameRecord(ctx, record); err != nil {
		log.Warn("RoomManager 保存对局记录失败 %s: %v", record.GameID, err)
	}
}

// GameRecord 查询对局记录
func (rm *RoomManager) GameRecord(ctx context.Context, id string) (*entity.GameRecord, error) {
	if rm.records == nil {
		return nil, repository.ErrGameRecordNotFound
	}
	return rm.records.FindGameRecord(ctx, id)
}

// PlayerRecords 按开始时间倒序查询玩家的对局记录
func (rm *RoomManager) PlayerRecords(ctx context.Context, name string, limit, offset int) ([]*entity.GameRecord, error) {
	if rm.records == nil {
		return nil, nil
	}
	return rm.records.FindGameRecordsByPlayer(ctx, name, limit, offset)
}
