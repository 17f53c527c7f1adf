package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusInProgress = "in_progress"
	StatusWon        = "won"
	StatusExhausted  = "exhausted" // 流局
	StatusAborted    = "aborted"
)

// GameRecord 对局记录（聚合根），每张牌桌一条，按 GameID 覆盖写入
type GameRecord struct {
	ID        primitive.ObjectID `bson:"_id" json:"-"`
	GameID    string             `bson:"game_id" json:"gameId"`
	Players   []PlayerInfo       `bson:"players" json:"players"`
	StartTime time.Time          `bson:"start_time" json:"startTime"`
	EndTime   time.Time          `bson:"end_time,omitempty" json:"endTime,omitempty"`
	Duration  int                `bson:"duration" json:"duration"` // 秒
	Turns     int                `bson:"turns" json:"turns"`
	Result    *GameResult        `bson:"result,omitempty" json:"result,omitempty"`
	Status    string             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

// PlayerInfo 玩家信息
type PlayerInfo struct {
	Name      string `bson:"name" json:"name"`
	SeatIndex int    `bson:"seat_index" json:"seatIndex"`
}

// GameResult 对局结果；流局时 WinnerSeat 为 -1
type GameResult struct {
	WinnerSeat  int      `bson:"winner_seat" json:"winnerSeat"`
	WinnerName  string   `bson:"winner_name,omitempty" json:"winnerName,omitempty"`
	WinningHand []string `bson:"winning_hand,omitempty" json:"winningHand,omitempty"`
	Points      [4]int   `bson:"points" json:"points"`
}

// NewGameRecord 创建对局记录
func NewGameRecord(gameID string, players []PlayerInfo) *GameRecord {
	now := time.Now()
	return &GameRecord{
		ID:        primitive.NewObjectID(),
		GameID:    gameID,
		Players:   players,
		StartTime: now,
		Status:    StatusInProgress,
		CreatedAt: now,
	}
}

// CompleteWin 自摸和了
func (gr *GameRecord) CompleteWin(turns, seat int, hand []string, points [4]int) {
	gr.finish(turns, StatusWon)
	result := &GameResult{WinnerSeat: seat, WinningHand: hand, Points: points}
	for _, p := range gr.Players {
		if p.SeatIndex == seat {
			result.WinnerName = p.Name
		}
	}
	gr.Result = result
}

// CompleteExhausted 牌山摸完流局
func (gr *GameRecord) CompleteExhausted(turns int, points [4]int) {
	gr.finish(turns, StatusExhausted)
	gr.Result = &GameResult{WinnerSeat: -1, Points: points}
}

// Abort 中止对局
func (gr *GameRecord) Abort(turns int) {
	gr.finish(turns, StatusAborted)
}

func (gr *GameRecord) IsFinished() bool {
	return gr.Status != StatusInProgress
}

func (gr *GameRecord) finish(turns int, status string) {
	gr.EndTime = time.Now()
	gr.Duration = int(gr.EndTime.Sub(gr.StartTime).Seconds())
	gr.Turns = turns
	gr.Status = status
}
