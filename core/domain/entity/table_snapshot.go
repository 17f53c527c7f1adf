package entity

import "time"

// TableSnapshot 牌桌完整状态，牌统一用记法字符串保存（"5m"、"E"）
type TableSnapshot struct {
	GameID      string           `json:"gameId"`
	Round       int              `json:"round"`
	RoundWind   string           `json:"roundWind"`
	CurrentSeat int              `json:"currentSeat"`
	Phase       string           `json:"phase"`
	Winner      int              `json:"winner"`
	Turns       int              `json:"turns"`
	Wall        []string         `json:"wall"`
	Players     []PlayerSnapshot `json:"players"`
	StartedAt   time.Time        `json:"startedAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

type PlayerSnapshot struct {
	Name     string   `json:"name"`
	Score    int      `json:"score"`
	Hand     []string `json:"hand"`
	Discards []string `json:"discards"`
}
