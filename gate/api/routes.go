package api

import (
	"context"

	"mahjong/common/http"
	"mahjong/framework/conn"
	"mahjong/framework/game"
	"mahjong/framework/game/engines/mahjong"
)

// HealthCheck 依赖服务检查，返回 nil 表示正常
type HealthCheck func(ctx context.Context) error

type Handler struct {
	rooms    *game.RoomManager
	searcher *mahjong.Searcher
	hub      *conn.Manager
	secret   string
	checks   map[string]HealthCheck
}

func NewHandler(rooms *game.RoomManager, searcher *mahjong.Searcher, hub *conn.Manager, secret string) *Handler {
	return &Handler{
		rooms:    rooms,
		searcher: searcher,
		hub:      hub,
		secret:   secret,
		checks:   make(map[string]HealthCheck),
	}
}

// AddHealthCheck 注册一个依赖服务检查
func (h *Handler) AddHealthCheck(name string, check HealthCheck) {
	h.checks[name] = check
}

// RegisterRoutes 注册所有路由
func RegisterRoutes(server *http.HttpServer, h *Handler) {
	server.GET("/ping", PingHandler)
	server.GET("/health", h.HealthHandler)
	server.GET("/ws/games/:id", h.WatchGameHandler)

	// API v1 路由组
	v1 := server.Group("/api/v1")
	{
		v1.POST("/hands/evaluate", h.EvaluateHandHandler)
		v1.GET("/records", h.PlayerRecordsHandler)

		games := v1.Group("/games")
		{
			games.POST("", h.CreateGameHandler)
			games.GET("/:id", h.GetGameHandler)
			games.GET("/:id/record", h.GetRecordHandler)

			// 座位操作需要凭证
			seat := games.Group("/:id", http.AuthMiddleware(h.secret))
			{
				seat.GET("/hand", h.GetHandHandler)
				seat.POST("/draw", h.DrawHandler)
				seat.POST("/discard", h.DiscardHandler)
			}
		}
	}
}
