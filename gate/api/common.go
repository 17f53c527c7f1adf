package api

import (
	"errors"
	stdhttp "net/http"
	"time"

	"mahjong/common/http"
	"mahjong/common/log"
	"mahjong/core/domain/repository"
	"mahjong/framework/game"
	"mahjong/framework/game/engines/mahjong"
)

// PingHandler ping 检查
func PingHandler(c *http.Context) error {
	c.Success(map[string]interface{}{
		"message":   "pong",
		"timestamp": time.Now().Unix(),
		"service":   "gate",
	})
	return nil
}

// HealthHandler 健康检查
func (h *Handler) HealthHandler(c *http.Context) error {
	healthy := true
	services := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(c.Ctx()); err != nil {
			healthy = false
			services[name] = err.Error()
			continue
		}
		services[name] = "ok"
	}
	games, players := h.rooms.Stats()
	hits, misses := h.searcher.Stats()

	status := map[string]interface{}{
		"healthy":   healthy,
		"services":  services,
		"games":     games,
		"players":   players,
		"cache":     map[string]uint64{"hits": hits, "misses": misses},
		"timestamp": time.Now().Unix(),
	}
	if !healthy {
		c.JSON(stdhttp.StatusServiceUnavailable, http.NewResponse(http.CodeServerError, "服务不健康", status))
		return nil
	}
	c.Success(status)
	return nil
}

// writeError 把领域错误映射为响应码
func writeError(c *http.Context, err error) {
	switch {
	case errors.Is(err, game.ErrGameNotFound),
		errors.Is(err, repository.ErrGameRecordNotFound):
		c.NotFound(err.Error())
	case errors.Is(err, game.ErrNotYourTurn),
		errors.Is(err, game.ErrWrongPhase),
		errors.Is(err, game.ErrGameOver),
		errors.Is(err, game.ErrGameNotStart):
		c.Conflict(err.Error())
	case errors.Is(err, game.ErrTileNotInHand),
		errors.Is(err, game.ErrPlayerCount),
		errors.Is(err, game.ErrInvalidSeat),
		errors.Is(err, mahjong.ErrInvalidNotation),
		errors.Is(err, mahjong.ErrWrongHandSize),
		errors.Is(err, mahjong.ErrInvalidTileSpec):
		c.BadRequest(err.Error())
	default:
		log.Error("%s %s 处理失败: %v", c.Method(), c.Path(), err)
		c.InternalServerError("")
	}
}
