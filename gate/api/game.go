package api

import (
	"strconv"

	"mahjong/common/http"
	"mahjong/common/log"
	"mahjong/framework/game/engines/mahjong"
)

// CreateGameHandler 创建牌桌，返回四个座位的凭证
func (h *Handler) CreateGameHandler(c *http.Context) error {
	var req struct {
		Players []string `json:"players" binding:"required"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("请求参数错误")
		return nil
	}
	created, err := h.rooms.CreateGame(c.Ctx(), req.Players)
	if err != nil {
		writeError(c, err)
		return nil
	}
	c.Success(created)
	return nil
}

// GetGameHandler 公开的牌桌状态
func (h *Handler) GetGameHandler(c *http.Context) error {
	state, err := h.rooms.GetState(c.Ctx(), c.GetParam("id"))
	if err != nil {
		writeError(c, err)
		return nil
	}
	c.Success(state)
	return nil
}

func (h *Handler) GetRecordHandler(c *http.Context) error {
	record, err := h.rooms.GameRecord(c.Ctx(), c.GetParam("id"))
	if err != nil {
		writeError(c, err)
		return nil
	}
	c.Success(record)
	return nil
}

// PlayerRecordsHandler ?player=&limit=&offset=
func (h *Handler) PlayerRecordsHandler(c *http.Context) error {
	player := c.GetQuery("player")
	if player == "" {
		c.BadRequest("player 不能为空")
		return nil
	}
	limit, err := queryInt(c, "limit", 20)
	if err != nil {
		c.BadRequest("limit 必须是整数")
		return nil
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil || offset < 0 {
		c.BadRequest("offset 必须是非负整数")
		return nil
	}
	records, err := h.rooms.PlayerRecords(c.Ctx(), player, limit, offset)
	if err != nil {
		writeError(c, err)
		return nil
	}
	c.Success(map[string]interface{}{
		"records": records,
		"total":   len(records),
	})
	return nil
}

// seat 从凭证中取座位，凭证必须属于这张牌桌
func (h *Handler) seat(c *http.Context) (int, bool) {
	claims, ok := c.SeatClaims()
	if !ok {
		c.Unauthorized("")
		return 0, false
	}
	if claims.GameID != c.GetParam("id") {
		c.Forbidden("凭证不属于该牌桌")
		return 0, false
	}
	return claims.Seat, true
}

func (h *Handler) GetHandHandler(c *http.Context) error {
	seat, ok := h.seat(c)
	if !ok {
		return nil
	}
	view, err := h.rooms.Hand(c.Ctx(), c.GetParam("id"), seat)
	if err != nil {
		writeError(c, err)
		return nil
	}
	c.Success(view)
	return nil
}

func (h *Handler) DrawHandler(c *http.Context) error {
	seat, ok := h.seat(c)
	if !ok {
		return nil
	}
	result, err := h.rooms.Draw(c.Ctx(), c.GetParam("id"), seat)
	if err != nil {
		writeError(c, err)
		return nil
	}
	c.Success(result)
	return nil
}

func (h *Handler) DiscardHandler(c *http.Context) error {
	seat, ok := h.seat(c)
	if !ok {
		return nil
	}
	var req struct {
		Tile string `json:"tile" binding:"required"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("请求参数错误")
		return nil
	}
	tile, err := mahjong.ParseTile(req.Tile)
	if err != nil {
		writeError(c, err)
		return nil
	}
	state, err := h.rooms.Discard(c.Ctx(), c.GetParam("id"), seat, tile)
	if err != nil {
		writeError(c, err)
		return nil
	}
	c.Success(state)
	return nil
}

// WatchGameHandler 升级为 websocket，推送牌桌事件
func (h *Handler) WatchGameHandler(c *http.Context) error {
	id := c.GetParam("id")
	if _, err := h.rooms.GetState(c.Ctx(), id); err != nil {
		writeError(c, err)
		return nil
	}
	// 升级失败时 upgrader 已写回 HTTP 错误
	if err := h.hub.ServeWS(c.Writer(), c.Request(), id); err != nil {
		log.Warn("websocket 升级失败 %s: %v", id, err)
	}
	return nil
}

func queryInt(c *http.Context, key string, def int) (int, error) {
	v := c.GetQuery(key)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}
