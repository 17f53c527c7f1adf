package api

import (
	"fmt"

	"mahjong/common/http"
	"mahjong/framework/game/engines/mahjong"
)

type evaluateRequest struct {
	Hand   string `json:"hand" binding:"required"`
	Strict bool   `json:"strict"` // 张数不是 13 或 14 时返回 400
}

type evaluateResponse struct {
	Hand   string         `json:"hand"`
	Count  int            `json:"count"`
	Win    bool           `json:"win"`
	Tenpai bool           `json:"tenpai"`
	Waits  []mahjong.Tile `json:"waits"`
	Agari  *mahjong.Agari `json:"agari,omitempty"`
}

// EvaluateHandHandler 判断任意一手牌。张数不对时各项为 false，不算错误
func (h *Handler) EvaluateHandHandler(c *http.Context) error {
	var req evaluateRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("请求参数错误")
		return nil
	}
	tiles, err := mahjong.ParseHand(req.Hand)
	if err != nil {
		writeError(c, err)
		return nil
	}
	if req.Strict && len(tiles) != mahjong.HandSizeTenpai && len(tiles) != mahjong.HandSizeComplete {
		writeError(c, fmt.Errorf("%w: %d", mahjong.ErrWrongHandSize, len(tiles)))
		return nil
	}

	resp := evaluateResponse{
		Hand:   mahjong.FormatTiles(mahjong.SortedCopy(tiles)),
		Count:  len(tiles),
		Win:    h.searcher.CheckWin(tiles),
		Tenpai: h.searcher.CheckTenpai(tiles),
		Waits:  append([]mahjong.Tile{}, h.searcher.WaitingTiles(tiles).Sorted()...),
	}
	if resp.Win {
		if agari, ok := h.searcher.DecomposeWin(tiles); ok {
			resp.Agari = &agari
		}
	}
	c.Success(resp)
	return nil
}
