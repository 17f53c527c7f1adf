package mahjong

import "strings"

// Hand 玩家手牌，始终保持排序
type Hand struct {
	tiles []Tile
}

func NewHand(tiles ...Tile) *Hand {
	h := &Hand{tiles: make([]Tile, 0, HandSizeComplete)}
	h.AddAll(tiles)
	return h
}

func (h *Hand) Add(t Tile) {
	h.tiles = append(h.tiles, t)
	SortTiles(h.tiles)
}

func (h *Hand) AddAll(tiles []Tile) {
	h.tiles = append(h.tiles, tiles...)
	SortTiles(h.tiles)
}

// Discard 打出一张同身份的牌，手中没有返回 false
func (h *Hand) Discard(t Tile) bool {
	for i, own := range h.tiles {
		if own == t {
			h.tiles = append(h.tiles[:i], h.tiles[i+1:]...)
			return true
		}
	}
	return false
}

func (h *Hand) Count() int { return len(h.tiles) }

// Tiles 手牌副本
func (h *Hand) Tiles() []Tile {
	out := make([]Tile, len(h.tiles))
	copy(out, h.tiles)
	return out
}

func (h *Hand) At(i int) (Tile, bool) {
	if i < 0 || i >= len(h.tiles) {
		return Tile{}, false
	}
	return h.tiles[i], true
}

func (h *Hand) IsWin() bool { return CheckWin(h.tiles) }

func (h *Hand) IsTenpai() bool { return CheckTenpai(h.tiles) }

func (h *Hand) Waits() TileSet { return WaitingTiles(h.tiles) }

func (h *Hand) String() string { return FormatTiles(h.tiles) }

// FormatTiles 空格分隔的记法
func FormatTiles(tiles []Tile) string {
	parts := make([]string, len(tiles))
	for i, t := range tiles {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}
