package mahjong

import (
	"math/rand"
	"time"
)

const (
	KindCount   = 34  // 牌的种类数
	CopiesLimit = 4   // 每种牌的张数
	TileLimit   = 136 // 整副牌张数
)

var numberedSuits = [3]Suit{SuitMan, SuitPin, SuitSou}

// 字牌固定顺序：四风 + 三元
var honorOrder = [7]Honor{East, South, West, North, White, Green, Red}

// tileKinds 34 种牌身份的静态表，顺序即全序
var tileKinds = buildTileKinds()

func buildTileKinds() [KindCount]Tile {
	var kinds [KindCount]Tile
	i := 0
	for _, suit := range numberedSuits {
		for rank := 1; rank <= 9; rank++ {
			kinds[i] = Tile{suit: suit, rank: int8(rank)}
			i++
		}
	}
	for _, h := range honorOrder {
		kinds[i] = Tile{suit: SuitHonor, honor: h}
		i++
	}
	return kinds
}

// AllTileKinds 返回 34 种牌身份的新切片，调用方可随意修改
func AllTileKinds() []Tile {
	out := make([]Tile, KindCount)
	copy(out, tileKinds[:])
	return out
}

// Wall 牌山，从尾部摸牌
type Wall struct {
	tiles []Tile
	rng   *rand.Rand
}

// NewWall 生成 136 张牌并洗牌，rng 为 nil 时使用时间种子
func NewWall(rng *rand.Rand) *Wall {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	w := &Wall{rng: rng}
	w.initializeTiles()
	w.Shuffle()
	return w
}

// NewOrderedWall 未洗牌的牌山，按全序排列（测试、复盘用）
func NewOrderedWall() *Wall {
	w := &Wall{}
	w.initializeTiles()
	return w
}

// RestoreWall 从快照恢复牌山，最后一张最先被摸到
func RestoreWall(tiles []Tile) *Wall {
	w := &Wall{tiles: make([]Tile, len(tiles))}
	copy(w.tiles, tiles)
	return w
}

func (w *Wall) initializeTiles() {
	w.tiles = make([]Tile, 0, TileLimit)
	for _, kind := range tileKinds {
		for i := 0; i < CopiesLimit; i++ {
			w.tiles = append(w.tiles, kind)
		}
	}
}

func (w *Wall) Shuffle() {
	if w.rng == nil {
		w.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	w.rng.Shuffle(len(w.tiles), func(i, j int) {
		w.tiles[i], w.tiles[j] = w.tiles[j], w.tiles[i]
	})
}

// Draw 摸一张，牌山为空时返回 ErrWallExhausted
func (w *Wall) Draw() (Tile, error) {
	if len(w.tiles) == 0 {
		return Tile{}, ErrWallExhausted
	}
	last := len(w.tiles) - 1
	t := w.tiles[last]
	w.tiles = w.tiles[:last]
	return t, nil
}

// DrawN 一次摸 n 张；不够时不摸，返回 ErrNotEnoughTiles
func (w *Wall) DrawN(n int) ([]Tile, error) {
	if n > len(w.tiles) {
		return nil, ErrNotEnoughTiles
	}
	drawn := make([]Tile, 0, n)
	for i := 0; i < n; i++ {
		t, _ := w.Draw()
		drawn = append(drawn, t)
	}
	return drawn, nil
}

func (w *Wall) Remaining() int { return len(w.tiles) }

func (w *Wall) IsEmpty() bool { return len(w.tiles) == 0 }

// Tiles 剩余牌的副本，用于快照
func (w *Wall) Tiles() []Tile {
	out := make([]Tile, len(w.tiles))
	copy(out, w.tiles)
	return out
}
