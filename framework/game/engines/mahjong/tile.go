package mahjong

import (
	"fmt"
	"sort"
	"strconv"
)

// Suit 牌的种类：三种数牌 + 字牌
type Suit int8

const (
	SuitMan   Suit = iota // 万子
	SuitPin               // 筒子
	SuitSou               // 索子
	SuitHonor             // 字牌
)

// Honor 字牌种类，HonorNone 表示数牌
type Honor int8

const (
	HonorNone Honor = iota
	East            // 东
	South           // 南
	West            // 西
	North           // 北
	White           // 白
	Green           // 发
	Red             // 中
)

var suitSuffix = [...]byte{SuitMan: 'm', SuitPin: 'p', SuitSou: 's'}

var honorLetter = [...]string{
	East: "E", South: "S", West: "W", North: "N",
	White: "P", Green: "F", Red: "C",
}

var honorName = [...]string{
	East: "东", South: "南", West: "西", North: "北",
	White: "白", Green: "发", Red: "中",
}

func (s Suit) IsNumbered() bool { return s >= SuitMan && s <= SuitSou }

func (s Suit) String() string {
	switch s {
	case SuitMan:
		return "万"
	case SuitPin:
		return "筒"
	case SuitSou:
		return "索"
	case SuitHonor:
		return "字"
	default:
		return "未知"
	}
}

func (h Honor) valid() bool { return h >= East && h <= Red }

func (h Honor) String() string {
	if !h.valid() {
		return "未知"
	}
	return honorName[h]
}

// Tile 一张牌的身份。构造后不可变，只能通过 NewTile 系列函数得到合法值
type Tile struct {
	suit  Suit
	rank  int8
	honor Honor
}

// NewTile 按 花色/点数/字牌 构造一张牌，组合不合法时返回 ErrInvalidTileSpec
func NewTile(suit Suit, rank int, honor Honor) (Tile, error) {
	switch {
	case suit.IsNumbered():
		if rank < 1 || rank > 9 {
			return Tile{}, fmt.Errorf("%w: 数牌点数必须为 1-9, got %d", ErrInvalidTileSpec, rank)
		}
		if honor != HonorNone {
			return Tile{}, fmt.Errorf("%w: 数牌不能带字牌种类 %d", ErrInvalidTileSpec, honor)
		}
		return Tile{suit: suit, rank: int8(rank)}, nil
	case suit == SuitHonor:
		if !honor.valid() {
			return Tile{}, fmt.Errorf("%w: 字牌必须指定种类, got %d", ErrInvalidTileSpec, honor)
		}
		if rank != 0 {
			return Tile{}, fmt.Errorf("%w: 字牌不能带点数 %d", ErrInvalidTileSpec, rank)
		}
		return Tile{suit: SuitHonor, honor: honor}, nil
	default:
		return Tile{}, fmt.Errorf("%w: 未知花色 %d", ErrInvalidTileSpec, suit)
	}
}

func NewNumbered(suit Suit, rank int) (Tile, error) {
	return NewTile(suit, rank, HonorNone)
}

func NewHonor(honor Honor) (Tile, error) {
	return NewTile(SuitHonor, 0, honor)
}

// MustTile 用于静态数据和测试，非法组合直接 panic
func MustTile(suit Suit, rank int, honor Honor) Tile {
	t, err := NewTile(suit, rank, honor)
	if err != nil {
		panic(err)
	}
	return t
}

func (t Tile) Suit() Suit   { return t.suit }
func (t Tile) Rank() int    { return int(t.rank) }
func (t Tile) Honor() Honor { return t.honor }

// Index 0-33 的紧凑编号：万 0-8，筒 9-17，索 18-26，字 27-33
func (t Tile) Index() int {
	if t.suit == SuitHonor {
		return 27 + int(t.honor) - 1
	}
	return int(t.suit)*9 + int(t.rank) - 1
}

func tileFromIndex(i int) Tile {
	if i >= 27 {
		return Tile{suit: SuitHonor, honor: Honor(i - 27 + 1)}
	}
	return Tile{suit: Suit(i / 9), rank: int8(i%9 + 1)}
}

// Compare 全序：万 < 筒 < 索 < 字；数牌按点数，字牌按 东南西北白发中
func (t Tile) Compare(o Tile) int {
	a, b := t.Index(), o.Index()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (t Tile) Less(o Tile) bool { return t.Compare(o) < 0 }

// IsTerminal 老头牌（数牌 1、9）
func (t Tile) IsTerminal() bool {
	return t.suit.IsNumbered() && (t.rank == 1 || t.rank == 9)
}

func (t Tile) IsHonor() bool { return t.suit == SuitHonor }

// IsSimple 中张牌（数牌 2-8）
func (t Tile) IsSimple() bool {
	return t.suit.IsNumbered() && t.rank >= 2 && t.rank <= 8
}

// IsTerminalOrHonor 幺九牌
func (t Tile) IsTerminalOrHonor() bool { return t.IsTerminal() || t.IsHonor() }

// String 紧凑记法：数牌 "5m"/"3p"/"9s"，字牌 E S W N P F C
func (t Tile) String() string {
	if t.suit == SuitHonor {
		if !t.honor.valid() {
			return "?"
		}
		return honorLetter[t.honor]
	}
	if !t.suit.IsNumbered() || t.rank < 1 || t.rank > 9 {
		return "?"
	}
	return strconv.Itoa(int(t.rank)) + string(suitSuffix[t.suit])
}

// DisplayName 中文显示名，如 "5万"、"东"
func (t Tile) DisplayName() string {
	if t.suit == SuitHonor {
		return t.honor.String()
	}
	return strconv.Itoa(int(t.rank)) + t.suit.String()
}

func (t Tile) MarshalText() ([]byte, error) {
	if t.String() == "?" {
		return nil, fmt.Errorf("%w: 零值牌不能序列化", ErrInvalidTileSpec)
	}
	return []byte(t.String()), nil
}

func (t *Tile) UnmarshalText(text []byte) error {
	parsed, err := ParseTile(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// SortTiles 原地按全序排序
func SortTiles(tiles []Tile) {
	sort.SliceStable(tiles, func(i, j int) bool { return tiles[i].Less(tiles[j]) })
}

// SortedCopy 返回排好序的副本，不改动入参
func SortedCopy(tiles []Tile) []Tile {
	out := make([]Tile, len(tiles))
	copy(out, tiles)
	SortTiles(out)
	return out
}

// TileSet 无序的牌身份集合
type TileSet map[Tile]struct{}

func NewTileSet(tiles ...Tile) TileSet {
	s := make(TileSet, len(tiles))
	for _, t := range tiles {
		s[t] = struct{}{}
	}
	return s
}

func (s TileSet) Add(t Tile) { s[t] = struct{}{} }

func (s TileSet) Contains(t Tile) bool {
	_, ok := s[t]
	return ok
}

func (s TileSet) Len() int { return len(s) }

// Sorted 按全序输出，供展示使用
func (s TileSet) Sorted() []Tile {
	out := make([]Tile, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	SortTiles(out)
	return out
}
