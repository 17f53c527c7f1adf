package mahjong

import (
	"mahjong/common/cache"
)

const (
	agariKeyPrefix = "agari:"
	waitsKeyPrefix = "waits:"
)

// Searcher 在纯函数判定之上加一层读穿缓存，结果与不带缓存时完全一致。
// 缓存由 ristretto 自行加锁，可被多个 goroutine 共享
type Searcher struct {
	cache *cache.GeneralCache
}

// NewSearcher c 为 nil 时不做缓存
func NewSearcher(c *cache.GeneralCache) *Searcher {
	return &Searcher{cache: c}
}

// CheckWin 带缓存的和牌判定
func (s *Searcher) CheckWin(hand []Tile) bool {
	if len(hand) != HandSizeComplete {
		return false
	}
	h := Hand34FromTiles(hand)
	if s.cache == nil {
		return isAgari(h)
	}

	key := agariKeyPrefix + h.key()
	if v, ok := s.cache.Get(key); ok {
		if agari, ok := v.(bool); ok {
			return agari
		}
	}
	agari := isAgari(h)
	s.cache.Set(key, agari)
	return agari
}

// CheckTenpai 听牌即听牌集合非空
func (s *Searcher) CheckTenpai(hand []Tile) bool {
	if s.cache == nil {
		return CheckTenpai(hand)
	}
	return s.WaitingTiles(hand).Len() > 0
}

// WaitingTiles 带缓存的听牌枚举，每次返回新的集合
func (s *Searcher) WaitingTiles(hand []Tile) TileSet {
	if len(hand) != HandSizeTenpai {
		return make(TileSet)
	}
	if s.cache == nil {
		return WaitingTiles(hand)
	}

	key := waitsKeyPrefix + Hand34FromTiles(hand).key()
	if v, ok := s.cache.Get(key); ok {
		if waits, ok := v.([]Tile); ok {
			return NewTileSet(waits...)
		}
	}
	waits := WaitingTiles(hand)
	s.cache.Set(key, waits.Sorted())
	return waits
}

// DecomposeWin 拆解只用于展示，不缓存
func (s *Searcher) DecomposeWin(hand []Tile) (Agari, bool) {
	return DecomposeWin(hand)
}

// Stats 缓存命中情况
func (s *Searcher) Stats() (hits, misses uint64) {
	if s.cache == nil {
		return 0, 0
	}
	return s.cache.Stats()
}
