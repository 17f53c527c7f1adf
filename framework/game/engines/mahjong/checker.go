package mahjong

const (
	HandSizeComplete = 14 // 和牌时的手牌张数
	HandSizeTenpai   = 13 // 听牌判定时的手牌张数
)

// Hand34 按 Index 计数的手牌
type Hand34 [KindCount]int

func Hand34FromTiles(tiles []Tile) Hand34 {
	var h Hand34
	for _, t := range tiles {
		h[t.Index()]++
	}
	return h
}

func (h Hand34) key() string {
	var b [KindCount]byte
	for i := 0; i < KindCount; i++ {
		b[i] = byte(h[i])
	}
	return string(b[:])
}

// MeldKind 面子类型
type MeldKind int

const (
	Triplet  MeldKind = iota // 刻子
	Sequence                 // 顺子
)

func (k MeldKind) String() string {
	if k == Triplet {
		return "triplet"
	}
	return "sequence"
}

func (k MeldKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Meld 由三张牌组成的面子
type Meld struct {
	Kind  MeldKind `json:"kind"`
	Tiles [3]Tile  `json:"tiles"`
}

// Agari 一种和牌拆解：雀头 + 面子
type Agari struct {
	Pair  Tile   `json:"pair"`
	Melds []Meld `json:"melds"`
}

// CanFormMelds 判断牌能否恰好全部拆成刻子/顺子，张数不是 3 的倍数直接返回 false
func CanFormMelds(tiles []Tile) bool {
	if len(tiles)%3 != 0 {
		return false
	}
	h := Hand34FromTiles(tiles)
	return canFormMelds(&h, len(tiles)/3)
}

// canFormMelds 核心：取最小的牌，它只能属于以它开头的刻子或顺子
func canFormMelds(h *Hand34, need int) bool {
	i := firstNonZero(h)
	if i == -1 {
		return need == 0
	}
	if need == 0 {
		return false
	}

	// 刻子
	if (*h)[i] >= 3 {
		(*h)[i] -= 3
		ok := canFormMelds(h, need-1)
		(*h)[i] += 3
		if ok {
			return true
		}
	}
	// 顺子（仅数牌，点数 <= 7）
	if canStartSequence(i) && (*h)[i+1] > 0 && (*h)[i+2] > 0 {
		(*h)[i]--
		(*h)[i+1]--
		(*h)[i+2]--
		ok := canFormMelds(h, need-1)
		(*h)[i]++
		(*h)[i+1]++
		(*h)[i+2]++
		if ok {
			return true
		}
	}
	return false
}

func firstNonZero(h *Hand34) int {
	for k := 0; k < KindCount; k++ {
		if (*h)[k] > 0 {
			return k
		}
	}
	return -1
}

// canStartSequence 编号 i 的牌是否为点数 1-7 的数牌
func canStartSequence(i int) bool {
	return i < 27 && i%9 <= 6
}

// Decompose 返回第一种找到的面子拆解，搜索顺序与 CanFormMelds 相同（先刻子后顺子）
func Decompose(tiles []Tile) ([]Meld, bool) {
	if len(tiles)%3 != 0 {
		return nil, false
	}
	h := Hand34FromTiles(tiles)
	melds := make([]Meld, 0, len(tiles)/3)
	return decompose(&h, melds)
}

func decompose(h *Hand34, path []Meld) ([]Meld, bool) {
	i := firstNonZero(h)
	if i == -1 {
		return path, true
	}
	t := tileFromIndex(i)

	if (*h)[i] >= 3 {
		(*h)[i] -= 3
		out, ok := decompose(h, append(path, Meld{Kind: Triplet, Tiles: [3]Tile{t, t, t}}))
		(*h)[i] += 3
		if ok {
			return out, true
		}
	}
	if canStartSequence(i) && (*h)[i+1] > 0 && (*h)[i+2] > 0 {
		(*h)[i]--
		(*h)[i+1]--
		(*h)[i+2]--
		seq := Meld{Kind: Sequence, Tiles: [3]Tile{t, tileFromIndex(i + 1), tileFromIndex(i + 2)}}
		out, ok := decompose(h, append(path, seq))
		(*h)[i]++
		(*h)[i+1]++
		(*h)[i+2]++
		if ok {
			return out, true
		}
	}
	return nil, false
}

// isAgari 4 面子 + 1 雀头，逐个尝试雀头
func isAgari(h Hand34) bool {
	for j := 0; j < KindCount; j++ {
		if h[j] < 2 {
			continue
		}
		work := h
		work[j] -= 2
		if canFormMelds(&work, 4) {
			return true
		}
	}
	return false
}

// CheckWin 14 张是否和牌；张数不对直接返回 false
func CheckWin(hand []Tile) bool {
	if len(hand) != HandSizeComplete {
		return false
	}
	return isAgari(Hand34FromTiles(hand))
}

// DecomposeWin 返回一种和牌拆解，雀头按全序从小到大尝试
func DecomposeWin(hand []Tile) (Agari, bool) {
	if len(hand) != HandSizeComplete {
		return Agari{}, false
	}
	h := Hand34FromTiles(hand)
	for j := 0; j < KindCount; j++ {
		if h[j] < 2 {
			continue
		}
		work := h
		work[j] -= 2
		if melds, ok := decompose(&work, make([]Meld, 0, 4)); ok {
			return Agari{Pair: tileFromIndex(j), Melds: melds}, true
		}
	}
	return Agari{}, false
}

// CheckTenpai 13 张是否听牌：34 种牌逐一加入，任一和牌即听牌
func CheckTenpai(hand []Tile) bool {
	if len(hand) != HandSizeTenpai {
		return false
	}
	h13 := Hand34FromTiles(hand)
	for _, candidate := range AllTileKinds() {
		work := h13
		work[candidate.Index()]++
		if isAgari(work) {
			return true
		}
	}
	return false
}

// WaitingTiles 听哪些牌；不限制手中已有的张数，张数不对返回空集合
func WaitingTiles(hand []Tile) TileSet {
	waits := make(TileSet)
	if len(hand) != HandSizeTenpai {
		return waits
	}
	h13 := Hand34FromTiles(hand)
	for _, candidate := range AllTileKinds() {
		work := h13
		work[candidate.Index()]++
		if isAgari(work) {
			waits.Add(candidate)
		}
	}
	return waits
}
