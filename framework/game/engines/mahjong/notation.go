package mahjong

import "fmt"

var suffixSuit = map[byte]Suit{'m': SuitMan, 'p': SuitPin, 's': SuitSou}

var letterHonor = map[byte]Honor{
	'E': East, 'S': South, 'W': West, 'N': North,
	'P': White, 'F': Green, 'C': Red,
}

// ParseTile 解析单张牌："5m"、"9p"、"1s"、"3z"、"E"
func ParseTile(s string) (Tile, error) {
	tiles, err := ParseHand(s)
	if err != nil {
		return Tile{}, err
	}
	if len(tiles) != 1 {
		return Tile{}, fmt.Errorf("%w: %q 不是单张牌", ErrInvalidNotation, s)
	}
	return tiles[0], nil
}

// ParseHand 解析紧凑记法，例如 "123m456p789s11z EE"。
// 数字后跟花色后缀 m/p/s/z（z 为字牌 1-7：东南西北白发中），
// 大写字母 E S W N P F C 单独表示字牌，空白与逗号忽略。
func ParseHand(s string) ([]Tile, error) {
	var (
		out     []Tile
		pending []int
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ' ' || c == ',' || c == '\t':
			if len(pending) > 0 {
				return nil, fmt.Errorf("%w: 位置 %d 前的数字缺少花色", ErrInvalidNotation, i)
			}
		case c >= '0' && c <= '9':
			pending = append(pending, int(c-'0'))
		case c == 'm' || c == 'p' || c == 's':
			if len(pending) == 0 {
				return nil, fmt.Errorf("%w: 位置 %d 的花色 %q 前没有数字", ErrInvalidNotation, i, c)
			}
			suit := suffixSuit[c]
			for _, rank := range pending {
				t, err := NewNumbered(suit, rank)
				if err != nil {
					return nil, fmt.Errorf("%w: %v", ErrInvalidNotation, err)
				}
				out = append(out, t)
			}
			pending = pending[:0]
		case c == 'z':
			if len(pending) == 0 {
				return nil, fmt.Errorf("%w: 位置 %d 的 'z' 前没有数字", ErrInvalidNotation, i)
			}
			for _, n := range pending {
				if n < 1 || n > len(honorOrder) {
					return nil, fmt.Errorf("%w: 字牌编号必须为 1-7, got %d", ErrInvalidNotation, n)
				}
				out = append(out, Tile{suit: SuitHonor, honor: honorOrder[n-1]})
			}
			pending = pending[:0]
		default:
			h, ok := letterHonor[c]
			if !ok {
				return nil, fmt.Errorf("%w: 无法识别的字符 %q", ErrInvalidNotation, c)
			}
			if len(pending) > 0 {
				return nil, fmt.Errorf("%w: 位置 %d 前的数字缺少花色", ErrInvalidNotation, i)
			}
			out = append(out, Tile{suit: SuitHonor, honor: h})
		}
	}
	if len(pending) > 0 {
		return nil, fmt.Errorf("%w: 结尾的数字缺少花色", ErrInvalidNotation)
	}
	return out, nil
}

// MustParseHand 解析失败直接 panic，用于常量数据和测试
func MustParseHand(s string) []Tile {
	tiles, err := ParseHand(s)
	if err != nil {
		panic(err)
	}
	return tiles
}
