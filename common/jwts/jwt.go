package jwts

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrTokenInvalid = errors.New("token not valid")

// SeatClaims 牌桌座位凭证：持有者只能操作对应牌桌的对应座位
type SeatClaims struct {
	GameID string `json:"gameID"`
	Seat   int    `json:"seat"`
	Player string `json:"player"`
	jwt.RegisteredClaims
}

func NewSeatClaims(gameID string, seat int, player string, expire time.Duration) *SeatClaims {
	now := time.Now()
	claims := &SeatClaims{
		GameID: gameID,
		Seat:   seat,
		Player: player,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  player,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if expire > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(expire))
	}
	return claims
}

func GetToken(claims *SeatClaims, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseToken(token, secret string) (*SeatClaims, error) {
	claims := new(SeatClaims)
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !parsed.Valid || claims.GameID == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
