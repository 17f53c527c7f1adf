package http

import (
	"net/http"
	"strings"

	"mahjong/common/jwts"
	"mahjong/common/utils"

	"github.com/google/uuid"
)

const (
	claimsKey    = "seatClaims"
	requestIDKey = "requestID"
)

// CorsMiddleware 跨域中间件
func CorsMiddleware() MiddlewareFunc {
	return func(c *Context) error {
		if c.GetHeader("Origin") != "" {
			c.SetHeader("Access-Control-Allow-Origin", "*")
			c.SetHeader("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
			c.SetHeader("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Request-ID")
		}
		if c.Method() == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
		}
		return nil
	}
}

// RequestIDMiddleware 透传或生成请求 ID
func RequestIDMiddleware() MiddlewareFunc {
	return func(c *Context) error {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.SetHeader("X-Request-ID", requestID)
		return nil
	}
}

// AuthMiddleware 校验座位凭证，通过后可用 SeatClaims 取出
func AuthMiddleware(secret string) MiddlewareFunc {
	return func(c *Context) error {
		token := c.GetHeader("Authorization")
		if token == "" {
			token = c.GetQuery("token")
		}
		token = strings.TrimPrefix(token, "Bearer ")
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, NewResponse(CodeUnauthorized, "missing authorization token", nil))
			return nil
		}

		claims, err := jwts.ParseToken(token, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, NewResponse(CodeUnauthorized, "invalid token", nil))
			return nil
		}
		c.Set(claimsKey, claims)
		return nil
	}
}

// SeatClaims 取出 AuthMiddleware 写入的凭证
func (c *Context) SeatClaims() (*jwts.SeatClaims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*jwts.SeatClaims)
	return claims, ok
}

func (c *Context) RequestID() string {
	return c.GetString(requestIDKey)
}

// RateLimitMiddleware 按客户端 IP 限流
func RateLimitMiddleware(limiter *utils.KeyedRateLimiter) MiddlewareFunc {
	return func(c *Context) error {
		if !limiter.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, NewResponse(CodeTooMany, "too many requests", nil))
		}
		return nil
	}
}
