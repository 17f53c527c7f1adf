package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Context 封装 gin.Context，提供统一的请求/响应接口
type Context struct {
	ginCtx *gin.Context
}

func newContext(c *gin.Context) *Context {
	return &Context{ginCtx: c}
}

// GetParam 获取路径参数
func (c *Context) GetParam(key string) string {
	return c.ginCtx.Param(key)
}

// GetQuery 获取查询参数
func (c *Context) GetQuery(key string) string {
	return c.ginCtx.Query(key)
}

// GetHeader 获取请求头
func (c *Context) GetHeader(key string) string {
	return c.ginCtx.GetHeader(key)
}

// BindJSON 绑定 JSON 请求体
func (c *Context) BindJSON(obj interface{}) error {
	return c.ginCtx.ShouldBindJSON(obj)
}

// JSON 返回 JSON 响应
func (c *Context) JSON(code int, obj interface{}) {
	c.ginCtx.JSON(code, obj)
}

// SetHeader 设置响应头
func (c *Context) SetHeader(key, value string) {
	c.ginCtx.Header(key, value)
}

func (c *Context) ClientIP() string {
	return c.ginCtx.ClientIP()
}

func (c *Context) Method() string {
	return c.ginCtx.Request.Method
}

func (c *Context) Path() string {
	return c.ginCtx.Request.URL.Path
}

// Set 设置上下文值
func (c *Context) Set(key string, value interface{}) {
	c.ginCtx.Set(key, value)
}

// Get 获取上下文值
func (c *Context) Get(key string) (interface{}, bool) {
	return c.ginCtx.Get(key)
}

func (c *Context) GetString(key string) string {
	return c.ginCtx.GetString(key)
}

// AbortWithStatus 中止请求并设置状态码
func (c *Context) AbortWithStatus(code int) {
	c.ginCtx.AbortWithStatus(code)
}

// AbortWithStatusJSON 中止请求并返回 JSON 错误
func (c *Context) AbortWithStatusJSON(code int, jsonObj interface{}) {
	c.ginCtx.AbortWithStatusJSON(code, jsonObj)
}

func (c *Context) IsAborted() bool {
	return c.ginCtx.IsAborted()
}

// Request 原始请求，websocket 升级时使用
func (c *Context) Request() *http.Request {
	return c.ginCtx.Request
}

// Writer 原始响应，websocket 升级时使用
func (c *Context) Writer() http.ResponseWriter {
	return c.ginCtx.Writer
}

// Ctx 请求级 context
func (c *Context) Ctx() context.Context {
	return c.ginCtx.Request.Context()
}
