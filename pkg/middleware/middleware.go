// Package middleware 提供 Gin 通用中间件（request id、日志、panic recover、CORS、限流）
package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/wyfcoding/corepnl/pkg/logger"
	"github.com/wyfcoding/corepnl/pkg/ratelimit"
)

// RequestIDHeader 请求 ID 头
const RequestIDHeader = "X-Request-ID"

// RequestIDKey gin.Context 中的 request id 键
const RequestIDKey = "request_id"

// GinRequestIDMiddleware 生成或透传 request id，并写入请求 context
func GinRequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Request = c.Request.WithContext(logger.ContextWithRequestID(c.Request.Context(), requestID))
		c.Next()
	}
}

// GinLoggingMiddleware Gin 日志中间件
func GinLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		ctx := c.Request.Context()
		status := c.Writer.Status()
		args := []any{
			"method", method,
			"path", path,
			"status_code", status,
			"response_size", c.Writer.Size(),
			"client_ip", c.ClientIP(),
			"duration", time.Since(start),
		}
		if len(c.Errors) > 0 {
			args = append(args, "errors", c.Errors.String())
		}
		if status >= http.StatusInternalServerError {
			logger.Error(ctx, "HTTP request completed", args...)
			return
		}
		logger.Info(ctx, "HTTP request completed", args...)
	}
}

// GinRecoveryMiddleware Gin panic 恢复中间件
func GinRecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				ctx := c.Request.Context()
				logger.Error(ctx, "HTTP request panicked", "panic", err, "path", c.Request.URL.Path)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":      "Internal server error",
					"request_id": logger.RequestID(ctx),
				})
			}
		}()
		c.Next()
	}
}

// GinCORSMiddleware 基于 gin-contrib/cors 的跨域中间件；仅显式列出的来源可携带凭证，空列表拒绝所有跨域请求
func GinCORSMiddleware(allowOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", RequestIDHeader},
		ExposeHeaders: []string{RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	switch {
	case len(allowOrigins) == 0:
		// 未配置时拒绝所有跨域来源
		cfg.AllowOriginFunc = func(string) bool { return false }
	case len(allowOrigins) == 1 && allowOrigins[0] == "*":
		// 通配时不携带凭证
		cfg.AllowAllOrigins = true
	default:
		cfg.AllowOrigins = allowOrigins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}

// GinRateLimitMiddleware 按客户端 IP 限流；限流器出错时放行
func GinRateLimitMiddleware(limiter ratelimit.RateLimiter, scope string, limit ratelimit.Limit, onLimited func(c *gin.Context)) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("%s:%s", scope, c.ClientIP())
		res, err := limiter.Allow(c.Request.Context(), key, limit)
		if err != nil {
			logger.Warn(c.Request.Context(), "Rate limiter unavailable", "scope", scope, "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit.Burst))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))

		if !res.Allowed {
			if onLimited != nil {
				onLimited(c)
			}
			c.Header("Retry-After", strconv.FormatInt(int64(res.RetryAfter/time.Second)+1, 10))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Too many requests",
				"retry_after": res.RetryAfter.String(),
			})
			return
		}
		c.Next()
	}
}
