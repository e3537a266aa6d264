package http

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/suchimauz/hospital-schedule-viewer/internal/config"
	"github.com/suchimauz/hospital-schedule-viewer/internal/core/ports/out"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "requestId"
	requestIDMaxLen = 64
)

// RequestObserver — метрики HTTP-запросов, может быть nil
type RequestObserver interface {
	ObserveHTTPRequest(method, route string, status int, seconds float64)
}

func basicAuth(cfg *config.Config) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		// Без настроенных клиентов API открыт
		if !cfg.AuthEnabled() {
			ctx.Next()
			return
		}

		username, password, hasAuth := ctx.Request.BasicAuth()
		if !hasAuth || !knownClient(cfg.Auth.BasicClients, username, password) {
			ctx.Header("WWW-Authenticate", "Basic realm=Authorization Required")
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		ctx.Next()
	}
}

func knownClient(clients []config.ConfigBasicClient, username, password string) bool {
	matched := false
	for _, client := range clients {
		if subtle.ConstantTimeCompare([]byte(username), []byte(client.Username)) == 1 &&
			subtle.ConstantTimeCompare([]byte(password), []byte(client.Password)) == 1 {
			matched = true
		}
	}
	return matched
}

// requestID берет X-Request-ID клиента или генерирует UUID
func requestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		rid := ctx.GetHeader(requestIDHeader)
		if rid == "" || len(rid) > requestIDMaxLen {
			rid = uuid.New().String()
		}

		ctx.Set(requestIDKey, rid)
		ctx.Header(requestIDHeader, rid)

		ctx.Next()
	}
}

func requestLogger(logger out.LoggerPort, observer RequestObserver) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		ctx.Next()

		latency := time.Since(start)
		status := ctx.Writer.Status()
		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}

		if observer != nil {
			observer.ObserveHTTPRequest(ctx.Request.Method, route, status, latency.Seconds())
		}

		fields := out.LogFields{
			"requestId": ctx.GetString(requestIDKey),
			"method":    ctx.Request.Method,
			"path":      ctx.Request.URL.Path,
			"query":     ctx.Request.URL.RawQuery,
			"status":    status,
			"latencyMs": latency.Milliseconds(),
		}

		switch {
		case status >= 500:
			logger.Error("http.request.completed", fields)
		case status >= 400:
			logger.Warn("http.request.completed", fields)
		default:
			logger.Info("http.request.completed", fields)
		}
	}
}
