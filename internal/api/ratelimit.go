package api

import (
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// importRateLimit is an operation middleware limiting imports per client.
// Returns 429 Too Many Requests when the limit is exceeded.
func (s *Server) importRateLimit(ctx huma.Context, next func(huma.Context)) {
	key := clientIP(ctx)
	if !s.importLimiter.Allow(key) {
		s.logger.Warn("import rate limit exceeded", "ip", key, "path", ctx.URL().Path)
		_ = huma.WriteErr(s.api, ctx, http.StatusTooManyRequests, "too many import requests, try again later")
		return
	}
	next(ctx)
}

// clientIP extracts the client IP from the request.
// Checks X-Forwarded-For and X-Real-IP headers before falling back to RemoteAddr.
func clientIP(ctx huma.Context) string {
	if xff := ctx.Header("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := ctx.Header("X-Real-IP"); xri != "" {
		return xri
	}
	ip := ctx.RemoteAddr()
	if i := strings.LastIndexByte(ip, ':'); i >= 0 {
		return ip[:i]
	}
	return ip
}
