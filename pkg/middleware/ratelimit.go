package middleware

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/campuslink/campuslink/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// RateLimiter is a fixed-window limiter backed by Redis INCR+EXPIRE.
type RateLimiter struct {
	Redis  *redis.Client
	Prefix string
	Limit  int
	Window time.Duration
}

func NewRateLimiter(r *redis.Client, prefix string, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{Redis: r, Prefix: prefix, Limit: limit, Window: window}
}

// Middleware limits requests per client IP. A limiter outage fails open so
// Redis downtime never takes authentication down with it.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		key := fmt.Sprintf("%s:%s", rl.Prefix, ip)
		count, err := rl.Redis.Incr(r.Context(), key).Result()
		if err != nil {
			logger.Log.Warnf("Rate limiter unavailable, failing open: %v", err)
			next.ServeHTTP(w, r)
			return
		}
		if count == 1 {
			rl.Redis.Expire(r.Context(), key, rl.Window)
		}
		if count > int64(rl.Limit) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]string{"message": "Too many requests, slow down"})
			return
		}

		next.ServeHTTP(w, r)
	})
}
