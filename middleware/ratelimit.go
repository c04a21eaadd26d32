package middleware

import (
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"go-storefront/config"
)

var limiterScript = redis.NewScript(`
	local key = KEYS[1]
	local now_ms = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local refill_tokens = tonumber(ARGV[3])
	local interval_ms = tonumber(ARGV[4])
	local ttl_seconds = tonumber(ARGV[5])

	local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
	local tokens = tonumber(state[1])
	local last_refill = tonumber(state[2])

	if tokens == nil or last_refill == nil then
		tokens = capacity
		last_refill = now_ms
	end

	if interval_ms > 0 and refill_tokens > 0 then
		local elapsed = math.max(0, now_ms - last_refill)
		local intervals = math.floor(elapsed / interval_ms)
		if intervals > 0 then
			tokens = math.min(capacity, tokens + (intervals * refill_tokens))
			last_refill = last_refill + (intervals * interval_ms)
		end
	end

	local allowed = 0
	local retry_after_ms = 0
	if tokens > 0 then
		allowed = 1
		tokens = tokens - 1
	else
		local until_next = interval_ms - (now_ms - last_refill)
		if until_next < 0 then until_next = 0 end
		retry_after_ms = until_next
	end

	redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
	redis.call('EXPIRE', key, ttl_seconds)

	return { allowed, tokens, retry_after_ms }
`)

// RateLimit is a per-client-IP token bucket kept in Redis. With a nil client
// or a disabled config it passes every request through. Redis failures fail
// open. The client is the connection's peer unless that peer is one of
// cfg.TrustedProxies.
func RateLimit(cfg config.RateLimitConfig, rdb *redis.Client, scope string, log *slog.Logger) func(http.Handler) http.Handler {
	if !cfg.Enabled || rdb == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	proxies, err := cfg.ProxyNetworks()
	if err != nil {
		log.Error("ignoring trusted proxies", "error", err)
		proxies = nil
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := strings.Join([]string{cfg.Prefix, scope, "ip", clientIP(r, proxies)}, ":")
			args := []interface{}{
				time.Now().UnixMilli(),
				cfg.Capacity,
				cfg.RefillTokens,
				cfg.RefillInterval.Milliseconds(),
				int64(cfg.TTL / time.Second),
			}

			vals, err := limiterScript.Run(r.Context(), rdb, []string{key}, args...).Slice()
			if err != nil || len(vals) != 3 {
				log.Warn("rate limit check failed", "key", key, "error", err)
				next.ServeHTTP(w, r)
				return
			}
			allowed := asInt64(vals[0]) == 1
			remaining := asInt64(vals[1])
			retryMs := asInt64(vals[2])

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if !allowed {
				secs := int(math.Ceil(float64(retryMs) / 1000.0))
				if secs < 1 {
					secs = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(secs))
				log.Info("rate limited", "key", key, "retry_after", secs)
				writeMessage(w, http.StatusTooManyRequests, "Too many requests, try again later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func asInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		n, _ := strconv.ParseInt(t, 10, 64)
		return n
	}
	n, _ := strconv.ParseInt(fmt.Sprint(v), 10, 64)
	return n
}

// clientIP returns the request's peer address. Forwarding headers are read
// only when the peer is a trusted proxy; X-Forwarded-For is walked from the
// right so entries a client prepends are skipped.
func clientIP(r *http.Request, proxies []*net.IPNet) string {
	peer, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		peer = r.RemoteAddr
	}
	if !trusted(peer, proxies) {
		return peer
	}

	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		hops := strings.Split(fwd, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if net.ParseIP(hop) == nil {
				break
			}
			if !trusted(hop, proxies) || i == 0 {
				return hop
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); net.ParseIP(ip) != nil {
		return ip
	}
	return peer
}

func trusted(addr string, proxies []*net.IPNet) bool {
	ip := net.ParseIP(addr)
	if ip == nil {
		return false
	}
	for _, network := range proxies {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}
