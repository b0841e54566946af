package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/cargotrack/server/internal/port/outbound"
	"github.com/redis/go-redis/v9"
)

const rateLimitKeyPrefix = "ratelimit:"

// slidingWindow trims the window, then admits ARGV[3] hits if they fit.
// ARGV[5] prefixes member names. Returns {allowed, count}.
var slidingWindow = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local n = tonumber(ARGV[3])
local limit = tonumber(ARGV[4])
local member = ARGV[5]

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
if count + n > limit then
	return {0, count}
end
for i = 1, n do
	redis.call('ZADD', key, now, member .. '-' .. i)
end
redis.call('PEXPIRE', key, math.ceil(window / 1000000))
return {1, count + n}
`)

// rateLimiter implements outbound.RateLimiterPort with a sorted-set sliding window.
type rateLimiter struct {
	client redis.UniversalClient
	now    func() time.Time
}

// NewRateLimiter creates a new rate limiter adapter.
func NewRateLimiter(client redis.UniversalClient) outbound.RateLimiterPort {
	return &rateLimiter{client: client, now: time.Now}
}

func (r *rateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	return r.AllowN(ctx, key, 1, limit, window)
}

func (r *rateLimiter) AllowN(ctx context.Context, key string, n int, limit int, window time.Duration) (bool, error) {
	now := r.now().UnixNano()
	res, err := slidingWindow.Run(ctx, r.client,
		[]string{rateLimitKeyPrefix + key},
		now, window.Nanoseconds(), n, limit, strconv.FormatInt(now, 36),
	).Int64Slice()
	if err != nil {
		return false, err
	}
	return res[0] == 1, nil
}

func (r *rateLimiter) GetRemaining(ctx context.Context, key string, limit int, window time.Duration) (int, error) {
	fullKey := rateLimitKeyPrefix + key
	windowStart := r.now().UnixNano() - window.Nanoseconds()

	pipe := r.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, fullKey, "-inf", strconv.FormatInt(windowStart, 10))
	countCmd := pipe.ZCard(ctx, fullKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	return max(limit-int(countCmd.Val()), 0), nil
}

var _ outbound.RateLimiterPort = (*rateLimiter)(nil)
