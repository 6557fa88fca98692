package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// windowCounter tăng bộ đếm của key trong cửa sổ thời gian và trả về giá trị mới.
type windowCounter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimiter giới hạn số thao tác ghi của mỗi người dùng theo cửa sổ cố định.
// Bộ đếm nằm trên Redis nên dùng chung được giữa nhiều instance.
type RateLimiter struct {
	counter windowCounter
	limit   int
	window  time.Duration
	prefix  string
}

var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

type redisCounter struct {
	rdb *redis.Client
}

func (r redisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	res, err := fixedWindowScript.Run(ctx, r.rdb, []string{key}, window.Milliseconds()).Result()
	if err != nil {
		return 0, err
	}
	switch v := res.(type) {
	case int64:
		return v, nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, fmt.Errorf("kết quả script redis không mong muốn: %T", res)
	}
}

func NewRedisRateLimiter(rdb *redis.Client, limit int, window time.Duration, prefix string) *RateLimiter {
	return newRateLimiter(redisCounter{rdb: rdb}, limit, window, prefix)
}

func newRateLimiter(counter windowCounter, limit int, window time.Duration, prefix string) *RateLimiter {
	if limit <= 0 {
		limit = 30
	}
	if window <= 0 {
		window = time.Minute
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "rl"
	}
	return &RateLimiter{counter: counter, limit: limit, window: window, prefix: prefix}
}

// Limit phải chạy sau Authenticate(); key theo user ID, nếu không có thì theo IP.
// Khi Redis lỗi request vẫn được cho qua.
func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		subject := IdentityFromContext(c).UserID
		if subject == "" {
			subject = "ip:" + c.ClientIP()
		}
		key := rl.prefix + ":" + subject

		count, err := rl.counter.Incr(c.Request.Context(), key, rl.window)
		if err != nil {
			log.Printf("RateLimiter: Lỗi redis, bỏ qua giới hạn: %v", err)
			c.Next()
			return
		}
		if count > int64(rl.limit) {
			c.Header("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Quá nhiều yêu cầu, vui lòng thử lại sau"})
			return
		}
		c.Next()
	}
}
