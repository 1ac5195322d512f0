package cache

import (
	"context"
	"strconv"
	"strings"
	"time"

	"inquiry_service/internal/metrics"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// StartRedisSizeCollector periodically reads used_memory from INFO and
// exposes it as a gauge.
func StartRedisSizeCollector(ctx context.Context, client *redis.Client, interval time.Duration, logger *logrus.Logger) {
	if client == nil {
		return
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}

	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()

		update := func() {
			info, err := client.Info(ctx, "memory").Result()
			if err != nil {
				metrics.IncRedisError("get")
				return
			}
			for _, line := range strings.Split(info, "\n") {
				line = strings.TrimSpace(line)
				if strings.HasPrefix(line, "used_memory:") {
					v := strings.TrimSpace(strings.TrimPrefix(line, "used_memory:"))
					n, err := strconv.ParseInt(v, 10, 64)
					if err == nil {
						metrics.SetRedisCacheSizeBytes(n)
					}
					return
				}
			}
		}

		update()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				update()
			}
		}
	}()
}
