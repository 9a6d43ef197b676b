package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	domainsvc "github.com/turtacn/grc/internal/domain/service"
	"github.com/turtacn/grc/pkg/constants"
	"github.com/turtacn/grc/pkg/logger"
)

// releaseScript deletes the lock only when the caller still owns it, so an
// expired-and-reacquired lock is never released by its previous holder.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// WorkflowLock is a Redis-backed lock taken around workflow starts. It is a
// fast-path guard; the instance store's unique index remains the hard
// guarantee against duplicate workflows.
// WorkflowLock 是围绕工作流启动的 Redis 锁。它是快速路径上的防护；
// 实例存储的唯一索引仍然是防止重复工作流的最终保证。
type WorkflowLock struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

// NewWorkflowLock creates a lock manager with the given hold TTL. A zero
// ttl falls back to the default.
func NewWorkflowLock(rdb *redis.Client, ttl time.Duration, log logger.Logger) *WorkflowLock {
	if ttl <= 0 {
		ttl = constants.WorkflowLockTTL
	}
	if log == nil {
		log = logger.NewNoopLogger()
	}
	return &WorkflowLock{rdb: rdb, ttl: ttl, logger: log.WithComponent("workflow_lock")}
}

var _ domainsvc.ResourceLocker = (*WorkflowLock)(nil)

func lockKey(key string) string { return fmt.Sprintf("grc:lock:%s", key) }

// TryAcquire attempts to take the lock without blocking. When acquired the
// returned release function gives the lock back; release after expiry is a
// harmless no-op.
func (l *WorkflowLock) TryAcquire(ctx context.Context, key string) (func(), bool, error) {
	token := uuid.NewString()
	redisKey := lockKey(key)

	ok, err := l.rdb.SetNX(ctx, redisKey, token, l.ttl).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	release := func() {
		if _, err := releaseScript.Run(context.Background(), l.rdb, []string{redisKey}, token).Result(); err != nil {
			l.logger.Warn(context.Background(), "failed to release lock", logger.Fields{
				"key":   key,
				"error": err.Error(),
			})
		}
	}
	return release, true, nil
}
