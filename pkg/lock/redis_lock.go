package lock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// RedisLockManager 基于Redis实现的锁管理器
type RedisLockManager struct {
	client *redislock.Client
	rdb    *redis.Client
	opts   *LockManagerOptions
}

// NewRedisLockManager 创建Redis锁管理器
func NewRedisLockManager(rdb *redis.Client, opts *LockManagerOptions) *RedisLockManager {
	if opts == nil {
		opts = DefaultLockManagerOptions()
	}

	return &RedisLockManager{
		client: redislock.New(rdb),
		rdb:    rdb,
		opts:   opts,
	}
}

// NewLock 创建新的分布式锁
func (m *RedisLockManager) NewLock(key string, opts *LockOptions) DistributedLock {
	if opts == nil {
		opts = DefaultLockOptions()
	}
	if opts.TTL <= 0 {
		opts.TTL = m.opts.TTL
	}
	if opts.RenewInterval <= 0 {
		opts.RenewInterval = opts.TTL / 3
	}

	return &RedisLock{
		manager: m,
		key:     key,
		opts:    opts,
	}
}

// GetLockInfo 获取锁信息
func (m *RedisLockManager) GetLockInfo(ctx context.Context, key string) (*LockInfo, error) {
	owner, err := m.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, NewLockError(ErrCodeLockNotHeld, "锁不存在", nil)
		}
		return nil, err
	}

	ttl, err := m.rdb.PTTL(ctx, key).Result()
	if err != nil {
		return nil, err
	}

	return &LockInfo{
		Key:        key,
		Owner:      owner,
		CreateTime: time.Now().Add(ttl - m.opts.TTL),
	}, nil
}

// ListLocks 列出所有锁
func (m *RedisLockManager) ListLocks(ctx context.Context, prefix string) ([]*LockInfo, error) {
	var infos []*LockInfo

	iter := m.rdb.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		info, err := m.GetLockInfo(ctx, iter.Val())
		if err != nil {
			continue
		}
		infos = append(infos, info)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}

	return infos, nil
}

// ForceUnlock 强制释放锁（管理员操作）
func (m *RedisLockManager) ForceUnlock(ctx context.Context, key string) error {
	return m.rdb.Del(ctx, key).Err()
}

// Close 关闭锁管理器
func (m *RedisLockManager) Close() error {
	return nil
}

// RedisLock 基于Redis的分布式锁
type RedisLock struct {
	manager *RedisLockManager
	key     string
	opts    *LockOptions

	mu          sync.Mutex
	lock        *redislock.Lock
	done        chan struct{}
	renewCancel context.CancelFunc
}

// Lock 获取锁，阻塞直到成功或超出重试次数
func (l *RedisLock) Lock(ctx context.Context) error {
	retries := 0
	for {
		locked, err := l.TryLock(ctx)
		if err != nil {
			return err
		}
		if locked {
			return nil
		}

		retries++
		if l.opts.MaxRetries > 0 && retries >= l.opts.MaxRetries {
			return NewLockError(ErrCodeLockTimeout, "超出最大重试次数", nil)
		}

		select {
		case <-ctx.Done():
			return NewLockError(ErrCodeLockTimeout, "获取锁被取消", ctx.Err())
		case <-time.After(l.opts.RetryInterval):
		}
	}
}

// TryLock 尝试获取锁，不阻塞
func (l *RedisLock) TryLock(ctx context.Context) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// 已持有锁，刷新TTL即可
	if l.lock != nil {
		if err := l.lock.Refresh(ctx, l.opts.TTL, nil); err == nil {
			return true, nil
		}
		// 刷新失败说明锁已丢失
		l.releaseLocked()
	}

	lock, err := l.manager.client.Obtain(ctx, l.key, l.opts.TTL, nil)
	if err != nil {
		if errors.Is(err, redislock.ErrNotObtained) {
			return false, nil
		}
		return false, err
	}

	l.lock = lock
	l.done = make(chan struct{})

	if l.opts.AutoRenew {
		renewCtx, cancel := context.WithCancel(context.Background())
		l.renewCancel = cancel
		go l.renewLoop(renewCtx, lock, l.done)
	}

	return true, nil
}

// LockWithTimeout 带超时的获取锁
func (l *RedisLock) LockWithTimeout(ctx context.Context, timeout time.Duration) error {
	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return l.Lock(timeoutCtx)
}

// Unlock 释放锁
func (l *RedisLock) Unlock(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.lock == nil {
		return NewLockError(ErrCodeLockNotHeld, "锁未被持有", nil)
	}

	err := l.lock.Release(ctx)
	l.releaseLocked()

	if err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
		return err
	}
	return nil
}

// IsLocked 检查锁是否被当前实例持有
func (l *RedisLock) IsLocked() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.lock != nil
}

// GetLockKey 获取锁的键
func (l *RedisLock) GetLockKey() string {
	return l.key
}

// Done 返回一个channel，当锁被释放或丢失时会被关闭
func (l *RedisLock) Done() <-chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.done == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return l.done
}

// renewLoop 自动续约，续约失败时视为锁丢失
func (l *RedisLock) renewLoop(ctx context.Context, lock *redislock.Lock, done chan struct{}) {
	ticker := time.NewTicker(l.opts.RenewInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case <-ticker.C:
			refreshCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := lock.Refresh(refreshCtx, l.opts.TTL, nil)
			cancel()

			if err != nil {
				l.mu.Lock()
				if l.lock == lock {
					l.releaseLocked()
				}
				l.mu.Unlock()
				return
			}
		}
	}
}

// releaseLocked 清理持有状态，调用方需持有l.mu
func (l *RedisLock) releaseLocked() {
	if l.renewCancel != nil {
		l.renewCancel()
		l.renewCancel = nil
	}
	if l.done != nil {
		close(l.done)
		l.done = nil
	}
	l.lock = nil
}
