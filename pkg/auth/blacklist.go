package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// Blacklist 令牌黑名单
type Blacklist interface {
	// AddToBlacklist 将令牌添加到黑名单，expireAt之后自动失效
	AddToBlacklist(ctx context.Context, token string, expireAt time.Time) error
	// IsBlacklisted 检查令牌是否在黑名单中
	IsBlacklisted(ctx context.Context, token string) (bool, error)
}

// BlacklistType 黑名单类型
type BlacklistType string

const (
	// MemoryBlacklist 内存黑名单，只在单实例部署时使用
	MemoryBlacklist BlacklistType = "memory"
	// RedisBlacklist Redis黑名单
	RedisBlacklist BlacklistType = "redis"
)

var (
	blacklistMu sync.RWMutex
	blacklist   Blacklist = NewMemoryBlacklist()
)

// SetBlacklist 设置全局黑名单实现
func SetBlacklist(b Blacklist) {
	blacklistMu.Lock()
	defer blacklistMu.Unlock()
	blacklist = b
}

// GetBlacklist 获取全局黑名单实现
func GetBlacklist() Blacklist {
	blacklistMu.RLock()
	defer blacklistMu.RUnlock()
	return blacklist
}

// tokenKey 黑名单里只保存令牌的摘要
func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// TokenBlacklist 内存令牌黑名单
type TokenBlacklist struct {
	tokens map[string]time.Time // 令牌摘要->过期时间
	mutex  sync.RWMutex
	now    func() time.Time
}

// NewMemoryBlacklist 创建内存黑名单
func NewMemoryBlacklist() *TokenBlacklist {
	return &TokenBlacklist{
		tokens: make(map[string]time.Time),
		now:    time.Now,
	}
}

// AddToBlacklist 将令牌添加到黑名单
func (b *TokenBlacklist) AddToBlacklist(_ context.Context, token string, expireAt time.Time) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if !expireAt.After(b.now()) {
		return nil
	}
	b.cleanupLocked()
	b.tokens[tokenKey(token)] = expireAt
	return nil
}

// IsBlacklisted 检查令牌是否在黑名单中
func (b *TokenBlacklist) IsBlacklisted(_ context.Context, token string) (bool, error) {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	expireAt, exists := b.tokens[tokenKey(token)]
	return exists && expireAt.After(b.now()), nil
}

// cleanupLocked 清理过期的令牌，调用方持有写锁
func (b *TokenBlacklist) cleanupLocked() {
	now := b.now()
	for key, expireAt := range b.tokens {
		if !expireAt.After(now) {
			delete(b.tokens, key)
		}
	}
}

// Len 当前黑名单条目数
func (b *TokenBlacklist) Len() int {
	b.mutex.RLock()
	defer b.mutex.RUnlock()
	return len(b.tokens)
}
