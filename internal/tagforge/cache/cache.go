// Package cache 提供搜索结果缓存
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

// DefaultPrefix 缓存键前缀
const DefaultPrefix = "tagforge:search"

// Cache 缓存接口，值以 JSON 保存
type Cache interface {
	// Get 读取缓存，未命中时返回 false
	Get(ctx context.Context, key string, v any) (bool, error)
	Set(ctx context.Context, key string, v any) error
}

// Key 由若干部分生成缓存键
func Key(prefix string, parts ...string) string {
	hash := sha256.New()
	_, _ = io.WriteString(hash, strings.Join(parts, "\x00"))
	return prefix + ":" + hex.EncodeToString(hash.Sum(nil))
}

// Noop 不缓存任何内容
type Noop struct{}

func (Noop) Get(context.Context, string, any) (bool, error) { return false, nil }

func (Noop) Set(context.Context, string, any) error { return nil }

// RedisConfig Redis 缓存配置
type RedisConfig struct {
	// Addr 为 host:port 或 redis:// URL
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Redis 基于 Redis 的缓存
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis 创建 Redis 缓存
func NewRedis(cfg RedisConfig) (*Redis, error) {
	var opts *redis.Options
	if strings.HasPrefix(cfg.Addr, "redis://") || strings.HasPrefix(cfg.Addr, "rediss://") {
		parsed, err := redis.ParseURL(cfg.Addr)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}
	return &Redis{
		client: redis.NewClient(opts),
		ttl:    cfg.TTL,
	}, nil
}

// Ping 检查连接
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Get(ctx context.Context, key string, v any) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode cached value %s: %w", key, err)
	}
	return true, nil
}

func (r *Redis) Set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode cached value: %w", err)
	}
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Close 关闭连接
func (r *Redis) Close() error {
	return r.client.Close()
}
