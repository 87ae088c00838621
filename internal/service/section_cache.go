package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/reelhouse/internal/content"
)

// DefaultContentCacheTTL 限制公开区块读取的最大陈旧时间
const DefaultContentCacheTTL = 30 * time.Second

// SectionCache 缓存公开读取解析出的区块内容。
// 实现必须静默失败：未命中与出错对调用方没有区别。
type SectionCache interface {
	Get(ctx context.Context, key string) (content.Record, bool)
	Set(ctx context.Context, key string, record content.Record)
}

// RedisSectionCache 以固定 TTL 把解析结果存入 redis。
// 后台写入不会使其失效，条目到期自然淘汰。
type RedisSectionCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisSectionCache 包装已有的 redis 客户端
func NewRedisSectionCache(client *redis.Client, ttl time.Duration) *RedisSectionCache {
	if ttl <= 0 {
		ttl = DefaultContentCacheTTL
	}
	return &RedisSectionCache{client: client, ttl: ttl, prefix: "reelhouse:section:"}
}

func (c *RedisSectionCache) Get(ctx context.Context, key string) (content.Record, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[section-cache] get %s: %v", key, err)
		}
		return nil, false
	}
	var record content.Record
	if err := json.Unmarshal(raw, &record); err != nil || record == nil {
		return nil, false
	}
	return record, true
}

func (c *RedisSectionCache) Set(ctx context.Context, key string, record content.Record) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := record.Marshal()
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.prefix+key, raw, c.ttl).Err(); err != nil {
		log.Printf("[section-cache] set %s: %v", key, err)
	}
}

func sectionCacheKey(pageSlug, sectionName string) string {
	return pageSlug + "/" + sectionName
}
