package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// RedisStore 基于 Redis Hash 的 RecordStore 实现：每张表一个 Hash，
// field = 记录 id，value = JSON document。
type RedisStore struct {
	c *redis.Client
}

func NewRedisStore(c *redis.Client) *RedisStore { return &RedisStore{c: c} }

var _ RecordStore = (*RedisStore)(nil)

func tableKey(table string) string { return "records:" + table }

func (s *RedisStore) Get(ctx context.Context, table, id string) (Item, error) {
	val, err := s.c.HGet(ctx, tableKey(table), id).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var item Item
	if err := json.Unmarshal([]byte(val), &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record %s/%s: %w", table, id, err)
	}
	return item, nil
}

func (s *RedisStore) Put(ctx context.Context, table string, item Item) error {
	id, _ := item["id"].(string)
	if id == "" {
		return fmt.Errorf("item id is required")
	}
	b, err := json.Marshal(item)
	if err != nil {
		return err
	}
	return s.c.HSet(ctx, tableKey(table), id, string(b)).Err()
}

// Update 读-改-写合并字段。与 Record Store 契约一致，没有跨调用的原子性保证。
func (s *RedisStore) Update(ctx context.Context, table, id string, fields Item) (Item, error) {
	item, err := s.Get(ctx, table, id)
	if err != nil {
		return nil, err
	}
	for k, v := range fields {
		item[k] = v
	}
	if err := s.Put(ctx, table, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *RedisStore) Delete(ctx context.Context, table, id string) error {
	n, err := s.c.HDel(ctx, tableKey(table), id).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RedisStore) Scan(ctx context.Context, table string, filter func(Item) bool) ([]Item, int, error) {
	var items []Item
	var cursor uint64
	for {
		kvs, next, err := s.c.HScan(ctx, tableKey(table), cursor, "*", 200).Result()
		if err != nil {
			return nil, 0, err
		}
		// HScan returns alternating field/value pairs
		for i := 1; i < len(kvs); i += 2 {
			var item Item
			if err := json.Unmarshal([]byte(kvs[i]), &item); err != nil {
				return nil, 0, fmt.Errorf("failed to unmarshal record in %s: %w", table, err)
			}
			if filter != nil && !filter(item) {
				continue
			}
			items = append(items, item)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return items, len(items), nil
}
