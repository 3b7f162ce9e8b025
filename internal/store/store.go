package store

import (
	"context"
	"errors"
)

// 逻辑表名（Record Store 以表+主键组织记录）
const (
	TableUsers        = "users"
	TableProperties   = "properties"
	TableApplications = "applications"
	TablePayments     = "payments"
	TableAgreements   = "rental_agreements"
)

// ErrNotFound 点查未命中
var ErrNotFound = errors.New("record not found")

// Item 一条记录（JSON document）
type Item = map[string]any

// RecordStore key-value 表服务契约：点查/写入/字段合并更新/删除 + 带谓词的全表扫描。
// Scan 不保证顺序，排序始终由调用方完成；跨多条记录的操作没有原子性保证。
type RecordStore interface {
	Get(ctx context.Context, table, id string) (Item, error)
	Put(ctx context.Context, table string, item Item) error
	Update(ctx context.Context, table, id string, fields Item) (Item, error)
	Delete(ctx context.Context, table, id string) error
	Scan(ctx context.Context, table string, filter func(Item) bool) ([]Item, int, error)
}
