package blob

import "context"

// Store 对象存储契约。Upload 返回公开 URL；DeleteMany 尽力而为，
// 调用方不依赖其成功（主删除已完成后的清理动作）。
type Store interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) (publicURL string, err error)
	DeleteMany(ctx context.Context, paths []string) error
}
