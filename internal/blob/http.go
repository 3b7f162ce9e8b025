package blob

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// HTTPStore 对象存储服务的 REST 客户端（S3 兼容的简单 PUT/DELETE 接口）
type HTTPStore struct {
	httpClient *resty.Client
	bucket     string
	publicURL  string
	logger     *zap.Logger
}

// NewHTTPStore 创建对象存储客户端
// publicURL 为空时使用 baseURL 作为公开访问前缀
func NewHTTPStore(baseURL, bucket, publicURL, apiKey string, logger *zap.Logger) *HTTPStore {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second). // 图片上传可能较大
		SetRetryCount(2).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(3 * time.Second)
	if apiKey != "" {
		client.SetHeader("X-Api-Key", apiKey)
	}
	if publicURL == "" {
		publicURL = baseURL
	}

	return &HTTPStore{
		httpClient: client,
		bucket:     bucket,
		publicURL:  strings.TrimRight(publicURL, "/"),
		logger:     logger,
	}
}

var _ Store = (*HTTPStore)(nil)

func (s *HTTPStore) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetBody(data).
		Put("/" + s.bucket + "/" + path)
	if err != nil {
		s.logger.Error("Blob upload failed",
			zap.String("path", path),
			zap.Error(err),
		)
		return "", fmt.Errorf("failed to upload blob: %w", err)
	}
	if resp.IsError() {
		s.logger.Error("Blob store returned error",
			zap.String("path", path),
			zap.Int("status_code", resp.StatusCode()),
		)
		return "", fmt.Errorf("blob store error (status: %d)", resp.StatusCode())
	}
	return s.publicURL + "/" + s.bucket + "/" + path, nil
}

// DeleteMany 逐个删除，失败只记日志。主记录已删除，残留对象可由离线清理兜底。
func (s *HTTPStore) DeleteMany(ctx context.Context, paths []string) error {
	for _, path := range paths {
		// 调用方可能传公开 URL（记录里存的就是 URL），先还原成路径
		if p := s.PathFromURL(path); p != "" {
			path = p
		}
		resp, err := s.httpClient.R().
			SetContext(ctx).
			Delete("/" + s.bucket + "/" + path)
		if err != nil || resp.IsError() {
			s.logger.Warn("Blob delete failed (best-effort)",
				zap.String("path", path),
				zap.Error(err),
			)
		}
	}
	return nil
}

// PathFromURL 从公开 URL 还原存储路径（不属于本 bucket 的 URL 返回空串）
func (s *HTTPStore) PathFromURL(url string) string {
	prefix := s.publicURL + "/" + s.bucket + "/"
	if strings.HasPrefix(url, prefix) {
		return strings.TrimPrefix(url, prefix)
	}
	return ""
}
