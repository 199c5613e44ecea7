// Package service 业务层：校验、权限门禁与数据装配。
// 错误统一走 pkg/apperr；列表读路径共用一套超时降级策略。
package service

import (
	"context"
	"time"
)

const (
	// maxPageSize 单页上限
	maxPageSize = 100
	// defaultReadTimeout 列表读路径的缺省超时
	defaultReadTimeout = 5 * time.Second
)

// normalizePage 规范 limit/offset：非法值回退默认，limit 封顶
func normalizePage(limit, offset, def int) (int, int) {
	if limit <= 0 {
		limit = def
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// readCtx 派生带统一读超时的 context
func readCtx(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = defaultReadTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// canonicalPair 无序用户对的规范形式：按字典序返回 (小, 大)
func canonicalPair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}
