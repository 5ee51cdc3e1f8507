package errors

import "errors"

// ErrNotConfigured 可选外部依赖（Redis、模型服务等）未配置
var ErrNotConfigured = errors.New("依赖服务未配置")

// ErrStatusConflict 条件更新未命中：记录状态已被其他请求改变
var ErrStatusConflict = errors.New("记录状态已变更")
