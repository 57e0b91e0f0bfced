package pkg

import "errors"

// 核心 CRUD 的错误分类。治理类操作不走 error，
// 用 model.ModResult 标签返回（详见 service 层注释）。
var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateUsername = errors.New("username already taken")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidState      = errors.New("invalid state")
)
