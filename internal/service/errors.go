package service

import "errors"

// 业务层通用错误，handler 根据错误类型映射到合适的 HTTP 状态码。
// PIN 与令牌校验失败用布尔值表达，不走错误通道。
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrRoomNotFound    = errors.New("room not found")
	ErrMessageNotFound = errors.New("message not found")
)
