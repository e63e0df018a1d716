package util

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("输入不合法")
	ErrDuplicateUser      = errors.New("用户名已被注册")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("未登录")
	ErrStorage            = errors.New("storage error")
	ErrCharacterNotFound  = errors.New("汉字不存在")
	ErrSessionNotFound    = errors.New("测验会话不存在")
	ErrBadTransition      = errors.New("当前状态不允许该操作")
	ErrEmptyPool          = errors.New("生字本为空，无法开始测验")
)

// ValidationError 携带具体原因的校验错误，errors.Is(err, ErrValidation) 为真
func ValidationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// StorageError 包装底层文件系统错误，GET 路径也要把它暴露出去，
// 不能把读失败伪装成空数据
func StorageError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrStorage, err)
}
