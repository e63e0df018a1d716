package util

import (
	"errors"
	"io"
	"net/http"
	"strings"
)

// ValidateMimeType 深度校验文件 MIME 类型
// allowedTypes: 允许的 MIME 前缀或完整类型，如 "text/plain", "text/csv"
// 返回已读取的头部字节，调用方需要自行拼回数据流。
func ValidateMimeType(reader io.Reader, allowedTypes []string) ([]byte, string, error) {
	buffer := make([]byte, 512)
	n, err := reader.Read(buffer)
	if err != nil && err != io.EOF {
		return nil, "", err
	}
	head := buffer[:n]

	// 检测 MIME 类型
	mimeType := http.DetectContentType(head)

	for _, allowed := range allowedTypes {
		if strings.HasPrefix(mimeType, allowed) || mimeType == allowed {
			return head, mimeType, nil
		}
	}

	return head, mimeType, errors.New("invalid file type: " + mimeType)
}
