package csvtable

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Engine 管理数据根目录，并对同一 owner 的读改写串行化。
// 每个表是一个带固定表头的纯文本 CSV 文件：第一行表头，之后每行一条记录，
// 逗号分隔、不做引号转义，空行在读取时被忽略。
type Engine struct {
	root  string
	locks sync.Map // owner -> *sync.Mutex
}

func NewEngine(root string) (*Engine, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("create data root: %w", err)
	}
	return &Engine{root: root}, nil
}

func (e *Engine) Root() string {
	return e.root
}

// UserDir 返回某用户数据子目录的路径（不保证存在）
func (e *Engine) UserDir(owner string) string {
	return filepath.Join(e.root, owner)
}

func (e *Engine) EnsureUserDir(owner string) error {
	return os.MkdirAll(e.UserDir(owner), 0755)
}

// WithLock 在持有 owner 专属互斥锁的情况下执行 fn。
// 所有对同一用户文件的读改写都必须经过这里，避免并发覆盖丢数据。
func (e *Engine) WithLock(owner string, fn func() error) error {
	v, _ := e.locks.LoadOrStore(owner, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	defer mu.Unlock()
	return fn()
}

// Ping 校验数据根目录可写，用于健康检查
func (e *Engine) Ping() error {
	probe := filepath.Join(e.root, ".probe")
	if err := os.WriteFile(probe, []byte("ok"), 0644); err != nil {
		return err
	}
	return os.Remove(probe)
}

// ReadTable 整体读取一个表。文件不存在视为空表；表头不符报错；
// 空行跳过；列数不符的脏行跳过。
func ReadTable(path, header string) ([][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != header {
		return nil, fmt.Errorf("unexpected header in %s", filepath.Base(path))
	}

	want := len(strings.Split(header, ","))
	var rows [][]string
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) != want {
			continue
		}
		rows = append(rows, fields)
	}
	return rows, nil
}

// WriteTable 整体替换一个表：先写临时文件再 rename，崩溃不会截断旧数据
func WriteTable(path, header string, rows [][]string) error {
	var b strings.Builder
	b.WriteString(header)
	b.WriteByte('\n')
	for _, row := range rows {
		clean := make([]string, len(row))
		for i, f := range row {
			clean[i] = Sanitize(f)
		}
		b.WriteString(strings.Join(clean, ","))
		b.WriteByte('\n')
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(b.String()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}

// Sanitize 去掉会破坏行格式的分隔符和换行
func Sanitize(field string) string {
	field = strings.ReplaceAll(field, ",", " ")
	field = strings.ReplaceAll(field, "\n", " ")
	field = strings.ReplaceAll(field, "\r", "")
	return strings.TrimSpace(field)
}
