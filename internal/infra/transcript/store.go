package transcript

import (
	"os"
	"path/filepath"
	"strings"
)

// Store 按相对路径惰性读取转写文本，并在一次 run 内复用读取结果。
// 同一份转写会被内容校验和摘录抽取各读一次，读通缓存避免重复 I/O。
//
// 约束：
// - 作用域是一次 run；引擎单线程，Store 不做并发保护
// - 读取失败的结果同样缓存（同一文件不反复重试）
type Store struct {
	root  string
	texts map[string]string
	errs  map[string]error
}

// New 创建以 root（notes 目录）为基准的 Store。
func New(root string) *Store {
	return &Store{
		root:  filepath.Clean(strings.TrimSpace(root)),
		texts: map[string]string{},
		errs:  map[string]error{},
	}
}

// Text 返回 rel 对应转写的全文。
func (s *Store) Text(rel string) (string, error) {
	if t, ok := s.texts[rel]; ok {
		return t, nil
	}
	if e, ok := s.errs[rel]; ok {
		return "", e
	}

	b, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil {
		s.errs[rel] = err
		return "", err
	}
	t := string(b)
	s.texts[rel] = t
	return t, nil
}

// Excerpt 返回转写的前 n 个字符（rune 计），供下游检索索引。
func (s *Store) Excerpt(rel string, n int) (string, error) {
	t, err := s.Text(rel)
	if err != nil {
		return "", err
	}
	if n <= 0 {
		return "", nil
	}
	r := []rune(t)
	if len(r) <= n {
		return t, nil
	}
	return string(r[:n]), nil
}
