package listing

import (
	"context"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar"
)

//go:generate mockgen -destination=mocks/lister.go -package=mocks github.com/John-Robertt/seqr/internal/listing Lister

// Lister 列出与 glob 模式匹配的文件（不含目录）。
//
// 约定：
// - 只有最后一个路径分量按模式匹配；目录部分视为字面量（单字符方括号转义会被还原）
// - 返回路径 = 模式里的目录文本（还原后）+ 文件名，保证调用方的锚定匹配能对齐
// - 支持 "*"、"?" 与 "[...]" 字符类；caseInsensitive 为 true 时忽略大小写
// - I/O 错误原样返回；目录不存在返回空结果
type Lister interface {
	Glob(ctx context.Context, pattern string, caseInsensitive bool) ([]string, error)
}

// PatternError 表示文件名模式本身不合法。
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("glob 模式无效：%q：%v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

// splitPattern 把模式拆为目录文本（含末尾分隔符）与文件名模式。
func splitPattern(pattern string) (dir, base string) {
	i := strings.LastIndexAny(pattern, `/\`)
	if i < 0 {
		return "", pattern
	}
	return pattern[:i+1], pattern[i+1:]
}

// literalDir 还原目录文本里的单字符方括号转义：[[] -> [，[]] -> ]，[x] -> x。
func literalDir(dir string) string {
	if !strings.Contains(dir, "[") {
		return dir
	}
	var b strings.Builder
	b.Grow(len(dir))
	for i := 0; i < len(dir); i++ {
		if dir[i] == '[' && i+2 < len(dir) && dir[i+2] == ']' {
			b.WriteByte(dir[i+1])
			i += 2
			continue
		}
		b.WriteByte(dir[i])
	}
	return b.String()
}

// literalHead 返回文件名模式在第一个通配符之前的字面量部分（用于对象存储的前缀过滤）。
func literalHead(base string) string {
	var b strings.Builder
	for i := 0; i < len(base); i++ {
		c := base[i]
		if c == '[' && i+2 < len(base) && base[i+2] == ']' && (base[i+1] == '[' || base[i+1] == ']') {
			b.WriteByte(base[i+1])
			i += 2
			continue
		}
		if c == '*' || c == '?' || c == '[' {
			break
		}
		b.WriteByte(c)
	}
	return b.String()
}

// nameMatcher 用 doublestar 匹配单个文件名。
type nameMatcher struct {
	pattern string
	fold    bool
}

func newNameMatcher(base string, fold bool) nameMatcher {
	p := toDoublestar(base)
	if fold {
		p = strings.ToLower(p)
	}
	return nameMatcher{pattern: p, fold: fold}
}

func (m nameMatcher) Match(name string) (bool, error) {
	if m.fold {
		name = strings.ToLower(name)
	}
	return doublestar.Match(m.pattern, name)
}

// toDoublestar 把 shell 风格的文件名模式改写为 doublestar 语法：
// - [[] / []] 改写为 \[ / \]（doublestar 不接受以 ] 开头的字符类）
// - { } \ 在 doublestar 中有特殊含义，统一转义为字面量
func toDoublestar(base string) string {
	var b strings.Builder
	b.Grow(len(base) + 8)
	for i := 0; i < len(base); i++ {
		c := base[i]
		if c == '[' && i+2 < len(base) && base[i+2] == ']' && (base[i+1] == '[' || base[i+1] == ']') {
			b.WriteByte('\\')
			b.WriteByte(base[i+1])
			i += 2
			continue
		}
		switch c {
		case '{', '}', '\\':
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	return b.String()
}

// relativeDir 把本地目录文本映射为相对 root 的 '/' 分隔路径（非空时以 '/' 结尾）。
// dir 为空（相对模式）时视为 root 本身。
func relativeDir(dir, root string) (string, error) {
	d := strings.ReplaceAll(dir, `\`, "/")
	r := strings.TrimRight(strings.ReplaceAll(root, `\`, "/"), "/")
	if d == "" {
		return "", nil
	}
	if r == "" {
		return strings.TrimLeft(d, "/"), nil
	}
	if d == r || d == r+"/" {
		return "", nil
	}
	if !strings.HasPrefix(d, r+"/") {
		return "", &OutsideRootError{Dir: dir, Root: root}
	}
	return strings.TrimPrefix(d, r+"/"), nil
}
