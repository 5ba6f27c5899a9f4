package listing

import (
	"context"
	"errors"
	"io/fs"
	"os"
)

// 通过可替换的函数指针，让测试能稳定模拟权限错误等情况。
var readDirFunc = os.ReadDir

// DirLister 在本地文件系统上列目录。
type DirLister struct{}

var _ Lister = DirLister{}

func (DirLister) Glob(ctx context.Context, pattern string, caseInsensitive bool) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir, base := splitPattern(pattern)
	dir = literalDir(dir)
	readDir := dir
	if readDir == "" {
		readDir = "."
	}

	entries, err := readDirFunc(readDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	m := newNameMatcher(base, caseInsensitive)
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if e.Type()&fs.ModeSymlink != 0 {
			// 符号链接：只收录指向文件的链接。
			fi, err := os.Stat(dir + e.Name())
			if err != nil || fi.IsDir() {
				continue
			}
		}
		ok, err := m.Match(e.Name())
		if err != nil {
			return nil, &PatternError{Pattern: pattern, Err: err}
		}
		if ok {
			out = append(out, dir+e.Name())
		}
	}
	return out, nil
}
