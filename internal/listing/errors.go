package listing

import "fmt"

// HTTPStatusError 表示目录索引页返回了非 2xx 的 HTTP 状态码（404 除外，404 视为目录不存在）。
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "HTTP status error"
	}
	return fmt.Sprintf("HTTP %d：%s", e.StatusCode, e.URL)
}

// OutsideRootError 表示要列的目录不在数据源 root 之下，无法映射到远端位置。
type OutsideRootError struct {
	Dir  string
	Root string
}

func (e *OutsideRootError) Error() string {
	return fmt.Sprintf("目录 %q 不在数据源 root %q 之下", e.Dir, e.Root)
}
