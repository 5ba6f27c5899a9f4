package media

import "github.com/dustin/go-humanize"

// FormatSize 把字节数格式化为易读的大小；iec=true 时使用 1024 进制（KiB、MiB）。
func FormatSize(n int64, iec bool) string {
	if n < 0 {
		n = 0
	}
	if iec {
		return humanize.IBytes(uint64(n))
	}
	return humanize.Bytes(uint64(n))
}
