package logs

import (
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	initOnce sync.Once
	logger   *log.Logger
)

// Init 初始化进程级 logger（只执行一次）。日志一律写 stderr，不污染 stdout 的 JSON 输出。
func Init() {
	initOnce.Do(func() {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			Level:  log.WarnLevel,
			Prefix: "seqr",
		})
	})
}

func L() *log.Logger {
	Init()
	return logger
}

// SetVerbosity 按 -v 次数设置级别：0=warn，1=info，2 及以上=debug。
func SetVerbosity(cnt int) {
	switch {
	case cnt <= 0:
		L().SetLevel(log.WarnLevel)
	case cnt == 1:
		L().SetLevel(log.InfoLevel)
	default:
		L().SetLevel(log.DebugLevel)
	}
}

func SetOutput(w io.Writer) {
	L().SetOutput(w)
}

func Debugf(format string, args ...any) {
	L().Debugf(format, args...)
}

func Infof(format string, args ...any) {
	L().Infof(format, args...)
}

func Warnf(format string, args ...any) {
	L().Warnf(format, args...)
}

func Errorf(format string, args ...any) {
	L().Errorf(format, args...)
}
