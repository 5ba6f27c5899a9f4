package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// execute 运行一次 CLI 并返回退出码：0 成功，1 运行失败，2 用法错误。
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	st := &cliState{
		stdout: stdout,
		stderr: stderr,
		tty:    isTTY(stdout),
	}
	root := newRootCmd(st)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var ue *usageError
	if errors.As(err, &ue) {
		fmt.Fprintf(stderr, "参数错误：%v\n\n", ue.Err)
		if ue.cmd != nil {
			fmt.Fprint(stderr, ue.cmd.UsageString())
		}
		return 2
	}
	var ee *exitError
	if errors.As(err, &ee) {
		// 结果已经输出，只需要退出码。
		return ee.code
	}
	fmt.Fprintf(stderr, "错误：%v\n", err)
	return 1
}

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func pickProgressWriter(stdout, stderr io.Writer) (io.Writer, bool) {
	// 进度输出只在交互终端启用；默认走 stderr（不污染 stdout JSON）。
	if isTTY(stderr) {
		return stderr, true
	}
	// 某些环境（例如仅重定向 stderr）下，stdout 仍是 TTY：退化输出到 stdout。
	if isTTY(stdout) {
		return stdout, true
	}
	return nil, false
}
