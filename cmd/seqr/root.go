package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/John-Robertt/seqr/internal/config"
	"github.com/John-Robertt/seqr/internal/listing"
	"github.com/John-Robertt/seqr/internal/logs"
	"github.com/John-Robertt/seqr/internal/sequence"
)

// cliState 是一次命令执行共享的状态（输出流与全局 flag）。
type cliState struct {
	stdout io.Writer
	stderr io.Writer
	tty    bool

	configPath  string
	ignoreCase  bool
	layout      string
	concurrency int
	verbose     int
}

// usageError 表示参数/flag 错误（退出码 2）。
type usageError struct {
	Err error
	cmd *cobra.Command
}

func (e *usageError) Error() string { return e.Err.Error() }
func (e *usageError) Unwrap() error { return e.Err }

// exitError 只携带退出码：结果已经输出，不再打印错误。
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit %d", e.code) }

func newRootCmd(st *cliState) *cobra.Command {
	root := &cobra.Command{
		Use:   "seqr",
		Short: "帧序列解析：路径拆分、序列发现、区间表示与展开",
		Long: `seqr 把渲染输出这类按帧编号的文件（例如 shot_0001.exr）当作一个序列处理。

stdout 是终端时输出易读文本；否则 stdout 只输出一个 JSON 文档，日志与摘要走 stderr。`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return &usageError{Err: fmt.Errorf("未知命令：%q", args[0]), cmd: cmd}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logs.SetVerbosity(st.verbose)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&st.configPath, "config", "", "配置文件路径（默认读取当前目录下的 "+config.FileName+"，不存在则忽略）")
	pf.BoolVar(&st.ignoreCase, "ignore-case", false, "匹配时忽略大小写（默认：Windows 上开启）")
	pf.StringVar(&st.layout, "layout", "", "区间表示布局，必须包含 {prefix} {first} {last} {suffix}")
	pf.IntVar(&st.concurrency, "concurrency", 0, "scan 校验并发数（1-32）")
	pf.CountVarP(&st.verbose, "verbose", "v", "日志详细程度（-v info，-vv debug）")

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{Err: err, cmd: cmd}
	})

	root.AddCommand(
		newSegmentCmd(st),
		newDiscoverCmd(st),
		newReprCmd(st),
		newExpandCmd(st),
		newScanCmd(st),
		newTypesCmd(st),
	)
	return root
}

// exactArgs 与 cobra.ExactArgs 相同，但错误归类为用法错误。
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return &usageError{Err: err, cmd: cmd}
		}
		return nil
	}
}

func maximumArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.MaximumNArgs(n)(cmd, args); err != nil {
			return &usageError{Err: err, cmd: cmd}
		}
		return nil
	}
}

// loadConfig 合并 CLI / 配置文件 / .env / 环境变量，得到生效配置。
func (st *cliState) loadConfig(cmd *cobra.Command) (config.EffectiveConfig, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return config.EffectiveConfig{}, fmt.Errorf("读取当前目录失败：%w", err)
	}
	flags := cmd.Flags()
	return config.LoadEffective(cwd, config.CLIArgs{
		ConfigPath:     st.configPath,
		IgnoreCase:     st.ignoreCase,
		IgnoreCaseSet:  flags.Changed("ignore-case"),
		Layout:         st.layout,
		LayoutSet:      flags.Changed("layout"),
		Concurrency:    st.concurrency,
		ConcurrencySet: flags.Changed("concurrency"),
	})
}

// resolver 按生效配置构造 Resolver（数据源决定 Lister）。
func (st *cliState) resolver(eff config.EffectiveConfig) (sequence.Resolver, error) {
	lister, err := listing.New(eff.Source, eff.ProxyURL)
	if err != nil {
		return sequence.Resolver{}, err
	}
	logs.Debugf("数据源：kind=%s root=%s", sourceKind(eff.Source), eff.Source.Root)
	return sequence.Resolver{
		Lister:          lister,
		CaseInsensitive: eff.CaseInsensitive,
		Layout:          eff.Layout,
		Logger:          logs.L(),
	}, nil
}

// setup 是多数子命令共用的前置步骤。
func (st *cliState) setup(cmd *cobra.Command) (config.EffectiveConfig, sequence.Resolver, error) {
	eff, err := st.loadConfig(cmd)
	if err != nil {
		return config.EffectiveConfig{}, sequence.Resolver{}, err
	}
	r, err := st.resolver(eff)
	if err != nil {
		return config.EffectiveConfig{}, sequence.Resolver{}, err
	}
	return eff, r, nil
}

func sourceKind(s config.Source) string {
	if s.Kind == "" {
		return config.SourceLocal
	}
	return s.Kind
}
