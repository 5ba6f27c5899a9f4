package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/John-Robertt/seqr/internal/app/run"
	"github.com/John-Robertt/seqr/internal/config"
	"github.com/John-Robertt/seqr/internal/domain"
	"github.com/John-Robertt/seqr/internal/infra/fsx"
)

func newScanCmd(st *cliState) *cobra.Command {
	var (
		reportPath string
		iec        bool
	)
	cmd := &cobra.Command{
		Use:   "scan [ROOT]",
		Short: "盘点 ROOT 下的全部序列：缺帧、大小、区间往返校验",
		Long: `递归扫描 ROOT（默认当前目录）下的图像与影片文件，按序列分组，
逐组渲染区间表示并展开回文件列表做比对。

任一分组失败时退出码为 1。--report 把 JSON 报告原子写入文件（覆盖已有文件）。`,
		Args: maximumArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			rootAbs, err := filepath.Abs(root)
			if err != nil {
				return err
			}

			eff, r, err := st.setup(cmd)
			if err != nil {
				rep := reportForConfigError(rootAbs, err)
				st.emitReport(rep)
				return &exitError{code: 1}
			}

			progressW, interactive := pickProgressWriter(st.stdout, st.stderr)
			var obs run.Observer
			if interactive {
				obs = newProgressUI(progressW)
			}

			rep := run.ExecuteWithObserver(cmd.Context(), run.Options{Root: rootAbs, IEC: iec}, eff, r, obs)

			if reportPath != "" {
				if err := writeReportFile(reportPath, rep); err != nil {
					fmt.Fprintf(st.stderr, "写入报告失败：%v\n", err)
					st.emitReport(rep)
					return &exitError{code: 1}
				}
			}

			st.emitReport(rep)
			if interactive && reportPath != "" {
				fmt.Fprintf(progressW, "report: %s\n", reportPath)
			}
			if rep.Summary.Failed == 0 {
				return nil
			}
			return &exitError{code: 1}
		},
	}
	cmd.Flags().StringVar(&reportPath, "report", "", "把 JSON 报告写入文件")
	cmd.Flags().BoolVar(&iec, "iec", false, "大小用 1024 进制（KiB、MiB）")
	return cmd
}

func (st *cliState) emitReport(rep domain.ScanReport) {
	if st.tty {
		s := defaultStyles()
		for _, it := range rep.Items {
			style, tag := s.status(it.Status)
			line := fmt.Sprintf("%-6s %s  %s", tag, it.Representation, s.dim.Render(fmt.Sprintf("count=%d size=%s", it.Count, it.Size)))
			if it.Status == domain.StatusGaps {
				line += s.dim.Render(fmt.Sprintf(" missing=%d", it.MissingCount))
			}
			fmt.Fprintln(st.stdout, style.Render(line))
			if it.Status == domain.StatusFailed {
				fmt.Fprintf(st.stderr, "%s %s: %s\n", keyOf(it), it.ErrorCode, it.ErrorMsg)
			}
		}
		fmt.Fprintln(st.stdout, summaryLine(rep.Summary))
		return
	}

	// stdout 非 TTY：stdout 必须且仅输出一个 ScanReport JSON（摘要走 stderr）。
	_ = emitJSON(st.stdout, rep)
	fmt.Fprintln(st.stderr, summaryLine(rep.Summary))
}

func summaryLine(s domain.ScanSummary) string {
	return fmt.Sprintf("完成：sequences=%d singles=%d gaps=%d failed=%d files=%d",
		s.Sequences, s.Singles, s.Gaps, s.Failed, s.Files,
	)
}

func keyOf(it domain.SequenceResult) string {
	if it.Representation != "" {
		return it.Representation
	}
	if len(it.Files) > 0 {
		return it.Files[0]
	}
	return "<unknown>"
}

func reportForConfigError(root string, err error) domain.ScanReport {
	now := time.Now().UTC()
	code := config.Code(err)
	if code == "" {
		code = domain.ErrCodeConfigInvalid
	}
	rep := domain.ScanReport{
		Root:       root,
		StartedAt:  now,
		FinishedAt: now,
		Items: []domain.SequenceResult{{
			Status:    domain.StatusFailed,
			ErrorCode: code,
			ErrorMsg:  err.Error(),
		}},
	}
	rep.Finalize()
	return rep
}

func writeReportFile(path string, rep domain.ScanReport) error {
	b, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	return fsx.WriteFile(path, b, true)
}
