package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/John-Robertt/seqr/internal/infra/fsx"
	"github.com/John-Robertt/seqr/internal/media"
)

type segmentOutput struct {
	Path   string `json:"path"`
	Match  bool   `json:"match"`
	Dir    string `json:"dir,omitempty"`
	Prefix string `json:"prefix,omitempty"`
	Frame  string `json:"frame,omitempty"`
	Suffix string `json:"suffix,omitempty"`
}

func newSegmentCmd(st *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "segment PATH",
		Short: "把路径拆为 prefix / frame / suffix（不访问文件系统）",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, r, err := st.setup(cmd)
			if err != nil {
				return err
			}

			out := segmentOutput{Path: args[0]}
			if seg, ok := r.Segment(args[0]); ok {
				out = segmentOutput{Path: args[0], Match: true, Dir: seg.Dir, Prefix: seg.Prefix, Frame: seg.Frame, Suffix: seg.Suffix}
			}

			if !st.tty {
				return emitJSON(st.stdout, out)
			}
			s := defaultStyles()
			if !out.Match {
				fmt.Fprintln(st.stdout, s.dim.Render("不是序列成员："+out.Path))
				return nil
			}
			s.field(st.stdout, "prefix", out.Prefix)
			s.field(st.stdout, "frame", out.Frame)
			s.field(st.stdout, "suffix", out.Suffix)
			return nil
		},
	}
}

type filesOutput struct {
	Input string   `json:"input"`
	Files []string `json:"files"`
}

func newDiscoverCmd(st *cliState) *cobra.Command {
	var natural bool
	cmd := &cobra.Command{
		Use:   "discover PATH",
		Short: "列出 PATH 所在序列当前存在的全部文件",
		Long: `列出 PATH 所在序列当前存在的全部文件。

默认保持数据源的返回顺序；--sort 按人类顺序排序（shot2 在 shot10 之前）。
PATH 不是序列成员、或找不到任何成员时，输出 PATH 本身。`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, r, err := st.setup(cmd)
			if err != nil {
				return err
			}
			files, err := r.Discover(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if natural {
				sort.SliceStable(files, func(i, j int) bool { return media.NaturalLess(files[i], files[j]) })
			}

			if !st.tty {
				return emitJSON(st.stdout, filesOutput{Input: args[0], Files: files})
			}
			defaultStyles().list(st.stdout, files)
			return nil
		},
	}
	cmd.Flags().BoolVar(&natural, "sort", false, "按人类顺序排序输出")
	return cmd
}

type reprOutput struct {
	Input          string `json:"input"`
	Representation string `json:"representation"`
}

func newReprCmd(st *cliState) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "repr PATH",
		Short: "输出 PATH 所在序列的区间表示，例如 shot_[0001:0100].exr",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, r, err := st.setup(cmd)
			if err != nil {
				return err
			}
			repr, err := r.Represent(cmd.Context(), args[0], force)
			if err != nil {
				return err
			}

			if !st.tty {
				return emitJSON(st.stdout, reprOutput{Input: args[0], Representation: repr})
			}
			fmt.Fprintln(st.stdout, defaultStyles().label.Render(repr))
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "只有一帧时也输出区间形式")
	return cmd
}

func newExpandCmd(st *cliState) *cobra.Command {
	var (
		outPath   string
		overwrite bool
	)
	cmd := &cobra.Command{
		Use:   "expand REPR",
		Short: "把区间表示展开为当前存在的文件列表（按帧号升序）",
		Long: `把区间表示展开为当前存在的文件列表（按帧号升序）。

REPR 不是区间表示时原样输出。--out 把列表写入文件（每行一个路径）；
目标已存在时拒绝写入，除非指定 --overwrite。`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, r, err := st.setup(cmd)
			if err != nil {
				return err
			}
			files, err := r.Expand(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if outPath != "" {
				data := []byte(strings.Join(files, "\n"))
				if len(files) > 0 {
					data = append(data, '\n')
				}
				if err := fsx.WriteFile(outPath, data, overwrite); err != nil {
					if errors.Is(err, os.ErrExist) {
						return fmt.Errorf("输出文件已存在：%s（使用 --overwrite 覆盖）", outPath)
					}
					return fmt.Errorf("写入 %s 失败：%w", outPath, err)
				}
			}

			if !st.tty {
				return emitJSON(st.stdout, filesOutput{Input: args[0], Files: files})
			}
			defaultStyles().list(st.stdout, files)
			return nil
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "", "把展开结果写入文件")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "允许覆盖 --out 指定的已有文件")
	return cmd
}

type typesOutput struct {
	Types  []media.FileType `json:"types"`
	Filter string           `json:"filter"`
}

func newTypesCmd(st *cliState) *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "types",
		Short: "列出认识的媒体类型与文件对话框过滤串",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch kind {
			case "", media.KindImage, media.KindMovie:
			default:
				return &usageError{Err: fmt.Errorf("--kind 只能是 image 或 movie，实际是 %q", kind), cmd: cmd}
			}

			out := typesOutput{Types: media.Types(kind), Filter: media.FileTypesFilter(kind)}
			if !st.tty {
				return emitJSON(st.stdout, out)
			}
			s := defaultStyles()
			for _, ft := range out.Types {
				fmt.Fprintf(st.stdout, "%-5s %-6s %s\n", ft.Ext, ft.Kind, s.dim.Render(ft.Description))
			}
			s.field(st.stdout, "filter", out.Filter)
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "只列出某一类：image|movie")
	return cmd
}
