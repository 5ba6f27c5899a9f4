package sequence

import (
	"context"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/John-Robertt/seqr/internal/domain"
	"github.com/John-Robertt/seqr/internal/listing"
)

// Resolver 把单个路径解析为帧序列，并在区间表示与文件列表之间来回转换。
//
// Resolver 是只读值：不缓存任何结果，方法可并发调用。
// 唯一的 I/O 是 Lister.Glob；它返回的错误原样透传给调用方。
type Resolver struct {
	// Lister 为空时使用本地文件系统。
	Lister          listing.Lister
	CaseInsensitive bool

	// Layout 为空时使用 domain.DefaultLayout。
	Layout string

	// Logger 为空时不输出日志。
	Logger *log.Logger
}

// Segment 等价于 Segment(path, r.CaseInsensitive)。
func (r Resolver) Segment(path string) (domain.SegmentedPath, bool) {
	return Segment(path, r.CaseInsensitive)
}

// Sequence 列出与 seg 同 prefix/suffix 的全部成员。
//
// 结果保持 lister 的返回顺序，不排序；需要顺序的调用方（例如 Expand）自行排序。
// 没有成员时返回空 Members，不算错误。
func (r Resolver) Sequence(ctx context.Context, seg domain.SegmentedPath) (domain.Sequence, error) {
	members, err := r.scan(ctx, seg.Prefix, seg.Suffix)
	if err != nil {
		return domain.Sequence{}, err
	}
	return domain.Sequence{Prefix: seg.Prefix, Suffix: seg.Suffix, Members: members}, nil
}

// Discover 返回 path 所在序列的全部文件路径（lister 顺序）。
// path 不是序列成员、或磁盘上找不到任何成员时，返回 [clean(path)]。
func (r Resolver) Discover(ctx context.Context, path string) ([]string, error) {
	seg, ok := r.Segment(path)
	if !ok {
		r.debug("不是序列成员", "path", path)
		return []string{filepath.Clean(path)}, nil
	}

	seq, err := r.Sequence(ctx, seg)
	if err != nil {
		return nil, err
	}
	if len(seq.Members) == 0 {
		return []string{filepath.Clean(path)}, nil
	}

	out := make([]string, 0, len(seq.Members))
	for _, m := range seq.Members {
		out = append(out, m.Path)
	}
	return out, nil
}

// Represent 返回 path 所在序列的区间表示。
//
// - path 不是序列成员：返回 clean(path)
// - 找不到任何成员：按只有 path 自己的单成员序列处理
func (r Resolver) Represent(ctx context.Context, path string, force bool) (string, error) {
	seg, ok := r.Segment(path)
	if !ok {
		r.debug("不是序列成员", "path", path)
		return filepath.Clean(path), nil
	}

	seq, err := r.Sequence(ctx, seg)
	if err != nil {
		return "", err
	}
	if len(seq.Members) == 0 {
		v, _ := FrameValue(seg.Frame)
		seq.Members = []domain.Member{{Path: seg.Path(), Frame: seg.Frame, Value: v}}
	}
	// 以磁盘上的成员为准（忽略大小写时输入的写法可能与文件名不同）。
	anchor := seq.Members[0].Path
	seq.Prefix = anchor[:len(seg.Prefix)]
	seq.Suffix = anchor[len(anchor)-len(seg.Suffix):]
	return Format(seq, force, r.Layout), nil
}

// Expand 把区间表示展开为当前存在的文件列表，按帧号整数值升序（同值保持 lister 顺序）。
//
// - repr 无法解析为区间：返回 [repr]
// - 倒置区间（first > last）：返回空列表，不算错误
func (r Resolver) Expand(ctx context.Context, repr string) ([]string, error) {
	rg, ok := ParseRange(repr)
	if !ok {
		r.debug("不是区间表示", "repr", repr)
		return []string{repr}, nil
	}

	members, err := r.scan(ctx, rg.Prefix, rg.Suffix)
	if err != nil {
		return nil, err
	}

	kept := make([]domain.Member, 0, len(members))
	for _, m := range members {
		if m.Value >= rg.Start && m.Value <= rg.End {
			kept = append(kept, m)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Value < kept[j].Value })

	out := make([]string, 0, len(kept))
	for _, m := range kept {
		out = append(out, m.Path)
	}
	r.debug("展开完成", "repr", repr, "scanned", len(members), "kept", len(out))
	return out, nil
}

// scan 是发现与展开共用的扫描步骤：glob 只做预过滤，matchFrame 才是最终判定。
func (r Resolver) scan(ctx context.Context, prefix, suffix string) ([]domain.Member, error) {
	lister := r.Lister
	if lister == nil {
		lister = listing.DirLister{}
	}

	pattern := EscapeGlob(prefix) + "*" + EscapeGlob(suffix)
	candidates, err := lister.Glob(ctx, pattern, r.CaseInsensitive)
	if err != nil {
		return nil, err
	}

	members := make([]domain.Member, 0, len(candidates))
	for _, c := range candidates {
		frame, ok := matchFrame(c, prefix, suffix, r.CaseInsensitive)
		if !ok {
			continue
		}
		v, ok := FrameValue(frame)
		if !ok {
			r.debug("帧号超出 int64，已忽略", "path", c)
			continue
		}
		members = append(members, domain.Member{Path: c, Frame: frame, Value: v})
	}
	r.debug("扫描完成", "pattern", pattern, "candidates", len(candidates), "members", len(members))
	return members, nil
}

// matchFrame 判断 path 是否严格等于 prefix + 数字串 + suffix，并返回数字串。
//
// 按字节比较，路径不要求是合法 UTF-8。fold 时 prefix/suffix 按字节长度对齐后再忽略大小写比较。
func matchFrame(path, prefix, suffix string, fold bool) (string, bool) {
	if len(path) <= len(prefix)+len(suffix) {
		return "", false
	}
	head, tail := path[:len(prefix)], path[len(path)-len(suffix):]
	if fold {
		if !strings.EqualFold(head, prefix) || !strings.EqualFold(tail, suffix) {
			return "", false
		}
	} else if head != prefix || tail != suffix {
		return "", false
	}
	frame := path[len(prefix) : len(path)-len(suffix)]
	if !allDigits(frame) {
		return "", false
	}
	return frame, true
}

// FrameValue 解析帧号整数值；超出 int64 的数字串视为无效（ok=false）。
func FrameValue(frame string) (int64, bool) {
	v, err := strconv.ParseInt(frame, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (r Resolver) debug(msg string, keyvals ...any) {
	if r.Logger == nil {
		return
	}
	r.Logger.Debug(msg, keyvals...)
}
