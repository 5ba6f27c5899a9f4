package run

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/John-Robertt/seqr/internal/app"
	"github.com/John-Robertt/seqr/internal/config"
	"github.com/John-Robertt/seqr/internal/domain"
	"github.com/John-Robertt/seqr/internal/media"
	"github.com/John-Robertt/seqr/internal/scan"
	"github.com/John-Robertt/seqr/internal/sequence"
)

// Options 是一次 scan 的输入（配置之外的部分）。
type Options struct {
	Root string
	// IEC 为 true 时 size 用 1024 进制（KiB、MiB）。
	IEC bool
}

// Execute 扫描 opts.Root 下的媒体文件，按序列分组并逐组做区间往返校验，返回 ScanReport。
// 错误尽量降级为条目级失败（单组失败不影响其他组）。
func Execute(ctx context.Context, opts Options, eff config.EffectiveConfig, r sequence.Resolver) domain.ScanReport {
	return ExecuteWithObserver(ctx, opts, eff, r, nil)
}

// ExecuteWithObserver 与 Execute 相同，但允许传入 Observer 输出进度/阶段信息。
func ExecuteWithObserver(ctx context.Context, opts Options, eff config.EffectiveConfig, r sequence.Resolver, obs Observer) domain.ScanReport {
	root := filepath.Clean(opts.Root)
	if obs != nil {
		obs.OnStart(root, eff)
	}

	rep := domain.ScanReport{
		Root:      root,
		StartedAt: time.Now().UTC(),
		Items:     make([]domain.SequenceResult, 0, 64),
	}

	scanStarted := time.Now()
	files, err := scan.ScanMedia(root, eff.ExcludeDirs)
	if err != nil {
		rep.Items = append(rep.Items, syntheticFailed(domain.ErrCodeIOFailed, fmt.Sprintf("扫描失败：%v", err)))
		rep.FinishedAt = time.Now().UTC()
		rep.Finalize()
		return rep
	}
	scanDur := time.Since(scanStarted)

	groupStarted := time.Now()
	groups := app.GroupBySequence(files, r.CaseInsensitive)
	groupDur := time.Since(groupStarted)

	if obs != nil {
		var bytes int64
		for i := range files {
			bytes += files[i].Size
		}
		obs.OnPhaseDone("scan", map[string]any{
			"files": len(files),
			"bytes": bytes,
		}, scanDur)

		singles := 0
		for i := range groups {
			if groups[i].Single {
				singles++
			}
		}
		obs.OnPhaseDone("group", map[string]any{
			"sequences": len(groups) - singles,
			"singles":   singles,
		}, groupDur)
	}

	// 校验阶段：按分组并发（worker pool）。
	workers := eff.Concurrency
	if workers < 1 {
		workers = 1
	}
	if obs != nil {
		obs.OnPhaseDone("verify", map[string]any{
			"workers":      workers,
			"total_groups": len(groups),
		}, 0)
	}

	type verifyResult struct {
		res domain.SequenceResult
		dur time.Duration
	}

	jobs := make(chan domain.FileGroup)
	results := make(chan verifyResult, len(groups))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for g := range jobs {
				oneStarted := time.Now()
				res := verifyGroup(ctx, r, files, g, opts.IEC)
				results <- verifyResult{res: res, dur: time.Since(oneStarted)}
			}
		}()
	}

	go func() {
		// 取消后不再派发新的分组；已派发的分组照常完成。
	feed:
		for _, g := range groups {
			if ctx.Err() != nil {
				break
			}
			select {
			case <-ctx.Done():
				break feed
			case jobs <- g:
			}
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	done := 0
	for it := range results {
		done++
		rep.Items = append(rep.Items, it.res)
		if obs != nil {
			obs.OnItemDone(done, len(groups), it.res, it.dur)
		}
	}

	if ctx.Err() != nil && done < len(groups) {
		rep.Items = append(rep.Items, syntheticFailed(domain.ErrCodeCanceled,
			fmt.Sprintf("已取消：完成 %d/%d 组", done, len(groups))))
	}

	rep.FinishedAt = time.Now().UTC()
	rep.Finalize()
	return rep
}

// verifyGroup 渲染分组的区间表示，再通过 resolver 展开回文件列表并与分组比对。
func verifyGroup(ctx context.Context, r sequence.Resolver, files []domain.MediaFile, g domain.FileGroup, iec bool) domain.SequenceResult {
	res := domain.SequenceResult{
		Kind:  media.KindOf(files[g.FileIdx[0]].AbsPath),
		Count: len(g.FileIdx),
		Files: make([]string, 0, len(g.FileIdx)),
	}
	for _, idx := range g.FileIdx {
		res.Files = append(res.Files, files[idx].RelPath)
		res.Bytes += files[idx].Size
	}
	res.Size = media.FormatSize(res.Bytes, iec)

	if g.Single {
		res.Representation = files[g.FileIdx[0]].AbsPath
		res.Status = domain.StatusSingle
		return res
	}

	seq := domain.Sequence{Prefix: g.Prefix, Suffix: g.Suffix, Members: g.Frames}
	res.Representation = sequence.Format(seq, false, r.Layout)
	res.First, res.Last = frameBounds(g.Frames)
	res.Missing, res.MissingCount = missingFrames(g.Frames)

	// 往返校验总是走默认布局：展开只认识方括号语法。
	repr := sequence.Format(seq, false, domain.DefaultLayout)
	expanded, err := r.Expand(ctx, repr)
	if err != nil {
		res.Status = domain.StatusFailed
		res.ErrorCode = domain.ErrCodeListFailed
		res.ErrorMsg = fmt.Sprintf("展开 %q 失败：%v", repr, err)
		return res
	}
	if !sameFiles(expanded, g.Frames) {
		res.Status = domain.StatusFailed
		res.ErrorCode = domain.ErrCodeMismatch
		res.ErrorMsg = fmt.Sprintf("展开 %q 得到 %d 个文件，分组有 %d 个", repr, len(expanded), len(g.Frames))
		return res
	}

	switch {
	case len(g.Frames) == 1:
		res.Status = domain.StatusSingle
	case res.MissingCount > 0:
		res.Status = domain.StatusGaps
	default:
		res.Status = domain.StatusComplete
	}
	return res
}

// frameBounds 返回最小/最大帧号的原始写法；同值多种补零时取后出现的，与 sequence.Format 一致。
func frameBounds(members []domain.Member) (first, last string) {
	lo, hi := 0, 0
	for i := range members {
		if members[i].Value <= members[lo].Value {
			lo = i
		}
		if members[i].Value >= members[hi].Value {
			hi = i
		}
	}
	return members[lo].Frame, members[hi].Frame
}

// missingFrames 返回 [min, max] 内缺失的帧号（最多 domain.MaxMissingListed 个）与缺失总数。
func missingFrames(members []domain.Member) ([]int64, int64) {
	vals := make([]int64, 0, len(members))
	for _, m := range members {
		vals = append(vals, m.Value)
	}
	sort.Slice(vals, func(i, j int) bool { return vals[i] < vals[j] })

	var listed []int64
	var total int64
	for i := 1; i < len(vals); i++ {
		gap := vals[i] - vals[i-1] - 1
		if gap <= 0 {
			continue
		}
		total += gap
		for v := vals[i-1] + 1; v < vals[i] && len(listed) < domain.MaxMissingListed; v++ {
			listed = append(listed, v)
		}
	}
	return listed, total
}

func sameFiles(expanded []string, members []domain.Member) bool {
	if len(expanded) != len(members) {
		return false
	}
	want := make(map[string]int, len(members))
	for _, m := range members {
		want[filepath.Clean(m.Path)]++
	}
	for _, p := range expanded {
		k := filepath.Clean(p)
		if want[k] == 0 {
			return false
		}
		want[k]--
	}
	return true
}

func syntheticFailed(code, msg string) domain.SequenceResult {
	return domain.SequenceResult{
		Status:    domain.StatusFailed,
		ErrorCode: code,
		ErrorMsg:  msg,
		Missing:   []int64{},
		Files:     []string{},
	}
}
