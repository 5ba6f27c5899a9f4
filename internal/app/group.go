package app

import (
	"sort"
	"strings"

	"github.com/John-Robertt/seqr/internal/domain"
	"github.com/John-Robertt/seqr/internal/media"
	"github.com/John-Robertt/seqr/internal/sequence"
)

// GroupBySequence 把媒体文件按序列分组（按 AbsPath 拆分出的 prefix/suffix）。
//
// - 拆不出帧号的文件（包括影片）各自成为 Single 组
// - caseInsensitive 时 prefix/suffix 忽略大小写合并，组名取首个文件的写法
// - 组稳定排序：按 Prefix+Suffix 人类顺序；组内按帧号整数值，同值按 RelPath
func GroupBySequence(files []domain.MediaFile, caseInsensitive bool) []domain.FileGroup {
	index := make(map[string]int, 64)
	groups := make([]domain.FileGroup, 0, 64)

	for i := range files {
		seg, ok := sequence.Segment(files[i].AbsPath, caseInsensitive)
		if !ok {
			groups = append(groups, domain.FileGroup{Single: true, FileIdx: []int{i}})
			continue
		}
		v, ok := sequence.FrameValue(seg.Frame)
		if !ok {
			groups = append(groups, domain.FileGroup{Single: true, FileIdx: []int{i}})
			continue
		}
		m := domain.Member{Path: files[i].AbsPath, Frame: seg.Frame, Value: v}

		key := seg.Prefix + "\x00" + seg.Suffix
		if caseInsensitive {
			key = strings.ToLower(key)
		}
		if idx, ok := index[key]; ok {
			groups[idx].FileIdx = append(groups[idx].FileIdx, i)
			groups[idx].Frames = append(groups[idx].Frames, m)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, domain.FileGroup{
			Prefix:  seg.Prefix,
			Suffix:  seg.Suffix,
			FileIdx: []int{i},
			Frames:  []domain.Member{m},
		})
	}

	for gi := range groups {
		g := &groups[gi]
		if g.Single {
			continue
		}
		order := make([]int, len(g.FileIdx))
		for k := range order {
			order[k] = k
		}
		sort.SliceStable(order, func(a, b int) bool {
			ma, mb := g.Frames[order[a]], g.Frames[order[b]]
			if ma.Value != mb.Value {
				return ma.Value < mb.Value
			}
			return files[g.FileIdx[order[a]]].RelPath < files[g.FileIdx[order[b]]].RelPath
		})
		idx := make([]int, len(order))
		frames := make([]domain.Member, len(order))
		for k, o := range order {
			idx[k] = g.FileIdx[o]
			frames[k] = g.Frames[o]
		}
		g.FileIdx, g.Frames = idx, frames
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return media.NaturalLess(groupName(files, groups[i]), groupName(files, groups[j]))
	})
	return groups
}

func groupName(files []domain.MediaFile, g domain.FileGroup) string {
	if g.Single {
		return files[g.FileIdx[0]].AbsPath
	}
	return g.Prefix + g.Suffix
}
