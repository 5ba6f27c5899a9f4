package app

import (
	"path/filepath"
	"testing"

	"github.com/John-Robertt/seqr/internal/domain"
)

func mf(rel string) domain.MediaFile {
	root := filepath.Join(string(filepath.Separator), "tmp", "r")
	return domain.MediaFile{AbsPath: filepath.Join(root, rel), RelPath: rel}
}

func TestGroupBySequence_MergeSamePrefix(t *testing.T) {
	files := []domain.MediaFile{
		mf("a_0010.exr"),
		mf("a_0002.exr"),
		mf("b_0001.exr"),
		mf("a_0001.exr"),
	}

	groups := GroupBySequence(files, false)
	if len(groups) != 2 {
		t.Fatalf("期望 2 组，实际 %d", len(groups))
	}
	a := groups[0]
	if filepath.Base(a.Prefix) != "a_" || a.Suffix != ".exr" || a.Single {
		t.Fatalf("第一组不符合预期：%+v", a)
	}
	// 组内必须按帧号整数值排序。
	want := []int{3, 1, 0}
	for i, w := range want {
		if a.FileIdx[i] != w {
			t.Fatalf("FileIdx 排序不符合预期：%v", a.FileIdx)
		}
	}
	if a.Frames[2].Frame != "0010" || a.Frames[2].Value != 10 {
		t.Fatalf("Frames 未与 FileIdx 对齐：%+v", a.Frames)
	}
}

func TestGroupBySequence_Singles(t *testing.T) {
	files := []domain.MediaFile{
		mf("clip.mov"),
		mf("shot_Sc010_v003.png"),
		mf("a_0001.exr"),
	}

	groups := GroupBySequence(files, false)
	if len(groups) != 3 {
		t.Fatalf("期望 3 组，实际 %d", len(groups))
	}
	singles := 0
	for _, g := range groups {
		if g.Single {
			singles++
			if len(g.FileIdx) != 1 || len(g.Frames) != 0 {
				t.Fatalf("Single 组应只有一个文件且没有帧：%+v", g)
			}
		}
	}
	if singles != 2 {
		t.Fatalf("期望 2 个 Single 组，实际 %d", singles)
	}
}

func TestGroupBySequence_CaseInsensitiveMerges(t *testing.T) {
	files := []domain.MediaFile{
		mf("Shot_0001.PNG"),
		mf("shot_0002.png"),
	}

	if got := GroupBySequence(files, false); len(got) != 2 {
		t.Fatalf("区分大小写时期望 2 组，实际 %d", len(got))
	}
	got := GroupBySequence(files, true)
	if len(got) != 1 {
		t.Fatalf("忽略大小写时期望 1 组，实际 %d", len(got))
	}
	if filepath.Base(got[0].Prefix) != "Shot_" {
		t.Fatalf("组名应取首个文件的写法，实际 %q", got[0].Prefix)
	}
}

func TestGroupBySequence_NaturalGroupOrder(t *testing.T) {
	files := []domain.MediaFile{
		mf("s10_0001.exr"),
		mf("s2_0001.exr"),
	}
	groups := GroupBySequence(files, false)
	if filepath.Base(groups[0].Prefix) != "s2_" {
		t.Fatalf("组应按人类顺序排列，实际第一组 %q", groups[0].Prefix)
	}
}
