package domain

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"
)

func TestScanReport_Finalize_SortAndSummaryAndUTC(t *testing.T) {
	r := ScanReport{
		Root:       "/abs/path",
		StartedAt:  time.Date(2026, 2, 9, 10, 0, 0, 0, time.FixedZone("X", 8*3600)),
		FinishedAt: time.Date(2026, 2, 9, 10, 0, 1, 0, time.FixedZone("X", 8*3600)),
		Items: []SequenceResult{
			{Representation: "b.[1:3].exr", Status: StatusGaps, Files: []string{"b.1.exr", "b.3.exr"}, Bytes: 20},
			{Representation: "", Status: StatusFailed}, // 扫描失败等合成项
			{Representation: "a.[1:2].exr", Status: StatusComplete, Files: []string{"a.1.exr", "a.2.exr"}, Bytes: 10},
			{Representation: "movie.mov", Status: StatusSingle, Files: []string{"movie.mov"}, Bytes: 5},
		},
	}

	r.Finalize()

	got := []string{r.Items[0].Representation, r.Items[1].Representation, r.Items[2].Representation, r.Items[3].Representation}
	if got[0] != "a.[1:2].exr" || got[1] != "b.[1:3].exr" || got[2] != "movie.mov" || got[3] != "" {
		t.Fatalf("items 排序不符合契约：%v", got)
	}
	want := ScanSummary{Sequences: 2, Singles: 1, Files: 5, Bytes: 35, Gaps: 1, Failed: 1}
	if r.Summary != want {
		t.Fatalf("summary 统计不正确：%+v", r.Summary)
	}

	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("json.Marshal 失败：%v", err)
	}
	if !bytes.Contains(b, []byte("\"started_at\":\"2026-02-09T02:00:00Z\"")) {
		t.Fatalf("started_at 不是 UTC RFC3339：%s", string(b))
	}
}

func TestScanReport_MarshalJSON_NilSlicesAsEmpty(t *testing.T) {
	r := ScanReport{Items: []SequenceResult{{Representation: "x.mov", Status: StatusSingle}}}

	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("json.Marshal 失败：%v", err)
	}
	if !bytes.Contains(b, []byte(`"missing":[]`)) || !bytes.Contains(b, []byte(`"files":[]`)) {
		t.Fatalf("nil 切片应输出为 []：%s", string(b))
	}
	if r.Items[0].Missing != nil {
		t.Fatalf("MarshalJSON 不应修改调用方数据")
	}
}

func TestSegmentedPath_Path(t *testing.T) {
	s := SegmentedPath{Dir: "/r/", Prefix: "/r/a_", Frame: "0007", Suffix: ".exr"}
	if s.Path() != "/r/a_0007.exr" {
		t.Fatalf("期望 /r/a_0007.exr，实际 %q", s.Path())
	}
}

func TestValidateLayout(t *testing.T) {
	if err := ValidateLayout(DefaultLayout); err != nil {
		t.Fatalf("默认 layout 应合法：%v", err)
	}
	if err := ValidateLayout("{prefix}#{first}-{last}#{suffix}"); err != nil {
		t.Fatalf("自定义 layout 应合法：%v", err)
	}
	for _, bad := range []string{"", "{prefix}[{first}]{suffix}", "{first}:{last}"} {
		if err := ValidateLayout(bad); err == nil {
			t.Fatalf("期望 %q 不合法", bad)
		}
	}
}
