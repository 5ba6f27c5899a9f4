package domain

import (
	"encoding/json"
	"sort"
	"time"
)

const (
	StatusComplete = "complete"
	StatusGaps     = "gaps"
	StatusSingle   = "single"
	StatusFailed   = "failed"
)

// MaxMissingListed 是单个序列在报告里列出的缺帧上限。
const MaxMissingListed = 1000

const (
	ErrCodeIOFailed      = "io_failed"
	ErrCodeListFailed    = "list_failed"
	ErrCodeMismatch      = "round_trip_mismatch"
	ErrCodeConfigInvalid = "config_invalid"
	ErrCodeCanceled      = "canceled"
)

// ScanReport 是 scan 命令对外稳定输出（--report 文件 / stdout JSON）的结构。
type ScanReport struct {
	Root string `json:"root"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Summary ScanSummary      `json:"summary"`
	Items   []SequenceResult `json:"items"`
}

type ScanSummary struct {
	Sequences int   `json:"sequences"`
	Singles   int   `json:"singles"`
	Files     int   `json:"files"`
	Bytes     int64 `json:"bytes"`
	Gaps      int   `json:"gaps"`
	Failed    int   `json:"failed"`
}

// SequenceResult 对应一个分组（序列或单文件）的校验结果。
type SequenceResult struct {
	Representation string `json:"representation"`
	Kind           string `json:"kind"`

	First string `json:"first"`
	Last  string `json:"last"`
	Count int    `json:"count"`

	// Missing 是 [first, last] 区间内不存在的帧号（整数值），最多列出 MaxMissingListed 个；
	// MissingCount 是总数。
	Missing      []int64 `json:"missing"`
	MissingCount int64   `json:"missing_count"`

	Bytes int64  `json:"bytes"`
	Size  string `json:"size"`

	Status    string `json:"status"`
	ErrorCode string `json:"error_code"`
	ErrorMsg  string `json:"error_msg"`

	Files []string `json:"files"`
}

// Finalize 做三件事：
// 1) 时间统一为 UTC（确保 JSON 为 RFC3339 且后缀 Z）
// 2) items 稳定排序：按 representation 字典序；representation=="" 的条目排在最后
// 3) summary 由 items 计算得出
func (r *ScanReport) Finalize() {
	r.StartedAt = r.StartedAt.UTC()
	r.FinishedAt = r.FinishedAt.UTC()

	sort.SliceStable(r.Items, func(i, j int) bool {
		a := r.Items[i].Representation
		b := r.Items[j].Representation
		if a == "" {
			return false
		}
		if b == "" {
			return true
		}
		return a < b
	})

	var s ScanSummary
	for _, it := range r.Items {
		s.Files += len(it.Files)
		s.Bytes += it.Bytes
		switch it.Status {
		case StatusComplete:
			s.Sequences++
		case StatusGaps:
			s.Sequences++
			s.Gaps++
		case StatusSingle:
			s.Singles++
		case StatusFailed:
			s.Failed++
		}
	}
	r.Summary = s
}

// MarshalJSON 仅用于集中约束输出的稳定性（nil 切片统一输出为 []）。
func (r ScanReport) MarshalJSON() ([]byte, error) {
	type Alias ScanReport
	items := make([]SequenceResult, len(r.Items))
	copy(items, r.Items)
	r.Items = items
	for i := range r.Items {
		if r.Items[i].Missing == nil {
			r.Items[i].Missing = []int64{}
		}
		if r.Items[i].Files == nil {
			r.Items[i].Files = []string{}
		}
	}
	return json.Marshal(Alias(r))
}
