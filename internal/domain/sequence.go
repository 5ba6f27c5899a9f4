package domain

// SegmentedPath 是一个路径被拆分后的三段：Prefix + Frame + Suffix。
//
// 不变量（实现必须遵守）：
// - Prefix + Frame + Suffix == filepath.Clean(原路径)
// - Frame 非空且全为 ASCII 数字（保留前导零）
// - Suffix 以 '.' 开头，后面至少一个 ASCII 字母或数字
// - Dir 是 Prefix 的前缀（含最后一个分隔符；无目录时为空串）
type SegmentedPath struct {
	Dir    string
	Prefix string
	Frame  string
	Suffix string
}

// Path 重新拼出完整路径。
func (s SegmentedPath) Path() string {
	return s.Prefix + s.Frame + s.Suffix
}

// Member 是一次发现得到的序列成员。
type Member struct {
	Path  string `json:"path"`
	Frame string `json:"frame"` // 保留原始补零，例如 "0007"
	Value int64  `json:"value"` // Frame 的整数值（忽略前导零）
}

// Sequence 是一次发现的结果：同一 Prefix/Suffix 下的全部成员。
// Members 保持 lister 返回的顺序，不做排序。
type Sequence struct {
	Prefix  string   `json:"prefix"`
	Suffix  string   `json:"suffix"`
	Members []Member `json:"members"`
}

// Range 是从 "{prefix}[{first}:{last}]{suffix}" 解析出的区间表示。
type Range struct {
	Prefix    string
	First     string
	Last      string
	Separator string
	Suffix    string

	Start int64
	End   int64
}

// Inverted 表示起点大于终点（这种区间不会匹配任何成员）。
func (r Range) Inverted() bool { return r.Start > r.End }
