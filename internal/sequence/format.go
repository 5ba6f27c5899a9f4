package sequence

import (
	"strings"

	"github.com/John-Robertt/seqr/internal/domain"
)

// Format 把一次发现的结果渲染为紧凑的区间表示。
//
// - 只保留最小/最大帧号，区间内部的缺帧不可见（表示的是包围区间，不是清单）
// - force=false 且只有一个有效帧号时，返回第一个成员的路径
// - layout 为空时使用 domain.DefaultLayout（占位符见 domain.ValidateLayout）
// - 成员为空时返回空串
func Format(seq domain.Sequence, force bool, layout string) string {
	if len(seq.Members) == 0 {
		return ""
	}
	if layout == "" {
		layout = domain.DefaultLayout
	}

	frames := lastSeenPadding(seq.Members)
	lo, hi := seq.Members[0].Value, seq.Members[0].Value
	for v := range frames {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	low, high := frames[lo], frames[hi]
	if !force && low == high {
		return seq.Members[0].Path
	}

	return strings.NewReplacer(
		"{prefix}", seq.Prefix,
		"{first}", low,
		"{last}", high,
		"{suffix}", seq.Suffix,
	).Replace(layout)
}

// lastSeenPadding 建立 帧号整数值 -> 补零写法 的映射。
//
// 同一整数值出现多种补零写法时（例如 "7" 与 "007"），按成员顺序遍历，后出现的写法覆盖先出现的。
func lastSeenPadding(members []domain.Member) map[int64]string {
	frames := make(map[int64]string, len(members))
	for _, m := range members {
		frames[m.Value] = m.Frame
	}
	return frames
}
