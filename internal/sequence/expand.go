package sequence

import (
	"strconv"
	"unicode/utf8"

	"github.com/John-Robertt/seqr/internal/domain"
)

// ParseRange 解析 "{prefix}[{first}{sep}{last}]{suffix}"。
//
// 从右向左分阶段解析：
//  1. suffix：最后一个 '.' 加 1 个以上 ASCII 字母数字，直到结尾
//  2. ']'
//  3. last：1 位以上数字
//  4. sep：恰好 1 个非字母数字字符（按 rune 计，例如 '–'；只用于分隔，不参与语义）
//  5. first：1 位以上数字
//  6. '['
//  7. prefix：剩余部分，不能为空
//
// 任何阶段失败（或帧号超出 int64）都返回 ok=false。
// 不校验 first <= last：倒置区间照常返回，由调用方得到空结果。
func ParseRange(repr string) (domain.Range, bool) {
	_, suffix, ok := splitExtension(repr)
	if !ok {
		return domain.Range{}, false
	}
	i := len(repr) - len(suffix) - 1
	if i < 0 || repr[i] != ']' {
		return domain.Range{}, false
	}

	lastEnd := i
	for i > 0 && isDigit(repr[i-1]) {
		i--
	}
	if i == lastEnd || i == 0 {
		return domain.Range{}, false
	}
	last := repr[i:lastEnd]

	sepEnd := i
	sep, size := utf8.DecodeLastRuneInString(repr[:i])
	if sep < utf8.RuneSelf && isAlnum(byte(sep)) {
		return domain.Range{}, false
	}
	i -= size
	separator := repr[i:sepEnd]

	firstEnd := i
	for i > 0 && isDigit(repr[i-1]) {
		i--
	}
	if i == firstEnd || i == 0 {
		return domain.Range{}, false
	}
	first := repr[i:firstEnd]

	i--
	if repr[i] != '[' || i == 0 {
		return domain.Range{}, false
	}

	start, err := strconv.ParseInt(first, 10, 64)
	if err != nil {
		return domain.Range{}, false
	}
	end, err := strconv.ParseInt(last, 10, 64)
	if err != nil {
		return domain.Range{}, false
	}

	return domain.Range{
		Prefix:    repr[:i],
		First:     first,
		Last:      last,
		Separator: separator,
		Suffix:    suffix,
		Start:     start,
		End:       end,
	}, true
}
