package media

import "strings"

// NaturalLess 按“人类顺序”比较两个字符串：数字串按数值比较，其余部分忽略大小写。
// 例如 "shot2" < "shot10"。数值相同但补零不同时，补零少的在前；完全相等时按原串兜底，保证全序。
func NaturalLess(a, b string) bool {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		ca, cb := a[i], b[j]
		if isDigit(ca) && isDigit(cb) {
			ni := digitRun(a, i)
			nj := digitRun(b, j)
			if c := compareNumeric(a[i:ni], b[j:nj]); c != 0 {
				return c < 0
			}
			if ni-i != nj-j {
				return ni-i < nj-j
			}
			i, j = ni, nj
			continue
		}
		// 数字排在文本之前。
		if isDigit(ca) != isDigit(cb) {
			return isDigit(ca)
		}
		la, lb := lower(ca), lower(cb)
		if la != lb {
			return la < lb
		}
		i++
		j++
	}
	if len(a)-i != len(b)-j {
		return len(a)-i < len(b)-j
	}
	if !strings.EqualFold(a, b) {
		return strings.ToLower(a) < strings.ToLower(b)
	}
	return a < b
}

func digitRun(s string, i int) int {
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return i
}

// compareNumeric 比较两个十进制数字串的数值，不受长度限制。
func compareNumeric(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}
