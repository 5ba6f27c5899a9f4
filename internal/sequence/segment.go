package sequence

import (
	"path/filepath"
	"strings"

	"github.com/John-Robertt/seqr/internal/domain"
)

// Segment 把 path 拆为 prefix/frame/suffix。
//
// 解析分阶段进行（每个阶段只负责一个守卫）：
//  1. 目录：最后一个 '/' 或 '\' 及其之前的部分。
//  2. 扩展名（扩展名数字守卫）：最后一个 '.' 加 1 个以上 ASCII 字母数字，直到结尾。
//     扩展名里的数字永远留在 suffix，例如 "render0007.png1" 的 suffix 是 ".png1"。
//  3. 主干：在 stem 上按固定偏好顺序搜索帧号起点，见 locateFrame。
//
// 返回 ok=false 表示“不是序列成员”，这是正常结果而不是错误。
// caseInsensitive 只影响守卫标记（Sc / S / _v）的大小写匹配。
func Segment(path string, caseInsensitive bool) (domain.SegmentedPath, bool) {
	if strings.TrimSpace(path) == "" {
		return domain.SegmentedPath{}, false
	}
	p := filepath.Clean(path)

	dir, name := splitDir(p)
	stem, suffix, ok := splitExtension(name)
	if !ok {
		return domain.SegmentedPath{}, false
	}

	start, ok := locateFrame(stem, caseInsensitive)
	if !ok {
		return domain.SegmentedPath{}, false
	}

	return domain.SegmentedPath{
		Dir:    dir,
		Prefix: dir + stem[:start],
		Frame:  stem[start:],
		Suffix: suffix,
	}, true
}

// splitDir 在所有平台上都把 '\' 当作目录分隔符。
func splitDir(p string) (dir, name string) {
	i := strings.LastIndexAny(p, `/\`)
	if i < 0 {
		return "", p
	}
	return p[:i+1], p[i+1:]
}

// splitExtension 返回 stem 与 suffix；stem 至少 1 个字符。
func splitExtension(name string) (stem, suffix string, ok bool) {
	dot := strings.LastIndexByte(name, '.')
	if dot < 1 || dot == len(name)-1 {
		return "", "", false
	}
	for i := dot + 1; i < len(name); i++ {
		if !isAlnum(name[i]) {
			return "", "", false
		}
	}
	return name[:dot], name[dot:], true
}

// locateFrame 在 stem 中寻找帧号起点。
//
// 搜索顺序模拟文件名语法的回溯偏好：
//
//	core（非贪婪，至少 1 个字符）
//	-> 镜头号守卫（可选，优先尝试匹配）
//	-> 非数字间隔（非贪婪）
//	-> 版本号守卫（可选，贪婪）
//	-> 帧号（到 stem 结尾的数字串）或者什么也没有
//
// 第一个能走到 stem 结尾的组合胜出；若胜出的组合不带帧号，返回 ok=false。
// 这保证了守卫里的数字（Sc010 的 010、_v003 的 003）不会被当成帧号。
func locateFrame(stem string, fold bool) (int, bool) {
	for core := 1; core <= len(stem); core++ {
		for _, afterShot := range shotGuardEnds(stem, core, fold) {
			gap := afterShot
			for {
				for _, end := range versionGuardEnds(stem, gap, fold) {
					if end == len(stem) {
						return 0, false
					}
					if allDigits(stem[end:]) {
						return end, true
					}
				}
				// 间隔只能跨过非数字字符。
				if gap == len(stem) || isDigit(stem[gap]) {
					break
				}
				gap++
			}
		}
	}
	return 0, false
}

// shotGuardEnds 返回镜头号守卫在 i 处可能的结束位置（按偏好顺序）。
// 守卫形式：Sc + 3 位数字；或 S + 4 位数字 + '.' + 2 位数字且后面不紧跟数字。
// 最后一项总是 i 本身（守卫不出现）。
func shotGuardEnds(s string, i int, fold bool) []int {
	ends := make([]int, 0, 2)
	switch {
	case hasToken(s, i, "Sc", fold) && digitsAt(s, i+2, 3):
		ends = append(ends, i+5)
	case hasToken(s, i, "S", fold) && digitsAt(s, i+1, 4) && i+5 < len(s) && s[i+5] == '.' && digitsAt(s, i+6, 2):
		end := i + 8
		if end >= len(s) || !isDigit(s[end]) {
			ends = append(ends, end)
		}
	}
	return append(ends, i)
}

// versionGuardEnds 返回版本号守卫在 i 处可能的结束位置（按偏好顺序）。
// 守卫形式：_v + 1 位以上数字 + 任意非数字。数字与尾随非数字都按贪婪方式回退。
// 最后一项总是 i 本身（守卫不出现）。
func versionGuardEnds(s string, i int, fold bool) []int {
	if !hasToken(s, i, "_v", fold) {
		return []int{i}
	}
	start := i + 2
	n := 0
	for start+n < len(s) && isDigit(s[start+n]) {
		n++
	}
	if n == 0 {
		return []int{i}
	}

	ends := make([]int, 0, 4)
	// 只有取满全部数字时，后面才可能跟非数字。
	tail := 0
	for start+n+tail < len(s) && !isDigit(s[start+n+tail]) {
		tail++
	}
	for t := tail; t > 0; t-- {
		ends = append(ends, start+n+t)
	}
	for k := n; k >= 1; k-- {
		ends = append(ends, start+k)
	}
	return append(ends, i)
}

func hasToken(s string, i int, tok string, fold bool) bool {
	if i+len(tok) > len(s) {
		return false
	}
	if fold {
		return strings.EqualFold(s[i:i+len(tok)], tok)
	}
	return s[i:i+len(tok)] == tok
}

func digitsAt(s string, i, n int) bool {
	if i+n > len(s) {
		return false
	}
	for k := i; k < i+n; k++ {
		if !isDigit(s[k]) {
			return false
		}
	}
	return true
}

func allDigits(s string) bool {
	return s != "" && digitsAt(s, 0, len(s))
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlnum(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
