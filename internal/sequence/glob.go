package sequence

import "strings"

// EscapeGlob 让文本中的方括号在 glob 中按字面量匹配。
//
// 只处理方括号，每个括号单独包进字符类：
// - '[' 前面不是 '['、后面不是 ']' 或 '[' 时改写为 "[[]"
// - ']' 前面不是 '[' 或 ']'、后面不是 ']' 时改写为 "[]]"
//
// '*' 与 '?' 保持通配含义，不做转义。
func EscapeGlob(text string) string {
	if !strings.ContainsAny(text, "[]") {
		return text
	}

	var b strings.Builder
	b.Grow(len(text) + 8)
	for i := 0; i < len(text); i++ {
		c := text[i]
		var prev, next byte
		if i > 0 {
			prev = text[i-1]
		}
		if i+1 < len(text) {
			next = text[i+1]
		}

		switch {
		case c == '[' && prev != '[' && next != ']' && next != '[':
			b.WriteString("[[]")
		case c == ']' && prev != '[' && prev != ']' && next != ']':
			b.WriteString("[]]")
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
