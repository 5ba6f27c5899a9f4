package domain

import (
	"fmt"
	"strings"
)

// DefaultLayout 是区间表示的默认格式，也是唯一能被解析回区间的格式。
const DefaultLayout = "{prefix}[{first}:{last}]{suffix}"

var layoutPlaceholders = []string{"{prefix}", "{first}", "{last}", "{suffix}"}

// ValidateLayout 检查 layout 是否包含全部占位符。
func ValidateLayout(layout string) error {
	for _, ph := range layoutPlaceholders {
		if !strings.Contains(layout, ph) {
			return fmt.Errorf("layout 缺少占位符 %s：%q", ph, layout)
		}
	}
	return nil
}
