package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/John-Robertt/seqr/internal/domain"
)

type styles struct {
	label lipgloss.Style
	value lipgloss.Style
	dim   lipgloss.Style
	ok    lipgloss.Style
	warn  lipgloss.Style
	fail  lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		label: lipgloss.NewStyle().Bold(true),
		value: lipgloss.NewStyle(),
		dim:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		ok:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		warn:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // orange-ish
		fail:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

// statusStyle 返回 scan 状态对应的样式与短标签。
func (s styles) status(status string) (lipgloss.Style, string) {
	switch status {
	case domain.StatusComplete:
		return s.ok, "OK"
	case domain.StatusGaps:
		return s.warn, "GAPS"
	case domain.StatusSingle:
		return s.dim, "SINGLE"
	case domain.StatusFailed:
		return s.fail, "FAIL"
	default:
		return s.value, strings.ToUpper(status)
	}
}

// emitJSON 向 w 写出单个 JSON 文档（非 TTY 的 stdout 契约）。
func emitJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func (s styles) field(w io.Writer, label, value string) {
	fmt.Fprintf(w, "%s %s\n", s.label.Render(label+":"), s.value.Render(value))
}

func (s styles) list(w io.Writer, items []string) {
	for _, it := range items {
		fmt.Fprintln(w, it)
	}
	fmt.Fprintln(w, s.dim.Render(fmt.Sprintf("(%d)", len(items))))
}

func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if max <= 0 || len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
