// Package media 描述本工具认识的媒体类型：扩展名表、类型判断与对话框过滤串。
package media

import (
	"path/filepath"
	"strings"
)

const (
	KindImage = "image"
	KindMovie = "movie"
)

// FileType 是扩展名表中的一项。
type FileType struct {
	Ext         string `json:"ext"`
	Kind        string `json:"kind"`
	Description string `json:"description"`
	Player      string `json:"player,omitempty"`
}

// 顺序固定：FileTypesFilter 与 `seqr types` 的输出依赖它。
var fileTypes = []FileType{
	{Ext: ".jpg", Kind: KindImage, Description: "JPEG Files"},
	{Ext: ".png", Kind: KindImage, Description: "PNG Files"},
	{Ext: ".exr", Kind: KindImage, Description: "EXR Files"},
	{Ext: ".tga", Kind: KindImage, Description: "Targa Files"},
	{Ext: ".mov", Kind: KindMovie, Description: "Quicktime Files", Player: "QuickTime"},
	{Ext: ".mp4", Kind: KindMovie, Description: "MPEG 4", Player: "VLC Player"},
	{Ext: ".avi", Kind: KindMovie, Description: "Avi Files", Player: "VLC Player"},
}

// Types 返回 kind 对应的类型表副本；kind 为空时返回全部。
func Types(kind string) []FileType {
	out := make([]FileType, 0, len(fileTypes))
	for _, ft := range fileTypes {
		if kind == "" || ft.Kind == kind {
			out = append(out, ft)
		}
	}
	return out
}

// KindOf 按扩展名（忽略大小写）判断类型；不认识的扩展名返回空串。
func KindOf(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return ""
	}
	for _, ft := range fileTypes {
		if ft.Ext == ext {
			return ft.Kind
		}
	}
	return ""
}

func IsImage(path string) bool { return KindOf(path) == KindImage }

func IsMovie(path string) bool { return KindOf(path) == KindMovie }

// FileTypesFilter 返回文件对话框风格的过滤串，例如
// "All File Types (*.*);;JPEG Files (*.jpg);;..."。kind 为空时包含全部类型。
func FileTypesFilter(kind string) string {
	parts := []string{"All File Types (*.*)"}
	for _, ft := range Types(kind) {
		parts = append(parts, ft.Description+" (*"+ft.Ext+")")
	}
	return strings.Join(parts, ";;")
}
