package domain

// MediaFile 描述一次扫描得到的媒体文件（只做 stat，不读内容）。
//
// 不变量（实现必须遵守）：
// - AbsPath 必须是 clean + absolute
// - Kind 取值见 media 包（image/movie）
type MediaFile struct {
	AbsPath string
	RelPath string
	Ext     string // 小写，例如 ".exr"
	Kind    string
	Size    int64
	ModUnix int64
}
