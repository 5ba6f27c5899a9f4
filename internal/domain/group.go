package domain

// FileGroup 是扫描结果里同一序列（相同 Prefix/Suffix）的文件集合，只存 file index。
//
// Single=true 表示该文件无法拆出帧号，自成一组；此时 Prefix/Suffix 为空。
type FileGroup struct {
	Prefix  string
	Suffix  string
	Single  bool
	FileIdx []int
	Frames  []Member // 与 FileIdx 一一对应；Single 时为空
}
