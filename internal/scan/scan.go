package scan

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/John-Robertt/seqr/internal/domain"
	"github.com/John-Robertt/seqr/internal/media"
)

// StateDir 是本工具在 root 下的工作目录（报告等），扫描时永久排除。
const StateDir = ".seqr"

// ScanMedia 扫描 root 下的媒体文件（图像与影片），并应用目录排除规则。
//
// 规则：
// - 永久排除：<root>/.seqr/
// - excludeDirs：相对路径按相对 root 处理，绝对路径按绝对路径处理
// - 以 '.' 开头的文件（包括原子写入的临时文件）跳过
//
// 扫描阶段只做 stat（DirEntry.Info），不读文件内容。
func ScanMedia(root string, excludeDirs []string) ([]domain.MediaFile, error) {
	root = filepath.Clean(root)
	excluded := buildExcluded(root, excludeDirs)

	files := make([]domain.MediaFile, 0, 256)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if isExcluded(path, excluded) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		name := d.Name()
		if strings.HasPrefix(name, ".") {
			return nil
		}
		kind := media.KindOf(name)
		if kind == "" {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		files = append(files, domain.MediaFile{
			AbsPath: path,
			RelPath: rel,
			Ext:     strings.ToLower(filepath.Ext(name)),
			Kind:    kind,
			Size:    info.Size(),
			ModUnix: info.ModTime().Unix(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 按人类顺序输出（shot2 在 shot10 之前），与平台的目录遍历顺序无关。
	sort.SliceStable(files, func(i, j int) bool { return media.NaturalLess(files[i].RelPath, files[j].RelPath) })
	return files, nil
}

func buildExcluded(root string, excludeDirs []string) []string {
	excluded := make([]string, 0, 1+len(excludeDirs))
	excluded = append(excluded, filepath.Join(root, StateDir))

	for _, x := range excludeDirs {
		x = strings.TrimSpace(x)
		if x == "" {
			continue
		}
		if filepath.IsAbs(x) {
			excluded = append(excluded, filepath.Clean(x))
			continue
		}
		excluded = append(excluded, filepath.Clean(filepath.Join(root, x)))
	}

	sort.Strings(excluded)
	return excluded
}

func isExcluded(path string, excluded []string) bool {
	path = filepath.Clean(path)
	for _, base := range excluded {
		if isUnder(path, base) {
			return true
		}
	}
	return false
}

func isUnder(path, base string) bool {
	if path == base {
		return true
	}
	sep := string(filepath.Separator)
	return strings.HasPrefix(path, base+sep)
}
