package listing

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirLister_Glob(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a_0001.exr", "a_0002.exr", "b_0001.exr", "a_0003.jpg"} {
		touch(t, filepath.Join(dir, name))
	}
	// 目录即使名字匹配也不返回。
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "a_0004.exr"), 0o755))

	got, err := DirLister{}.Glob(context.Background(), filepath.Join(dir, "a_*.exr"), false)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a_0001.exr"), filepath.Join(dir, "a_0002.exr")}, got)
}

func TestDirLister_EscapedDirectory(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "[v1]")
	touch(t, filepath.Join(dir, "a_0001.exr"))

	got, err := DirLister{}.Glob(context.Background(), root+string(filepath.Separator)+"[[]v1[]]"+string(filepath.Separator)+"a_*.exr", false)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a_0001.exr")}, got)
}

func TestDirLister_MissingDirIsEmpty(t *testing.T) {
	got, err := DirLister{}.Glob(context.Background(), filepath.Join(t.TempDir(), "nope", "a_*.exr"), false)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDirLister_ReadDirErrorPropagates(t *testing.T) {
	errBoom := errors.New("permission denied")
	old := readDirFunc
	readDirFunc = func(string) ([]os.DirEntry, error) { return nil, errBoom }
	defer func() { readDirFunc = old }()

	_, err := DirLister{}.Glob(context.Background(), "/r/a_*.exr", false)
	assert.Same(t, errBoom, err)
}

func TestDirLister_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := DirLister{}.Glob(ctx, filepath.Join(t.TempDir(), "a_*.exr"), false)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDirLister_CaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "shot0001.png"))

	got, err := DirLister{}.Glob(context.Background(), filepath.Join(dir, "Shot*.PNG"), true)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "shot0001.png")}, got)

	got, err = DirLister{}.Glob(context.Background(), filepath.Join(dir, "Shot*.PNG"), false)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("创建目录失败：%v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("写入文件失败：%v", err)
	}
}
