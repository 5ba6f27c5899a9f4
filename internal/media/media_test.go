package media

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	cases := map[string]string{
		"/r/a_0001.exr":   KindImage,
		"/r/A_0001.EXR":   KindImage,
		"shot.Tga":        KindImage,
		"clip.mov":        KindMovie,
		"clip.MP4":        KindMovie,
		"notes.txt":       "",
		"noext":           "",
		"/r/dir.exr/file": "",
	}
	for path, want := range cases {
		assert.Equal(t, want, KindOf(path), "path=%q", path)
	}
	assert.True(t, IsImage("x.png"))
	assert.False(t, IsImage("x.avi"))
	assert.True(t, IsMovie("x.avi"))
	assert.False(t, IsMovie("x.jpg"))
}

func TestFileTypesFilter(t *testing.T) {
	assert.Equal(t,
		"All File Types (*.*);;Quicktime Files (*.mov);;MPEG 4 (*.mp4);;Avi Files (*.avi)",
		FileTypesFilter(KindMovie))
	assert.Equal(t,
		"All File Types (*.*);;JPEG Files (*.jpg);;PNG Files (*.png);;EXR Files (*.exr);;Targa Files (*.tga)",
		FileTypesFilter(KindImage))
	assert.Len(t, Types(""), 7)
	assert.Equal(t, "All File Types (*.*)", FileTypesFilter("audio"))
}

func TestTypesReturnsCopy(t *testing.T) {
	ts := Types("")
	ts[0].Ext = ".bad"
	assert.Equal(t, KindImage, KindOf("a.jpg"))
}

func TestNaturalLess(t *testing.T) {
	got := []string{"shot10.exr", "shot2.exr", "Shot1.exr", "shot02.exr", "shot.exr", "a100", "a20b", "a20a"}
	sort.SliceStable(got, func(i, j int) bool { return NaturalLess(got[i], got[j]) })
	assert.Equal(t, []string{"a20a", "a20b", "a100", "Shot1.exr", "shot2.exr", "shot02.exr", "shot10.exr", "shot.exr"}, got)
}

func TestNaturalLess_HugeNumbers(t *testing.T) {
	assert.True(t, NaturalLess("f99999999999999999999", "f100000000000000000000"))
	assert.False(t, NaturalLess("f100000000000000000000", "f99999999999999999999"))
}

func TestNaturalLess_StrictOrder(t *testing.T) {
	assert.False(t, NaturalLess("a1", "a1"))
	assert.True(t, NaturalLess("A1", "a1") != NaturalLess("a1", "A1"))
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "0 B", FormatSize(0, false))
	assert.Equal(t, "1.5 kB", FormatSize(1500, false))
	assert.Equal(t, "1.0 KiB", FormatSize(1024, true))
	assert.Equal(t, "0 B", FormatSize(-5, true))
}
