package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/John-Robertt/seqr/internal/domain"
)

func members(prefix, suffix string, frames ...string) domain.Sequence {
	seq := domain.Sequence{Prefix: prefix, Suffix: suffix}
	for _, f := range frames {
		v, _ := FrameValue(f)
		seq.Members = append(seq.Members, domain.Member{Path: prefix + f + suffix, Frame: f, Value: v})
	}
	return seq
}

func TestFormat_PaddingPreserved(t *testing.T) {
	seq := members("a_", ".jpg", "002", "010", "001")
	assert.Equal(t, "a_[001:010].jpg", Format(seq, false, ""))
}

func TestFormat_GapsInvisible(t *testing.T) {
	seq := members("a_", ".jpg", "001", "005", "009")
	assert.Equal(t, "a_[001:009].jpg", Format(seq, false, domain.DefaultLayout))
}

func TestFormat_SingleFrame(t *testing.T) {
	seq := members("/r/a_", ".jpg", "0007")
	assert.Equal(t, "/r/a_0007.jpg", Format(seq, false, ""))
	assert.Equal(t, "/r/a_[0007:0007].jpg", Format(seq, true, ""))
}

func TestFormat_SingleValueManyPaddings(t *testing.T) {
	seq := members("a_", ".jpg", "7", "007")

	// 只有一个有效帧号：不强制时返回第一个成员路径。
	assert.Equal(t, "a_7.jpg", Format(seq, false, ""))
	// 强制时使用最后出现的补零写法。
	assert.Equal(t, "a_[007:007].jpg", Format(seq, true, ""))
}

func TestFormat_LastSeenPaddingWins(t *testing.T) {
	seq := members("a_", ".jpg", "001", "3", "003", "1")
	assert.Equal(t, "a_[1:003].jpg", Format(seq, false, ""))

	got := lastSeenPadding(seq.Members)
	assert.Equal(t, map[int64]string{1: "1", 3: "003"}, got)
}

func TestFormat_CustomLayout(t *testing.T) {
	seq := members("a_", ".jpg", "01", "12")
	assert.Equal(t, "a_{01..12}.jpg", Format(seq, false, "{prefix}{{first}..{last}}{suffix}"))
	assert.Equal(t, "a_.jpg 01-12", Format(seq, false, "{prefix}{suffix} {first}-{last}"))
}

func TestFormat_Empty(t *testing.T) {
	assert.Equal(t, "", Format(domain.Sequence{Prefix: "a_", Suffix: ".jpg"}, true, ""))
}
