package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeGlob(t *testing.T) {
	cases := map[string]string{
		"[A]":             "[[]A[]]",
		"shot[A]_":        "shot[[]A[]]_",
		"plain_":          "plain_",
		"a*b?c":           "a*b?c",
		"[]":              "[]",
		"[[":              "[[",
		"]]":              "]]",
		"/r/[v1]/x_":      "/r/[[]v1[]]/x_",
		"open[only":       "open[[]only",
		"close]only":      "close[]]only",
		"[0-9]":           "[[]0-9[]]",
	}
	for in, want := range cases {
		assert.Equal(t, want, EscapeGlob(in), "input=%q", in)
	}
}
