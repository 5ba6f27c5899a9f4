package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/John-Robertt/seqr/internal/config"
)

func TestNew(t *testing.T) {
	l, err := New(config.Source{}, "")
	require.NoError(t, err)
	assert.IsType(t, DirLister{}, l)

	l, err = New(config.Source{Kind: config.SourceHTTP, Root: "/mnt/render", URL: "http://farm/render/"}, "")
	require.NoError(t, err)
	il, ok := l.(*IndexLister)
	require.True(t, ok)
	assert.Equal(t, "/mnt/render", il.Root)
	assert.NotNil(t, il.Client)

	l, err = New(config.Source{Kind: config.SourceS3, Endpoint: "127.0.0.1:9000", Bucket: "render", Root: "/mnt/render", Prefix: "p/"}, "")
	require.NoError(t, err)
	bl, ok := l.(*BucketLister)
	require.True(t, ok)
	assert.Equal(t, "render", bl.Bucket)
	assert.Equal(t, "p/", bl.Prefix)
}

func TestNew_Errors(t *testing.T) {
	_, err := New(config.Source{Kind: "ftp"}, "")
	assert.Equal(t, config.ErrCodeSourceInvalid, config.Code(err))

	_, err = New(config.Source{Kind: config.SourceHTTP, URL: "http://farm/"}, "://bad")
	assert.Error(t, err)
}
