package listing

import (
	"context"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// objectLister 是 *minio.Client 中本包用到的部分。
type objectLister interface {
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
}

// BucketLister 在 S3 兼容的对象存储上列“目录”。
//
// Root 下的本地路径被映射为 Bucket 内以 Prefix 开头的对象键，例如
// Root="/mnt/render"、Prefix="projects/a/" 时，
// "/mnt/render/shots/x_0001.exr" 对应键 "projects/a/shots/x_0001.exr"。
type BucketLister struct {
	Client objectLister
	Bucket string
	Root   string
	Prefix string
}

var _ Lister = (*BucketLister)(nil)

// BucketOptions 是构造 minio 客户端所需的连接参数。
type BucketOptions struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Region    string
}

// NewMinioClient 构造 minio 客户端（只做参数校验，不发请求）。
func NewMinioClient(o BucketOptions) (*minio.Client, error) {
	return minio.New(strings.TrimSpace(o.Endpoint), &minio.Options{
		Creds:  credentials.NewStaticV4(o.AccessKey, o.SecretKey, ""),
		Secure: o.UseSSL,
		Region: o.Region,
	})
}

func (l *BucketLister) Glob(ctx context.Context, pattern string, caseInsensitive bool) ([]string, error) {
	dir, base := splitPattern(pattern)
	dir = literalDir(dir)

	rel, err := relativeDir(dir, l.Root)
	if err != nil {
		return nil, err
	}
	keyDir := joinKey(l.Prefix, rel)

	// 对象存储的前缀过滤区分大小写：忽略大小写时只能按目录列全量再过滤。
	keyPrefix := keyDir
	if !caseInsensitive {
		keyPrefix += literalHead(base)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := newNameMatcher(base, caseInsensitive)
	out := make([]string, 0, 64)
	for obj := range l.Client.ListObjects(ctx, l.Bucket, minio.ListObjectsOptions{
		Prefix:    keyPrefix,
		Recursive: false,
	}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		name := strings.TrimPrefix(obj.Key, keyDir)
		if name == "" || strings.Contains(name, "/") {
			// 公共前缀（子“目录”）。
			continue
		}
		ok, err := m.Match(name)
		if err != nil {
			return nil, &PatternError{Pattern: pattern, Err: err}
		}
		if ok {
			out = append(out, dir+name)
		}
	}
	return out, nil
}

func joinKey(prefix, rel string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return rel
	}
	return prefix + "/" + rel
}
