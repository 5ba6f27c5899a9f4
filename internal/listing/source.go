package listing

import (
	"fmt"

	"github.com/John-Robertt/seqr/internal/config"
	"github.com/John-Robertt/seqr/internal/infra/httpx"
)

// New 按配置的数据源构造 Lister。
func New(src config.Source, proxyURL string) (Lister, error) {
	switch src.Kind {
	case "", config.SourceLocal:
		return DirLister{}, nil
	case config.SourceHTTP:
		c, err := httpx.NewClient(proxyURL)
		if err != nil {
			return nil, fmt.Errorf("proxy.url 无效：%w", err)
		}
		return &IndexLister{Root: src.Root, BaseURL: src.URL, Client: c}, nil
	case config.SourceS3:
		c, err := NewMinioClient(BucketOptions{
			Endpoint:  src.Endpoint,
			AccessKey: src.AccessKey,
			SecretKey: src.SecretKey,
			UseSSL:    src.UseSSL,
			Region:    src.Region,
		})
		if err != nil {
			return nil, fmt.Errorf("初始化 S3 客户端失败：%w", err)
		}
		return &BucketLister{Client: c, Bucket: src.Bucket, Root: src.Root, Prefix: src.Prefix}, nil
	default:
		return nil, &config.Error{Code: config.ErrCodeSourceInvalid, Path: "source.kind", Err: fmt.Errorf("未知的数据源类型 %q", src.Kind)}
	}
}
