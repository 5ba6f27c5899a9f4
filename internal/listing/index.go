package listing

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// IndexLister 通过 HTTP 目录索引页（nginx/apache autoindex 一类）列目录。
//
// Root 下的本地路径被映射到 BaseURL 下的同名路径，例如
// Root="/mnt/render"、BaseURL="http://farm/render/" 时，
// "/mnt/render/shots/" 对应 "http://farm/render/shots/"。
type IndexLister struct {
	Root    string
	BaseURL string
	Client  *http.Client
}

var _ Lister = (*IndexLister)(nil)

func (l *IndexLister) Glob(ctx context.Context, pattern string, caseInsensitive bool) ([]string, error) {
	dir, base := splitPattern(pattern)
	dir = literalDir(dir)

	u, err := l.dirURL(dir)
	if err != nil {
		return nil, err
	}

	names, err := l.fetchIndex(ctx, u)
	if err != nil {
		return nil, err
	}

	m := newNameMatcher(base, caseInsensitive)
	out := make([]string, 0, len(names))
	for _, name := range names {
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

func (l *IndexLister) dirURL(dir string) (string, error) {
	rel, err := relativeDir(dir, l.Root)
	if err != nil {
		return "", err
	}

	baseURL := strings.TrimSpace(l.BaseURL)
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	if rel == "" {
		return baseURL, nil
	}

	segs := strings.Split(strings.TrimSuffix(rel, "/"), "/")
	for i := range segs {
		segs[i] = url.PathEscape(segs[i])
	}
	return baseURL + strings.Join(segs, "/") + "/", nil
}

// fetchIndex 返回索引页中的文件名（去重，保持页面顺序）。
func (l *IndexLister) fetchIndex(ctx context.Context, u string) ([]string, error) {
	c := l.Client
	if c == nil {
		c = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPStatusError{URL: u, StatusCode: resp.StatusCode}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("解析目录索引失败：%w", err)
	}

	seen := make(map[string]struct{}, 64)
	names := make([]string, 0, 64)
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		name, ok := entryName(href)
		if !ok {
			return
		}
		if _, dup := seen[name]; dup {
			return
		}
		seen[name] = struct{}{}
		names = append(names, name)
	})
	return names, nil
}

// entryName 从索引页链接中取出文件名；目录、上级目录、排序链接等返回 ok=false。
func entryName(href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "?") || strings.HasPrefix(href, "#") {
		return "", false
	}
	u, err := url.Parse(href)
	if err != nil || u.RawQuery != "" {
		return "", false
	}
	p := u.Path
	if p == "" || strings.HasSuffix(p, "/") {
		return "", false
	}
	name := path.Base(p)
	if name == "." || name == ".." || name == "/" {
		return "", false
	}
	return name, true
}
