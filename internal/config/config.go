package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/John-Robertt/seqr/internal/domain"
)

const (
	// ErrCodeNotFound 表示 --config 显式指定的配置文件不存在。
	ErrCodeNotFound = "config_not_found"
	// ErrCodeInvalid 表示配置文件 / .env / 环境变量无法读取解析，或字段不合法。
	ErrCodeInvalid = "config_invalid"
	// ErrCodeSourceInvalid 表示 source 段不完整或 kind 未知。
	ErrCodeSourceInvalid = "source_invalid"
)

const (
	// FileName 是 cwd 下默认读取的配置文件名（可选）。
	FileName = "seqr.json"
	// DotEnvName 是 cwd 下默认读取的 .env 文件名（可选）。
	DotEnvName = ".env"
	// DefaultConcurrency 是 scan 校验并发的内置默认值。
	DefaultConcurrency = 4
)

const (
	SourceLocal = "local"
	SourceHTTP  = "http"
	SourceS3    = "s3"
)

const (
	EnvCaseInsensitive = "SEQR_CASE_INSENSITIVE"
	EnvLayout          = "SEQR_LAYOUT"
	EnvS3AccessKey     = "SEQR_S3_ACCESS_KEY"
	EnvS3SecretKey     = "SEQR_S3_SECRET_KEY"
)

// CLIArgs 是 CLI 暴露的覆盖项，并保留“是否显式指定”的信息。
// 这能保证覆盖优先级可实现：例如 --ignore-case=false 必须能覆盖 case_insensitive=true。
type CLIArgs struct {
	ConfigPath string

	IgnoreCase    bool
	IgnoreCaseSet bool

	Layout    string
	LayoutSet bool

	Concurrency    int
	ConcurrencySet bool
}

// FileConfig 对应 seqr.json 的解析结构。
type FileConfig struct {
	CaseInsensitive *bool         `json:"case_insensitive"`
	Layout          string        `json:"layout"`
	Concurrency     int           `json:"concurrency"`
	ExcludeDirs     []string      `json:"exclude_dirs"`
	Proxy           *ProxyConfig  `json:"proxy"`
	Source          *SourceConfig `json:"source"`
}

type ProxyConfig struct {
	URL string `json:"url"`
}

// SourceConfig 描述文件列表从哪里来（本地磁盘 / HTTP 目录索引 / S3 兼容存储）。
type SourceConfig struct {
	Kind     string `json:"kind"`
	Root     string `json:"root"`
	URL      string `json:"url"`
	Endpoint string `json:"endpoint"`
	Bucket   string `json:"bucket"`
	Prefix   string `json:"prefix"`
	Region   string `json:"region"`
	UseSSL   *bool  `json:"use_ssl"`
}

// Source 是规范化后的数据源配置；凭据只来自环境变量 / .env。
type Source struct {
	Kind string

	// Root 是本地路径前缀，远端数据源把它映射到 URL / Bucket+Prefix。
	Root string

	URL string

	Endpoint  string
	Bucket    string
	Prefix    string
	Region    string
	UseSSL    bool
	AccessKey string
	SecretKey string
}

// EffectiveConfig 是合并并做最小规范化后的最终配置（实现层直接消费，不再做二次默认/优先级判断）。
type EffectiveConfig struct {
	// ConfigPath 是实际读取到的配置文件；没有读取任何文件时为空。
	ConfigPath string

	CaseInsensitive bool
	Layout          string
	Concurrency     int
	ExcludeDirs     []string
	ProxyURL        string
	Source          Source
}

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeNotFound:
		return fmt.Sprintf("%s：未找到配置文件 %q", e.Code, e.Path)
	case ErrCodeInvalid, ErrCodeSourceInvalid:
		if e.Err != nil {
			return fmt.Sprintf("%s：配置 %q 无效：%v", e.Code, e.Path, e.Err)
		}
		return fmt.Sprintf("%s：配置 %q 无效", e.Code, e.Path)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s：%v", e.Code, e.Err)
		}
		return e.Code
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// DefaultCaseInsensitive 返回当前平台文件名是否默认忽略大小写。
func DefaultCaseInsensitive() bool {
	return runtime.GOOS == "windows"
}

// LoadEffective 发现并读取配置，然后与 CLI 参数合并为最终配置。
//
// 发现规则（固定）：
// 1) CLI 提供 --config：必须存在
// 2) 否则尝试读取 <cwd>/seqr.json（可选）
// 3) <cwd>/.env（可选）提供环境变量的默认值；进程环境变量优先于 .env
//
// 覆盖优先级（固定）：
// - case_insensitive：CLI --ignore-case > SEQR_CASE_INSENSITIVE > config > 平台默认
// - layout：CLI --layout > SEQR_LAYOUT > config > 默认
// - concurrency：CLI > config > 默认 4，截断到 [1, 32]
// - 其他字段：仅由 config 控制；S3 凭据仅由环境变量控制
func LoadEffective(cwd string, cli CLIArgs) (EffectiveConfig, error) {
	cwdAbs, err := filepath.Abs(cwd)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cwd, Err: err}
	}

	env, err := loadEnv(filepath.Join(cwdAbs, DotEnvName))
	if err != nil {
		return EffectiveConfig{}, err
	}

	var (
		cfgPath string
		fc      FileConfig
		exists  bool
	)
	if strings.TrimSpace(cli.ConfigPath) != "" {
		cfgPath = absCleanFrom(cwdAbs, cli.ConfigPath)
		fc, exists, err = readFileConfig(cfgPath)
		if err != nil {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
		}
		if !exists {
			return EffectiveConfig{}, &Error{Code: ErrCodeNotFound, Path: cfgPath, Err: os.ErrNotExist}
		}
	} else {
		cfgPath = filepath.Join(cwdAbs, FileName)
		fc, exists, err = readFileConfig(cfgPath)
		if err != nil {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
		}
		if !exists {
			cfgPath = ""
		}
	}

	return merge(cwdAbs, cli, fc, env, cfgPath)
}

func merge(cwdAbs string, cli CLIArgs, fc FileConfig, env envLookup, cfgPath string) (EffectiveConfig, error) {
	caseInsensitive := DefaultCaseInsensitive()
	if cli.IgnoreCaseSet {
		caseInsensitive = cli.IgnoreCase
	} else if v, ok := env(EnvCaseInsensitive); ok && strings.TrimSpace(v) != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: EnvCaseInsensitive, Err: fmt.Errorf("只能是 true 或 false，实际是 %q", v)}
		}
		caseInsensitive = b
	} else if fc.CaseInsensitive != nil {
		caseInsensitive = *fc.CaseInsensitive
	}

	layout := domain.DefaultLayout
	layoutFrom := cfgPath
	if cli.LayoutSet {
		layout, layoutFrom = cli.Layout, "--layout"
	} else if v, ok := env(EnvLayout); ok && v != "" {
		layout, layoutFrom = v, EnvLayout
	} else if fc.Layout != "" {
		layout = fc.Layout
	}
	if err := domain.ValidateLayout(layout); err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: layoutFrom, Err: err}
	}

	concurrency := fc.Concurrency
	if cli.ConcurrencySet {
		concurrency = cli.Concurrency
	}
	if concurrency == 0 {
		concurrency = DefaultConcurrency
	}
	// 范围建议 [1, 32]；超出截断。
	if concurrency < 1 {
		concurrency = 1
	}
	if concurrency > 32 {
		concurrency = 32
	}

	proxyURL := ""
	if fc.Proxy != nil {
		proxyURL = strings.TrimSpace(fc.Proxy.URL)
	}
	if proxyURL != "" {
		if _, err := url.Parse(proxyURL); err != nil {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("proxy.url 无效：%w", err)}
		}
	}

	src, err := mergeSource(cwdAbs, fc.Source, env)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeSourceInvalid, Path: cfgPath, Err: err}
	}

	return EffectiveConfig{
		ConfigPath:      cfgPath,
		CaseInsensitive: caseInsensitive,
		Layout:          layout,
		Concurrency:     concurrency,
		ExcludeDirs:     append([]string(nil), fc.ExcludeDirs...),
		ProxyURL:        proxyURL,
		Source:          src,
	}, nil
}

func mergeSource(cwdAbs string, sc *SourceConfig, env envLookup) (Source, error) {
	if sc == nil {
		return Source{Kind: SourceLocal}, nil
	}

	src := Source{
		Kind:     strings.ToLower(strings.TrimSpace(sc.Kind)),
		URL:      strings.TrimSpace(sc.URL),
		Endpoint: strings.TrimSpace(sc.Endpoint),
		Bucket:   strings.TrimSpace(sc.Bucket),
		Prefix:   strings.TrimSpace(sc.Prefix),
		Region:   strings.TrimSpace(sc.Region),
		UseSSL:   true,
	}
	if src.Kind == "" {
		src.Kind = SourceLocal
	}
	if strings.TrimSpace(sc.Root) != "" {
		src.Root = absCleanFrom(cwdAbs, sc.Root)
	}
	if sc.UseSSL != nil {
		src.UseSSL = *sc.UseSSL
	}

	switch src.Kind {
	case SourceLocal:
		return src, nil
	case SourceHTTP:
		u, err := url.Parse(src.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return Source{}, fmt.Errorf("source.url 无效：%q", src.URL)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return Source{}, fmt.Errorf("source.url 必须是 http/https：%q", src.URL)
		}
		if src.Root == "" {
			return Source{}, errors.New("source.kind=http 时必须设置 source.root")
		}
		return src, nil
	case SourceS3:
		if src.Endpoint == "" || src.Bucket == "" {
			return Source{}, errors.New("source.kind=s3 时必须设置 source.endpoint 与 source.bucket")
		}
		if src.Root == "" {
			return Source{}, errors.New("source.kind=s3 时必须设置 source.root")
		}
		src.AccessKey, _ = env(EnvS3AccessKey)
		src.SecretKey, _ = env(EnvS3SecretKey)
		return src, nil
	default:
		return Source{}, fmt.Errorf("source.kind 只能是 local、http 或 s3，实际是 %q", src.Kind)
	}
}

// envLookup 先查进程环境变量，再查 .env。
type envLookup func(key string) (string, bool)

// loadEnv 读取 .env（不存在不算错误）。.env 只作为默认值，不写回进程环境。
func loadEnv(path string) (envLookup, error) {
	dotenv, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			dotenv = map[string]string{}
		} else {
			return nil, &Error{Code: ErrCodeInvalid, Path: path, Err: err}
		}
	}
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}, nil
}

// absCleanFrom 以 base 为基准，把 p 变为 clean + absolute。
// - p 若已是绝对路径：直接 Clean
// - p 若是相对路径：Join(base, p) 后 Clean
func absCleanFrom(base, p string) string {
	p = filepath.Clean(strings.TrimSpace(p))
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(base, p))
}

// readFileConfig 读取并解析 JSON 配置文件。
// 返回值 exists 表示该文件是否存在（不存在不算错误）。
func readFileConfig(path string) (fc FileConfig, exists bool, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, false, nil
		}
		return FileConfig{}, false, err
	}
	if err := json.Unmarshal(b, &fc); err != nil {
		return FileConfig{}, true, err
	}
	return fc, true, nil
}
