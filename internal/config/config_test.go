package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/John-Robertt/seqr/internal/domain"
)

func TestLoadEffective_NoConfigUsesDefaults(t *testing.T) {
	clearEnv(t)
	cwd := t.TempDir()

	eff, err := LoadEffective(cwd, CLIArgs{})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.ConfigPath != "" {
		t.Fatalf("未读取配置文件时 ConfigPath 应为空，实际=%q", eff.ConfigPath)
	}
	if eff.CaseInsensitive != DefaultCaseInsensitive() {
		t.Fatalf("期望平台默认 case_insensitive=%v，实际=%v", DefaultCaseInsensitive(), eff.CaseInsensitive)
	}
	if eff.Layout != domain.DefaultLayout {
		t.Fatalf("期望默认 layout，实际=%q", eff.Layout)
	}
	if eff.Concurrency != DefaultConcurrency {
		t.Fatalf("期望 concurrency=%d，实际=%d", DefaultConcurrency, eff.Concurrency)
	}
	if eff.Source.Kind != SourceLocal {
		t.Fatalf("期望 source.kind=local，实际=%q", eff.Source.Kind)
	}
}

func TestLoadEffective_ExplicitConfigNotFound(t *testing.T) {
	clearEnv(t)
	cwd := t.TempDir()

	_, err := LoadEffective(cwd, CLIArgs{ConfigPath: "missing.json"})
	if Code(err) != ErrCodeNotFound {
		t.Fatalf("期望 %q，实际 err=%v (code=%q)", ErrCodeNotFound, err, Code(err))
	}
}

func TestLoadEffective_ExplicitConfigRelativeToCwd(t *testing.T) {
	clearEnv(t)
	cwd := t.TempDir()
	if err := os.MkdirAll(filepath.Join(cwd, "etc"), 0o755); err != nil {
		t.Fatalf("创建目录失败：%v", err)
	}
	writeFile(t, filepath.Join(cwd, "etc", "x.json"), []byte(`{"concurrency":7}`))

	eff, err := LoadEffective(cwd, CLIArgs{ConfigPath: filepath.Join("etc", "x.json")})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.Concurrency != 7 {
		t.Fatalf("期望 concurrency=7，实际=%d", eff.Concurrency)
	}
	if eff.ConfigPath != filepath.Join(cwd, "etc", "x.json") {
		t.Fatalf("ConfigPath 不正确：%q", eff.ConfigPath)
	}
}

func TestLoadEffective_CaseInsensitiveMergeOrder(t *testing.T) {
	clearEnv(t)
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, FileName), []byte(`{"case_insensitive":true}`))

	// 配置文件生效。
	eff, err := LoadEffective(cwd, CLIArgs{})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if !eff.CaseInsensitive {
		t.Fatalf("期望 case_insensitive=true")
	}

	// 环境变量覆盖配置文件。
	t.Setenv(EnvCaseInsensitive, "false")
	eff, err = LoadEffective(cwd, CLIArgs{})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.CaseInsensitive {
		t.Fatalf("期望环境变量覆盖为 false")
	}

	// CLI 覆盖一切。
	eff, err = LoadEffective(cwd, CLIArgs{IgnoreCase: true, IgnoreCaseSet: true})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if !eff.CaseInsensitive {
		t.Fatalf("期望 --ignore-case 覆盖为 true")
	}
}

func TestLoadEffective_InvalidCaseInsensitiveEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvCaseInsensitive, "maybe")

	_, err := LoadEffective(t.TempDir(), CLIArgs{})
	if Code(err) != ErrCodeInvalid {
		t.Fatalf("期望 %q，实际 err=%v (code=%q)", ErrCodeInvalid, err, Code(err))
	}
}

func TestLoadEffective_DotEnv(t *testing.T) {
	clearEnv(t)
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, DotEnvName), []byte("SEQR_LAYOUT={prefix}<{first}-{last}>{suffix}\nSEQR_S3_ACCESS_KEY=ak\nSEQR_S3_SECRET_KEY=sk\n"))
	writeFile(t, filepath.Join(cwd, FileName), []byte(`{"source":{"kind":"s3","endpoint":"s3.local:9000","bucket":"renders","root":"/mnt/render","use_ssl":false}}`))

	eff, err := LoadEffective(cwd, CLIArgs{})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.Layout != "{prefix}<{first}-{last}>{suffix}" {
		t.Fatalf(".env 中的 layout 未生效：%q", eff.Layout)
	}
	if eff.Source.AccessKey != "ak" || eff.Source.SecretKey != "sk" {
		t.Fatalf(".env 中的凭据未生效：%+v", eff.Source)
	}
	if eff.Source.UseSSL {
		t.Fatalf("期望 use_ssl=false")
	}

	// 进程环境变量优先于 .env。
	t.Setenv(EnvS3AccessKey, "ak2")
	eff, err = LoadEffective(cwd, CLIArgs{})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.Source.AccessKey != "ak2" {
		t.Fatalf("期望进程环境变量覆盖 .env，实际=%q", eff.Source.AccessKey)
	}
}

func TestLoadEffective_LayoutValidation(t *testing.T) {
	clearEnv(t)
	cwd := t.TempDir()

	_, err := LoadEffective(cwd, CLIArgs{Layout: "{prefix}{first}", LayoutSet: true})
	if Code(err) != ErrCodeInvalid {
		t.Fatalf("期望 %q，实际 err=%v (code=%q)", ErrCodeInvalid, err, Code(err))
	}
}

func TestLoadEffective_ConcurrencyClamp(t *testing.T) {
	clearEnv(t)
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, FileName), []byte(`{"concurrency":100}`))

	eff, err := LoadEffective(cwd, CLIArgs{})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.Concurrency != 32 {
		t.Fatalf("期望截断为 32，实际=%d", eff.Concurrency)
	}

	eff, err = LoadEffective(cwd, CLIArgs{Concurrency: -3, ConcurrencySet: true})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.Concurrency != 1 {
		t.Fatalf("期望截断为 1，实际=%d", eff.Concurrency)
	}
}

func TestLoadEffective_InvalidJSON(t *testing.T) {
	clearEnv(t)
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, FileName), []byte(`{`))

	_, err := LoadEffective(cwd, CLIArgs{})
	if Code(err) != ErrCodeInvalid {
		t.Fatalf("期望 %q，实际 err=%v (code=%q)", ErrCodeInvalid, err, Code(err))
	}
}

func TestLoadEffective_InvalidProxyURL(t *testing.T) {
	clearEnv(t)
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, FileName), []byte(`{"proxy":{"url":"http://[::1"}}`))

	_, err := LoadEffective(cwd, CLIArgs{})
	if Code(err) != ErrCodeInvalid {
		t.Fatalf("期望 %q，实际 err=%v (code=%q)", ErrCodeInvalid, err, Code(err))
	}
}

func TestLoadEffective_SourceValidation(t *testing.T) {
	clearEnv(t)

	cases := map[string]string{
		"unknown kind":   `{"source":{"kind":"ftp"}}`,
		"http no url":    `{"source":{"kind":"http","root":"/mnt"}}`,
		"http bad url":   `{"source":{"kind":"http","root":"/mnt","url":"ftp://x/"}}`,
		"http no root":   `{"source":{"kind":"http","url":"http://farm/render/"}}`,
		"s3 no bucket":   `{"source":{"kind":"s3","root":"/mnt","endpoint":"s3.local"}}`,
		"s3 no endpoint": `{"source":{"kind":"s3","root":"/mnt","bucket":"b"}}`,
	}
	for name, body := range cases {
		cwd := t.TempDir()
		writeFile(t, filepath.Join(cwd, FileName), []byte(body))

		_, err := LoadEffective(cwd, CLIArgs{})
		if Code(err) != ErrCodeSourceInvalid {
			t.Fatalf("%s：期望 %q，实际 err=%v (code=%q)", name, ErrCodeSourceInvalid, err, Code(err))
		}
	}
}

func TestLoadEffective_HTTPSourceRootRelativeToCwd(t *testing.T) {
	clearEnv(t)
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, FileName), []byte(`{"source":{"kind":"HTTP","root":"render","url":"http://farm/render/"}}`))

	eff, err := LoadEffective(cwd, CLIArgs{})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.Source.Kind != SourceHTTP {
		t.Fatalf("期望 kind=http，实际=%q", eff.Source.Kind)
	}
	if eff.Source.Root != filepath.Join(cwd, "render") {
		t.Fatalf("期望 root=%q，实际=%q", filepath.Join(cwd, "render"), eff.Source.Root)
	}
}

// clearEnv 让测试不受外部环境变量影响（t.Setenv 负责结束后恢复）。
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvCaseInsensitive, EnvLayout, EnvS3AccessKey, EnvS3SecretKey} {
		t.Setenv(k, "")
		if err := os.Unsetenv(k); err != nil {
			t.Fatalf("Unsetenv 失败：%v", err)
		}
	}
}

func writeFile(t *testing.T, path string, b []byte) {
	t.Helper()
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatalf("写入文件失败 %q：%v", path, err)
	}
}
