package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"

	"github.com/komsit37/stockdash/pkg/stockdash/metrics"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load(New(), "", "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIURL != "http://localhost:5000" || cfg.Timeout != 10*time.Second || cfg.InitialInvestment != 1000 {
		t.Fatalf("defaults %+v", cfg)
	}
	if len(cfg.Columns) != 0 || cfg.QuoteCacheSize != 256 || !cfg.Color {
		t.Fatalf("defaults %+v", cfg)
	}
	if api := cfg.API(); api.BaseURL != cfg.APIURL || api.Timeout != cfg.Timeout {
		t.Fatalf("api config %+v", api)
	}
}

func TestEnvFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	env := filepath.Join(dir, ".env")
	if err := os.WriteFile(env, []byte("STOCKDASH_API_URL=http://api.test:9000\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("STOCKDASH_API_URL") })
	t.Setenv("STOCKDASH_COLUMNS", "code,marketCap")
	t.Setenv("STOCKDASH_TIMEOUT", "3s")

	cfg, err := Load(New(), "", env)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIURL != "http://api.test:9000" {
		t.Fatalf("api url %q", cfg.APIURL)
	}
	if strings.Join(cfg.Columns, ",") != "code,marketCap" || cfg.Timeout != 3*time.Second {
		t.Fatalf("cfg %+v", cfg)
	}
}

func TestMissingEnvFileIsFine(t *testing.T) {
	if _, err := Load(New(), "", filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Fatal(err)
	}
}

func TestConfigFileAndFlags(t *testing.T) {
	file := filepath.Join(t.TempDir(), "stockdash.yaml")
	body := "categories: [Value Metrics]\ninitial_investment: 5000\ncolor: false\n"
	if err := os.WriteFile(file, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	v := New()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Bool("strict", false, "")
	fs.String("api-url", "", "")
	fs.Int("unrelated", 0, "")
	if err := fs.Parse([]string{"--strict", "--api-url", "http://flag"}); err != nil {
		t.Fatal(err)
	}
	if err := BindFlags(v, fs); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(v, file, "")
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Strict || cfg.APIURL != "http://flag" || cfg.Color || cfg.InitialInvestment != 5000 {
		t.Fatalf("cfg %+v", cfg)
	}
	if len(cfg.Categories) != 1 || cfg.Categories[0] != metrics.CategoryValue {
		t.Fatalf("categories %v", cfg.Categories)
	}
}

func TestValidate(t *testing.T) {
	v := New()
	v.Set(KeyColumns, []string{"code", "bogus"})
	_, err := Load(v, "", "")
	var ce *metrics.ConfigurationError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}

	v = New()
	v.Set(KeyTimeout, "0s")
	if _, err := Load(v, "", ""); err == nil {
		t.Fatal("expected timeout error")
	}
}
