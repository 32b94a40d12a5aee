// Package config resolves stockdash settings from flags, environment,
// .env and an optional config file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/komsit37/stockdash/pkg/stockdash/api"
	"github.com/komsit37/stockdash/pkg/stockdash/metrics"
)

// EnvPrefix prefixes every environment variable, e.g. STOCKDASH_API_URL.
const EnvPrefix = "STOCKDASH"

// Keys.
const (
	KeyAPIURL            = "api_url"
	KeyTimeout           = "timeout"
	KeyLogLevel          = "log_level"
	KeyDebug             = "debug"
	KeyStrict            = "strict"
	KeyLenient           = "lenient"
	KeyColumns           = "columns"
	KeyCategories        = "categories"
	KeyInitialInvestment = "initial_investment"
	KeyMaxColWidth       = "max_col_width"
	KeyQuoteTTL          = "quote_ttl"
	KeyQuoteCacheSize    = "quote_cache_size"
	KeyColor             = "color"
)

type Config struct {
	APIURL            string
	Timeout           time.Duration
	LogLevel          string
	Debug             bool
	Strict            bool
	Lenient           bool
	Columns           []string
	Categories        []string
	InitialInvestment float64
	MaxColWidth       int
	QuoteTTL          time.Duration
	QuoteCacheSize    int
	Color             bool
}

// API returns the client settings.
func (c Config) API() api.Config {
	return api.Config{BaseURL: c.APIURL, Timeout: c.Timeout, Lenient: c.Lenient}
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyAPIURL, api.DefaultBaseURL)
	v.SetDefault(KeyTimeout, 10*time.Second)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyStrict, false)
	v.SetDefault(KeyLenient, false)
	v.SetDefault(KeyColumns, []string{})
	v.SetDefault(KeyCategories, []string{})
	v.SetDefault(KeyInitialInvestment, 1000.0)
	v.SetDefault(KeyMaxColWidth, 0)
	v.SetDefault(KeyQuoteTTL, time.Minute)
	v.SetDefault(KeyQuoteCacheSize, 256)
	v.SetDefault(KeyColor, true)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags binds every flag of fs whose name, with dashes as underscores,
// is a config key.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if !isKey(key) {
			return
		}
		if e := v.BindPFlag(key, f); e != nil && err == nil {
			err = e
		}
	})
	return err
}

func isKey(k string) bool {
	switch k {
	case KeyAPIURL, KeyTimeout, KeyLogLevel, KeyDebug, KeyStrict, KeyLenient, KeyColumns,
		KeyCategories, KeyInitialInvestment, KeyMaxColWidth, KeyQuoteTTL, KeyQuoteCacheSize, KeyColor:
		return true
	}
	return false
}

// Load reads envFile (if present) into the environment and file (if set)
// into v, then decodes the settings.
func Load(v *viper.Viper, file, envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	}
	cfg := Config{
		APIURL:            v.GetString(KeyAPIURL),
		Timeout:           v.GetDuration(KeyTimeout),
		LogLevel:          v.GetString(KeyLogLevel),
		Debug:             v.GetBool(KeyDebug),
		Strict:            v.GetBool(KeyStrict),
		Lenient:           v.GetBool(KeyLenient),
		Columns:           splitList(v.GetStringSlice(KeyColumns)),
		Categories:        splitList(v.GetStringSlice(KeyCategories)),
		InitialInvestment: v.GetFloat64(KeyInitialInvestment),
		MaxColWidth:       v.GetInt(KeyMaxColWidth),
		QuoteTTL:          v.GetDuration(KeyQuoteTTL),
		QuoteCacheSize:    v.GetInt(KeyQuoteCacheSize),
		Color:             v.GetBool(KeyColor),
	}
	return cfg, cfg.Validate()
}

// splitList accepts both repeated values and one comma-separated value.
func splitList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func (c Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("%s must be positive, got %s", KeyTimeout, c.Timeout)
	}
	if c.InitialInvestment <= 0 {
		return fmt.Errorf("%s must be positive, got %v", KeyInitialInvestment, c.InitialInvestment)
	}
	if c.QuoteCacheSize <= 0 {
		return fmt.Errorf("%s must be positive, got %d", KeyQuoteCacheSize, c.QuoteCacheSize)
	}
	if _, err := metrics.Compute(c.Columns); err != nil {
		return err
	}
	if _, err := metrics.ExpandCategories(c.Categories); err != nil {
		return err
	}
	return nil
}
