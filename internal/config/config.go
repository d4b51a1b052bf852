package config

import (
	"fmt"
	"runtime"
	"time"

	"leaders-scraper/pkg/configutil"

	"github.com/shirou/gopsutil/v4/cpu"
)

const (
	DefaultBaseUrl        = "https://country-leaders.onrender.com"
	DefaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
	DefaultRequestTimeout = 10 * time.Second
	DefaultRetryBackoff   = 2 * time.Second
)

// Config is the on-disk configuration of a scraping run, read from
// leaders-scraper.json5 (and leaders-scraper.local.json5).
type Config struct {
	BaseUrl   string `json:"base_url"`
	UserAgent string `json:"user_agent"`
	// Go duration strings, ex. "10s"
	RequestTimeout string `json:"request_timeout"`
	RetryBackoff   string `json:"retry_backoff"`
	// 0 means one worker per logical cpu
	Workers          int    `json:"workers"`
	CloudflareBypass bool   `json:"cloudflare_bypass"`
	Output           string `json:"output"`
	// "sequential" or "parallel", empty means ask (--parallel still wins)
	FetchMode string `json:"fetch_mode"`
}

// Defaults returns the configuration used when no file overrides a field.
func Defaults() Config {
	return Config{
		BaseUrl:        DefaultBaseUrl,
		UserAgent:      DefaultUserAgent,
		RequestTimeout: DefaultRequestTimeout.String(),
		RetryBackoff:   DefaultRetryBackoff.String(),
		Output:         "leaders",
	}
}

// Read reads the config at `path`, a missing file yields Defaults().
func Read(path string) (Config, error) {
	cfg, err := configutil.ReadConfigOr(path, Defaults())
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	_, err = cfg.Timeout()
	if err != nil {
		return Config{}, err
	}
	_, err = cfg.Backoff()
	if err != nil {
		return Config{}, err
	}
	if cfg.Workers < 0 {
		return Config{}, fmt.Errorf("read config: workers must not be negative, got %d", cfg.Workers)
	}
	return cfg, nil
}

func parseDuration(field, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("read config: %s: %w", field, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("read config: %s must be positive, got %s", field, value)
	}
	return d, nil
}

// Timeout is the per-request timeout of every http call.
func (c Config) Timeout() (time.Duration, error) {
	return parseDuration("request_timeout", c.RequestTimeout)
}

// Backoff is the wait before the single retry of a failed page fetch.
func (c Config) Backoff() (time.Duration, error) {
	return parseDuration("retry_backoff", c.RetryBackoff)
}

// WorkerCount is the size of the parallel fetch pool.
func (c Config) WorkerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	count, err := cpu.Counts(true)
	if err != nil || count <= 0 {
		return runtime.NumCPU()
	}
	return count
}
