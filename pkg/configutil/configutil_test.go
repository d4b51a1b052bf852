package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	BaseUrl string `json:"base_url"`
	Workers int    `json:"workers"`
	Verbose bool   `json:"verbose"`
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	err := os.WriteFile(path, []byte(contents), 0600)
	require.NoError(t, err)
}

func TestLocalPath(t *testing.T) {
	require.Equal(t, filepath.Join("conf", "scraper.local.json5"), LocalPath(filepath.Join("conf", "scraper.json5")))
	require.Equal(t, "scraper.local", LocalPath("scraper"))
}

func TestReadConfigMergesLocal(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "scraper.json5")
	writeFile(t, name, `{
		// comments are allowed
		base_url: "https://example.com",
		workers: 2,
	}`)
	writeFile(t, filepath.Join(dir, "scraper.local.json5"), `{ workers: 8 }`)

	cfg, err := ReadConfig[testConfig](name)
	require.NoError(t, err)
	require.Equal(t, "https://example.com", cfg.BaseUrl)
	require.Equal(t, 8, cfg.Workers)
}

func TestReadConfigLocalZeroValues(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "scraper.json5")
	writeFile(t, name, `{ base_url: "https://example.com", workers: 4, verbose: true }`)
	writeFile(t, filepath.Join(dir, "scraper.local.json5"), `{ workers: 0, verbose: false }`)

	cfg, err := ReadConfig[testConfig](name)
	require.NoError(t, err)
	require.Equal(t, testConfig{BaseUrl: "https://example.com"}, cfg)
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "nothing.json5"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadConfigOr(t *testing.T) {
	dir := t.TempDir()
	defaults := testConfig{BaseUrl: "https://default.test", Workers: 4}

	cfg, err := ReadConfigOr(filepath.Join(dir, "nothing.json5"), defaults)
	require.NoError(t, err)
	require.Equal(t, defaults, cfg)

	name := filepath.Join(dir, "partial.json5")
	writeFile(t, name, `{ workers: 1 }`)
	cfg, err = ReadConfigOr(name, defaults)
	require.NoError(t, err)
	require.Equal(t, "https://default.test", cfg.BaseUrl)
	require.Equal(t, 1, cfg.Workers)
}

func TestReadConfigInvalid(t *testing.T) {
	name := filepath.Join(t.TempDir(), "broken.json5")
	writeFile(t, name, `{ workers: `)
	_, err := ReadConfigOr(name, testConfig{})
	require.Error(t, err)
	require.NotErrorIs(t, err, os.ErrNotExist)
}
