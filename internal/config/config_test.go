package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("empty path yields defaults", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, ":8000", cfg.ListenAddr)
		assert.Equal(t, "pdf", cfg.ReportFormat)
		assert.Equal(t, 15*time.Second, cfg.PageTimeout())
		assert.Equal(t, 10*time.Second, cfg.ProbeTimeout())
		assert.Equal(t, DefaultExcludedDomains, cfg.ExcludedDomains)
		assert.Equal(t, DefaultUserAgent, cfg.UserAgent)
		assert.Len(t, cfg.ReportFooter, 4)
	})

	t.Run("reads JSON", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "config.json", `{"listen_addr":":9090","report_format":"XLSX","excluded_domains":["ads.example"]}`)
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, ":9090", cfg.ListenAddr)
		assert.Equal(t, "xlsx", cfg.ReportFormat)
		assert.Equal(t, []string{"ads.example"}, cfg.ExcludedDomains)
	})

	t.Run("reads YAML", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "config.yaml", "page_timeout_ms: 2000\nreport_footer:\n  - contact@example.com\n")
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, 2*time.Second, cfg.PageTimeout())
		assert.Equal(t, []string{"contact@example.com"}, cfg.ReportFooter)
	})

	t.Run("rejects unknown report format", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "config.json", `{"report_format":"docx"}`)
		_, err := LoadConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "report_format")
	})

	t.Run("rejects tiny timeouts", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "config.json", `{"probe_timeout_ms":10}`)
		_, err := LoadConfig(path)
		require.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
		require.Error(t, err)
	})
}
