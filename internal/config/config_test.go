package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/ticketreport-go/pkg/ticketreport"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "Data", cfg.Report.Sheet)
	assert.Equal(t, 14, cfg.Report.HeaderRow)
	assert.Equal(t, "Date Reported", cfg.Report.DateColumn)
	assert.Equal(t, 3.0, cfg.Report.Threshold)
	assert.Equal(t, "#e2282a", cfg.Report.Primary)
	assert.Equal(t, "Category L1(Response)", cfg.Report.Columns.Category)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, int64(32<<20), cfg.Server.MaxUploadBytes)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, "config.yaml", `
report:
  sheet: Tickets
  header_row: 2
  threshold: 5
  columns:
    category: Category
server:
  addr: 127.0.0.1:9000
  read_timeout: 5s
log:
  format: text
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Tickets", cfg.Report.Sheet)
	assert.Equal(t, 2, cfg.Report.HeaderRow)
	assert.Equal(t, 5.0, cfg.Report.Threshold)
	assert.Equal(t, "Category", cfg.Report.Columns.Category)
	assert.Equal(t, "Query Type(Response)", cfg.Report.Columns.QueryType, "unset keys keep defaults")
	assert.Equal(t, "Date Reported", cfg.Report.DateColumn)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "config.yaml", "report:\n  header_row: 2\n")
	t.Setenv("TICKETREPORT_REPORT_HEADER_ROW", "7")
	t.Setenv("TICKETREPORT_REPORT_DATE_COLUMN", "Created On")
	t.Setenv("TICKETREPORT_SERVER_MAX_UPLOAD_BYTES", "1024")
	t.Setenv("TICKETREPORT_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Report.HeaderRow)
	assert.Equal(t, "Created On", cfg.Report.DateColumn)
	assert.Equal(t, int64(1024), cfg.Server.MaxUploadBytes)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
		message string
	}{
		{name: "unknown key", content: "report:\n  colour: red\n", message: "failed to load config from file"},
		{name: "bad yaml", content: "report: [", message: "failed to load config from file"},
		{name: "bad env number", env: map[string]string{"TICKETREPORT_REPORT_HEADER_ROW": "ten"}, message: "failed to load config from env"},
		{name: "header row zero", content: "report:\n  header_row: 0\n", message: "HeaderRow must be at least 1"},
		{name: "threshold", content: "report:\n  threshold: 25\n", message: "GroupThreshold must be between 0 and 10"},
		{name: "colour", content: "report:\n  primary: crimson\n", message: "Branding.Primary must be a hex colour"},
		{name: "log format", content: "log:\n  format: xml\n", message: "Log.Format"},
		{name: "upload limit", content: "server:\n  max_upload_bytes: 0\n", message: "Server.MaxUploadBytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.content != "" {
				path = writeFile(t, "config.yaml", tt.content)
			}

			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestReportOptions(t *testing.T) {
	cfg := Default()
	cfg.Report.Client = "Acme"
	cfg.Report.Secondary = "EB7E27"

	opts, err := cfg.Report.Options()
	require.NoError(t, err)
	assert.Equal(t, "Client: Acme", opts.Subtitle())
	assert.Equal(t, "EB7E27", opts.Branding.Secondary)
	assert.Nil(t, opts.Branding.Logo)

	logo := writeFile(t, "logo.png", "\x89PNG\r\n\x1a\n")
	cfg.Report.Logo = logo
	opts, err = cfg.Report.Options()
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG\r\n\x1a\n"), opts.Branding.Logo)

	cfg.Report.Logo = filepath.Join(t.TempDir(), "missing.png")
	_, err = cfg.Report.Options()
	assert.ErrorContains(t, err, "failed to read logo")

	cfg.Report.Logo = ""
	cfg.Report.HeaderRow = -1
	_, err = cfg.Report.Options()
	assert.True(t, errors.Is(err, ticketreport.ErrInvalidOptions))
}
