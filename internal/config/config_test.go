package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go-jobradar/internal/filter"
	"go-jobradar/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), quiet())
	require.NoError(t, err)

	assert.Equal(t, "jobs.csv", cfg.General.OutputFilename)
	assert.Equal(t, models.DefaultSchema, cfg.General.FinalColumns)
	assert.Equal(t, []models.Platform{models.PlatformOCC, models.PlatformIndeed}, cfg.Platforms.Enabled())
	assert.Equal(t, 10*time.Second, cfg.Timing.DelayBetweenKeywords)
	assert.Contains(t, cfg.SearchFilters.SearchKeywords, "site reliability engineer")
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
general:
  output_filename: out/remote.csv
platforms:
  linkedin:
    enabled: true
    max_pages: 1
  indeed:
    enabled: false
timing:
  delay_between_keywords: 1s
search_filters:
  search_keywords: [kubernetes]
  exclude_title_keywords: [" QA ", Java]
  include_title_keywords: []
`)

	cfg, err := Load(path, quiet())
	require.NoError(t, err)

	assert.Equal(t, "out/remote.csv", cfg.General.OutputFilename)
	assert.Equal(t, []models.Platform{models.PlatformOCC, models.PlatformLinkedIn}, cfg.Platforms.Enabled())
	assert.Equal(t, 1, cfg.Platforms.LinkedIn.MaxPages)
	assert.Equal(t, "r604800", cfg.Platforms.LinkedIn.TimeWindow.Default, "untouched nested defaults survive")
	assert.Equal(t, time.Second, cfg.Timing.DelayBetweenKeywords)
	assert.Equal(t, []string{"kubernetes"}, cfg.SearchFilters.SearchKeywords)
	assert.Equal(t, []string{" QA ", "Java"}, cfg.SearchFilters.ExcludeTitle)
	assert.Empty(t, cfg.SearchFilters.IncludeTitle)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "token-123")
	t.Setenv("TELEGRAM_CHAT_ID", "-100200")
	t.Setenv("JOBRADAR_OUTPUT", "env.csv")
	t.Setenv("PORT", "9090")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), quiet())
	require.NoError(t, err)

	assert.True(t, cfg.Telegram.Enabled())
	assert.Equal(t, int64(-100200), cfg.Telegram.ChatID)
	assert.Equal(t, "env.csv", cfg.General.OutputFilename)
	assert.Equal(t, ":9090", cfg.Server.Addr)
}

func TestLoad_InvalidChatID(t *testing.T) {
	t.Setenv("TELEGRAM_CHAT_ID", "not-a-number")

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), quiet())
	assert.ErrorContains(t, err, "TELEGRAM_CHAT_ID")
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"no keywords", "search_filters:\n  search_keywords: []\n"},
		{"bad log level", "general:\n  log_level: loud\n"},
		{"zero max pages", "platforms:\n  occ:\n    max_pages: 0\n"},
		{"redis lock without url", "lock:\n  backend: redis\n"},
		{"max pause below min pause", "browser:\n  min_pause: 2s\n  max_pause: 1s\n"},
		{"schema without job_id", "general:\n  final_columns_to_save: [platform, title, company, timestamp_found, link]\n"},
		{"schema without platform", "general:\n  final_columns_to_save: [job_id, title, company, timestamp_found, link]\n"},
		{"no platform", "platforms:\n  occ: {enabled: false}\n  indeed: {enabled: false}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.yaml), quiet())
			assert.Error(t, err)
		})
	}
}

func TestLoad_FilterWordsKeptAsWritten(t *testing.T) {
	path := writeConfig(t, `
search_filters:
  exclude_title_keywords: [" sap ", ""]
  include_title_keywords: [cloud]
`)

	cfg, err := Load(path, quiet())
	require.NoError(t, err)
	require.Equal(t, []string{" sap "}, cfg.SearchFilters.ExcludeTitle)

	lists := cfg.SearchFilters.Lists()
	assert.Equal(t, filter.Included, lists.Classify("Saprissa Cloud Engineer").Outcome)
	got := lists.Classify("Cloud Engineer SAP")
	assert.Equal(t, filter.Included, got.Outcome, "padding keeps the word from matching at the end of the title")
	got = lists.Classify("Cloud SAP Basis")
	assert.Equal(t, filter.ExcludedExplicit, got.Outcome)
	assert.Equal(t, " sap ", got.Word)
}

func TestLoad_SchemaMustCarryKeyColumns(t *testing.T) {
	path := writeConfig(t, `
general:
  final_columns_to_save: [title, company, timestamp_found, link]
`)

	_, err := Load(path, quiet())
	assert.ErrorContains(t, err, "final_columns_to_save")
	assert.ErrorContains(t, err, `"job_id"`)
}

func TestLoad_MalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "general: [unterminated"), quiet())
	assert.ErrorContains(t, err, "parse")
}

func TestLoad_ShippedConfigMatchesDefaults(t *testing.T) {
	for _, key := range []string{"TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "DATABASE_URL", "REDIS_URL",
		"JOBRADAR_OUTPUT", "JOBRADAR_LOG_LEVEL", "JOBRADAR_CDP_ENDPOINT", "PORT"} {
		t.Setenv(key, "")
	}
	cfg, err := Load(filepath.Join("..", "..", "configs", "config.yaml"), quiet())
	require.NoError(t, err)

	def := Default()
	def.normalize()
	assert.Equal(t, def, cfg)
}
