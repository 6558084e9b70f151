package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAnalysisDefaults(t *testing.T) {
	for _, k := range []string{"RISK_FREE_RATE", "VAR_CONFIDENCE", "BENCHMARK_SYMBOL", "HISTORY_WINDOW", "CACHE_TTL", "LOG_LEVEL", "LOG_PRETTY"} {
		t.Setenv(k, "")
	}
	a, err := LoadAnalysis()
	require.NoError(t, err)
	assert.Equal(t, 0.02, a.RiskFreeRate)
	assert.Equal(t, 0.95, a.ConfidenceLevel)
	assert.Equal(t, "^GSPC", a.BenchmarkSymbol)
	assert.Equal(t, "1y", a.HistoryWindow)
	assert.Equal(t, 60*time.Second, a.CacheTTL)
	assert.Equal(t, "info", a.LogLevel)
	assert.False(t, a.LogPretty)
}

func TestLoadAnalysisOverrides(t *testing.T) {
	t.Setenv("RISK_FREE_RATE", "0.01")
	t.Setenv("VAR_CONFIDENCE", "0.99")
	t.Setenv("CACHE_TTL", "5m")
	t.Setenv("LOG_PRETTY", "true")
	a, err := LoadAnalysis()
	require.NoError(t, err)
	assert.Equal(t, 0.01, a.RiskFreeRate)
	assert.Equal(t, 0.99, a.ConfidenceLevel)
	assert.Equal(t, 5*time.Minute, a.CacheTTL)
	assert.True(t, a.LogPretty)
}

func TestLoadAnalysisRejectsBadValues(t *testing.T) {
	t.Setenv("VAR_CONFIDENCE", "1.5")
	_, err := LoadAnalysis()
	require.Error(t, err)

	t.Setenv("VAR_CONFIDENCE", "")
	t.Setenv("RISK_FREE_RATE", "two percent")
	_, err = LoadAnalysis()
	require.Error(t, err)
}

func TestLoadRequiresBotSecrets(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("WEBHOOK_PUBLIC_URL", "https://example.test/telegram/webhook")
	_, err := Load()
	require.ErrorContains(t, err, "TELEGRAM_BOT_TOKEN")

	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("PORT", "")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9095", cfg.Port)
	assert.Equal(t, "123:abc", cfg.TelegramToken)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("BENCHMARK_SYMBOL=^IXIC\n"), 0o644))
	t.Setenv("BENCHMARK_SYMBOL", "")
	os.Unsetenv("BENCHMARK_SYMBOL")

	require.NoError(t, LoadDotEnv(path, filepath.Join(dir, "missing.env")))
	a, err := LoadAnalysis()
	require.NoError(t, err)
	assert.Equal(t, "^IXIC", a.BenchmarkSymbol)
}
