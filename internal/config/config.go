package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Analysis holds the settings shared by the bot and the CLI.
type Analysis struct {
	RiskFreeRate    float64
	ConfidenceLevel float64
	BenchmarkSymbol string
	HistoryWindow   string
	CacheTTL        time.Duration
	LogLevel        string
	LogPretty       bool
}

type Config struct {
	Analysis
	TelegramToken    string
	WebhookPublicURL string
	OpenAIKey        string
	Port             string
}

// LoadDotEnv reads a .env file when present. A missing file is not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads the bot configuration from the environment.
func Load() (Config, error) {
	a, err := LoadAnalysis()
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		Analysis:  a,
		OpenAIKey: os.Getenv("OPENAI_API_KEY"),
		Port:      envOr("PORT", "9095"),
	}
	if cfg.TelegramToken, err = requireEnv("TELEGRAM_BOT_TOKEN"); err != nil {
		return Config{}, err
	}
	if cfg.WebhookPublicURL, err = requireEnv("WEBHOOK_PUBLIC_URL"); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadAnalysis reads only the analysis settings; no secrets are required.
func LoadAnalysis() (Analysis, error) {
	var a Analysis
	var err error
	if a.RiskFreeRate, err = envFloat("RISK_FREE_RATE", 0.02); err != nil {
		return Analysis{}, err
	}
	if a.ConfidenceLevel, err = envFloat("VAR_CONFIDENCE", 0.95); err != nil {
		return Analysis{}, err
	}
	if a.ConfidenceLevel <= 0 || a.ConfidenceLevel >= 1 {
		return Analysis{}, fmt.Errorf("VAR_CONFIDENCE must be in (0,1), got %v", a.ConfidenceLevel)
	}
	if a.CacheTTL, err = envDuration("CACHE_TTL", 60*time.Second); err != nil {
		return Analysis{}, err
	}
	if a.LogPretty, err = envBool("LOG_PRETTY", false); err != nil {
		return Analysis{}, err
	}
	a.BenchmarkSymbol = envOr("BENCHMARK_SYMBOL", "^GSPC")
	a.HistoryWindow = envOr("HISTORY_WINDOW", "1y")
	a.LogLevel = envOr("LOG_LEVEL", "info")
	return a, nil
}

func requireEnv(k string) (string, error) {
	v := os.Getenv(k)
	if v == "" {
		return "", fmt.Errorf("missing env %s", k)
	}
	return v, nil
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envFloat(k string, def float64) (float64, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", k, v, err)
	}
	return f, nil
}

func envDuration(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", k, v, err)
	}
	return d, nil
}

func envBool(k string, def bool) (bool, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", k, v, err)
	}
	return b, nil
}
