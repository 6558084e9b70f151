package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	oa "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"portfolioRiskBot/internal/portfolio"
	"portfolioRiskBot/internal/report"
	"portfolioRiskBot/internal/risk"
)

// ErrNoAPIKey is returned when commentary is requested without a configured key.
var ErrNoAPIKey = errors.New("openai: no api key configured")

const systemPrompt = `You are a portfolio risk analyst. You receive computed risk metrics for a stock portfolio and explain them to a retail investor.

Your response must follow this exact structure:

**Overview:**
[One paragraph on overall return and risk]

**Concentration:**
[Comment on weights and sector exposure]

**Risk Drivers:**
[Which holdings carry the most VaR and how correlated they are]

**Watch Points:**
[Two or three concrete things to monitor]

Guidelines:
- Only use the numbers provided, never invent prices
- Values shown as n/a are undefined, say so instead of guessing
- No buy or sell recommendations
- Format with bullet points where appropriate`

// Analyst turns computed metrics into narrative commentary.
type Analyst struct {
	cli     oa.Client
	enabled bool
	model   string
}

func NewAnalyst(apiKey string, opts ...option.RequestOption) *Analyst {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &Analyst{cli: oa.NewClient(opts...), enabled: apiKey != "", model: "gpt-4"}
}

// Enabled reports whether an API key was configured.
func (a *Analyst) Enabled() bool { return a != nil && a.enabled }

// Commentary asks the model to explain the portfolio metrics.
func (a *Analyst) Commentary(ctx context.Context, holdings []portfolio.Holding, m risk.PortfolioMetrics) (string, error) {
	if !a.Enabled() {
		return "", ErrNoAPIKey
	}
	resp, err := a.cli.Chat.Completions.New(ctx, oa.ChatCompletionNewParams{
		Model: a.model,
		Messages: []oa.ChatCompletionMessageParamUnion{
			oa.SystemMessage(systemPrompt),
			oa.UserMessage(BuildRiskPrompt(holdings, m)),
		},
		MaxTokens: oa.Int(1500), // Limit response length for telegram
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}

// BuildRiskPrompt flattens holdings and metrics into plain text for the model.
func BuildRiskPrompt(holdings []portfolio.Holding, m risk.PortfolioMetrics) string {
	var b strings.Builder
	b.WriteString("Holdings (ticker, shares, purchase price, weight):\n")
	for _, h := range holdings {
		fmt.Fprintf(&b, "- %s, %g, %g, %s\n", h.Ticker, h.Shares, h.PurchasePrice, report.FormatPercent(m.Performance.Weights[h.Ticker]))
	}
	fmt.Fprintf(&b, "\nExpected daily return: %s\n", report.FormatPercent(m.ExpectedReturn))
	fmt.Fprintf(&b, "Volatility of weighted returns: %s\n", report.FormatPercent(m.Performance.Volatility))
	fmt.Fprintf(&b, "Sharpe ratio: %s\n", report.FormatRatio(m.SharpeRatio))

	fmt.Fprintf(&b, "\nDaily VaR at %s confidence:\n", report.FormatPercent(m.ConfidenceLevel))
	for _, h := range holdings {
		fmt.Fprintf(&b, "- %s: %s\n", h.Ticker, report.FormatPercent(m.VaRByTicker[h.Ticker]))
	}

	if m.Correlation.Size() > 1 {
		b.WriteString("\nPairwise correlation:\n")
		for i, x := range m.Correlation.Labels {
			for j := i + 1; j < m.Correlation.Size(); j++ {
				fmt.Fprintf(&b, "- %s/%s: %s\n", x, m.Correlation.Labels[j], report.FormatCoefficient(m.Correlation.At(i, j)))
			}
		}
	}
	if len(m.Sectors) > 0 {
		b.WriteString("\nSectors:\n")
		for _, s := range m.Sectors {
			fmt.Fprintf(&b, "- %s: %d holdings (%s)\n", s.Sector, s.Count, report.FormatPercent(s.Share))
		}
	}
	b.WriteString("\nExplain these metrics following the structured format.")
	return b.String()
}
