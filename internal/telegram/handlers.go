package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"portfolioRiskBot/internal/config"
	"portfolioRiskBot/internal/logger"
	"portfolioRiskBot/internal/marketdata"
	"portfolioRiskBot/internal/metrics"
	"portfolioRiskBot/internal/openai"
	"portfolioRiskBot/internal/portfolio"
	"portfolioRiskBot/internal/report"
	"portfolioRiskBot/internal/risk"
	"portfolioRiskBot/internal/session"
)

var errEmptyPortfolio = errors.New("portfolio is empty, add holdings with /add T1,T2 SHARES PRICE")

// Sender is the part of the Telegram API the handlers use.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Handlers struct {
	api      Sender
	data     marketdata.Provider
	sessions *session.Sessions
	analyst  *openai.Analyst
	cfg      config.Analysis
	timeout  time.Duration
	log      zerolog.Logger
}

func NewHandlers(api Sender, data marketdata.Provider, sessions *session.Sessions, analyst *openai.Analyst, cfg config.Analysis) *Handlers {
	return &Handlers{
		api:      api,
		data:     data,
		sessions: sessions,
		analyst:  analyst,
		cfg:      cfg,
		timeout:  45 * time.Second,
		log:      logger.Component("telegram"),
	}
}

func (h *Handlers) options() risk.Options {
	return risk.Options{RiskFreeRate: h.cfg.RiskFreeRate, ConfidenceLevel: h.cfg.ConfidenceLevel}
}

func (h *Handlers) HandleMessage(m *tgbotapi.Message) {
	txt := strings.TrimSpace(m.Text)
	if !strings.HasPrefix(txt, "/") {
		return
	}
	chatID := m.Chat.ID
	sess := h.sessions.Get(chatID)
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	var cmd string
	var err error
	switch {
	case reAdd.MatchString(txt):
		cmd = "add"
		err = h.handleAdd(chatID, sess, reAdd.FindStringSubmatch(txt))
	case reRemove.MatchString(txt):
		cmd = "remove"
		err = h.handleRemove(chatID, sess, reRemove.FindStringSubmatch(txt)[1])
	case rePortfolio.MatchString(txt):
		cmd = "portfolio"
		h.reply(chatID, report.HoldingsSummary(sess.Store.Holdings()))
	case reFetch.MatchString(txt):
		cmd = "fetch"
		g := reFetch.FindStringSubmatch(txt)
		err = h.handleFetch(ctx, chatID, sess, parseTickers(g[1]), g[2])
	case reAnalyze.MatchString(txt):
		cmd = "analyze"
		err = h.handleAnalyze(ctx, chatID, sess, reAnalyze.FindStringSubmatch(txt)[1])
	case reRisk.MatchString(txt):
		cmd = "risk"
		err = h.handleRisk(ctx, chatID, sess)
	case reSectors.MatchString(txt):
		cmd = "sectors"
		err = h.handleSectors(ctx, chatID, sess)
	case reReturn.MatchString(txt):
		cmd = "return"
		err = h.handleReturn(ctx, chatID, sess)
	case reExport.MatchString(txt):
		cmd = "export"
		err = h.handleExport(ctx, chatID, sess, reExport.FindStringSubmatch(txt)[1])
	case reChart.MatchString(txt):
		cmd = "chart"
		g := reChart.FindStringSubmatch(txt)
		err = h.handleChart(ctx, chatID, g[1], g[2])
	case reInsight.MatchString(txt):
		cmd = "insight"
		err = h.handleInsight(ctx, chatID, sess)
	case reHelp.MatchString(txt):
		cmd = "help"
		h.handleHelp(chatID)
	default:
		cmd = "unknown"
		h.reply(chatID, "Unknown command or arguments. Send /help for usage.")
	}

	metrics.RecordCommand(cmd, err)
	if err != nil {
		h.log.Warn().Err(err).Int64("chat_id", chatID).Str("command", cmd).Msg("command failed")
		h.reply(chatID, fmt.Sprintf("/%s failed: %v", cmd, err))
	}
}

func (h *Handlers) handleAdd(chatID int64, sess *session.Session, g []string) error {
	args, err := parseAdd(g)
	if err != nil {
		return err
	}
	var lines []string
	for _, t := range args.tickers {
		if sess.Store.Has(t) {
			lines = append(lines, fmt.Sprintf("⚠ %s is already in the portfolio, skipped. Use /remove %s first.", t, t))
			continue
		}
		hd, err := sess.Store.Add(t, args.shares, args.price)
		if err != nil {
			return err
		}
		lines = append(lines, fmt.Sprintf("Added %s: %g shares @ %g (cost %s)", hd.Ticker, hd.Shares, hd.PurchasePrice, hd.CostBasis().StringFixed(2)))
	}
	h.reply(chatID, strings.Join(lines, "\n"))
	return nil
}

func (h *Handlers) handleRemove(chatID int64, sess *session.Session, ticker string) error {
	if err := sess.Store.Remove(ticker); err != nil {
		return err
	}
	sess.Forget(ticker)
	h.reply(chatID, "Removed "+portfolio.NormalizeTicker(ticker))
	return nil
}

func (h *Handlers) window(sess *session.Session) string {
	if w := sess.Window(); w != "" {
		return w
	}
	return h.cfg.HistoryWindow
}

// ensureSeries fetches history for tickers the session has not loaded yet.
// Symbols that fail stay unloaded and show up as undefined statistics.
func (h *Handlers) ensureSeries(ctx context.Context, sess *session.Session, tickers ...string) ([]string, error) {
	missing := sess.Missing(tickers...)
	if len(missing) == 0 {
		return nil, nil
	}
	res, err := marketdata.FetchAll(ctx, h.data, missing, h.window(sess))
	loaded := make(map[string]risk.PriceSeries, len(res.Series))
	for t, s := range res.Series {
		if _, failed := res.Errors[t]; !failed {
			loaded[t] = s
		}
	}
	sess.MergeSeries(loaded, "")
	return res.Failed(), err
}

func (h *Handlers) ensureSectors(ctx context.Context, sess *session.Session, tickers []string) map[string]string {
	known := sess.Sectors(tickers...)
	var missing []string
	for _, t := range tickers {
		if _, ok := known[t]; !ok {
			missing = append(missing, t)
		}
	}
	if len(missing) > 0 {
		sess.MergeSectors(marketdata.FetchSectors(ctx, h.data, missing))
	}
	return sess.Sectors(tickers...)
}

func (h *Handlers) handleFetch(ctx context.Context, chatID int64, sess *session.Session, tickers []string, window string) error {
	if len(tickers) == 0 {
		tickers = sess.Store.Tickers()
	}
	if len(tickers) == 0 {
		return errEmptyPortfolio
	}
	if window == "" {
		window = h.window(sess)
	}
	if _, _, err := marketdata.ParseWindow(window); err != nil {
		return err
	}
	h.reply(chatID, fmt.Sprintf("Fetching %s over %s…", strings.Join(tickers, ", "), strings.ToLower(window)))

	res, err := marketdata.FetchAll(ctx, h.data, tickers, window)
	if err != nil {
		return err
	}
	loaded := make(map[string]risk.PriceSeries, len(res.Series))
	var lines []string
	for _, t := range tickers {
		if ferr, failed := res.Errors[t]; failed {
			lines = append(lines, fmt.Sprintf("%s: failed (%v)", t, ferr))
			continue
		}
		s := res.Series[t]
		loaded[t] = s
		if len(s) == 0 {
			lines = append(lines, fmt.Sprintf("%s: no bars", t))
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %d bars, %s to %s", t, len(s),
			s[0].Date.Format("2006-01-02"), s[len(s)-1].Date.Format("2006-01-02")))
	}
	sess.MergeSeries(loaded, strings.ToLower(window))
	h.reply(chatID, strings.Join(lines, "\n"))
	return nil
}

func (h *Handlers) handleAnalyze(ctx context.Context, chatID int64, sess *session.Session, ticker string) error {
	ticker = portfolio.NormalizeTicker(ticker)
	bench := portfolio.NormalizeTicker(h.cfg.BenchmarkSymbol)
	failed, err := h.ensureSeries(ctx, sess, ticker, bench)
	if err != nil {
		return err
	}
	series := sess.Series(ticker, bench)
	m := risk.AnalyzeTicker(ticker, series[ticker], series[bench], h.options())
	h.replyMarkdown(chatID, report.TickerSummary(m)+failedNote(failed))
	return nil
}

// portfolioData loads everything the portfolio commands need, guarding the
// empty portfolio before any aggregation runs.
func (h *Handlers) portfolioData(ctx context.Context, sess *session.Session) ([]portfolio.Holding, map[string]risk.PriceSeries, []string, error) {
	holdings := sess.Store.Holdings()
	if len(holdings) == 0 {
		return nil, nil, nil, errEmptyPortfolio
	}
	tickers := sess.Store.Tickers()
	failed, err := h.ensureSeries(ctx, sess, tickers...)
	if err != nil {
		return nil, nil, nil, err
	}
	return holdings, sess.Series(tickers...), failed, nil
}

func (h *Handlers) analyzePortfolio(ctx context.Context, sess *session.Session) ([]portfolio.Holding, risk.PortfolioMetrics, []string, error) {
	holdings, series, failed, err := h.portfolioData(ctx, sess)
	if err != nil {
		return nil, risk.PortfolioMetrics{}, nil, err
	}
	sectors := h.ensureSectors(ctx, sess, sess.Store.Tickers())
	m, err := risk.AnalyzePortfolio(holdings, series, sectors, h.options())
	if err != nil {
		return nil, risk.PortfolioMetrics{}, nil, err
	}
	return holdings, m, failed, nil
}

func (h *Handlers) handleRisk(ctx context.Context, chatID int64, sess *session.Session) error {
	_, m, failed, err := h.analyzePortfolio(ctx, sess)
	if err != nil {
		return err
	}
	h.replyMarkdown(chatID, report.PortfolioSummary(m)+failedNote(failed))
	if img, err := report.VaRChart(m.VaRByTicker, m.ConfidenceLevel); err == nil {
		h.sendPhoto(chatID, "var.png", "Value at Risk", img)
	} else {
		h.log.Debug().Err(err).Msg("var chart skipped")
	}
	return nil
}

func (h *Handlers) handleSectors(ctx context.Context, chatID int64, sess *session.Session) error {
	tickers := sess.Store.Tickers()
	if len(tickers) == 0 {
		return errEmptyPortfolio
	}
	alloc := risk.Sectors(h.ensureSectors(ctx, sess, tickers))
	h.replyMarkdown(chatID, report.SectorSummary(alloc))
	img, err := report.SectorChart(alloc)
	if err != nil {
		return err
	}
	h.sendPhoto(chatID, "sectors.png", "Sector allocation", img)
	return nil
}

func (h *Handlers) handleReturn(ctx context.Context, chatID int64, sess *session.Session) error {
	holdings, series, failed, err := h.portfolioData(ctx, sess)
	if err != nil {
		return err
	}
	perf, err := risk.PortfolioReturnAt(holdings, series, h.cfg.RiskFreeRate)
	if err != nil {
		return err
	}
	h.replyMarkdown(chatID, report.ReturnSummary(perf)+failedNote(failed))
	return nil
}

func (h *Handlers) handleExport(ctx context.Context, chatID int64, sess *session.Session, kind string) error {
	if kind == "" {
		kind = "csv"
	}
	if kind == "csv" {
		holdings := sess.Store.Holdings()
		if len(holdings) == 0 {
			return errEmptyPortfolio
		}
		data, err := report.HoldingsCSV(holdings)
		if err != nil {
			return err
		}
		h.sendDocument(chatID, "holdings.csv", data)
		return nil
	}

	holdings, m, _, err := h.analyzePortfolio(ctx, sess)
	if err != nil {
		return err
	}
	var data []byte
	name := kind + ".csv"
	switch kind {
	case "var":
		data, err = report.VaRCSV(m.VaRByTicker, m.ConfidenceLevel)
	case "corr":
		data, err = report.CorrelationCSV(m.Correlation)
	case "xlsx":
		name = "portfolio.xlsx"
		data, err = report.Workbook(holdings, m)
	case "pdf":
		name = "risk_report.pdf"
		data, err = report.RiskReportPDF(holdings, m, time.Now())
	}
	if err != nil {
		return err
	}
	h.sendDocument(chatID, name, data)
	return nil
}

func (h *Handlers) handleChart(ctx context.Context, chatID int64, ticker, window string) error {
	ticker = portfolio.NormalizeTicker(ticker)
	if window == "" {
		window = h.cfg.HistoryWindow
	}
	series, err := h.data.History(ctx, ticker, window)
	if err != nil {
		return fmt.Errorf("couldn’t fetch %s: %w", ticker, err)
	}
	img, err := report.PriceChart(ticker, series)
	if err != nil {
		return err
	}
	h.sendPhoto(chatID, ticker+".png", ticker+" • 1D • "+strings.ToUpper(window), img)
	return nil
}

func (h *Handlers) handleInsight(ctx context.Context, chatID int64, sess *session.Session) error {
	if !h.analyst.Enabled() {
		return openai.ErrNoAPIKey
	}
	holdings, m, _, err := h.analyzePortfolio(ctx, sess)
	if err != nil {
		return err
	}
	h.reply(chatID, "Asking the analyst…")
	out, err := h.analyst.Commentary(ctx, holdings, m)
	if err != nil {
		return err
	}
	h.replyMarkdown(chatID, out)
	return nil
}

func (h *Handlers) handleHelp(chatID int64) {
	help := "Commands\n\n" +
		"- /add T1,T2 SHARES PRICE - Add holdings (existing tickers are skipped)\n" +
		"- /remove TICKER - Remove a holding\n" +
		"- /portfolio - List holdings and cost basis\n" +
		"- /fetch [T1 T2 ...] [window] - Load daily history (default: holdings, " + h.cfg.HistoryWindow + ")\n" +
		"- /analyze TICKER - Return, volatility, Sharpe, VaR and correlation with " + h.cfg.BenchmarkSymbol + "\n" +
		"- /risk - Portfolio return, Sharpe, VaR per holding, correlation and sectors\n" +
		"- /return - Cost-weighted expected return\n" +
		"- /sectors - Sector allocation with pie chart\n" +
		"- /export [csv|var|corr|xlsx|pdf] - Download holdings, VaR or correlation as CSV, an Excel workbook or a PDF report\n" +
		"- /chart TICKER [window] - Daily close chart\n" +
		"- /insight - Analyst commentary on the risk report\n" +
		"\nWindows: 5d, 3w, 6m, 1y, 5y. Undefined statistics are shown as n/a."
	h.reply(chatID, help)
}

func failedNote(failed []string) string {
	if len(failed) == 0 {
		return ""
	}
	return "\nNo data for: " + report.EscapeMarkdown(strings.Join(failed, ", "))
}

func (h *Handlers) reply(chatID int64, text string) {
	h.send(tgbotapi.NewMessage(chatID, text))
}

func (h *Handlers) replyMarkdown(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	h.send(msg)
}

func (h *Handlers) sendPhoto(chatID int64, name, caption string, img []byte) {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: name, Bytes: img})
	photo.Caption = caption
	h.send(photo)
}

func (h *Handlers) sendDocument(chatID int64, name string, data []byte) {
	h.send(tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data}))
}

func (h *Handlers) send(c tgbotapi.Chattable) {
	if _, err := h.api.Send(c); err != nil {
		h.log.Error().Err(err).Msg("telegram send failed")
	}
}
