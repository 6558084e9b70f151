package report

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"

	"portfolioRiskBot/internal/portfolio"
	"portfolioRiskBot/internal/risk"
)

// RiskReportPDF renders the portfolio risk report: headline figures, holdings,
// the VaR table and the VaR and sector charts when there is data for them.
func RiskReportPDF(holdings []portfolio.Holding, m risk.PortfolioMetrics, generated time.Time) ([]byte, error) {
	pdf, err := riskReport(holdings, m, generated)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func riskReport(holdings []portfolio.Holding, m risk.PortfolioMetrics, generated time.Time) (*fpdf.Fpdf, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Portfolio Risk Report", false)
	pdf.SetCreationDate(generated)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "Portfolio Risk Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 6, "Generated "+generated.UTC().Format("2006-01-02 15:04 UTC"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	summary := [][2]string{
		{"Total stocks", strconv.Itoa(len(holdings))},
		{"Total value", portfolio.TotalCost(holdings).StringFixed(2)},
		{"Expected daily return", FormatPercent(m.ExpectedReturn)},
		{"Volatility", FormatPercent(m.Performance.Volatility)},
		{"Sharpe ratio", FormatRatio(m.SharpeRatio)},
	}
	for _, kv := range summary {
		pdf.CellFormat(60, 7, kv[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, kv[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	rows := make([][]string, 0, len(holdings))
	for _, h := range holdings {
		rows = append(rows, []string{tr(h.Ticker), trimFloat(h.Shares), trimFloat(h.PurchasePrice), h.CostBasis().StringFixed(2)})
	}
	pdfTable(pdf, "Holdings", []string{"Ticker", "Shares", "Purchase Price", "Cost Basis"}, rows)

	rows = rows[:0]
	for _, t := range sortedKeys(m.VaRByTicker) {
		rows = append(rows, []string{tr(t), FormatPercent(m.VaRByTicker[t])})
	}
	pdfTable(pdf, fmt.Sprintf("Value at Risk (%s)", confidenceLabel(m.ConfidenceLevel)), []string{"Ticker", "VaR"}, rows)

	if img, err := VaRChart(m.VaRByTicker, m.ConfidenceLevel); err == nil {
		pdfImage(pdf, "var.png", img)
	} else if !errors.Is(err, ErrNotEnoughData) {
		return nil, err
	}
	if img, err := SectorChart(m.Sectors); err == nil {
		pdfImage(pdf, "sectors.png", img)
	} else if !errors.Is(err, ErrNotEnoughData) {
		return nil, err
	}
	return pdf, pdf.Error()
}

func pdfTable(pdf *fpdf.Fpdf, title string, headers []string, rows [][]string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 9, title, "", 1, "L", false, 0, "")
	w := 180.0 / float64(len(headers))

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for _, h := range headers {
		pdf.CellFormat(w, 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range rows {
		for i, v := range row {
			align := "R"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(w, 7, v, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)
}

// pdfImage places a PNG at full content width, starting a new page when it
// does not fit.
func pdfImage(pdf *fpdf.Fpdf, name string, img []byte) {
	opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	info := pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img))
	if info == nil {
		return
	}
	w := 180.0
	h := w * info.Height() / info.Width()
	_, pageH := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	if pdf.GetY()+h > pageH-bottom {
		pdf.AddPage()
	}
	pdf.ImageOptions(name, 15, pdf.GetY(), w, h, true, opts, 0, "")
	pdf.Ln(4)
}
