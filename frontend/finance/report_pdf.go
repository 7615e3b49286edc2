package finance

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"crewboard/models"
)

// renderMonthlyReportPDF produces a one-page finance report for the
// month containing now: headline summary, expense breakdown, and the
// six-month trend.
func renderMonthlyReportPDF(revenues []models.RevenueEntry, expenses []models.ExpenseEntry, now time.Time) ([]byte, error) {
	period, err := NamedPeriod("thisMonth", now)
	if err != nil {
		return nil, err
	}
	summary := Summarize(revenues, expenses, &period)
	breakdown := ExpenseBreakdown(expenses, &period)
	trend := MonthlyTrend(revenues, expenses, 6, now)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Monthly Finance Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, "Finance Report - "+period.Start.Format("January 2006"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Generated "+now.UTC().Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Summary", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(60, 7, "Total revenue", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 7, summary.TotalRevenue.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.CellFormat(60, 7, "Total expenses", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 7, summary.TotalExpenses.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.CellFormat(60, 7, "Net profit", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 7, summary.NetProfit.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.CellFormat(60, 7, "Profit margin", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 7, summary.ProfitMargin.StringFixed(2)+"%", "", 1, "R", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Expenses by category", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	if len(breakdown) == 0 {
		pdf.CellFormat(0, 7, "No expenses recorded this month", "", 1, "L", false, 0, "")
	}
	for _, c := range breakdown {
		pdf.CellFormat(80, 7, c.Category, "", 0, "L", false, 0, "")
		pdf.CellFormat(50, 7, c.Total.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(0, 7, c.Percent.StringFixed(2)+"%", "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Six-month trend", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(50, 7, "Month", "1", 0, "L", false, 0, "")
	pdf.CellFormat(45, 7, "Revenue", "1", 0, "R", false, 0, "")
	pdf.CellFormat(45, 7, "Expenses", "1", 0, "R", false, 0, "")
	pdf.CellFormat(0, 7, "Profit", "1", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, p := range trend {
		label := fmt.Sprintf("%s %d", p.Month.String(), p.Year)
		pdf.CellFormat(50, 7, label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(45, 7, p.Revenue.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(45, 7, p.Expenses.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(0, 7, p.Profit.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
