package finance

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"crewboard/models"
)

var hundred = decimal.NewFromInt(100)

// TotalRevenue sums revenue amounts inside the period. A nil period
// means all entries.
func TotalRevenue(entries []models.RevenueEntry, period *Period) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if period != nil && !period.Contains(e.EntryDate) {
			continue
		}
		total = total.Add(e.Amount)
	}
	return total
}

// TotalExpenses sums expense amounts inside the period. A nil period
// means all entries.
func TotalExpenses(entries []models.ExpenseEntry, period *Period) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if period != nil && !period.Contains(e.EntryDate) {
			continue
		}
		total = total.Add(e.Amount)
	}
	return total
}

// NetProfit is revenue minus expenses over the same period.
func NetProfit(revenues []models.RevenueEntry, expenses []models.ExpenseEntry, period *Period) decimal.Decimal {
	return TotalRevenue(revenues, period).Sub(TotalExpenses(expenses, period))
}

// Summarize computes the headline numbers. Profit margin is net profit
// as a percentage of revenue, zero when there is no revenue.
func Summarize(revenues []models.RevenueEntry, expenses []models.ExpenseEntry, period *Period) Summary {
	revenue := TotalRevenue(revenues, period)
	spent := TotalExpenses(expenses, period)
	profit := revenue.Sub(spent)
	margin := decimal.Zero
	if !revenue.IsZero() {
		margin = profit.Div(revenue).Mul(hundred).Round(2)
	}
	return Summary{
		TotalRevenue:  revenue,
		TotalExpenses: spent,
		NetProfit:     profit,
		ProfitMargin:  margin,
	}
}

// ExpenseBreakdown groups expenses by category with each category's
// share of the total. A zero total yields zero percentages rather than
// dividing by zero.
func ExpenseBreakdown(expenses []models.ExpenseEntry, period *Period) []CategoryTotal {
	byCategory := make(map[string]decimal.Decimal)
	total := decimal.Zero
	for _, e := range expenses {
		if period != nil && !period.Contains(e.EntryDate) {
			continue
		}
		byCategory[e.Category] = byCategory[e.Category].Add(e.Amount)
		total = total.Add(e.Amount)
	}

	out := make([]CategoryTotal, 0, len(byCategory))
	for category, sum := range byCategory {
		percent := decimal.Zero
		if !total.IsZero() {
			percent = sum.Div(total).Mul(hundred).Round(2)
		}
		out = append(out, CategoryTotal{Category: category, Total: sum, Percent: percent})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Total.Equal(out[j].Total) {
			return out[i].Total.GreaterThan(out[j].Total)
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// MonthlyTrend returns the last n calendar months including the month
// of now, oldest first, each with its revenue, expenses, and profit.
func MonthlyTrend(revenues []models.RevenueEntry, expenses []models.ExpenseEntry, n int, now time.Time) []MonthPoint {
	if n <= 0 {
		return nil
	}
	now = now.UTC()
	points := make([]MonthPoint, 0, n)
	for i := n - 1; i >= 0; i-- {
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -i, 0)
		period := Period{Start: monthStart, End: monthStart.AddDate(0, 1, -1)}
		revenue := TotalRevenue(revenues, &period)
		spent := TotalExpenses(expenses, &period)
		points = append(points, MonthPoint{
			Year:     monthStart.Year(),
			Month:    monthStart.Month(),
			Revenue:  revenue,
			Expenses: spent,
			Profit:   revenue.Sub(spent),
		})
	}
	return points
}

// Utilization is spent as a percentage of allocated, zero when nothing
// is allocated.
func Utilization(b models.Budget) decimal.Decimal {
	if b.AllocatedAmount.IsZero() {
		return decimal.Zero
	}
	return b.SpentAmount.Div(b.AllocatedAmount).Mul(hundred).Round(2)
}

// ProjectFinancials scopes totals and entry lists to one project.
func ProjectFinancials(projectID int64, revenues []models.RevenueEntry, expenses []models.ExpenseEntry, period *Period) ProjectReport {
	report := ProjectReport{
		ProjectID: projectID,
		Revenues:  make([]models.RevenueEntry, 0),
		Expenses:  make([]models.ExpenseEntry, 0),
	}
	for _, e := range revenues {
		if e.ProjectID == nil || *e.ProjectID != projectID {
			continue
		}
		if period != nil && !period.Contains(e.EntryDate) {
			continue
		}
		report.Revenues = append(report.Revenues, e)
	}
	for _, e := range expenses {
		if e.ProjectID == nil || *e.ProjectID != projectID {
			continue
		}
		if period != nil && !period.Contains(e.EntryDate) {
			continue
		}
		report.Expenses = append(report.Expenses, e)
	}
	report.Summary = Summarize(report.Revenues, report.Expenses, nil)
	return report
}
