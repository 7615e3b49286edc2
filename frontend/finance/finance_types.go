package finance

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"crewboard/models"
)

// Budget statuses derived by reconciliation.
const (
	BudgetActive    = "active"
	BudgetExceeded  = "exceeded"
	BudgetCompleted = "completed"
)

// Period is an inclusive date window. Comparison is date-only in UTC:
// an entry on the end date still counts.
type Period struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether the day of t falls inside the window.
func (p Period) Contains(t time.Time) bool {
	day := dateOnly(t)
	return !day.Before(dateOnly(p.Start)) && !day.After(dateOnly(p.End))
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NamedPeriod resolves a report period keyword to a concrete window.
func NamedPeriod(name string, now time.Time) (Period, error) {
	now = now.UTC()
	year, month, _ := now.Date()
	switch name {
	case "thisMonth":
		start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		return Period{Start: start, End: start.AddDate(0, 1, -1)}, nil
	case "lastMonth":
		start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
		return Period{Start: start, End: start.AddDate(0, 1, -1)}, nil
	case "thisQuarter":
		qStart := time.Date(year, time.Month((int(month)-1)/3*3+1), 1, 0, 0, 0, 0, time.UTC)
		return Period{Start: qStart, End: qStart.AddDate(0, 3, -1)}, nil
	case "thisYear":
		start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return Period{Start: start, End: time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)}, nil
	case "lastYear":
		start := time.Date(year-1, time.January, 1, 0, 0, 0, 0, time.UTC)
		return Period{Start: start, End: time.Date(year-1, time.December, 31, 0, 0, 0, 0, time.UTC)}, nil
	default:
		return Period{}, fmt.Errorf("unknown period %q", name)
	}
}

// EntryInput carries the fields for a revenue or expense entry.
type EntryInput struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Date        time.Time       `json:"date"`
	ProjectID   *int64          `json:"projectId,omitempty"`
	Notes       string          `json:"notes"`
}

// BudgetInput carries the editable budget fields. Spent amount and
// status are reconciliation outputs and are not accepted here.
type BudgetInput struct {
	Name            string          `json:"name"`
	Category        string          `json:"category"`
	AllocatedAmount decimal.Decimal `json:"allocatedAmount"`
	StartDate       time.Time       `json:"startDate"`
	EndDate         time.Time       `json:"endDate"`
	ProjectID       *int64          `json:"projectId,omitempty"`
}

// Summary is the headline finance payload for a period.
type Summary struct {
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetProfit     decimal.Decimal `json:"netProfit"`
	ProfitMargin  decimal.Decimal `json:"profitMargin"`
}

// CategoryTotal is one slice of a category breakdown.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Percent  decimal.Decimal `json:"percent"`
}

// MonthPoint is one month of the revenue/expense trend.
type MonthPoint struct {
	Year     int             `json:"year"`
	Month    time.Month      `json:"month"`
	Revenue  decimal.Decimal `json:"revenue"`
	Expenses decimal.Decimal `json:"expenses"`
	Profit   decimal.Decimal `json:"profit"`
}

// ProjectReport bundles the finance view of one project.
type ProjectReport struct {
	ProjectID int64                 `json:"projectId"`
	Summary   Summary               `json:"summary"`
	Revenues  []models.RevenueEntry `json:"revenues"`
	Expenses  []models.ExpenseEntry `json:"expenses"`
}

// BudgetView is one budget plus its utilization percentage.
type BudgetView struct {
	models.Budget
	Utilization decimal.Decimal `json:"utilization"`
}
