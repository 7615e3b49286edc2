package finance

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"crewboard/infrastructure/sqlite"
	"crewboard/infrastructure/watch"
	"crewboard/models"
)

// Reconciler keeps budget spent amounts and statuses in line with the
// expense set. It re-runs a full pass whenever expenses or budgets
// change.
type Reconciler struct {
	db  *sqlite.DB
	hub *watch.Hub
	now func() time.Time
}

func NewReconciler(db *sqlite.DB, hub *watch.Hub) *Reconciler {
	return &Reconciler{db: db, hub: hub, now: time.Now}
}

// Run blocks until ctx is done, reconciling once at startup and again
// on every expenses or budgets change.
func (r *Reconciler) Run(ctx context.Context) {
	expensesCh, cancelExpenses := r.hub.Watch(watch.Expenses)
	defer cancelExpenses()
	budgetsCh, cancelBudgets := r.hub.Watch(watch.Budgets)
	defer cancelBudgets()

	if err := r.ReconcileAll(ctx); err != nil {
		slog.Error("budget reconciliation failed", slog.Any("err", err))
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-expensesCh:
		case <-budgetsCh:
		}
		if err := r.ReconcileAll(ctx); err != nil {
			slog.Error("budget reconciliation failed", slog.Any("err", err))
		}
	}
}

// ReconcileAll recomputes every budget. Per-budget persistence failures
// are logged and skipped. The budgets collection is notified only when
// at least one row actually changed, so a pass over already-correct
// budgets does not re-trigger itself.
func (r *Reconciler) ReconcileAll(ctx context.Context) error {
	expenses, err := ListExpenses(ctx, r.db)
	if err != nil {
		return err
	}
	budgets, err := ListBudgets(ctx, r.db)
	if err != nil {
		return err
	}

	today := dateOnly(r.now())
	changed := false
	for _, budget := range budgets {
		spent := budgetSpent(budget, expenses)
		status := deriveStatus(budget, spent, today)
		if spent.Equal(budget.SpentAmount) && status == budget.Status {
			continue
		}
		err := r.db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
			_, err := tx.NewUpdate().
				Model((*models.Budget)(nil)).
				Set("spent_amount = ?", spent).
				Set("status = ?", status).
				Where("id = ?", budget.ID).
				Exec(ctx)
			return err
		})
		if err != nil {
			slog.Error("budget update failed",
				slog.Int64("budget_id", budget.ID),
				slog.Any("err", err))
			continue
		}
		changed = true
	}
	if changed {
		r.hub.Notify(watch.Budgets)
	}
	return nil
}

// budgetSpent sums the expenses matching the budget: same category,
// same project when the budget is project-scoped, entry date inside the
// budget window.
func budgetSpent(budget models.Budget, expenses []models.ExpenseEntry) decimal.Decimal {
	window := Period{Start: budget.StartDate, End: budget.EndDate}
	spent := decimal.Zero
	for _, e := range expenses {
		if e.Category != budget.Category {
			continue
		}
		if budget.ProjectID != nil && (e.ProjectID == nil || *e.ProjectID != *budget.ProjectID) {
			continue
		}
		if !window.Contains(e.EntryDate) {
			continue
		}
		spent = spent.Add(e.Amount)
	}
	return spent
}

func deriveStatus(budget models.Budget, spent decimal.Decimal, today time.Time) string {
	switch {
	case spent.GreaterThan(budget.AllocatedAmount):
		return BudgetExceeded
	case dateOnly(budget.EndDate).Before(today):
		return BudgetCompleted
	default:
		return BudgetActive
	}
}
