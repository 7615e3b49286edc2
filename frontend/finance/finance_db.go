package finance

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"crewboard/infrastructure/sqlite"
	"crewboard/infrastructure/watch"
	"crewboard/models"
)

func validateEntry(input EntryInput) error {
	if strings.TrimSpace(input.Description) == "" {
		return fmt.Errorf("description is required")
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("amount must be positive")
	}
	if strings.TrimSpace(input.Category) == "" {
		return fmt.Errorf("category is required")
	}
	if input.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	return nil
}

func ListRevenues(ctx context.Context, db *sqlite.DB) ([]models.RevenueEntry, error) {
	entries := make([]models.RevenueEntry, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&entries).OrderExpr("entry_date DESC, id DESC").Scan(ctx)
	})
	return entries, err
}

func ListExpenses(ctx context.Context, db *sqlite.DB) ([]models.ExpenseEntry, error) {
	entries := make([]models.ExpenseEntry, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&entries).OrderExpr("entry_date DESC, id DESC").Scan(ctx)
	})
	return entries, err
}

func ListBudgets(ctx context.Context, db *sqlite.DB) ([]models.Budget, error) {
	budgets := make([]models.Budget, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&budgets).OrderExpr("start_date DESC, id DESC").Scan(ctx)
	})
	return budgets, err
}

func CreateRevenue(ctx context.Context, db *sqlite.DB, hub *watch.Hub, createdBy int64, input EntryInput) (models.RevenueEntry, error) {
	if err := validateEntry(input); err != nil {
		return models.RevenueEntry{}, err
	}
	entry := models.RevenueEntry{
		Description: strings.TrimSpace(input.Description),
		Amount:      input.Amount,
		Category:    strings.TrimSpace(input.Category),
		EntryDate:   input.Date,
		ProjectID:   input.ProjectID,
		Notes:       strings.TrimSpace(input.Notes),
		CreatedBy:   createdBy,
	}
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().Model(&entry).Exec(ctx)
		return err
	})
	if err != nil {
		return models.RevenueEntry{}, err
	}
	hub.Notify(watch.Revenues)
	return entry, nil
}

func UpdateRevenue(ctx context.Context, db *sqlite.DB, hub *watch.Hub, id int64, input EntryInput) error {
	if err := validateEntry(input); err != nil {
		return err
	}
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var current models.RevenueEntry
		if err := tx.NewSelect().Model(&current).Where("id = ?", id).Limit(1).Scan(ctx); err != nil {
			return err
		}
		_, err := tx.NewUpdate().
			Model((*models.RevenueEntry)(nil)).
			Set("description = ?", strings.TrimSpace(input.Description)).
			Set("amount = ?", input.Amount).
			Set("category = ?", strings.TrimSpace(input.Category)).
			Set("entry_date = ?", input.Date).
			Set("project_id = ?", input.ProjectID).
			Set("notes = ?", strings.TrimSpace(input.Notes)).
			Where("id = ?", id).
			Exec(ctx)
		return err
	})
	if err != nil {
		return err
	}
	hub.Notify(watch.Revenues)
	return nil
}

func DeleteRevenue(ctx context.Context, db *sqlite.DB, hub *watch.Hub, id int64) error {
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().Model((*models.RevenueEntry)(nil)).Where("id = ?", id).Exec(ctx)
		return err
	})
	if err != nil {
		return err
	}
	hub.Notify(watch.Revenues)
	return nil
}

func CreateExpense(ctx context.Context, db *sqlite.DB, hub *watch.Hub, createdBy int64, input EntryInput) (models.ExpenseEntry, error) {
	if err := validateEntry(input); err != nil {
		return models.ExpenseEntry{}, err
	}
	entry := models.ExpenseEntry{
		Description: strings.TrimSpace(input.Description),
		Amount:      input.Amount,
		Category:    strings.TrimSpace(input.Category),
		EntryDate:   input.Date,
		ProjectID:   input.ProjectID,
		Notes:       strings.TrimSpace(input.Notes),
		CreatedBy:   createdBy,
	}
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().Model(&entry).Exec(ctx)
		return err
	})
	if err != nil {
		return models.ExpenseEntry{}, err
	}
	hub.Notify(watch.Expenses)
	return entry, nil
}

func UpdateExpense(ctx context.Context, db *sqlite.DB, hub *watch.Hub, id int64, input EntryInput) error {
	if err := validateEntry(input); err != nil {
		return err
	}
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var current models.ExpenseEntry
		if err := tx.NewSelect().Model(&current).Where("id = ?", id).Limit(1).Scan(ctx); err != nil {
			return err
		}
		_, err := tx.NewUpdate().
			Model((*models.ExpenseEntry)(nil)).
			Set("description = ?", strings.TrimSpace(input.Description)).
			Set("amount = ?", input.Amount).
			Set("category = ?", strings.TrimSpace(input.Category)).
			Set("entry_date = ?", input.Date).
			Set("project_id = ?", input.ProjectID).
			Set("notes = ?", strings.TrimSpace(input.Notes)).
			Where("id = ?", id).
			Exec(ctx)
		return err
	})
	if err != nil {
		return err
	}
	hub.Notify(watch.Expenses)
	return nil
}

func DeleteExpense(ctx context.Context, db *sqlite.DB, hub *watch.Hub, id int64) error {
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().Model((*models.ExpenseEntry)(nil)).Where("id = ?", id).Exec(ctx)
		return err
	})
	if err != nil {
		return err
	}
	hub.Notify(watch.Expenses)
	return nil
}

func validateBudget(input BudgetInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("budget name is required")
	}
	if strings.TrimSpace(input.Category) == "" {
		return fmt.Errorf("category is required")
	}
	if input.AllocatedAmount.LessThan(decimal.Zero) {
		return fmt.Errorf("allocated amount cannot be negative")
	}
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return fmt.Errorf("start and end dates are required")
	}
	if input.EndDate.Before(input.StartDate) {
		return fmt.Errorf("end date precedes start date")
	}
	return nil
}

// CreateBudget inserts a budget with zero spent and active status; the
// reconciler corrects both on its next pass.
func CreateBudget(ctx context.Context, db *sqlite.DB, hub *watch.Hub, createdBy int64, input BudgetInput) (models.Budget, error) {
	if err := validateBudget(input); err != nil {
		return models.Budget{}, err
	}
	budget := models.Budget{
		Name:            strings.TrimSpace(input.Name),
		Category:        strings.TrimSpace(input.Category),
		AllocatedAmount: input.AllocatedAmount,
		SpentAmount:     decimal.Zero,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		ProjectID:       input.ProjectID,
		Status:          BudgetActive,
		CreatedBy:       createdBy,
	}
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().Model(&budget).Exec(ctx)
		return err
	})
	if err != nil {
		return models.Budget{}, err
	}
	hub.Notify(watch.Budgets)
	return budget, nil
}

func UpdateBudget(ctx context.Context, db *sqlite.DB, hub *watch.Hub, id int64, input BudgetInput) error {
	if err := validateBudget(input); err != nil {
		return err
	}
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var current models.Budget
		if err := tx.NewSelect().Model(&current).Where("id = ?", id).Limit(1).Scan(ctx); err != nil {
			return err
		}
		_, err := tx.NewUpdate().
			Model((*models.Budget)(nil)).
			Set("name = ?", strings.TrimSpace(input.Name)).
			Set("category = ?", strings.TrimSpace(input.Category)).
			Set("allocated_amount = ?", input.AllocatedAmount).
			Set("start_date = ?", input.StartDate).
			Set("end_date = ?", input.EndDate).
			Set("project_id = ?", input.ProjectID).
			Where("id = ?", id).
			Exec(ctx)
		return err
	})
	if err != nil {
		return err
	}
	hub.Notify(watch.Budgets)
	return nil
}

func DeleteBudget(ctx context.Context, db *sqlite.DB, hub *watch.Hub, id int64) error {
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().Model((*models.Budget)(nil)).Where("id = ?", id).Exec(ctx)
		return err
	})
	if err != nil {
		return err
	}
	hub.Notify(watch.Budgets)
	return nil
}
