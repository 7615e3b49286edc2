package finance

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"crewboard/frontend/login"
	"crewboard/infrastructure/sqlite"
	"crewboard/infrastructure/watch"
	"crewboard/models"
)

func openFinanceTestDB(t *testing.T) (*sqlite.DB, int64) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "finance-test.db")
	db, err := sqlite.OpenDB(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := sqlite.ApplyMigrations(context.Background(), db); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if err := login.UpsertUser(context.Background(), db, "Admin", "admin@example.com", "admin", "Admin123!Strong"); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	var userID int64
	err = db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT id FROM users WHERE email = ?`, "admin@example.com").Scan(ctx, &userID)
	})
	if err != nil {
		t.Fatalf("load admin id: %v", err)
	}
	return db, userID
}

func testReconciler(db *sqlite.DB, hub *watch.Hub, now time.Time) *Reconciler {
	r := NewReconciler(db, hub)
	r.now = func() time.Time { return now }
	return r
}

func loadBudget(t *testing.T, db *sqlite.DB, id int64) models.Budget {
	t.Helper()
	var b models.Budget
	err := db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&b).Where("id = ?", id).Limit(1).Scan(ctx)
	})
	if err != nil {
		t.Fatalf("load budget: %v", err)
	}
	return b
}

func seedExpense(t *testing.T, db *sqlite.DB, hub *watch.Hub, userID int64, amount, category string, date time.Time) {
	t.Helper()
	_, err := CreateExpense(context.Background(), db, hub, userID, EntryInput{
		Description: category + " spend",
		Amount:      decimal.RequireFromString(amount),
		Category:    category,
		Date:        date,
	})
	if err != nil {
		t.Fatalf("seed expense: %v", err)
	}
}

func TestReconcileMarksOverspentBudgetExceeded(t *testing.T) {
	db, userID := openFinanceTestDB(t)
	hub := watch.NewHub()
	now := day(2026, time.June, 20)

	budget, err := CreateBudget(context.Background(), db, hub, userID, BudgetInput{
		Name:            "Q2 software",
		Category:        "Software",
		AllocatedAmount: decimal.RequireFromString("1000"),
		StartDate:       day(2026, time.June, 1),
		EndDate:         day(2026, time.June, 30),
	})
	if err != nil {
		t.Fatalf("create budget: %v", err)
	}

	seedExpense(t, db, hub, userID, "600", "Software", day(2026, time.June, 5))
	seedExpense(t, db, hub, userID, "500", "Software", day(2026, time.June, 18))
	seedExpense(t, db, hub, userID, "100", "Software", day(2026, time.July, 2))
	seedExpense(t, db, hub, userID, "400", "Marketing", day(2026, time.June, 10))

	if err := testReconciler(db, hub, now).ReconcileAll(context.Background()); err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	got := loadBudget(t, db, budget.ID)
	if !got.SpentAmount.Equal(decimal.RequireFromString("1100")) {
		t.Errorf("spent = %s, want 1100 (window and category matches only)", got.SpentAmount)
	}
	if got.Status != BudgetExceeded {
		t.Errorf("status = %q, want exceeded", got.Status)
	}
}

func TestReconcileWindowBoundariesAreInclusive(t *testing.T) {
	db, userID := openFinanceTestDB(t)
	hub := watch.NewHub()

	budget, err := CreateBudget(context.Background(), db, hub, userID, BudgetInput{
		Name:            "June travel",
		Category:        "Travel",
		AllocatedAmount: decimal.RequireFromString("1000"),
		StartDate:       day(2026, time.June, 1),
		EndDate:         day(2026, time.June, 30),
	})
	if err != nil {
		t.Fatalf("create budget: %v", err)
	}

	seedExpense(t, db, hub, userID, "100", "Travel", day(2026, time.June, 1))
	seedExpense(t, db, hub, userID, "200", "Travel", day(2026, time.June, 30))
	seedExpense(t, db, hub, userID, "400", "Travel", day(2026, time.May, 31))
	seedExpense(t, db, hub, userID, "800", "Travel", day(2026, time.July, 1))

	if err := testReconciler(db, hub, day(2026, time.June, 15)).ReconcileAll(context.Background()); err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	got := loadBudget(t, db, budget.ID)
	if !got.SpentAmount.Equal(decimal.RequireFromString("300")) {
		t.Errorf("spent = %s, want 300 (start and end days inclusive)", got.SpentAmount)
	}
	if got.Status != BudgetActive {
		t.Errorf("status = %q, want active", got.Status)
	}
}

func TestReconcileProjectScopedBudget(t *testing.T) {
	db, userID := openFinanceTestDB(t)
	hub := watch.NewHub()
	projectID := int64(42)

	budget, err := CreateBudget(context.Background(), db, hub, userID, BudgetInput{
		Name:            "Campaign spend",
		Category:        "Marketing",
		AllocatedAmount: decimal.RequireFromString("500"),
		StartDate:       day(2026, time.June, 1),
		EndDate:         day(2026, time.June, 30),
		ProjectID:       &projectID,
	})
	if err != nil {
		t.Fatalf("create budget: %v", err)
	}

	_, err = CreateExpense(context.Background(), db, hub, userID, EntryInput{
		Description: "project ads",
		Amount:      decimal.RequireFromString("150"),
		Category:    "Marketing",
		Date:        day(2026, time.June, 10),
		ProjectID:   &projectID,
	})
	if err != nil {
		t.Fatalf("seed project expense: %v", err)
	}
	seedExpense(t, db, hub, userID, "900", "Marketing", day(2026, time.June, 11))

	if err := testReconciler(db, hub, day(2026, time.June, 15)).ReconcileAll(context.Background()); err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	got := loadBudget(t, db, budget.ID)
	if !got.SpentAmount.Equal(decimal.RequireFromString("150")) {
		t.Errorf("spent = %s, want 150 (unscoped expense excluded)", got.SpentAmount)
	}
}

func TestReconcileMarksPastBudgetCompleted(t *testing.T) {
	db, userID := openFinanceTestDB(t)
	hub := watch.NewHub()

	budget, err := CreateBudget(context.Background(), db, hub, userID, BudgetInput{
		Name:            "May tooling",
		Category:        "Software",
		AllocatedAmount: decimal.RequireFromString("1000"),
		StartDate:       day(2026, time.May, 1),
		EndDate:         day(2026, time.May, 31),
	})
	if err != nil {
		t.Fatalf("create budget: %v", err)
	}
	seedExpense(t, db, hub, userID, "200", "Software", day(2026, time.May, 10))

	if err := testReconciler(db, hub, day(2026, time.June, 1)).ReconcileAll(context.Background()); err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	got := loadBudget(t, db, budget.ID)
	if got.Status != BudgetCompleted {
		t.Errorf("status = %q, want completed (window ended, not overspent)", got.Status)
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	db, userID := openFinanceTestDB(t)
	hub := watch.NewHub()
	now := day(2026, time.June, 20)

	if _, err := CreateBudget(context.Background(), db, hub, userID, BudgetInput{
		Name:            "Steady state",
		Category:        "Software",
		AllocatedAmount: decimal.RequireFromString("1000"),
		StartDate:       day(2026, time.June, 1),
		EndDate:         day(2026, time.June, 30),
	}); err != nil {
		t.Fatalf("create budget: %v", err)
	}
	seedExpense(t, db, hub, userID, "400", "Software", day(2026, time.June, 5))

	r := testReconciler(db, hub, now)
	if err := r.ReconcileAll(context.Background()); err != nil {
		t.Fatalf("first pass: %v", err)
	}

	// Second pass over already-correct budgets must write nothing and
	// emit no budgets notification, or reconciliation would loop.
	budgetsCh, cancel := hub.Watch(watch.Budgets)
	defer cancel()
	if err := r.ReconcileAll(context.Background()); err != nil {
		t.Fatalf("second pass: %v", err)
	}
	select {
	case <-budgetsCh:
		t.Error("second reconcile pass notified budgets despite no changes")
	default:
	}
}
