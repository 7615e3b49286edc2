package finance

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	sessioncontext "crewboard/frontend/shared/context"
	"crewboard/frontend/shared/respond"
	"crewboard/infrastructure/sqlite"
	"crewboard/infrastructure/watch"
	"crewboard/models"
)

// requestedPeriod resolves the optional ?period= query parameter. An
// absent parameter means all time.
func requestedPeriod(r *http.Request, now time.Time) (*Period, error) {
	name := r.URL.Query().Get("period")
	if name == "" {
		return nil, nil
	}
	period, err := NamedPeriod(name, now)
	if err != nil {
		return nil, err
	}
	return &period, nil
}

func SummaryQueryHandler(revenuesStore *watch.Store[models.RevenueEntry], expensesStore *watch.Store[models.ExpenseEntry]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		period, err := requestedPeriod(r, time.Now())
		if err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		summary := Summarize(revenuesStore.Snapshot(), expensesStore.Snapshot(), period)
		respond.JSON(w, http.StatusOK, summary)
	}
}

func TrendQueryHandler(revenuesStore *watch.Store[models.RevenueEntry], expensesStore *watch.Store[models.ExpenseEntry]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		months := 6
		if raw := r.URL.Query().Get("months"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 || parsed > 24 {
				respond.Error(w, http.StatusBadRequest, "months must be between 1 and 24")
				return
			}
			months = parsed
		}
		trend := MonthlyTrend(revenuesStore.Snapshot(), expensesStore.Snapshot(), months, time.Now())
		respond.JSON(w, http.StatusOK, trend)
	}
}

func BreakdownQueryHandler(expensesStore *watch.Store[models.ExpenseEntry]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		period, err := requestedPeriod(r, time.Now())
		if err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		respond.JSON(w, http.StatusOK, ExpenseBreakdown(expensesStore.Snapshot(), period))
	}
}

func ProjectFinancialsQueryHandler(revenuesStore *watch.Store[models.RevenueEntry], expensesStore *watch.Store[models.ExpenseEntry]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || projectID <= 0 {
			respond.Error(w, http.StatusBadRequest, "invalid project id")
			return
		}
		period, err := requestedPeriod(r, time.Now())
		if err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		report := ProjectFinancials(projectID, revenuesStore.Snapshot(), expensesStore.Snapshot(), period)
		respond.JSON(w, http.StatusOK, report)
	}
}

func BudgetsQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		budgets, err := ListBudgets(r.Context(), db)
		if err != nil {
			slog.Error("list budgets failed", slog.Any("err", err))
			respond.Error(w, http.StatusInternalServerError, "failed to list budgets")
			return
		}
		views := make([]BudgetView, 0, len(budgets))
		for _, b := range budgets {
			views = append(views, BudgetView{Budget: b, Utilization: Utilization(b)})
		}
		respond.JSON(w, http.StatusOK, views)
	}
}

func RevenuesQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := ListRevenues(r.Context(), db)
		if err != nil {
			slog.Error("list revenues failed", slog.Any("err", err))
			respond.Error(w, http.StatusInternalServerError, "failed to list revenues")
			return
		}
		respond.JSON(w, http.StatusOK, entries)
	}
}

func ExpensesQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := ListExpenses(r.Context(), db)
		if err != nil {
			slog.Error("list expenses failed", slog.Any("err", err))
			respond.Error(w, http.StatusInternalServerError, "failed to list expenses")
			return
		}
		respond.JSON(w, http.StatusOK, entries)
	}
}

type entryWriter func(r *http.Request, createdBy int64, input EntryInput) (any, error)

func CreateRevenueCommandHandler(db *sqlite.DB, hub *watch.Hub) http.HandlerFunc {
	return createEntryHandler(func(r *http.Request, createdBy int64, input EntryInput) (any, error) {
		return CreateRevenue(r.Context(), db, hub, createdBy, input)
	})
}

func CreateExpenseCommandHandler(db *sqlite.DB, hub *watch.Hub) http.HandlerFunc {
	return createEntryHandler(func(r *http.Request, createdBy int64, input EntryInput) (any, error) {
		return CreateExpense(r.Context(), db, hub, createdBy, input)
	})
}

func createEntryHandler(create entryWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input EntryInput
		if err := respond.Decode(r, &input); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid request body")
			return
		}
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "session required")
			return
		}
		created, err := create(r, session.UserID, input)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		respond.JSON(w, http.StatusCreated, created)
	}
}

func UpdateRevenueCommandHandler(db *sqlite.DB, hub *watch.Hub) http.HandlerFunc {
	return updateEntryHandler(func(r *http.Request, id int64, input EntryInput) error {
		return UpdateRevenue(r.Context(), db, hub, id, input)
	})
}

func UpdateExpenseCommandHandler(db *sqlite.DB, hub *watch.Hub) http.HandlerFunc {
	return updateEntryHandler(func(r *http.Request, id int64, input EntryInput) error {
		return UpdateExpense(r.Context(), db, hub, id, input)
	})
}

func updateEntryHandler(update func(r *http.Request, id int64, input EntryInput) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			respond.Error(w, http.StatusBadRequest, "invalid entry id")
			return
		}
		var input EntryInput
		if err := respond.Decode(r, &input); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := update(r, id, input); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				respond.Error(w, http.StatusNotFound, "entry not found")
				return
			}
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		respond.JSON(w, http.StatusOK, map[string]bool{"updated": true})
	}
}

func DeleteRevenueCommandHandler(db *sqlite.DB, hub *watch.Hub) http.HandlerFunc {
	return deleteEntryHandler(func(r *http.Request, id int64) error {
		return DeleteRevenue(r.Context(), db, hub, id)
	})
}

func DeleteExpenseCommandHandler(db *sqlite.DB, hub *watch.Hub) http.HandlerFunc {
	return deleteEntryHandler(func(r *http.Request, id int64) error {
		return DeleteExpense(r.Context(), db, hub, id)
	})
}

func deleteEntryHandler(del func(r *http.Request, id int64) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			respond.Error(w, http.StatusBadRequest, "invalid entry id")
			return
		}
		if err := del(r, id); err != nil {
			slog.Error("delete finance entry failed", slog.Int64("entry_id", id), slog.Any("err", err))
			respond.Error(w, http.StatusInternalServerError, "failed to delete entry")
			return
		}
		respond.JSON(w, http.StatusOK, map[string]bool{"deleted": true})
	}
}

func CreateBudgetCommandHandler(db *sqlite.DB, hub *watch.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input BudgetInput
		if err := respond.Decode(r, &input); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid request body")
			return
		}
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "session required")
			return
		}
		created, err := CreateBudget(r.Context(), db, hub, session.UserID, input)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		respond.JSON(w, http.StatusCreated, BudgetView{Budget: created, Utilization: Utilization(created)})
	}
}

func UpdateBudgetCommandHandler(db *sqlite.DB, hub *watch.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			respond.Error(w, http.StatusBadRequest, "invalid budget id")
			return
		}
		var input BudgetInput
		if err := respond.Decode(r, &input); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := UpdateBudget(r.Context(), db, hub, id, input); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				respond.Error(w, http.StatusNotFound, "budget not found")
				return
			}
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		respond.JSON(w, http.StatusOK, map[string]bool{"updated": true})
	}
}

func DeleteBudgetCommandHandler(db *sqlite.DB, hub *watch.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			respond.Error(w, http.StatusBadRequest, "invalid budget id")
			return
		}
		if err := DeleteBudget(r.Context(), db, hub, id); err != nil {
			slog.Error("delete budget failed", slog.Int64("budget_id", id), slog.Any("err", err))
			respond.Error(w, http.StatusInternalServerError, "failed to delete budget")
			return
		}
		respond.JSON(w, http.StatusOK, map[string]bool{"deleted": true})
	}
}

func EntriesExportCSVHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		period, err := requestedPeriod(r, time.Now())
		if err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename=entries.csv")
		if err := writeEntriesCSV(r.Context(), db, w, period); err != nil {
			slog.Error("entries csv export failed", slog.Any("err", err))
			http.Error(w, "failed to export csv", http.StatusInternalServerError)
			return
		}
	}
}

func MonthlyReportPDFHandler(revenuesStore *watch.Store[models.RevenueEntry], expensesStore *watch.Store[models.ExpenseEntry]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now()
		pdfBytes, err := renderMonthlyReportPDF(revenuesStore.Snapshot(), expensesStore.Snapshot(), now)
		if err != nil {
			slog.Error("monthly report pdf failed", slog.Any("err", err))
			http.Error(w, "failed to render report", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", "attachment; filename=finance-report-"+now.UTC().Format("2006-01")+".pdf")
		if _, err := w.Write(pdfBytes); err != nil {
			slog.Error("monthly report write failed", slog.Any("err", err))
		}
	}
}
