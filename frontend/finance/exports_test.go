package finance

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"crewboard/infrastructure/watch"
)

func TestWriteEntriesCSV(t *testing.T) {
	db, userID := openFinanceTestDB(t)
	hub := watch.NewHub()

	if _, err := CreateRevenue(context.Background(), db, hub, userID, EntryInput{
		Description: "June retainer",
		Amount:      decimal.RequireFromString("2500"),
		Category:    "Consulting",
		Date:        day(2026, time.June, 1),
	}); err != nil {
		t.Fatalf("seed revenue: %v", err)
	}
	seedExpense(t, db, hub, userID, "300", "Software", day(2026, time.June, 15))
	seedExpense(t, db, hub, userID, "80", "Software", day(2026, time.July, 3))

	var buf bytes.Buffer
	period := Period{Start: day(2026, time.June, 1), End: day(2026, time.June, 30)}
	if err := writeEntriesCSV(context.Background(), db, &buf, &period); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("csv rows = %d, want header + 2 entries inside the period", len(records))
	}
	if records[0][0] != "kind" {
		t.Errorf("header = %v", records[0])
	}
	if records[1][0] != "revenue" || records[1][4] != "2500" {
		t.Errorf("revenue row = %v", records[1])
	}
	if records[2][0] != "expense" || records[2][1] != "2026-06-15" {
		t.Errorf("expense row = %v", records[2])
	}
}
