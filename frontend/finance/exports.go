package finance

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"crewboard/infrastructure/sqlite"
)

// writeEntriesCSV streams every revenue and expense entry as one flat
// CSV, revenue first, each row tagged with its kind.
func writeEntriesCSV(ctx context.Context, db *sqlite.DB, w io.Writer, period *Period) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := []string{"kind", "date", "description", "category", "amount", "project_id", "notes"}
	if err := writer.Write(header); err != nil {
		return err
	}

	revenues, err := ListRevenues(ctx, db)
	if err != nil {
		return err
	}
	expenses, err := ListExpenses(ctx, db)
	if err != nil {
		return err
	}

	for _, e := range revenues {
		if period != nil && !period.Contains(e.EntryDate) {
			continue
		}
		record := []string{
			"revenue",
			e.EntryDate.UTC().Format("2006-01-02"),
			e.Description,
			e.Category,
			e.Amount.String(),
			projectIDField(e.ProjectID),
			e.Notes,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	for _, e := range expenses {
		if period != nil && !period.Contains(e.EntryDate) {
			continue
		}
		record := []string{
			"expense",
			e.EntryDate.UTC().Format("2006-01-02"),
			e.Description,
			e.Category,
			e.Amount.String(),
			projectIDField(e.ProjectID),
			e.Notes,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	return nil
}

func projectIDField(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}
