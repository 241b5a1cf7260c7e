package document

import (
	"fmt"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
)

func strPtr(s string) *string { return &s }

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("create mock pool: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})
	return mock
}

// fullRow returns values for every column in allColumns order.
func fullRow(id string, created time.Time) []any {
	docdt := created.AddDate(0, -1, 0)
	vol := 1
	return []any{
		id,
		"Document " + id,
		strPtr("Abstract of " + id),
		&docdt,
		strPtr("Report"),
		strPtr("Publications & Research"),
		&vol,
		nil,
		strPtr(fmt.Sprintf("https://docs.example.org/%s.pdf", id)),
		strPtr("French"),
		strPtr("FR"),
		nil,
		nil,
		created,
		created,
	}
}

func fullRows(mock pgxmock.PgxPoolIface, n int, newest time.Time) *pgxmock.Rows {
	rows := mock.NewRows(allColumns)
	for i := 0; i < n; i++ {
		rows.AddRow(fullRow(fmt.Sprintf("doc-%d", i+1), newest.Add(-time.Duration(i)*time.Hour))...)
	}
	return rows
}
