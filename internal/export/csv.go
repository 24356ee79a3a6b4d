// Package export serializes a user's expense list to CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"time"

	"kharcha/internal/core"
)

// WriteCSV writes the expenses in storage order as a download-ready
// CSV. Dates are reformatted from YYYY-MM-DD to MM/DD/YYYY and amounts
// are rendered as <symbol><two-decimal> currency strings. Any record
// with a malformed date or unreadable amount aborts the whole export;
// there is no partial output beyond what was already written.
func WriteCSV(w io.Writer, expenses []core.Expense, symbol string) error {
	cw := csv.NewWriter(w)

	header := []string{"Date", "Category", fmt.Sprintf("Amount (%s)", symbol)}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, e := range expenses {
		d, err := time.Parse(core.DateLayout, e.Date)
		if err != nil {
			return fmt.Errorf("expense %d: malformed date %q: %w", e.ID, e.Date, core.ErrInvalidDate)
		}
		amount := e.Amount.Float()
		if math.IsNaN(amount) {
			return fmt.Errorf("expense %d: %w", e.ID, core.ErrBadAmount)
		}

		row := []string{
			d.Format("01/02/2006"),
			e.Category,
			fmt.Sprintf("%s%.2f", symbol, amount),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Filename returns the download filename for an export generated today.
func Filename(now time.Time) string {
	return fmt.Sprintf("expenses_%s.csv", now.Format(core.DateLayout))
}
