package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/steamcarve/steamcarve/internal/model"
)

// WriteCleanDataset writes the cleaned, sorted record set as CSV with the
// fixed nine-column order.
func WriteCleanDataset(output io.Writer, records []*model.CleanedRecord) error {
	w := csv.NewWriter(output)
	if err := w.Write(model.CleanColumns); err != nil {
		return fmt.Errorf("failed to write clean header: %w", err)
	}
	for _, rec := range records {
		if err := w.Write(rec.Row()); err != nil {
			return fmt.Errorf("failed to write clean record: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}
