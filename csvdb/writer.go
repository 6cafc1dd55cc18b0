package csvdb

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteRecords writes a header and one row per record.
func WriteRecords(filefp io.Writer, records []*Record) error {
	writer := csv.NewWriter(filefp)

	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("cannot write a header: %w", err)
	}

	for _, v := range records {
		if err := writer.Write(v.Row()); err != nil {
			return fmt.Errorf("cannot write a record: %w", err)
		}
	}

	writer.Flush()

	if err := writer.Error(); err != nil {
		return fmt.Errorf("cannot flush records: %w", err)
	}

	return nil
}
