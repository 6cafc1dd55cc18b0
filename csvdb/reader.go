package csvdb

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

const byteOrderMark = "\ufeff"

// RecordMaker is a type which converts parsed CSV row to the record
// instance.
type RecordMaker[T any] func([]string) (T, error)

// RowError is returned by CSVReader if a row was read but RecordMaker
// has rejected it. It is up to the caller to skip such rows or to stop.
type RowError struct {
	Line int
	Err  error
}

func (r *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", r.Line, r.Err)
}

func (r *RowError) Unwrap() error {
	return r.Err
}

// CSVReader is a wrapper over csv.Reader to convert each row into record
// instance.
type CSVReader[T any] struct {
	reader     *csv.Reader
	makeRecord RecordMaker[T]
	first      bool
}

func (cr *CSVReader[T]) Read() (T, error) {
	var empty T

	data, err := cr.next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return empty, io.EOF
		}

		return empty, fmt.Errorf("cannot read new record: %w", err)
	}

	if cr.first {
		cr.first = false
		data[0] = strings.TrimPrefix(data[0], byteOrderMark)
	}

	record, err := cr.makeRecord(data)
	if err != nil {
		line, _ := cr.reader.FieldPos(0)

		return empty, &RowError{Line: line, Err: err}
	}

	return record, nil
}

func (cr *CSVReader[T]) next() (data []string, err error) {
	for err == nil && len(data) == 0 {
		data, err = cr.reader.Read()
	}

	return
}

// NewCSVReader converts given io.Reader instance into CSVReader. Lines
// which start with # are treated as comments.
func NewCSVReader[T any](filefp io.Reader, makeRecord RecordMaker[T]) *CSVReader[T] {
	rv := newCSVReader(filefp, makeRecord)
	rv.reader.Comment = '#'

	return rv
}

func newCSVReader[T any](filefp io.Reader, makeRecord RecordMaker[T]) *CSVReader[T] {
	reader := csv.NewReader(filefp)
	reader.ReuseRecord = true
	reader.FieldsPerRecord = -1

	return &CSVReader[T]{
		reader:     reader,
		makeRecord: makeRecord,
		first:      true,
	}
}
