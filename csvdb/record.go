package csvdb

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Header is a fixed first row of the point export.
var Header = []string{"name", "sourceKind", "sourceValue", "latitude", "longitude"}

var ErrIncorrectHeader = errors.New("incorrect header")

// Record presents a single point of the export.
type Record struct {
	Name        string
	SourceKind  string
	SourceValue string
	Latitude    float64
	Longitude   float64
}

// Row returns CSV fields of the record in the order of Header. Floats
// are written in the shortest form which parses back to the same value.
func (r *Record) Row() []string {
	return []string{
		r.Name,
		r.SourceKind,
		r.SourceValue,
		strconv.FormatFloat(r.Latitude, 'f', -1, 64),
		strconv.FormatFloat(r.Longitude, 'f', -1, 64),
	}
}

// NewRecord creates new CSV record from the row fields.
func NewRecord(data []string) (*Record, error) {
	if len(data) != len(Header) {
		return nil, fmt.Errorf("expected %d fields, got %d", len(Header), len(data))
	}

	if data[0] == "" {
		return nil, errors.New("name is empty")
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(data[3]), 64)
	if err != nil {
		return nil, fmt.Errorf("incorrect latitude: %w", err)
	}

	lon, err := strconv.ParseFloat(strings.TrimSpace(data[4]), 64)
	if err != nil {
		return nil, fmt.Errorf("incorrect longitude: %w", err)
	}

	return &Record{
		Name:        data[0],
		SourceKind:  data[1],
		SourceValue: data[2],
		Latitude:    lat,
		Longitude:   lon,
	}, nil
}

// ReadRecords reads a whole export. The first row has to be a Header,
// the first incorrect row stops reading.
func ReadRecords(filefp io.Reader) ([]*Record, error) {
	headerSeen := false
	reader := newCSVReader[*Record](filefp, func(data []string) (*Record, error) {
		if !headerSeen {
			headerSeen = true

			if !equalHeader(data) {
				return nil, ErrIncorrectHeader
			}

			return nil, nil
		}

		return NewRecord(data)
	})

	rv := []*Record{}

	for {
		record, err := reader.Read()

		switch {
		case errors.Is(err, io.EOF):
			if !headerSeen {
				return nil, ErrIncorrectHeader
			}

			return rv, nil
		case err != nil:
			return nil, err
		case record != nil:
			rv = append(rv, record)
		}
	}
}

func equalHeader(data []string) bool {
	if len(data) != len(Header) {
		return false
	}

	for i := range Header {
		if strings.TrimSpace(data[i]) != Header[i] {
			return false
		}
	}

	return true
}
