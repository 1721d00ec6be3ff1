package io

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Way/highcharts-utils/pkg/errors"
	"github.com/Way/highcharts-utils/pkg/series"
)

// ReadCSV decodes a CSV dataset from r. The first column holds the shared
// X values; each remaining column is one series named by its header.
// Empty cells mark gaps. All points are imported as originals.
func ReadCSV(r io.Reader) ([]*series.Series, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read CSV header")
	}
	if len(header) < 2 {
		return nil, errors.New(errors.ErrCodeInvalidFormat,
			"CSV needs an x column and at least one series column, got %d columns", len(header))
	}

	list := make([]*series.Series, len(header)-1)
	for i, name := range header[1:] {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "CSV column %d has an empty header", i+2)
		}
		list[i] = &series.Series{ID: name}
	}

	row := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read CSV row %d", row+1)
		}
		row++

		x, err := strconv.ParseFloat(strings.TrimSpace(record[0]), 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "row %d: bad x value %q", row, record[0])
		}
		for i, cell := range record[1:] {
			p := series.Point{X: x}
			cell = strings.TrimSpace(cell)
			if cell == "" {
				p.Kind = series.KindGap
			} else {
				y, err := strconv.ParseFloat(cell, 64)
				if err != nil {
					return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err,
						"row %d column %q: bad value %q", row, list[i].ID, cell)
				}
				p.Y = &y
			}
			list[i].Points = append(list[i].Points, p)
		}
	}
	return list, nil
}

// ImportCSV reads the CSV file at path and returns the decoded series set.
func ImportCSV(path string) ([]*series.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	defer f.Close()
	return ReadCSV(f)
}
