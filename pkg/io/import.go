package io

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Way/highcharts-utils/pkg/errors"
	"github.com/Way/highcharts-utils/pkg/series"
)

var kindFromString = map[string]series.Kind{
	"":    series.KindOriginal,
	"gap": series.KindGap,
	"fix": series.KindBoundaryFix,
}

// ToSeries converts a dataset back to the in-memory model.
// It rejects empty series IDs and unknown point kinds; alignment and
// monotonicity are left to series.ValidateAligned.
func (d Dataset) ToSeries() ([]*series.Series, error) {
	list := make([]*series.Series, len(d.Series))
	for i, rec := range d.Series {
		if rec.ID == "" {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "series %d has no id", i)
		}
		s := &series.Series{ID: rec.ID, Points: make([]series.Point, len(rec.Points))}
		for j, pr := range rec.Points {
			kind, ok := kindFromString[pr.Kind]
			if !ok {
				return nil, errors.New(errors.ErrCodeInvalidFormat,
					"series %q point %d: unknown kind %q", rec.ID, j, pr.Kind)
			}
			p := series.Point{X: pr.X, Kind: kind}
			if pr.Y != nil {
				y := *pr.Y
				p.Y = &y
			}
			// A null value on an untagged point is a gap.
			if p.Y == nil && kind == series.KindOriginal {
				p.Kind = series.KindGap
			}
			s.Points[j] = p
		}
		list[i] = s
	}
	return list, nil
}

// ReadJSON decodes a JSON dataset from r into a series set.
// ReadJSON does not close r; the returned series are independent of it.
func ReadJSON(r io.Reader) ([]*series.Series, error) {
	var d Dataset
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode dataset")
	}
	return d.ToSeries()
}

// ImportJSON reads the JSON file at path and returns the decoded series set.
func ImportJSON(path string) ([]*series.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f)
}

// Import reads the file at path, dispatching on its extension:
// .csv is parsed with [ReadCSV], everything else as JSON.
func Import(path string) ([]*series.Series, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return ImportCSV(path)
	}
	return ImportJSON(path)
}
