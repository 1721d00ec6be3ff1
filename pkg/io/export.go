package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/Way/highcharts-utils/pkg/errors"
	"github.com/Way/highcharts-utils/pkg/series"
)

var kindToString = map[series.Kind]string{
	series.KindGap:         "gap",
	series.KindBoundaryFix: "fix",
}

// Dataset is the canonical serialization of a series set.
// It is used for files, API payloads, caching, and Mongo storage.
type Dataset struct {
	Series []SeriesRecord `json:"series" bson:"series"`
}

// SeriesRecord is one serialized series.
type SeriesRecord struct {
	ID     string        `json:"id" bson:"id"`
	Points []PointRecord `json:"points" bson:"points"`
}

// PointRecord is one serialized point. A missing kind marks an original.
type PointRecord struct {
	X    float64  `json:"x" bson:"x"`
	Y    *float64 `json:"y" bson:"y"`
	Kind string   `json:"kind,omitempty" bson:"kind,omitempty"`
}

// FromSeries converts a series set to its serialized form.
// Y values are copied, so later expansion of the originals does not leak
// into the dataset.
func FromSeries(list []*series.Series) Dataset {
	d := Dataset{Series: make([]SeriesRecord, len(list))}
	for i, s := range list {
		rec := SeriesRecord{ID: s.ID, Points: make([]PointRecord, len(s.Points))}
		for j, p := range s.Points {
			pr := PointRecord{X: p.X, Kind: kindToString[p.Kind]}
			if p.Y != nil {
				y := *p.Y
				pr.Y = &y
			}
			rec.Points[j] = pr
		}
		d.Series[i] = rec
	}
	return d
}

// WriteJSON encodes a series set as JSON and writes it to w.
// The output preserves point kinds and can be re-imported with [ReadJSON]
// for round-trip processing.
func WriteJSON(list []*series.Series, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromSeries(list)); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode dataset")
	}
	return nil
}

// ExportJSON writes a series set to a JSON file at path.
func ExportJSON(list []*series.Series, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", path)
	}
	defer f.Close()
	return WriteJSON(list, f)
}
