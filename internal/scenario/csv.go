package scenario

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

// parseTimeColumn recognises year ("1750"), date ("1750-07-01") and
// RFC 3339 column headers.
func parseTimeColumn(h string) (time.Time, bool) {
	h = strings.TrimSpace(h)
	if y, err := strconv.Atoi(h); err == nil {
		return Year(y), true
	}
	if t, err := time.Parse(time.DateOnly, h); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, h); err == nil {
		return t.UTC(), true
	}
	return time.Time{}, false
}

func formatTimeColumn(t time.Time) string {
	if t.Equal(Year(t.Year())) {
		return strconv.Itoa(t.Year())
	}
	if t.Equal(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)) {
		return t.Format(time.DateOnly)
	}
	return t.Format(time.RFC3339)
}

// ReadCSV reads a wide table. Columns whose header parses as a time are
// time points; every other column is metadata. Empty cells read as NaN.
func ReadCSV(r io.Reader) ([]Scenario, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTable, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: missing header", ErrMalformedTable)
	}

	header := records[0]
	var (
		metaIdx []int
		timeIdx []int
		times   []time.Time
	)
	for i, h := range header {
		if t, ok := parseTimeColumn(h); ok {
			timeIdx = append(timeIdx, i)
			times = append(times, t)
			continue
		}
		metaIdx = append(metaIdx, i)
	}
	if len(timeIdx) == 0 {
		return nil, fmt.Errorf("%w: no time columns", ErrMalformedTable)
	}

	out := make([]Scenario, 0, len(records)-1)
	for row, rec := range records[1:] {
		s := Scenario{
			Meta:   make(map[string]string, len(metaIdx)),
			Times:  append([]time.Time(nil), times...),
			Values: make([]float64, len(timeIdx)),
		}
		for _, i := range metaIdx {
			s.Meta[header[i]] = rec[i]
		}
		for j, i := range timeIdx {
			cell := strings.TrimSpace(rec[i])
			if cell == "" {
				s.Values[j] = math.NaN()
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d column %q: %v", ErrMalformedTable, row+1, header[i], err)
			}
			s.Values[j] = v
		}
		out = append(out, s)
	}
	return out, nil
}

// WriteCSV writes ss as a wide table over the union of their time points.
// Missing and NaN values are left empty.
func WriteCSV(w io.Writer, ss []Scenario) error {
	metaCols := MetaColumns(ss)
	axis := TimeAxis(ss)

	cw := csv.NewWriter(w)

	header := append([]string(nil), metaCols...)
	for _, t := range axis {
		header = append(header, formatTimeColumn(t))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	pos := make(map[time.Time]int, len(axis))
	for i, t := range axis {
		pos[t] = i
	}

	for _, s := range ss {
		row := make([]string, len(metaCols)+len(axis))
		for i, k := range metaCols {
			row[i] = s.Meta[k]
		}
		for i, t := range s.Times {
			v := s.Values[i]
			if math.IsNaN(v) {
				continue
			}
			row[len(metaCols)+pos[t]] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
