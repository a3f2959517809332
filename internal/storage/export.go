package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/twolayer/internal/scenario"
)

type SeriesData struct {
	Meta   map[string]string `json:"meta"`
	Times  []string          `json:"times"`
	Values []*float64        `json:"values"`
}

type ExportData struct {
	Model      string            `json:"model"`
	Parameters map[string]string `json:"parameters"`
	Runs       []RunSummary      `json:"runs,omitempty"`
	Series     []SeriesData      `json:"series"`
}

func NewExportData(meta RunMetadata, ss []scenario.Scenario) ExportData {
	data := ExportData{
		Model:      meta.Model,
		Parameters: meta.Parameters,
		Runs:       meta.Runs,
		Series:     make([]SeriesData, len(ss)),
	}

	for i, s := range ss {
		sd := SeriesData{
			Meta:   s.Meta,
			Times:  make([]string, len(s.Times)),
			Values: make([]*float64, len(s.Values)),
		}
		for j, t := range s.Times {
			sd.Times[j] = t.Format("2006-01-02")
		}
		// non-finite values have no JSON encoding, they are written as null
		for j, v := range s.Values {
			sd.Values[j] = finitePtr(v)
		}
		data.Series[i] = sd
	}
	return data
}

func ExportJSON(path string, meta RunMetadata, ss []scenario.Scenario) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, meta, ss)
}

func WriteJSON(w io.Writer, meta RunMetadata, ss []scenario.Scenario) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(meta, ss))
}
