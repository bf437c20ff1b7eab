package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/rdsim/internal/metrics"
)

type ExportData struct {
	RunMetadata
	History []metrics.Sample `json:"history"`
	// B holds the final B field row by row when fields were saved.
	B [][]float64 `json:"b,omitempty"`
}

func NewExportData(run *Run, withField bool) ExportData {
	data := ExportData{
		RunMetadata: run.Meta,
		History:     []metrics.Sample(run.History),
	}
	if withField && run.B != nil {
		data.B = make([][]float64, run.B.Rows)
		for y := range data.B {
			data.B[y] = run.B.Data[y*run.B.Cols : (y+1)*run.B.Cols]
		}
	}
	return data
}

// WriteJSON writes the run as indented JSON.
func WriteJSON(w io.Writer, run *Run, withField bool) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewExportData(run, withField))
}

func ExportJSON(path string, run *Run, withField bool) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteJSON(f, run, withField)
}

// WriteHistoryCSV writes the sampled history with a header row.
func WriteHistoryCSV(w io.Writer, h metrics.History) error {
	return gocsv.Marshal([]metrics.Sample(h), w)
}

func ExportHistoryCSV(path string, h metrics.History) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteHistoryCSV(f, h)
}
