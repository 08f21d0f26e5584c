// Package csv exports evaluation batches as CSV for spreadsheet analysis.
package csv

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fwojciec/diffmage"
)

// header is the fixed column order of exported files.
var header = []string{
	"hash",
	"message",
	"what_score",
	"why_score",
	"overall_score",
	"quality_level",
	"confidence",
	"model",
}

// Exporter writes evaluated messages as CSV.
type Exporter struct{}

// NewExporter creates a new Exporter.
func NewExporter() *Exporter {
	return &Exporter{}
}

// Export writes results as CSV to w, header row first.
func (e *Exporter) Export(w io.Writer, results []diffmage.EvaluatedMessage) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return err
	}

	for _, m := range results {
		record := []string{
			m.Hash,
			m.Message,
			formatScore(m.Result.WhatScore),
			formatScore(m.Result.WhyScore),
			formatScore(m.Result.OverallScore()),
			m.Result.QualityLevel().String(),
			formatScore(m.Result.Confidence),
			m.Result.ModelUsed,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportFile writes results to a CSV file, creating parent directories if
// needed.
func (e *Exporter) ExportFile(path string, results []diffmage.EvaluatedMessage) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return e.Export(f, results)
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
