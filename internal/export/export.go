// Copyright (c) 2026 Softwhere Team
// Softwhere - software license inventory
// This source code is licensed under the MIT license found in the LICENSE file.

// package export writes the license collection to spreadsheet formats and
// reads/writes compressed backups of both collections.
package export // import "github.com/softwhere/softwhere/internal/export"

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/softwhere/softwhere/internal/logging"
	"github.com/softwhere/softwhere/internal/model"
	"github.com/xuri/excelize/v2"
)

// ErrNothingToExport is returned when the collection is empty; no file is written.
var ErrNothingToExport = errors.New("no licenses to export")

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatFor picks the format from a file extension. Anything but .xlsx is CSV.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return FormatXLSX
	}
	return FormatCSV
}

const sheetName = "Licenses"

func header() []string {
	fields := model.Fields()
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = string(f)
	}
	return out
}

// WriteCSV writes a header row of field names followed by one row per license.
func WriteCSV(w io.Writer, licenses []model.License) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header()); err != nil {
		return err
	}
	for _, l := range licenses {
		if err := cw.Write(l.Values()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the same table as WriteCSV into a single-sheet workbook.
// Counters are stored as numbers.
func WriteXLSX(w io.Writer, licenses []model.License) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return err
	}
	hdr := header()
	row := make([]any, len(hdr))
	for i, h := range hdr {
		row[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &row); err != nil {
		return err
	}
	for i, l := range licenses {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []any{
			l.Software, l.LicenseKey, l.User, l.AssignedDevice,
			l.InstallDate, l.ExpiryDate, l.UsageLimit, l.CurrentUsage, string(l.Status),
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return err
		}
	}
	return f.Write(w)
}

// ToFile exports licenses to path in the format implied by its extension.
// An empty collection writes nothing and returns ErrNothingToExport.
func ToFile(path string, licenses []model.License) error {
	if len(licenses) == 0 {
		return ErrNothingToExport
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("could not create export directory: %w", err)
		}
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create export file: %w", err)
	}

	switch FormatFor(path) {
	case FormatXLSX:
		err = WriteXLSX(out, licenses)
	default:
		err = WriteCSV(out, licenses)
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("could not write export file: %w", err)
	}
	logging.Infof("exported %d licenses to %s", len(licenses), path)
	return nil
}
