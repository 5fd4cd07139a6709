// Package sheetstore is the bridge to the legacy spreadsheet this system
// migrated from. It reads and writes .xlsx workbooks where each entity
// lives on its own sheet, applying the same field coercion the old
// application relied on: date-named columns become dates, cost/amount/
// hours columns become non-negative numbers defaulting to 0, and
// everything else becomes a string with the spreadsheet's sentinel blanks
// normalized away.
package sheetstore

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var blankSentinels = map[string]bool{
	"nan":  true,
	"None": true,
	"NONE": true,
	"<NA>": true,
	"NaT":  true,
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"01-02-06",
	"1/2/2006",
	"01/02/2006",
}

// Workbook wraps one .xlsx file holding the seven entity tables.
type Workbook struct {
	f *excelize.File
}

// New returns an empty workbook for export.
func New() *Workbook {
	return &Workbook{f: excelize.NewFile()}
}

// OpenReader parses an uploaded workbook.
func OpenReader(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	return &Workbook{f: f}, nil
}

func (w *Workbook) Close() error { return w.f.Close() }

// Bytes serializes the workbook. The default empty sheet is dropped
// once real tables exist.
func (w *Workbook) Bytes() ([]byte, error) {
	if len(w.f.GetSheetList()) > 1 {
		w.f.DeleteSheet("Sheet1")
	}
	buf, err := w.f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// LoadTable reads one sheet into ordered rows keyed by header. A missing
// or empty sheet yields an empty slice, not an error. Values are coerced
// by header name; unparseable dates coerce to the empty string and
// unparseable numbers to 0, so dirty data never aborts a load.
func (w *Workbook) LoadTable(sheet string) ([]map[string]any, error) {
	idx, err := w.f.GetSheetIndex(sheet)
	if err != nil || idx < 0 {
		return []map[string]any{}, nil
	}
	rows, err := w.f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(rows) < 2 {
		return []map[string]any{}, nil
	}
	headers := rows[0]
	out := make([]map[string]any, 0, len(rows)-1)
	for _, raw := range rows[1:] {
		record := make(map[string]any, len(headers))
		blank := true
		for i, h := range headers {
			h = strings.TrimSpace(h)
			if h == "" {
				continue
			}
			var cell string
			if i < len(raw) {
				cell = strings.TrimSpace(raw[i])
			}
			if blankSentinels[cell] {
				cell = ""
			}
			if cell != "" {
				blank = false
			}
			record[h] = coerce(h, cell)
		}
		if !blank {
			out = append(out, record)
		}
	}
	return out, nil
}

func coerce(header, cell string) any {
	lower := strings.ToLower(header)
	switch {
	case strings.Contains(lower, "date"):
		if t, ok := parseDate(cell); ok {
			return t
		}
		return ""
	case strings.Contains(lower, "cost"), strings.Contains(lower, "amount"), strings.Contains(lower, "hours"):
		v, err := strconv.ParseFloat(strings.ReplaceAll(cell, ",", ""), 64)
		if err != nil || v < 0 {
			return 0.0
		}
		return v
	default:
		return cell
	}
}

func parseDate(cell string) (time.Time, bool) {
	if cell == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cell); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ReplaceTable overwrites one sheet entirely: header row first, then data
// rows in order. This mirrors the legacy clear-then-write save.
func (w *Workbook) ReplaceTable(sheet string, headers []string, rows []map[string]any) error {
	if idx, err := w.f.GetSheetIndex(sheet); err == nil && idx >= 0 {
		if err := w.f.DeleteSheet(sheet); err != nil {
			return fmt.Errorf("clear sheet %s: %w", sheet, err)
		}
	}
	if _, err := w.f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := w.f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	for r, row := range rows {
		for c, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := w.f.SetCellValue(sheet, cell, formatCell(row[h])); err != nil {
				return err
			}
		}
	}
	return nil
}

func formatCell(v any) any {
	switch t := v.(type) {
	case nil:
		return ""
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02")
	default:
		return v
	}
}
