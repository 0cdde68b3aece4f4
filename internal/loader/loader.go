// Package loader reads the legacy hard-time component report into a raw
// tabular structure. It is the only collaborator that touches the
// workbook file; everything downstream works on dataset.RawTable.
package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/vantagemro/hardtime/internal/dataset"
	"github.com/vantagemro/hardtime/pkg/diag"
)

// supportedExts gates workbook formats before any parser runs.
var supportedExts = map[string]struct{}{
	".xls":  {},
	".xlsx": {},
	".xlsm": {},
}

// ValidatePath canonicalizes the workbook path (absolute + symlinks
// resolved) and rejects directories, missing files, and unsupported
// extensions. It returns the canonical path suitable for opening.
func ValidatePath(input string) (string, error) {
	if strings.TrimSpace(input) == "" {
		return "", diag.New(diag.OpenFailed, "empty workbook path")
	}
	ext := strings.ToLower(filepath.Ext(input))
	if _, ok := supportedExts[ext]; !ok {
		return "", diag.Wrapf(diag.UnsupportedFormat, "extension %q", ext)
	}

	abs, err := filepath.Abs(input)
	if err != nil {
		return "", diag.Wrap(diag.OpenFailed, err)
	}
	real, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", diag.Wrapf(diag.OpenFailed, "workbook not found: %s", abs)
		}
		return "", diag.Wrap(diag.OpenFailed, err)
	}
	info, err := os.Stat(real)
	if err != nil {
		return "", diag.Wrap(diag.OpenFailed, err)
	}
	if info.IsDir() {
		return "", diag.Wrapf(diag.OpenFailed, "path is a directory: %s", real)
	}
	return real, nil
}

// Read loads one worksheet into a RawTable. An empty sheet name selects
// the first worksheet. The first non-empty row is treated as the header.
func Read(ctx context.Context, path, sheet string) (*dataset.RawTable, error) {
	canonical, err := ValidatePath(path)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var table *dataset.RawTable
	switch strings.ToLower(filepath.Ext(canonical)) {
	case ".xls":
		table, err = readXLS(canonical, sheet)
	default:
		table, err = readXLSX(canonical, sheet)
	}
	if err != nil {
		return nil, err
	}
	if table.IsEmpty() {
		return nil, diag.Wrapf(diag.EmptyWorkbook, "sheet %q has no header row", table.Sheet)
	}

	zerolog.Ctx(ctx).Info().
		Str("path", canonical).
		Str("sheet", table.Sheet).
		Int("columns", len(table.Headers)).
		Int("rows", table.RowCount()).
		Msg("workbook loaded")
	return table, nil
}

// SheetNames lists the worksheets available in the workbook.
func SheetNames(path string) ([]string, error) {
	canonical, err := ValidatePath(path)
	if err != nil {
		return nil, err
	}
	if strings.ToLower(filepath.Ext(canonical)) == ".xls" {
		wb, err := xls.Open(canonical, "utf-8")
		if err != nil {
			return nil, diag.Wrap(diag.OpenFailed, err)
		}
		names := make([]string, 0, wb.NumSheets())
		for i := 0; i < wb.NumSheets(); i++ {
			if ws := wb.GetSheet(i); ws != nil {
				names = append(names, ws.Name)
			}
		}
		return names, nil
	}

	f, err := excelize.OpenFile(canonical)
	if err != nil {
		return nil, diag.Wrap(diag.OpenFailed, err)
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

func readXLSX(path, sheet string) (*dataset.RawTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, diag.Wrap(diag.OpenFailed, err)
	}
	defer f.Close()

	name := sheet
	if name == "" {
		name = f.GetSheetName(0)
	}
	if idx, err := f.GetSheetIndex(name); err != nil || idx < 0 {
		return nil, diag.Wrapf(diag.SheetNotFound, "sheet %q", name)
	}

	table := &dataset.RawTable{Path: path, Sheet: name}
	iter, err := f.Rows(name)
	if err != nil {
		return nil, diag.Wrap(diag.OpenFailed, err)
	}
	defer iter.Close()

	for iter.Next() {
		vals, err := iter.Columns()
		if err != nil {
			return nil, diag.Wrap(diag.OpenFailed, err)
		}
		appendRow(table, vals)
	}
	if err := iter.Error(); err != nil {
		return nil, diag.Wrap(diag.OpenFailed, err)
	}
	return table, nil
}

func readXLS(path, sheet string) (*dataset.RawTable, error) {
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, diag.Wrap(diag.OpenFailed, err)
	}

	var ws *xls.WorkSheet
	if sheet == "" {
		ws = wb.GetSheet(0)
	} else {
		for i := 0; i < wb.NumSheets(); i++ {
			if candidate := wb.GetSheet(i); candidate != nil && candidate.Name == sheet {
				ws = candidate
				break
			}
		}
	}
	if ws == nil {
		return nil, diag.Wrapf(diag.SheetNotFound, "sheet %q", sheet)
	}

	table := &dataset.RawTable{Path: path, Sheet: ws.Name}
	for i := 0; i <= int(ws.MaxRow); i++ {
		row := ws.Row(i)
		if row == nil {
			appendRow(table, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for j := row.FirstCol(); j < row.LastCol(); j++ {
			cells[j] = row.Col(j)
		}
		appendRow(table, cells)
	}
	return table, nil
}

// appendRow trims cells and routes the first non-empty row to Headers.
func appendRow(table *dataset.RawTable, cells []string) {
	trimmed := make([]string, len(cells))
	empty := true
	for i, c := range cells {
		trimmed[i] = strings.TrimSpace(c)
		if trimmed[i] != "" {
			empty = false
		}
	}
	if len(table.Headers) == 0 {
		if empty {
			return
		}
		table.Headers = trimmed
		return
	}
	if empty {
		return
	}
	table.Rows = append(table.Rows, trimmed)
}
