package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/vantagemro/hardtime/config"
	"github.com/vantagemro/hardtime/internal/analytics"
	"github.com/vantagemro/hardtime/pkg/diag"
)

// componentHeaders is the column layout of the Components sheet.
var componentHeaders = []any{
	"Part Name", "OEM Part Number", "Serial Number", "Installation Site",
	"Aircraft", "Aircraft Type", "Task Code", "Position", "Config Slot",
	"Due Date", "Valid Date", "Days To Due", "Overdue", "Days Overdue", "Due Bucket",
}

// WriteExcel builds the analytics workbook: enriched components,
// headline summary, breakdown sheets, column profile, and a chart
// sheet with the rendered PNGs embedded.
func WriteExcel(path string, b Bundle, opts config.Options) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeComponentsSheet(f, b); err != nil {
		return diag.Wrap(diag.ExportFailed, err)
	}
	if err := writeSummarySheet(f, b); err != nil {
		return diag.Wrap(diag.ExportFailed, err)
	}
	if err := writeBreakdownSheet(f, "Aircraft Exposure", "Aircraft", b.Aircraft, opts); err != nil {
		return diag.Wrap(diag.ExportFailed, err)
	}
	if err := writeBreakdownSheet(f, "Top Components", "Part Name", b.Parts, opts); err != nil {
		return diag.Wrap(diag.ExportFailed, err)
	}
	if err := writeBreakdownSheet(f, "Due Buckets", "Due Bucket", b.Buckets, opts); err != nil {
		return diag.Wrap(diag.ExportFailed, err)
	}
	if err := writeProfileSheet(f, b.Profiles); err != nil {
		return diag.Wrap(diag.ExportFailed, err)
	}
	if err := writeChartSheet(f, b); err != nil {
		return diag.Wrap(diag.ExportFailed, err)
	}

	if err := f.SaveAs(path); err != nil {
		return diag.Wrap(diag.ExportFailed, err)
	}
	return nil
}

func writeComponentsSheet(f *excelize.File, b Bundle) error {
	const sheet = "Components"
	f.SetSheetName("Sheet1", sheet)
	if err := f.SetSheetRow(sheet, "A1", &componentHeaders); err != nil {
		return err
	}
	if b.Snapshot == nil {
		return nil
	}
	for i := range b.Snapshot.Components {
		c := &b.Snapshot.Components[i]
		due := ""
		days := any("")
		overdueDays := any("")
		if c.DateValid {
			due = c.DueDate.Format("2006-01-02")
			days = c.DaysToDue
			overdueDays = c.DaysOverdue
		}
		row := []any{
			c.PartName, c.OEMPartNumber, c.SerialNumber, c.InstallationSite,
			c.Aircraft.Registration, c.Aircraft.Type, c.TaskCode, c.Position, c.ConfigSlot,
			due, c.DateValid, days, c.IsOverdue, overdueDays, c.DueBucket,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, b Bundle) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	header := []any{"Metric", "Value"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	rows := summaryRows(b.Summary)
	rows = append(rows, [2]string{"Weekly due trend", formatTrend(b.Trend)})
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{r[0], r[1]}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeBreakdownSheet(f *excelize.File, sheet, label string, b analytics.Breakdown, opts config.Options) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	header := []any{label, "Components", "Overdue", fmt.Sprintf("Due <= %dd", opts.DueSoonDays)}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, g := range b.Top(opts.TopN) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{g.Value, g.Count, g.Overdue, g.DueSoon}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeProfileSheet(f *excelize.File, profiles []analytics.ColumnProfile) error {
	const sheet = "Column Profile"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	header := []any{"Column", "Type", "Missing %", "Numeric %", "Unique Ratio", "Sample"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, p := range profiles {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		sample := ""
		for j, s := range p.Samples {
			if j > 0 {
				sample += ", "
			}
			sample += s
		}
		row := []any{p.Name, p.Type, p.MissingPct, p.NumericPct, p.UniqueRatio, sample}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeChartSheet(f *excelize.File, b Bundle) error {
	const sheet = "Charts"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	charts := []struct {
		cell string
		data []byte
	}{
		{"A1", b.Charts.DueBuckets},
		{"A24", b.Charts.Aircraft},
		{"A47", b.Charts.Parts},
		{"A70", b.Charts.Trend},
		{"A93", b.Charts.Histogram},
	}
	for _, c := range charts {
		if len(c.data) == 0 {
			continue
		}
		pic := &excelize.Picture{Extension: ".png", File: c.data, Format: &excelize.GraphicOptions{}}
		if err := f.AddPictureFromBytes(sheet, c.cell, pic); err != nil {
			return err
		}
	}
	return nil
}
