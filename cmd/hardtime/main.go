package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/vantagemro/hardtime/config"
	"github.com/vantagemro/hardtime/internal/analytics"
	"github.com/vantagemro/hardtime/internal/loader"
	"github.com/vantagemro/hardtime/internal/report"
	"github.com/vantagemro/hardtime/internal/visuals"
	"github.com/vantagemro/hardtime/pkg/diag"
	"github.com/vantagemro/hardtime/pkg/validation"
	"github.com/vantagemro/hardtime/pkg/version"
)

// runArgs is the flag surface validated before the pipeline starts.
type runArgs struct {
	Workbook  string `validate:"required,workbook_ext"`
	Reference string `validate:"omitempty,datetime=2006-01-02"`
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	var (
		workbook   string
		sheet      string
		excelOut   string
		pdfOut     string
		reference  string
		listSheets bool
	)
	flag.StringVar(&workbook, "workbook", "", "Path to the hard-time report workbook (.xls, .xlsx, .xlsm)")
	flag.StringVar(&sheet, "sheet", "", "Worksheet name to load (defaults to the first sheet)")
	flag.StringVar(&excelOut, "excel", "hard_time_analytics.xlsx", "Destination path for the Excel analytics workbook (empty to skip)")
	flag.StringVar(&pdfOut, "pdf", "hard_time_analytics.pdf", "Destination path for the PDF summary report (empty to skip)")
	flag.StringVar(&reference, "reference", "", "Reference date for due-date computation (YYYY-MM-DD, defaults to today)")
	flag.BoolVar(&listSheets, "list-sheets", false, "List worksheet names in the workbook and exit")
	flag.Parse()

	logger := zlog.With().Str("service", "hardtime").Logger()
	ctx := logger.WithContext(context.Background())

	if msg := validation.ValidateStruct(runArgs{Workbook: workbook, Reference: reference}); msg != "" {
		fmt.Fprintln(os.Stderr, msg)
		flag.Usage()
		os.Exit(2)
	}

	if listSheets {
		names, err := loader.SheetNames(workbook)
		if err != nil {
			logger.Error().Err(err).Msg("failed to list worksheets")
			os.Exit(1)
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return
	}

	opts, err := config.FromEnv()
	if err != nil {
		logger.Error().Err(err).Msg("invalid environment configuration")
		os.Exit(1)
	}
	if reference != "" {
		opts.ReferenceDate = reference
	}
	if msg := validation.ValidateStruct(opts); msg != "" {
		fmt.Fprintln(os.Stderr, msg)
		os.Exit(2)
	}

	logger.Info().
		Str("version", version.Version()).
		Str("workbook", workbook).
		Str("reference_date", opts.Reference().Format("2006-01-02")).
		Int("due_soon_days", opts.DueSoonDays).
		Str("week_start", opts.WeekStart).
		Msg("run configured")

	if err := run(ctx, workbook, sheet, excelOut, pdfOut, opts); err != nil {
		logger.Error().Err(err).Str("code", string(diag.CodeOf(err))).Msg("run failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, workbook, sheet, excelOut, pdfOut string, opts config.Options) error {
	logger := zerolog.Ctx(ctx)
	started := time.Now()

	table, err := loader.Read(ctx, workbook, sheet)
	if err != nil {
		return err
	}

	snap, err := analytics.Prepare(table, opts)
	if err != nil {
		return err
	}
	for code, n := range snap.WarningCounts() {
		logger.Warn().Str("code", string(code)).Int("rows", n).Msg("row-level data quality flags")
	}

	summary := analytics.Summarize(snap, opts)
	aircraft, err := analytics.BreakDown(snap, analytics.DimensionAircraft, opts)
	if err != nil {
		return err
	}
	parts, err := analytics.BreakDown(snap, analytics.DimensionPart, opts)
	if err != nil {
		return err
	}
	buckets, err := analytics.BreakDown(snap, analytics.DimensionDueBucket, opts)
	if err != nil {
		return err
	}
	profiles := analytics.ProfileColumns(table)
	trend := analytics.WeeklyDueTrend(snap, opts)

	logger.Info().
		Str("snapshot", snap.ID).
		Int("components", summary.TotalComponents).
		Int("overdue", summary.OverdueComponents).
		Int("due_soon", summary.DueSoonComponents).
		Str("trend", trend.Direction()).
		Msg("analytics computed")

	charts, err := visuals.RenderAll(snap, aircraft, parts, buckets, trend, opts)
	if err != nil {
		return diag.Wrap(diag.ExportFailed, err)
	}

	bundle := report.Bundle{
		Snapshot: snap,
		Summary:  summary,
		Aircraft: aircraft,
		Parts:    parts,
		Buckets:  buckets,
		Profiles: profiles,
		Trend:    trend,
		Charts:   charts,
	}
	if err := report.WriteAll(ctx, excelOut, pdfOut, bundle, opts); err != nil {
		return err
	}

	logger.Info().
		Str("excel", excelOut).
		Str("pdf", pdfOut).
		Dur("elapsed", time.Since(started)).
		Msg("analytics generated")
	return nil
}
