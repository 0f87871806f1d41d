package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"wdipanel/internal/config"
	"wdipanel/internal/exporter"
	"wdipanel/internal/infrastructure"
	"wdipanel/internal/panel"
	"wdipanel/internal/pipeline"
	"wdipanel/internal/reshape"
	"wdipanel/internal/schema"
	"wdipanel/internal/series"
	"wdipanel/internal/table"
)

func main() {
	inFile := flag.String("in", "", "input file (.csv or .xlsx)")
	sheet := flag.String("sheet", "", "Excel sheet name (default: auto-discover)")
	configFile := flag.String("config", "", "optional YAML config file")
	outDir := flag.String("out", "", "output directory (default from config)")

	countryCol := flag.String("country-col", "", "override: country column name")
	countryCodeCol := flag.String("country-code-col", "", "override: country code column name")
	variableCol := flag.String("variable-col", "", "override: variable/indicator column name")
	variableCodeCol := flag.String("variable-code-col", "", "override: variable code column name")
	yearCol := flag.String("year-col", "", "override: long-format year column name")

	yearStart := flag.Int("year-start", 0, "inclusive start year filter")
	yearEnd := flag.Int("year-end", 0, "inclusive end year filter")
	countries := flag.String("countries", "", "comma-separated country allow-list")
	variables := flag.String("variables", "", "comma-separated variable allow-list")

	interpolate := flag.String("interpolate", "", "fill gaps: linear, cubic, pchip or akima")
	disaggregate := flag.String("disaggregate", "", "annual to monthly: denton or chowlin")
	indicatorFile := flag.String("indicator", "", "monthly indicator CSV (month,value) for chowlin")
	logTransform := flag.Bool("log", false, "apply natural log after all other transforms")
	flag.Parse()

	if *inFile == "" {
		fmt.Fprintln(os.Stderr, "usage: panelbuild -in <file.csv|file.xlsx> [flags]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("failed to initialize logger", "error", err)
		os.Exit(1)
	}
	if *outDir == "" {
		*outDir = cfg.Paths.OutDir
	}

	if err := run(cfg, logger, runParams{
		inFile:          *inFile,
		sheet:           *sheet,
		outDir:          *outDir,
		countryCol:      *countryCol,
		countryCodeCol:  *countryCodeCol,
		variableCol:     *variableCol,
		variableCodeCol: *variableCodeCol,
		yearCol:         *yearCol,
		yearStart:       *yearStart,
		yearEnd:         *yearEnd,
		countries:       splitList(*countries),
		variables:       splitList(*variables),
		interpolate:     *interpolate,
		disaggregate:    *disaggregate,
		indicatorFile:   *indicatorFile,
		logTransform:    *logTransform,
	}); err != nil {
		logger.Error("panel build failed", "error", err)
		os.Exit(1)
	}
}

type runParams struct {
	inFile, sheet, outDir                                    string
	countryCol, countryCodeCol, variableCol, variableCodeCol string
	yearCol                                                  string
	yearStart, yearEnd                                       int
	countries, variables                                     []string
	interpolate, disaggregate, indicatorFile                 string
	logTransform                                             bool
}

func run(cfg *config.Config, logger *slog.Logger, p runParams) error {
	tbl, err := readInput(p.inFile, p.sheet, logger)
	if err != nil {
		return err
	}

	a := schema.Detect(tbl, schema.DetectOptions{
		CountryDistinctThreshold: cfg.Pipeline.CountryDistinctThreshold,
		DetectYearMin:            cfg.Pipeline.DetectYearMin,
		DetectYearMax:            cfg.Pipeline.DetectYearMax,
	}, logger)
	if !a.Confident {
		logger.Warn("schema detection was not confident; consider the column override flags",
			slog.String("country_default", a.CountryColumn()))
	}
	if err := applyOverrides(a, p); err != nil {
		return err
	}

	rows, rep, err := reshape.Reshape(tbl, a, reshape.Options{
		Sentinels: cfg.Pipeline.Sentinels,
		YearMin:   cfg.Pipeline.YearMin,
		YearMax:   cfg.Pipeline.YearMax,
	}, logger)
	if err != nil {
		return fmt.Errorf("reshape: %w", err)
	}
	logger.Info("reshape diagnostics",
		slog.Int("dropped", rep.Dropped()),
		slog.String("dropped_pct", fmt.Sprintf("%.1f%%", rep.DroppedPct())))

	pnl := panel.Pivot(rows, panel.Filter{
		Countries: p.countries,
		Variables: p.variables,
		YearStart: p.yearStart,
		YearEnd:   p.yearEnd,
	}, logger)

	summary := pnl.Summarize()
	logger.Info("panel summary",
		slog.Int("countries", summary.Countries),
		slog.Int("variables", summary.Variables),
		slog.Int("year_min", summary.YearMin),
		slog.Int("year_max", summary.YearMax),
		slog.Int("rows", summary.Rows))
	if summary.Rows == 0 {
		return fmt.Errorf("panel is empty after filtering")
	}

	opts, err := pipelineOptions(cfg, p, pnl)
	if err != nil {
		return err
	}

	writer := exporter.NewCSVWriter(p.outDir, logger)
	label := opts.Label()

	if label == "" {
		return writer.WritePanelCSV(
			exporter.PanelFileName(summary.YearMin, summary.YearMax, ""), pnl)
	}

	runner := pipeline.NewRunner(logger)
	report, err := runner.Run(context.Background(), pnl, p.variables, opts)
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	for _, res := range report.Failures() {
		logger.Warn("series produced no output",
			slog.String("country", res.Country),
			slog.String("variable", res.Variable),
			slog.Any("conditions", res.Conditions))
	}

	out := rebuildPanel(pnl, report)
	if err := writer.WritePanelCSV(
		exporter.PanelFileName(summary.YearMin, summary.YearMax, label), out); err != nil {
		return err
	}

	for _, res := range report.Results {
		if res.Monthly == nil {
			continue
		}
		name := exporter.MonthlyFileName(res.Country, res.Variable, label)
		if err := writer.WriteMonthlyCSV(name, res.Country, res.Variable, res.Monthly); err != nil {
			return err
		}
	}
	return nil
}

func readInput(path, sheet string, logger *slog.Logger) (*table.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return table.ReadExcel(path, sheet, logger)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		return table.ReadCSV(f, logger)
	}
}

func applyOverrides(a *schema.Assignment, p runParams) error {
	set := func(col string, role schema.Role) error {
		if col == "" {
			return nil
		}
		if err := a.Set(col, role); err != nil {
			return fmt.Errorf("override %s: %w", role, err)
		}
		return nil
	}
	if err := set(p.countryCol, schema.RoleCountry); err != nil {
		return err
	}
	if err := set(p.countryCodeCol, schema.RoleCountryCode); err != nil {
		return err
	}
	if err := set(p.variableCol, schema.RoleVariable); err != nil {
		return err
	}
	if err := set(p.variableCodeCol, schema.RoleVariableCode); err != nil {
		return err
	}
	if p.yearCol != "" {
		if err := a.Set(p.yearCol, schema.RoleYear); err != nil {
			return fmt.Errorf("override year: %w", err)
		}
		a.LongYearColumn = p.yearCol
	}
	return a.Validate()
}

func pipelineOptions(cfg *config.Config, p runParams, pnl *panel.Panel) (pipeline.Options, error) {
	opts := pipeline.Options{
		Log:       p.logTransform,
		Workers:   cfg.Pipeline.Workers,
		Tolerance: cfg.Pipeline.Tolerance,
	}
	if p.interpolate != "" {
		method, err := series.ParseMethod(p.interpolate)
		if err != nil {
			return opts, err
		}
		opts.Interpolate = true
		opts.Method = method
	}
	if p.disaggregate != "" {
		model, err := pipeline.ParseModel(p.disaggregate)
		if err != nil {
			return opts, err
		}
		opts.Disaggregate = true
		opts.Model = model
		if model == pipeline.ModelChowLin {
			if p.indicatorFile == "" {
				return opts, fmt.Errorf("chowlin requires -indicator")
			}
			indicator, err := readIndicator(p.indicatorFile)
			if err != nil {
				return opts, err
			}
			// One shared indicator applies to every country.
			opts.Indicators = make(map[string]*series.Monthly)
			for _, c := range pnl.Countries() {
				opts.Indicators[c] = indicator
			}
		}
	}
	return opts, nil
}

// rebuildPanel folds the pipeline's annual outputs back into a panel so
// interpolated or log-transformed values appear in the exported file.
func rebuildPanel(orig *panel.Panel, report *pipeline.Report) *panel.Panel {
	codes := make(map[string]string)
	for _, row := range orig.Rows() {
		if row.CountryCode != "" {
			codes[row.Country] = row.CountryCode
		}
	}

	var rows []reshape.TidyRow
	for _, res := range report.Results {
		if res.Annual == nil {
			continue
		}
		for i, y := range res.Annual.Years() {
			rows = append(rows, reshape.TidyRow{
				Country:     res.Country,
				CountryCode: codes[res.Country],
				Variable:    res.Variable,
				Year:        y,
				Value:       res.Annual.Values()[i],
			})
		}
	}
	return panel.Pivot(rows, panel.Filter{}, nil)
}

func readIndicator(path string) (*series.Monthly, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open indicator: %w", err)
	}
	defer f.Close()
	return series.ReadMonthlyCSV(f)
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
