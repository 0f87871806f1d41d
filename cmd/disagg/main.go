// Command disagg converts a single annual series CSV into a monthly one
// using the Denton or Chow-Lin disaggregator. A focused utility for
// working with one series outside the full panel pipeline.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"wdipanel/internal/config"
	"wdipanel/internal/disagg"
	"wdipanel/internal/exporter"
	"wdipanel/internal/infrastructure"
	"wdipanel/internal/series"
)

func main() {
	inFile := flag.String("in", "", "annual series CSV (year,value)")
	model := flag.String("model", "denton", "disaggregation model: denton or chowlin")
	indicatorFile := flag.String("indicator", "", "monthly indicator CSV (month,value), required for chowlin")
	outFile := flag.String("out", "monthly.csv", "output CSV file")
	country := flag.String("country", "", "country name written into the output")
	name := flag.String("name", "series", "series name written into the output")
	configFile := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	if *inFile == "" {
		fmt.Fprintln(os.Stderr, "usage: disagg -in <annual.csv> [-model denton|chowlin] [flags]")
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

	low, err := readAnnual(*inFile)
	if err != nil {
		logger.Error("failed to read annual series", "error", err)
		os.Exit(1)
	}

	var monthly *series.Monthly
	switch *model {
	case "denton":
		monthly, err = disagg.Denton(low, cfg.Pipeline.Tolerance)
		if errors.Is(err, disagg.ErrNotConverged) {
			logger.Warn("constraint tolerance missed, keeping best trajectory", "error", err)
			err = nil
		}
	case "chowlin":
		if *indicatorFile == "" {
			logger.Error("chowlin requires -indicator")
			os.Exit(2)
		}
		var indicator *series.Monthly
		indicator, err = readIndicator(*indicatorFile)
		if err == nil {
			monthly, err = disagg.ChowLin(low, indicator)
		}
	default:
		logger.Error("unknown model", "model", *model)
		os.Exit(2)
	}
	if err != nil {
		logger.Error("disaggregation failed", "error", err)
		os.Exit(1)
	}

	writer := exporter.NewCSVWriter(".", logger)
	if err := writer.WriteMonthlyCSV(*outFile, *country, *name, monthly); err != nil {
		logger.Error("failed to write output", "error", err)
		os.Exit(1)
	}
	logger.Info("wrote monthly series",
		slog.String("file", *outFile),
		slog.Int("months", monthly.Len()))
}

func readAnnual(path string) (*series.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return series.ReadAnnualCSV(f)
}

func readIndicator(path string) (*series.Monthly, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return series.ReadMonthlyCSV(f)
}
