package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"wdipanel/internal/disagg"
	"wdipanel/internal/panel"
	"wdipanel/internal/series"
)

// Model selects the disaggregation algorithm.
type Model string

const (
	ModelDenton  Model = "denton"
	ModelChowLin Model = "chowlin"
)

// ParseModel converts a CLI/config token into a Model.
func ParseModel(s string) (Model, error) {
	switch Model(s) {
	case ModelDenton, ModelChowLin:
		return Model(s), nil
	default:
		return "", fmt.Errorf("unknown disaggregation model %q", s)
	}
}

// Options configures one pipeline run. Transforms apply in the fixed
// order interpolate -> disaggregate -> log: disaggregation needs a
// gap-free annual series, and the log should see final monthly values.
type Options struct {
	Interpolate  bool
	Method       series.Method
	Disaggregate bool
	Model        Model
	Log          bool

	// Indicators supplies the per-country monthly indicator series the
	// Chow-Lin model regresses against.
	Indicators map[string]*series.Monthly

	// Workers bounds the parallel (country, variable) fan-out. Zero
	// means 4.
	Workers int

	// Tolerance is the Denton constraint tolerance. Zero takes the
	// package default.
	Tolerance float64
}

// Label renders the provenance string describing the applied transforms,
// used in output metadata and filenames. Empty when the pipeline is a
// passthrough.
func (o Options) Label() string {
	var parts []string
	if o.Interpolate {
		parts = append(parts, "interp-"+string(o.Method))
	}
	if o.Disaggregate {
		parts = append(parts, string(o.Model))
	}
	if o.Log {
		parts = append(parts, "log")
	}
	return strings.Join(parts, "_")
}

// Condition is a non-fatal, per-series diagnostic: insufficient data, a
// convergence warning, dropped non-positive values under log, and so on.
type Condition struct {
	Code    string
	Message string
}

// Result is the pipeline output for one (country, variable) pair. At
// least one of Annual and Monthly is set unless the series failed
// outright, in which case Conditions says why.
type Result struct {
	Country    string
	Variable   string
	Annual     *series.Series
	Monthly    *series.Monthly
	Interp     series.InterpStats
	Conditions []Condition
}

// Failed reports whether the series produced no output at all.
func (r Result) Failed() bool { return r.Annual == nil && r.Monthly == nil }

// Report aggregates one run: every per-series result plus run metadata.
// Per-series failures never abort the batch; they are collected here.
type Report struct {
	RunID   uuid.UUID
	Label   string
	Results []Result
	Elapsed time.Duration
}

// Failures returns the results that produced no output.
func (r *Report) Failures() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Failed() {
			out = append(out, res)
		}
	}
	return out
}

// Runner executes transform pipelines over panels.
type Runner struct {
	logger *slog.Logger
}

// NewRunner creates a pipeline runner.
func NewRunner(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{logger: logger}
}

// Run applies the configured transforms to every selected variable of
// every country in the panel. Each (country, variable) pair is
// independent, so the fan-out is a bounded parallel map; ordering across
// pairs is not guaranteed beyond the deterministic sort of the final
// result list.
func (r *Runner) Run(ctx context.Context, p *panel.Panel, variables []string, opts Options) (*Report, error) {
	start := time.Now()
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if len(variables) == 0 {
		variables = p.Variables()
	}
	if opts.Disaggregate && opts.Model == "" {
		opts.Model = ModelDenton
	}
	if opts.Interpolate && opts.Method == "" {
		opts.Method = series.MethodLinear
	}

	countries := p.Countries()
	rep := &Report{RunID: uuid.New(), Label: opts.Label()}

	r.logger.InfoContext(ctx, "starting pipeline run",
		slog.String("run_id", rep.RunID.String()),
		slog.String("label", rep.Label),
		slog.Int("countries", len(countries)),
		slog.Int("variables", len(variables)),
		slog.Int("workers", opts.Workers))

	type job struct {
		country  string
		variable string
	}
	jobs := make([]job, 0, len(countries)*len(variables))
	for _, c := range countries {
		for _, v := range variables {
			jobs = append(jobs, job{country: c, variable: v})
		}
	}

	results := make([]Result, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = r.runSeries(gctx, p, j.country, j.variable, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("pipeline run aborted: %w", err)
	}

	sort.Slice(results, func(a, b int) bool {
		if results[a].Country != results[b].Country {
			return results[a].Country < results[b].Country
		}
		return results[a].Variable < results[b].Variable
	})
	rep.Results = results
	rep.Elapsed = time.Since(start)

	r.logger.InfoContext(ctx, "pipeline run complete",
		slog.String("run_id", rep.RunID.String()),
		slog.Int("series", len(results)),
		slog.Int("failures", len(rep.Failures())),
		slog.Duration("elapsed", rep.Elapsed))

	return rep, nil
}

// runSeries applies interpolate -> disaggregate -> log to one series.
// Every failure is scoped here: a bad series reports a condition and the
// batch moves on.
func (r *Runner) runSeries(ctx context.Context, p *panel.Panel, country, variable string, opts Options) Result {
	res := Result{Country: country, Variable: variable}

	annual, err := p.Series(country, variable)
	if err != nil {
		res.Conditions = append(res.Conditions, Condition{Code: "extract-failed", Message: err.Error()})
		return res
	}
	if annual.Len() == 0 {
		res.Conditions = append(res.Conditions, Condition{Code: "empty-series", Message: "no observations"})
		return res
	}

	if opts.Interpolate {
		interpolated, stats, err := series.Interpolate(annual, opts.Method)
		if err != nil {
			res.Conditions = append(res.Conditions, Condition{Code: "interpolation-failed", Message: err.Error()})
		} else {
			annual = interpolated
			res.Interp = stats
			if stats.Skipped {
				res.Conditions = append(res.Conditions, Condition{
					Code:    "insufficient-data",
					Message: fmt.Sprintf("too few points for %s interpolation", opts.Method),
				})
			}
		}
	}
	res.Annual = annual

	var monthly *series.Monthly
	if opts.Disaggregate {
		monthly = r.disaggregate(annual, country, opts, &res)
		res.Monthly = monthly
	}

	if opts.Log {
		if monthly != nil {
			res.Monthly = logMonthly(monthly, &res)
		} else {
			res.Annual = logAnnual(annual, &res)
		}
	}

	r.logger.DebugContext(ctx, "series processed",
		slog.String("country", country),
		slog.String("variable", variable),
		slog.Int("conditions", len(res.Conditions)))

	return res
}

func (r *Runner) disaggregate(annual *series.Series, country string, opts Options, res *Result) *series.Monthly {
	switch opts.Model {
	case ModelChowLin:
		indicator := opts.Indicators[country]
		if indicator == nil {
			res.Conditions = append(res.Conditions, Condition{
				Code:    "no-indicator",
				Message: "chow-lin requires a monthly indicator for this country",
			})
			return nil
		}
		monthly, err := disagg.ChowLin(annual, indicator)
		if err != nil {
			res.Conditions = append(res.Conditions, conditionFor(err))
			return nil
		}
		return monthly
	default:
		monthly, err := disagg.Denton(annual, opts.Tolerance)
		if err != nil {
			res.Conditions = append(res.Conditions, conditionFor(err))
			// A convergence warning still carries a usable trajectory.
			if errors.Is(err, disagg.ErrNotConverged) {
				return monthly
			}
			return nil
		}
		return monthly
	}
}

// conditionFor maps the disaggregation error taxonomy onto condition
// codes.
func conditionFor(err error) Condition {
	switch {
	case errors.Is(err, disagg.ErrInsufficientData):
		return Condition{Code: "insufficient-data", Message: err.Error()}
	case errors.Is(err, disagg.ErrNoOverlap):
		return Condition{Code: "no-overlap", Message: err.Error()}
	case errors.Is(err, disagg.ErrNotConverged):
		return Condition{Code: "not-converged", Message: err.Error()}
	default:
		return Condition{Code: "disaggregation-failed", Message: err.Error()}
	}
}

func logAnnual(s *series.Series, res *Result) *series.Series {
	var years []int
	var values []float64
	dropped := 0
	for i, y := range s.Years() {
		v := s.Values()[i]
		if v <= 0 {
			dropped++
			continue
		}
		years = append(years, y)
		values = append(values, math.Log(v))
	}
	noteDroppedNonPositive(res, dropped)
	out, err := series.New(years, values)
	if err != nil {
		res.Conditions = append(res.Conditions, Condition{Code: "log-failed", Message: err.Error()})
		return s
	}
	return out
}

func logMonthly(m *series.Monthly, res *Result) *series.Monthly {
	var pts []series.MonthPoint
	dropped := 0
	for _, p := range m.Points() {
		if p.Value <= 0 {
			dropped++
			continue
		}
		pts = append(pts, series.MonthPoint{Date: p.Date, Value: math.Log(p.Value)})
	}
	noteDroppedNonPositive(res, dropped)
	out, err := series.NewMonthly(pts)
	if err != nil {
		res.Conditions = append(res.Conditions, Condition{Code: "log-failed", Message: err.Error()})
		return m
	}
	return out
}

func noteDroppedNonPositive(res *Result, dropped int) {
	if dropped > 0 {
		res.Conditions = append(res.Conditions, Condition{
			Code:    "log-dropped-nonpositive",
			Message: fmt.Sprintf("%d non-positive values dropped by log transform", dropped),
		})
	}
}
