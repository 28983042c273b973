// Package engine is the single entry point the HTTP surface and CLI both
// call through: it validates input, dispatches to the selected algorithm
// (or the hybrid fallback chain), and always runs the independent
// validator before declaring success. Grounded on the teacher's
// ScheduleGeneratorService.Generate as the top-level orchestration shape,
// generalized from an HTTP-request-shaped input to the catalog-shaped
// ScheduleRequest of SPEC_FULL.md §6.1.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vishwaksen/campus-scheduler/internal/backtrack"
	"github.com/vishwaksen/campus-scheduler/internal/catalog"
	"github.com/vishwaksen/campus-scheduler/internal/evolutionary"
	"github.com/vishwaksen/campus-scheduler/internal/feasibility"
	"github.com/vishwaksen/campus-scheduler/internal/grid"
	"github.com/vishwaksen/campus-scheduler/internal/placer"
	"github.com/vishwaksen/campus-scheduler/internal/validator"
)

// Algorithm is the closed set of strategies spec.md §9 names.
type Algorithm string

const (
	Greedy       Algorithm = "greedy"
	Backtracking Algorithm = "backtracking"
	Evolutionary Algorithm = "evolutionary"
	Hybrid       Algorithm = "hybrid"
)

// Config is the per-run tuning surface, threaded down into the placer,
// backtracker and evolutionary packages.
type Config struct {
	Days                 []string
	PeriodsPerDay        int
	Algorithm            Algorithm
	MaxConsecutiveTheory int
	PreferMorningLabs    bool
	LimitFirstPeriod     int
	Timeout              time.Duration
	FixedSlots           map[string][]catalog.SlotKey
	Seed                 int64
	MaxGenerations       int
}

// Request bundles the catalog data one scheduling run needs.
type Request struct {
	Semester       int
	Branch         string
	Sections       []string
	Subjects       []catalog.Subject
	Faculty        []catalog.Faculty
	Rooms          []catalog.Room
	SectionBatches map[string][]string
	Config         Config
}

// Statistics reports how the run spent its effort; surfaced in exports
// and API responses, grounded on the teacher's ScheduleImprovementStats.
type Statistics struct {
	Algorithm        Algorithm
	Attempts         int
	Generations      int
	Duration         time.Duration
	FellBackToStage  []Algorithm
}

// Response is the top-level successful-or-not result of one run.
type Response struct {
	Success    bool
	Grid       *grid.Grid
	Statistics Statistics
	Validation validator.Report
}

// Schedule runs the selected algorithm (or the hybrid chain) against req
// and always validates the result independently before returning
// success. logger may be nil; a no-op logger is substituted.
func Schedule(ctx context.Context, req Request, logger *zap.Logger) (*Response, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	deadline := req.Config.Timeout
	if deadline <= 0 {
		deadline = 30 * time.Second
	}
	runCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	req.Config = applyConfigDefaults(req.Config)

	sections := buildSections(req)
	opts := validator.DefaultOptions(req.Config.Days, req.Config.PeriodsPerDay)
	opts.MaxConsecutiveTheory = req.Config.MaxConsecutiveTheory
	opts.LimitFirstPeriod = req.Config.LimitFirstPeriod

	start := time.Now()
	var stats Statistics
	stats.Algorithm = req.Config.Algorithm

	algo := req.Config.Algorithm
	if algo == "" {
		algo = Greedy
	}

	var (
		result *grid.Grid
		report validator.Report
		runErr error
	)

	switch algo {
	case Greedy:
		result, report, runErr = runGreedy(req, sections, opts)
	case Backtracking:
		result, report, runErr = runBacktracking(runCtx, req, sections, opts)
	case Evolutionary:
		result, report, runErr = runEvolutionary(runCtx, req, sections, opts)
	case Hybrid:
		result, report, runErr, stats.FellBackToStage = runHybrid(runCtx, req, sections, opts, logger)
	default:
		return nil, fmt.Errorf("%w: unknown algorithm %q", ErrInput, algo)
	}

	stats.Duration = time.Since(start)

	if runErr != nil {
		var searchTimeout backtrack.Timeout
		if errors.Is(runErr, context.DeadlineExceeded) || errors.As(runErr, &searchTimeout) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrInfeasible, runErr)
	}

	if !report.IsValid {
		logger.Error("internal invariant violated: algorithm reported success but hard violations remain",
			zap.Int("hard_violations", len(report.HardViolations)))
		return nil, &InternalInvariantError{Violations: report.HardViolations}
	}

	return &Response{
		Success:    true,
		Grid:       result,
		Statistics: stats,
		Validation: report,
	}, nil
}

// applyConfigDefaults fills the zero-value defaults spec.md §6 names for
// knobs the DTO/CLI layers may leave unset (an unset 0 is not a caller's
// deliberate "no cap").
func applyConfigDefaults(cfg Config) Config {
	if cfg.MaxConsecutiveTheory <= 0 {
		cfg.MaxConsecutiveTheory = 3
	}
	if cfg.LimitFirstPeriod <= 0 {
		cfg.LimitFirstPeriod = 3
	}
	return cfg
}

func validateRequest(req Request) error {
	if len(req.Sections) == 0 {
		return fmt.Errorf("%w: at least one section is required", ErrInput)
	}
	if len(req.Subjects) == 0 {
		return fmt.Errorf("%w: at least one subject is required", ErrInput)
	}
	if req.Config.PeriodsPerDay <= 0 {
		return fmt.Errorf("%w: periods_per_day must be positive", ErrInput)
	}
	if len(req.Config.Days) == 0 {
		return fmt.Errorf("%w: at least one working day is required", ErrInput)
	}
	return nil
}

func buildSections(req Request) []catalog.Section {
	out := make([]catalog.Section, 0, len(req.Sections))
	for _, name := range req.Sections {
		out = append(out, catalog.Section{Name: name, Batches: req.SectionBatches[name]})
	}
	return out
}

func placerConfig(req Request) placer.Config {
	return placer.Config{
		Days:                 req.Config.Days,
		PeriodsPerDay:        req.Config.PeriodsPerDay,
		MaxConsecutiveTheory: req.Config.MaxConsecutiveTheory,
		PreferMorningLabs:    req.Config.PreferMorningLabs,
		LimitFirstPeriod:     req.Config.LimitFirstPeriod,
		FixedSlots:           req.Config.FixedSlots,
	}
}

func runGreedy(req Request, sections []catalog.Section, opts validator.Options) (*grid.Grid, validator.Report, error) {
	g := grid.New(req.Subjects)
	o := feasibility.New(g, req.Faculty, req.Rooms, req.Subjects)
	if err := placer.Place(g, o, sections, req.Subjects, req.Rooms, placerConfig(req)); err != nil {
		return g, validator.Validate(g, sections, req.Subjects, req.Faculty, req.Rooms, opts), err
	}
	return g, validator.Validate(g, sections, req.Subjects, req.Faculty, req.Rooms, opts), nil
}

func runBacktracking(ctx context.Context, req Request, sections []catalog.Section, opts validator.Options) (*grid.Grid, validator.Report, error) {
	g := grid.New(req.Subjects)
	o := feasibility.New(g, req.Faculty, req.Rooms, req.Subjects)

	items := backtrack.BuildQueue(sections, req.Subjects, func(section, code string) int { return g.Hours(section, code) })
	deferred, err := backtrack.Search(ctx, g, o, req.Subjects, req.Config.Days, req.Config.PeriodsPerDay, items)
	if err != nil {
		return g, validator.Validate(g, sections, req.Subjects, req.Faculty, req.Rooms, opts), err
	}

	if err := placeDeferredLabs(g, o, req, sections, deferred); err != nil {
		return g, validator.Validate(g, sections, req.Subjects, req.Faculty, req.Rooms, opts), err
	}

	return g, validator.Validate(g, sections, req.Subjects, req.Faculty, req.Rooms, opts), nil
}

func placeDeferredLabs(g *grid.Grid, o *feasibility.Oracle, req Request, sections []catalog.Section, deferred []backtrack.Item) error {
	if len(deferred) == 0 {
		return nil
	}
	subjectByCode := make(map[string]catalog.Subject, len(req.Subjects))
	for _, s := range req.Subjects {
		subjectByCode[s.Code] = s
	}
	sectionByName := make(map[string]catalog.Section, len(sections))
	for _, s := range sections {
		sectionByName[s.Name] = s
	}
	return placer.PlaceBatchLabs(g, o, sectionByName, subjectByCode, req.Config.Days, req.Config.PeriodsPerDay, deferred)
}

func runEvolutionary(ctx context.Context, req Request, sections []catalog.Section, opts validator.Options) (*grid.Grid, validator.Report, error) {
	cfg := evolutionary.DefaultConfig(req.Config.Seed, placerConfig(req), opts)
	if req.Config.MaxGenerations > 0 {
		cfg.MaxGenerations = req.Config.MaxGenerations
	}
	if req.Config.Timeout > 0 {
		cfg.Deadline = req.Config.Timeout
	}
	result, err := evolutionary.Run(ctx, sections, req.Subjects, req.Faculty, req.Rooms, cfg)
	if err != nil {
		return nil, validator.Report{}, err
	}
	if result == nil {
		return nil, validator.Report{}, fmt.Errorf("evolutionary search produced no candidate")
	}
	return result.Grid, result.Report, nil
}

// runHybrid tries Greedy, then Backtracking, then Evolutionary, returning
// the first success; the fallback chain taken is reported in stats.
func runHybrid(ctx context.Context, req Request, sections []catalog.Section, opts validator.Options, logger *zap.Logger) (*grid.Grid, validator.Report, error, []Algorithm) {
	var chain []Algorithm

	g, report, err := runGreedy(req, sections, opts)
	if err == nil && report.IsValid {
		return g, report, nil, chain
	}
	chain = append(chain, Greedy)
	logger.Warn("greedy placement failed, falling back to backtracking", zap.Error(err))

	g, report, err = runBacktracking(ctx, req, sections, opts)
	if err == nil && report.IsValid {
		return g, report, nil, chain
	}
	chain = append(chain, Backtracking)
	logger.Warn("backtracking failed, falling back to evolutionary search", zap.Error(err))

	g, report, err = runEvolutionary(ctx, req, sections, opts)
	chain = append(chain, Evolutionary)
	return g, report, err, chain
}
