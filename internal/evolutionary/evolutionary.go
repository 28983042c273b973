// Package evolutionary implements the genetic-algorithm search path of
// SPEC_FULL.md §4.9, lifted from original_source/algorithms/dsa_scheduler.py's
// GeneticTimetableScheduler: a population of section-processing orders and
// day-rotation offsets is evolved with tournament selection, single-point
// crossover and swap/rotate mutation, scored by the same validator used
// everywhere else in the engine.
package evolutionary

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"github.com/vishwaksen/campus-scheduler/internal/catalog"
	"github.com/vishwaksen/campus-scheduler/internal/feasibility"
	"github.com/vishwaksen/campus-scheduler/internal/grid"
	"github.com/vishwaksen/campus-scheduler/internal/placer"
	"github.com/vishwaksen/campus-scheduler/internal/validator"
)

// Config governs the search. Seed must be supplied by the caller
// (spec.md §5's determinism requirement forbids seeding from wall-clock
// time or any other non-reproducible source).
type Config struct {
	Seed             int64
	PopulationSize   int
	MaxGenerations   int
	TournamentSize   int
	Elitism          int
	MutationRate     float64
	TargetScore      int // stop early once a genome reaches this score
	Deadline         time.Duration
	PlacerConfig     placer.Config
	ValidatorOptions validator.Options
}

// DefaultConfig returns the population/operator sizes used by the Python
// reference implementation this path is grounded on.
func DefaultConfig(seed int64, placerCfg placer.Config, validatorOpts validator.Options) Config {
	return Config{
		Seed:             seed,
		PopulationSize:   30,
		MaxGenerations:   100,
		TournamentSize:   3,
		Elitism:          1,
		MutationRate:     0.1,
		TargetScore:      -100,
		Deadline:         20 * time.Second,
		PlacerConfig:     placerCfg,
		ValidatorOptions: validatorOpts,
	}
}

// genome is one candidate solution: the order sections are handed to the
// greedy placer (sections placed earlier claim contested faculty/rooms
// first, so this permutation genuinely changes the resulting Grid) plus a
// day-rotation offset that shifts which day of cfg.PlacerConfig.Days the
// fill loop starts from.
type genome struct {
	sectionOrder []string
	dayOffset    int
}

// Result is the best genome found, already materialized into a Grid.
type Result struct {
	Grid       *grid.Grid
	Report     validator.Report
	Generation int
}

// Run evolves a population of genomes against the given catalog data and
// returns the best result found before the deadline, MaxGenerations, or
// TargetScore is reached, whichever comes first.
func Run(ctx context.Context, sections []catalog.Section, subjects []catalog.Subject, faculty []catalog.Faculty, rooms []catalog.Room, cfg Config) (*Result, error) {
	rng := rand.New(rand.NewSource(cfg.Seed))
	ctx, cancel := context.WithTimeout(ctx, cfg.Deadline)
	defer cancel()

	names := sectionNames(sections)
	population := initialPopulation(rng, names, cfg.PlacerConfig.Days, cfg.PopulationSize)

	var best *Result
	for gen := 0; gen < cfg.MaxGenerations; gen++ {
		select {
		case <-ctx.Done():
			return best, nil
		default:
		}

		scored := evaluatePopulation(population, sections, subjects, faculty, rooms, cfg)
		sort.SliceStable(scored, func(i, j int) bool { return scored[i].report.Score > scored[j].report.Score })

		if best == nil || scored[0].report.Score > best.Report.Score {
			best = &Result{Grid: scored[0].grid, Report: scored[0].report, Generation: gen}
		}
		if best.Report.Score >= cfg.TargetScore {
			return best, nil
		}

		population = nextGeneration(rng, scored, cfg)
	}
	return best, nil
}

type evaluated struct {
	genome genome
	grid   *grid.Grid
	report validator.Report
}

func evaluatePopulation(population []genome, sections []catalog.Section, subjects []catalog.Subject, faculty []catalog.Faculty, rooms []catalog.Room, cfg Config) []evaluated {
	out := make([]evaluated, 0, len(population))
	for _, g := range population {
		gr, report := evaluateGenome(g, sections, subjects, faculty, rooms, cfg)
		out = append(out, evaluated{genome: g, grid: gr, report: report})
	}
	return out
}

// evaluateGenome orders sections per the genome's sectionOrder, rotates
// the day list by dayOffset, then runs the ordinary greedy placer and
// scores the resulting Grid with the validator. Section order matters
// because placer.Place mutates shared Grid state as it goes: a section
// placed earlier claims contested faculty and rooms before a section
// placed later ever sees them. A genome whose placer run fails outright
// is scored by the validator on whatever partial grid the placer
// reached, so its unmet hours and other hard violations lower its score.
func evaluateGenome(g genome, sections []catalog.Section, subjects []catalog.Subject, faculty []catalog.Faculty, rooms []catalog.Room, cfg Config) (*grid.Grid, validator.Report) {
	gr := grid.New(subjects)
	oracle := feasibility.New(gr, faculty, rooms, subjects)

	pcfg := cfg.PlacerConfig
	pcfg.Days = rotate(pcfg.Days, g.dayOffset)

	orderedSections := orderSections(sections, g.sectionOrder)

	_ = placer.Place(gr, oracle, orderedSections, subjects, rooms, pcfg)
	report := validator.Validate(gr, sections, subjects, faculty, rooms, cfg.ValidatorOptions)
	return gr, report
}

// orderSections returns sections permuted to match order, falling back to
// the original slice for any name order doesn't mention (defensive only;
// every genome's sectionOrder is always a full permutation of sections).
func orderSections(sections []catalog.Section, order []string) []catalog.Section {
	byName := make(map[string]catalog.Section, len(sections))
	for _, s := range sections {
		byName[s.Name] = s
	}
	out := make([]catalog.Section, 0, len(sections))
	seen := make(map[string]bool, len(sections))
	for _, name := range order {
		if s, ok := byName[name]; ok && !seen[name] {
			out = append(out, s)
			seen[name] = true
		}
	}
	for _, s := range sections {
		if !seen[s.Name] {
			out = append(out, s)
		}
	}
	return out
}

func sectionNames(sections []catalog.Section) []string {
	names := make([]string, len(sections))
	for i, s := range sections {
		names[i] = s.Name
	}
	return names
}

func rotate(days []string, offset int) []string {
	if len(days) == 0 {
		return days
	}
	n := offset % len(days)
	if n < 0 {
		n += len(days)
	}
	out := make([]string, len(days))
	copy(out, days[n:])
	copy(out[len(days)-n:], days[:n])
	return out
}

func initialPopulation(rng *rand.Rand, names []string, days []string, size int) []genome {
	population := make([]genome, size)
	for i := range population {
		population[i] = randomGenome(rng, names, len(days))
	}
	return population
}

func randomGenome(rng *rand.Rand, names []string, numDays int) genome {
	order := append([]string(nil), names...)
	rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	g := genome{sectionOrder: order}
	if numDays > 0 {
		g.dayOffset = rng.Intn(numDays)
	}
	return g
}

// nextGeneration carries the top cfg.Elitism genomes forward unchanged,
// then fills the rest of the population via tournament selection,
// single-point section-order crossover and mutation.
func nextGeneration(rng *rand.Rand, scored []evaluated, cfg Config) []genome {
	next := make([]genome, 0, len(scored))
	for i := 0; i < cfg.Elitism && i < len(scored); i++ {
		next = append(next, scored[i].genome)
	}
	for len(next) < len(scored) {
		parentA := tournamentSelect(rng, scored, cfg.TournamentSize)
		parentB := tournamentSelect(rng, scored, cfg.TournamentSize)
		child := crossover(rng, parentA, parentB)
		mutate(rng, &child, cfg.MutationRate)
		next = append(next, child)
	}
	return next
}

func tournamentSelect(rng *rand.Rand, scored []evaluated, size int) genome {
	best := scored[rng.Intn(len(scored))]
	for i := 1; i < size; i++ {
		candidate := scored[rng.Intn(len(scored))]
		if candidate.report.Score > best.report.Score {
			best = candidate
		}
	}
	return best.genome
}

// crossover splices the section ordering at a random cut point: the
// prefix comes from parentA, the suffix is filled with parentB's
// remaining section names in parentB's order (an order-preserving
// crossover, since the ordering must remain a permutation of section
// names).
func crossover(rng *rand.Rand, a, b genome) genome {
	child := genome{}
	if len(a.sectionOrder) == 0 {
		child.sectionOrder = append([]string(nil), a.sectionOrder...)
	} else {
		cut := rng.Intn(len(a.sectionOrder))
		child.sectionOrder = orderPreservingSplice(a.sectionOrder, b.sectionOrder, cut)
	}
	if rng.Intn(2) == 0 {
		child.dayOffset = a.dayOffset
	} else {
		child.dayOffset = b.dayOffset
	}
	return child
}

func orderPreservingSplice(orderA, orderB []string, cut int) []string {
	prefix := orderA[:cut]
	taken := make(map[string]bool, cut)
	for _, c := range prefix {
		taken[c] = true
	}
	out := append([]string(nil), prefix...)
	for _, c := range orderB {
		if !taken[c] {
			out = append(out, c)
			taken[c] = true
		}
	}
	return out
}

// mutate swaps two positions in the section ordering, or rotates the day
// offset, each independently with probability rate.
func mutate(rng *rand.Rand, g *genome, rate float64) {
	if rng.Float64() < rate && len(g.sectionOrder) >= 2 {
		i := rng.Intn(len(g.sectionOrder))
		j := rng.Intn(len(g.sectionOrder))
		g.sectionOrder[i], g.sectionOrder[j] = g.sectionOrder[j], g.sectionOrder[i]
	}
	if rng.Float64() < rate {
		g.dayOffset++
	}
}
