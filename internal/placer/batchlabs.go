package placer

import (
	"fmt"

	"github.com/vishwaksen/campus-scheduler/internal/backtrack"
	"github.com/vishwaksen/campus-scheduler/internal/catalog"
	"github.com/vishwaksen/campus-scheduler/internal/feasibility"
	"github.com/vishwaksen/campus-scheduler/internal/grid"
)

// DeferredLabInfeasible reports that a batch-parallel lab the backtracker
// deferred could not be placed anywhere in the remaining window.
type DeferredLabInfeasible struct {
	Section     string
	SubjectCode string
}

func (e *DeferredLabInfeasible) Error() string {
	return fmt.Sprintf("no feasible slot for deferred batch lab: section %s subject %s", e.Section, e.SubjectCode)
}

// PlaceBatchLabs places every deferred batch-parallel lab Item the
// backtracking solver skipped (spec.md §4.6 Non-goal), using the same
// placeParallelLabBlock primitive the greedy placer uses, scanning
// days/periods in order for the first slot that fits every batch.
func PlaceBatchLabs(g *grid.Grid, o *feasibility.Oracle, sections map[string]catalog.Section, subjectByCode map[string]catalog.Subject, days []string, periodsPerDay int, deferred []backtrack.Item) error {
	for _, item := range deferred {
		section, ok := sections[item.Section]
		if !ok {
			continue
		}
		subj, ok := subjectByCode[item.SubjectCode]
		if !ok {
			continue
		}
		if !placeOneDeferredLab(g, o, section, subj, days, periodsPerDay) {
			return &DeferredLabInfeasible{Section: item.Section, SubjectCode: item.SubjectCode}
		}
	}
	return nil
}

func placeOneDeferredLab(g *grid.Grid, o *feasibility.Oracle, section catalog.Section, subj catalog.Subject, days []string, periodsPerDay int) bool {
	labKind := labKindFor(subj)
	for _, day := range days {
		for period := 1; period+subj.Duration()-1 <= periodsPerDay; period++ {
			if !feasibility.LabStartValid(period) {
				continue
			}
			if len(g.Occupied(section.Name, catalog.SlotKey{Day: day, Period: period})) > 0 {
				continue
			}
			if placeParallelLabBlock(g, o, section.Name, section.Batches, day, period, subj, labKind) {
				return true
			}
		}
	}
	return false
}
