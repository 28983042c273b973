// Package backtrack implements the alternative CSP-style scheduling
// strategy of spec.md §4.6: flatten every required placement into a
// queue item, sort deterministically, and search with failure-driven
// undo. It is kept as a research/diagnostic path; the production engine
// dispatches to the greedy placer and only falls back here under the
// "hybrid" algorithm.
//
// Batch-parallel labs are not handled by this path (spec.md §4.6,
// §9 Open Question (b)): items whose subject requires parallel batches
// are skipped here and left for the caller to place via the greedy
// placer's block primitives, matching the documented historical
// behaviour rather than guessing at an undocumented extension.
package backtrack

import (
	"context"
	"fmt"
	"sort"

	"github.com/vishwaksen/campus-scheduler/internal/catalog"
	"github.com/vishwaksen/campus-scheduler/internal/feasibility"
	"github.com/vishwaksen/campus-scheduler/internal/grid"
)

// Item is one CSP variable: a single required placement for a
// (section, subject[, batch]) tuple.
type Item struct {
	Section     string
	SubjectCode string
	Duration    int
	Priority    int
	IsLab       bool
	Batch       string // non-empty only for a deferred batch-parallel lab
}

// Timeout reports that the wall-clock deadline elapsed before the search
// completed.
type Timeout struct{}

func (Timeout) Error() string { return "backtracking search timed out" }

// Unsolved reports the search exhausted every branch without placing
// every item.
type Unsolved struct {
	Remaining []Item
}

func (e *Unsolved) Error() string {
	return fmt.Sprintf("backtracking search failed with %d items unresolved", len(e.Remaining))
}

// BuildQueue flattens sections' required placements into Items sorted by
// (priority ascending, duration descending, lab first), per spec.md §4.6.
// Batch-parallel lab subjects contribute one deferred Item per section
// (duration 0) rather than per-batch items, since this solver does not
// place them; the caller is expected to run the greedy placer's lab
// block primitives for those afterward.
func BuildQueue(sections []catalog.Section, subjects []catalog.Subject, existingHours func(section, code string) int) []Item {
	var items []Item
	for _, section := range sections {
		for _, subj := range subjects {
			remaining := subj.HoursPerWeek - existingHours(section.Name, subj.Code)
			if remaining <= 0 {
				continue
			}
			duration := subj.Duration()
			if subj.Type == catalog.Lab && subj.BatchesRequired {
				items = append(items, Item{Section: section.Name, SubjectCode: subj.Code, Duration: 0, Priority: subj.Priority, IsLab: true, Batch: "deferred"})
				continue
			}
			for placed := 0; placed < remaining; placed += duration {
				items = append(items, Item{Section: section.Name, SubjectCode: subj.Code, Duration: duration, Priority: subj.Priority, IsLab: subj.Type == catalog.Lab})
			}
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		if a.Duration != b.Duration {
			return a.Duration > b.Duration
		}
		if a.IsLab != b.IsLab {
			return a.IsLab
		}
		return a.Section < b.Section
	})
	return items
}

// Search runs the recursive backtracking placement over items, mutating
// g in place. Deferred batch-parallel items are skipped (left for the
// caller); everything else is placed or the whole search fails.
func Search(ctx context.Context, g *grid.Grid, o *feasibility.Oracle, subjects []catalog.Subject, days []string, periodsPerDay int, items []Item) ([]Item, error) {
	subjectByCode := make(map[string]catalog.Subject, len(subjects))
	for _, s := range subjects {
		subjectByCode[s.Code] = s
	}

	var deferred []Item
	var active []Item
	for _, it := range items {
		if it.Batch == "deferred" {
			deferred = append(deferred, it)
			continue
		}
		active = append(active, it)
	}

	var placed []catalog.Placement
	ok := backtrack(ctx, g, o, subjectByCode, days, periodsPerDay, active, 0, &placed)
	if !ok {
		select {
		case <-ctx.Done():
			return deferred, Timeout{}
		default:
			return deferred, &Unsolved{Remaining: active}
		}
	}
	return deferred, nil
}

func backtrack(ctx context.Context, g *grid.Grid, o *feasibility.Oracle, subjectByCode map[string]catalog.Subject, days []string, periodsPerDay int, items []Item, index int, placed *[]catalog.Placement) bool {
	if index >= len(items) {
		return true
	}
	select {
	case <-ctx.Done():
		return false
	default:
	}

	item := items[index]
	subj := subjectByCode[item.SubjectCode]

	for _, slot := range validSlots(days, periodsPerDay, item) {
		for _, faculty := range o.QualifiedFaculty(item.SubjectCode, slot, false, item.Section) {
			for _, room := range o.AvailableRooms(catalog.RoomTypeForSubject(subj, catalog.ComputerLab), slot, subj.Type.IsActivityLike()) {
				added, ok := tryPlace(g, item, subj, slot, faculty, room)
				if !ok {
					continue
				}
				*placed = append(*placed, added...)
				if backtrack(ctx, g, o, subjectByCode, days, periodsPerDay, items, index+1, placed) {
					return true
				}
				for i := len(added) - 1; i >= 0; i-- {
					g.Remove(added[i])
				}
				*placed = (*placed)[:len(*placed)-len(added)]
			}
		}
	}
	return false
}

func tryPlace(g *grid.Grid, item Item, subj catalog.Subject, slot catalog.SlotKey, faculty, room string) ([]catalog.Placement, bool) {
	var added []catalog.Placement
	duration := item.Duration
	if duration == 0 {
		duration = 1
	}
	for offset := 0; offset < duration; offset++ {
		s := catalog.SlotKey{Day: slot.Day, Period: slot.Period + offset}
		p := catalog.Placement{
			Section:           item.Section,
			Slot:              s,
			SubjectCode:       item.SubjectCode,
			FacultyID:         faculty,
			RoomNumber:        room,
			IsLabContinuation: offset > 0,
		}
		if err := g.Add(p); err != nil {
			for i := len(added) - 1; i >= 0; i-- {
				g.Remove(added[i])
			}
			return nil, false
		}
		added = append(added, p)
	}
	return added, true
}

// validSlots enumerates (day, start-period) pairs that pass the
// structural checks for item: lab items must start in {1,3,5} and fit
// before the day ends.
func validSlots(days []string, periodsPerDay int, item Item) []catalog.SlotKey {
	var out []catalog.SlotKey
	for _, day := range days {
		for period := 1; period <= periodsPerDay; period++ {
			if item.IsLab {
				if !feasibility.LabStartValid(period) || period+item.Duration-1 > periodsPerDay {
					continue
				}
			}
			out = append(out, catalog.SlotKey{Day: day, Period: period})
		}
	}
	return out
}
