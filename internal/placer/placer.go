// Package placer implements the greedy scheduling algorithm of spec.md
// §4.4: fixed activities first, then a per-section, per-day weighted
// round-robin fill of the block planner's windows.
package placer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vishwaksen/campus-scheduler/internal/catalog"
	"github.com/vishwaksen/campus-scheduler/internal/feasibility"
	"github.com/vishwaksen/campus-scheduler/internal/grid"
	"github.com/vishwaksen/campus-scheduler/internal/planner"
)

// Config governs greedy-placer behaviour; it mirrors the engine-facing
// Config fields that affect the placer (spec.md §6).
type Config struct {
	Days                 []string
	PeriodsPerDay        int
	MaxConsecutiveTheory int
	PreferMorningLabs    bool
	LimitFirstPeriod     int
	FixedSlots           map[string][]catalog.SlotKey // subject short label -> mandated slots
}

// FixedSlotInfeasible reports that a mandated fixed slot could not be
// filled; this is terminal for the whole run per spec.md §4.4/§7.
type FixedSlotInfeasible struct {
	Section     string
	SubjectCode string
	Slot        catalog.SlotKey
}

func (e *FixedSlotInfeasible) Error() string {
	return fmt.Sprintf("fixed slot infeasible: section %s subject %s at %s/%d", e.Section, e.SubjectCode, e.Slot.Day, e.Slot.Period)
}

// HoursUnmet reports that a section finished its day-block windows with
// subjects still carrying unplaced hours; terminal for that section.
type HoursUnmet struct {
	Section string
	Codes   []string
}

func (e *HoursUnmet) Error() string {
	return fmt.Sprintf("section %s has unmet hours for: %s", e.Section, strings.Join(e.Codes, ", "))
}

// Place runs the full greedy algorithm over g, mutating it in place.
// Returns nil on success, or one of *FixedSlotInfeasible / *HoursUnmet on
// failure (the grid is left in whatever partial state it reached, per
// spec.md §5's "partial Grid satisfies §3.1-§3.6" guarantee — §3.7/§3.8
// may be violated on failure).
func Place(g *grid.Grid, o *feasibility.Oracle, sections []catalog.Section, subjects []catalog.Subject, rooms []catalog.Room, cfg Config) error {
	homeRooms := assignHomeClassrooms(sections, rooms)

	subjectByShort := make(map[string]catalog.Subject, len(subjects))
	for _, s := range subjects {
		subjectByShort[s.ShortLabel] = s
	}

	if err := placeFixedActivities(g, o, sections, subjectByShort, homeRooms, cfg.FixedSlots); err != nil {
		return err
	}

	subjectByCode := make(map[string]catalog.Subject, len(subjects))
	for _, s := range subjects {
		subjectByCode[s.Code] = s
	}

	total := planner.TotalRequired(subjects)
	for _, section := range sections {
		fixedByDay := fixedPeriodsByDay(g, section.Name, cfg.Days)
		windows := planner.Plan(cfg.Days, cfg.PeriodsPerDay, total, fixedByDay)

		swrr := newSWRR(subjects, func(code string) int { return g.Hours(section.Name, code) })

		for _, day := range cfg.Days {
			w := windows[day]
			consecutive := 0
			for period := w.Start; period <= w.End; period++ {
				slot := catalog.SlotKey{Day: day, Period: period}
				if existing := g.Occupied(section.Name, slot); len(existing) > 0 {
					consecutive = updateConsecutive(consecutive, existing[0], subjectByCode)
					continue
				}

				placed, duration := fillPeriod(g, o, section, day, period, w, subjectByCode, rooms, swrr, cfg, consecutive, homeRooms[section.Name])
				if !placed {
					consecutive = 0
					continue
				}
				if duration == 1 {
					consecutive++
				} else {
					consecutive = 0
				}
			}
		}

		if unmet := swrr.unmet(); len(unmet) > 0 {
			return &HoursUnmet{Section: section.Name, Codes: unmet}
		}
	}
	return nil
}

// assignHomeClassrooms pairs the i-th lexicographically sorted section
// with the i-th lexicographically sorted classroom, per spec.md §4.4.
func assignHomeClassrooms(sections []catalog.Section, rooms []catalog.Room) map[string]string {
	names := make([]string, len(sections))
	for i, s := range sections {
		names[i] = s.Name
	}
	sort.Strings(names)

	var classrooms []string
	for _, r := range rooms {
		if r.Type == catalog.Classroom {
			classrooms = append(classrooms, r.Number)
		}
	}
	sort.Strings(classrooms)

	out := make(map[string]string, len(names))
	for i, name := range names {
		if i < len(classrooms) {
			out[name] = classrooms[i]
		}
	}
	return out
}

func placeFixedActivities(g *grid.Grid, o *feasibility.Oracle, sections []catalog.Section, subjectByShort map[string]catalog.Subject, homeRooms map[string]string, fixed map[string][]catalog.SlotKey) error {
	// Deterministic iteration: sort short labels so fixed-activity
	// placement order never depends on map iteration order.
	var shortLabels []string
	for short := range fixed {
		if _, ok := subjectByShort[short]; ok {
			shortLabels = append(shortLabels, short)
		}
	}
	sort.Strings(shortLabels)

	for _, section := range sections {
		home := homeRooms[section.Name]
		for _, short := range shortLabels {
			subj := subjectByShort[short]
			slots := fixed[short]
			for i, slot := range slots {
				faculty := firstQualified(o, subj.Code, slot, false, section.Name)
				if faculty == "" {
					return &FixedSlotInfeasible{Section: section.Name, SubjectCode: subj.Code, Slot: slot}
				}
				room := home
				if room == "" || o.Grid.RoomBusy(room, slot) {
					candidates := o.AvailableRooms(catalog.Classroom, slot, true)
					if len(candidates) == 0 {
						return &FixedSlotInfeasible{Section: section.Name, SubjectCode: subj.Code, Slot: slot}
					}
					room = candidates[0]
				}
				p := catalog.Placement{
					Section:           section.Name,
					Slot:              slot,
					SubjectCode:       subj.Code,
					FacultyID:         faculty,
					RoomNumber:        room,
					IsLabContinuation: subj.Type == catalog.Lab && i > 0,
				}
				if err := g.Add(p); err != nil {
					return &FixedSlotInfeasible{Section: section.Name, SubjectCode: subj.Code, Slot: slot}
				}
			}
		}
	}
	return nil
}

func fixedPeriodsByDay(g *grid.Grid, section string, days []string) map[string][]int {
	out := make(map[string][]int)
	for _, day := range days {
		if periods := g.OccupiedPeriods(section, day); len(periods) > 0 {
			out[day] = periods
		}
	}
	return out
}

// fillPeriod runs one SWRR selection tick and, if a subject is chosen,
// attempts to place its block. Returns (true, duration) on success.
func fillPeriod(g *grid.Grid, o *feasibility.Oracle, section catalog.Section, day string, period int, w planner.Window, subjectByCode map[string]catalog.Subject, rooms []catalog.Room, swrr *swrrState, cfg Config, consecutive int, homeRoom string) (bool, int) {
	durationOf := func(code string) int { return subjectByCode[code].Duration() }

	active := swrr.active(durationOf)
	if len(active) == 0 {
		return false, 0
	}

	survivors := filterStructural(g, o, section, day, period, w, subjectByCode, active)
	if len(survivors) == 0 {
		swrr.tick(active, "")
		return false, 0
	}

	preferred := filterConsecutiveLimit(survivors, subjectByCode, consecutive, cfg.MaxConsecutiveTheory)
	pool := preferred
	if len(pool) == 0 {
		pool = survivors // soft-violator fallback, not a hard rejection
	}

	chosen := swrr.choose(pool)
	subj := subjectByCode[chosen]

	ok := attemptPlacement(g, o, section, day, period, subj, rooms, homeRoom)
	swrr.tick(active, chosen)
	if !ok {
		return false, 0
	}
	swrr.place(chosen, subj.Duration())
	return true, subj.Duration()
}

func filterStructural(g *grid.Grid, o *feasibility.Oracle, section catalog.Section, day string, period int, w planner.Window, subjectByCode map[string]catalog.Subject, active []string) []string {
	var out []string
	for _, code := range active {
		subj := subjectByCode[code]
		switch {
		case subj.Type == catalog.Theory:
			if placedOnDay(g, section.Name, day, code) {
				continue
			}
		case subj.Type == catalog.Lab:
			if period+1 > w.End || !feasibility.LabStartValid(period) {
				continue
			}
			second := catalog.SlotKey{Day: day, Period: period + 1}
			if len(g.Occupied(section.Name, catalog.SlotKey{Day: day, Period: period})) > 0 || len(g.Occupied(section.Name, second)) > 0 {
				continue
			}
			if subj.BatchesRequired {
				labKind := labKindFor(subj)
				if len(o.QualifiedFaculty(code, catalog.SlotKey{Day: day, Period: period}, true, section.Name)) == 0 {
					continue
				}
				if len(o.AvailableRooms(labKind, catalog.SlotKey{Day: day, Period: period}, false)) < len(section.Batches) {
					continue
				}
				if len(o.AvailableRooms(labKind, second, false)) < len(section.Batches) {
					continue
				}
			} else {
				if firstQualified(o, code, catalog.SlotKey{Day: day, Period: period}, false, section.Name) == "" {
					continue
				}
			}
		}
		out = append(out, code)
	}
	return out
}

func placedOnDay(g *grid.Grid, section, day, code string) bool {
	for _, p := range g.AllPlacements() {
		if p.Section == section && p.SubjectCode == code && p.Slot.Day == day {
			return true
		}
	}
	return false
}

func filterConsecutiveLimit(survivors []string, subjectByCode map[string]catalog.Subject, consecutive, limit int) []string {
	if limit <= 0 {
		return survivors
	}
	var out []string
	for _, code := range survivors {
		d := subjectByCode[code].Duration()
		if d > 1 {
			out = append(out, code) // labs reset the run; never blocked by the theory cap
			continue
		}
		if consecutive+d <= limit {
			out = append(out, code)
		}
	}
	return out
}

func attemptPlacement(g *grid.Grid, o *feasibility.Oracle, section catalog.Section, day string, period int, subj catalog.Subject, rooms []catalog.Room, homeRoom string) bool {
	if subj.Type == catalog.Lab && subj.BatchesRequired {
		return placeParallelLabBlock(g, o, section.Name, section.Batches, day, period, subj, labKindFor(subj))
	}
	roomType := catalog.RoomTypeForSubject(subj, labKindFor(subj))
	return placeSingleBlock(g, o, section.Name, day, period, subj, roomType, subj.Type.IsActivityLike(), homeRoom)
}

// labKindFor implements the supplemented-feature lab-kind heuristic from
// original_source/algorithms/dsa_scheduler.py: subject codes starting
// with "EC" or "EE" want the electronics lab, everything else wants the
// computer lab.
func labKindFor(subj catalog.Subject) catalog.RoomType {
	code := strings.ToUpper(subj.Code)
	if strings.HasPrefix(code, "EC") || strings.HasPrefix(code, "EE") {
		return catalog.ElectronicsLab
	}
	return catalog.ComputerLab
}

func updateConsecutive(consecutive int, existing catalog.Placement, subjectByCode map[string]catalog.Subject) int {
	s, ok := subjectByCode[existing.SubjectCode]
	if !ok || s.Duration() != 1 {
		return 0
	}
	return consecutive + 1
}
