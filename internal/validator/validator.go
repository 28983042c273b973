// Package validator implements the independent second-pass check of
// spec.md §4.7: it recomputes every hard and soft violation directly
// from a Grid's placements, without touching any placer/backtracker
// bookkeeping, and produces a numeric quality score.
package validator

import (
	"fmt"
	"sort"

	"github.com/vishwaksen/campus-scheduler/internal/catalog"
	"github.com/vishwaksen/campus-scheduler/internal/grid"
)

// Violation is one detected rule break, hard or soft.
type Violation struct {
	Rule    string
	Section string
	Slot    catalog.SlotKey
	Detail  string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: section=%s day=%s period=%d: %s", v.Rule, v.Section, v.Slot.Day, v.Slot.Period, v.Detail)
}

// Report is the outcome of one validation pass, spec.md §4.7.
type Report struct {
	IsValid        bool
	HardViolations []Violation
	SoftViolations []Violation
	Score          int
}

// Options configures the soft-violation weights and structural
// parameters the validator needs beyond the Grid itself.
type Options struct {
	Days                     []string
	PeriodsPerDay            int
	MaxConsecutiveTheory     int
	LimitFirstPeriod         int
	ConsecutiveTheoryPenalty int // per spec.md §4.7, default 5 per excess period
	EarlyPeriodPenalty       int // per spec.md §4.7, default 2 per excess first-period use
}

// DefaultOptions returns the weights spec.md §4.7 names explicitly.
func DefaultOptions(days []string, periodsPerDay int) Options {
	return Options{
		Days:                     days,
		PeriodsPerDay:            periodsPerDay,
		MaxConsecutiveTheory:     2,
		LimitFirstPeriod:         3,
		ConsecutiveTheoryPenalty: 5,
		EarlyPeriodPenalty:       2,
	}
}

// Validate recomputes every invariant from scratch against g's live
// placements and the supplied catalog data, returning a full Report.
// Score follows spec.md §4.7: 1000 - 100*len(hard) - sum(soft weights).
func Validate(g *grid.Grid, sections []catalog.Section, subjects []catalog.Subject, faculty []catalog.Faculty, rooms []catalog.Room, opts Options) Report {
	subjectByCode := make(map[string]catalog.Subject, len(subjects))
	for _, s := range subjects {
		subjectByCode[s.Code] = s
	}
	facultyByID := make(map[string]catalog.Faculty, len(faculty))
	for _, f := range faculty {
		facultyByID[f.ID] = f
	}
	roomByNumber := make(map[string]catalog.Room, len(rooms))
	for _, r := range rooms {
		roomByNumber[r.Number] = r
	}

	placements := g.AllPlacements()

	var hard []Violation
	hard = append(hard, checkSectionConflicts(placements)...)
	hard = append(hard, checkFacultyConflicts(placements)...)
	hard = append(hard, checkRoomConflicts(placements)...)
	hard = append(hard, checkTheoryOncePerDay(placements, subjectByCode)...)
	hard = append(hard, checkLabBlocks(placements, subjectByCode)...)
	hard = append(hard, checkBatchConsistency(placements, subjectByCode)...)
	hard = append(hard, checkFacultyQualifiedAndAvailable(placements, subjectByCode, facultyByID)...)
	hard = append(hard, checkRoomTypeMatch(placements, subjectByCode, roomByNumber)...)
	hard = append(hard, checkHoursPerWeek(placements, sections, subjects)...)
	hard = append(hard, checkDayContiguity(placements, sections, opts)...)

	var soft []Violation
	soft = append(soft, checkConsecutiveTheory(placements, subjectByCode, opts)...)
	soft = append(soft, checkEarlyPeriodUsage(placements, sections, opts)...)

	score := 1000 - 100*len(hard) - sumWeights(soft, opts)

	return Report{
		IsValid:        len(hard) == 0,
		HardViolations: hard,
		SoftViolations: soft,
		Score:          score,
	}
}

func sumWeights(soft []Violation, opts Options) int {
	total := 0
	for _, v := range soft {
		switch v.Rule {
		case "consecutive_theory":
			total += opts.ConsecutiveTheoryPenalty
		case "early_period_excess":
			total += opts.EarlyPeriodPenalty
		}
	}
	return total
}

func checkSectionConflicts(placements []catalog.Placement) []Violation {
	type key struct {
		section string
		slot    catalog.SlotKey
	}
	bySlot := make(map[key][]catalog.Placement)
	for _, p := range placements {
		k := key{p.Section, p.Slot}
		bySlot[k] = append(bySlot[k], p)
	}
	var out []Violation
	for k, group := range bySlot {
		if len(group) <= 1 {
			continue
		}
		if allBatchConsistent(group) {
			continue
		}
		out = append(out, Violation{Rule: "section_conflict", Section: k.section, Slot: k.slot, Detail: fmt.Sprintf("%d overlapping placements", len(group))})
	}
	return sortedViolations(out)
}

func allBatchConsistent(group []catalog.Placement) bool {
	code := group[0].SubjectCode
	seen := make(map[string]bool, len(group))
	for _, p := range group {
		if !p.IsBatch() || p.SubjectCode != code || seen[p.Batch] {
			return false
		}
		seen[p.Batch] = true
	}
	return true
}

func checkFacultyConflicts(placements []catalog.Placement) []Violation {
	type key struct {
		faculty string
		slot    catalog.SlotKey
	}
	bySlot := make(map[key][]catalog.Placement)
	for _, p := range placements {
		if p.FacultyID == "" {
			continue
		}
		k := key{p.FacultyID, p.Slot}
		bySlot[k] = append(bySlot[k], p)
	}
	var out []Violation
	for k, group := range bySlot {
		if len(group) <= 1 {
			continue
		}
		if sameSectionSubjectDistinctBatches(group) {
			continue
		}
		out = append(out, Violation{Rule: "faculty_conflict", Section: group[0].Section, Slot: k.slot, Detail: fmt.Sprintf("faculty %s double-booked", k.faculty)})
	}
	return sortedViolations(out)
}

func sameSectionSubjectDistinctBatches(group []catalog.Placement) bool {
	first := group[0]
	seen := map[string]bool{}
	for _, p := range group {
		if p.Section != first.Section || p.SubjectCode != first.SubjectCode || !p.IsBatch() || seen[p.Batch] {
			return false
		}
		seen[p.Batch] = true
	}
	return true
}

func checkRoomConflicts(placements []catalog.Placement) []Violation {
	type key struct {
		room string
		slot catalog.SlotKey
	}
	bySlot := make(map[key][]catalog.Placement)
	for _, p := range placements {
		if p.RoomNumber == "" {
			continue
		}
		bySlot[key{p.RoomNumber, p.Slot}] = append(bySlot[key{p.RoomNumber, p.Slot}], p)
	}
	var out []Violation
	for k, group := range bySlot {
		if len(group) <= 1 {
			continue
		}
		out = append(out, Violation{Rule: "room_conflict", Section: group[0].Section, Slot: k.slot, Detail: fmt.Sprintf("room %s double-booked", k.room)})
	}
	return sortedViolations(out)
}

func checkTheoryOncePerDay(placements []catalog.Placement, subjectByCode map[string]catalog.Subject) []Violation {
	type key struct {
		section string
		code    string
		day     string
	}
	counts := make(map[key]int)
	first := make(map[key]catalog.Placement)
	for _, p := range placements {
		subj, ok := subjectByCode[p.SubjectCode]
		if !ok || subj.Type != catalog.Theory {
			continue
		}
		k := key{p.Section, p.SubjectCode, p.Slot.Day}
		if counts[k] == 0 {
			first[k] = p
		}
		counts[k]++
	}
	var out []Violation
	for k, c := range counts {
		if c <= 1 {
			continue
		}
		p := first[k]
		out = append(out, Violation{Rule: "theory_twice_in_day", Section: k.section, Slot: p.Slot, Detail: fmt.Sprintf("%s appears %d times on %s", k.code, c, k.day)})
	}
	return sortedViolations(out)
}

// checkLabBlocks verifies every lab placement belongs to a contiguous
// block starting at a valid period and that the continuation flag is
// consistent with its neighbour.
func checkLabBlocks(placements []catalog.Placement, subjectByCode map[string]catalog.Subject) []Violation {
	bySectionBatchDay := make(map[string][]catalog.Placement)
	keyOf := func(p catalog.Placement) string {
		return p.Section + "|" + p.Batch + "|" + p.Slot.Day + "|" + p.SubjectCode
	}
	for _, p := range placements {
		subj, ok := subjectByCode[p.SubjectCode]
		if !ok || subj.Type != catalog.Lab {
			continue
		}
		k := keyOf(p)
		bySectionBatchDay[k] = append(bySectionBatchDay[k], p)
	}

	var out []Violation
	for _, group := range bySectionBatchDay {
		sort.Slice(group, func(i, j int) bool { return group[i].Slot.Period < group[j].Slot.Period })
		subj := subjectByCode[group[0].SubjectCode]
		duration := subj.Duration()
		if len(group)%duration != 0 {
			out = append(out, Violation{Rule: "lab_block_incomplete", Section: group[0].Section, Slot: group[0].Slot, Detail: "lab periods do not form complete blocks"})
			continue
		}
		for i := 0; i < len(group); i += duration {
			block := group[i : i+duration]
			if !LabStartValid(block[0].Slot.Period) {
				out = append(out, Violation{Rule: "lab_bad_start", Section: block[0].Section, Slot: block[0].Slot, Detail: "lab block starts at an invalid period"})
			}
			for j, p := range block {
				if p.Slot.Period != block[0].Slot.Period+j {
					out = append(out, Violation{Rule: "lab_block_noncontiguous", Section: p.Section, Slot: p.Slot, Detail: "lab block periods are not contiguous"})
				}
				if p.IsLabContinuation != (j > 0) {
					out = append(out, Violation{Rule: "lab_continuation_flag", Section: p.Section, Slot: p.Slot, Detail: "continuation flag does not match the period's position in its lab block"})
				}
			}
		}
	}
	return sortedViolations(out)
}

// LabStartValid mirrors feasibility.LabStartValid without importing the
// feasibility package, keeping the validator fully independent of the
// placer's data structures per spec.md §4.7.
func LabStartValid(period int) bool {
	return period == 1 || period == 3 || period == 5
}

func checkBatchConsistency(placements []catalog.Placement, subjectByCode map[string]catalog.Subject) []Violation {
	type key struct {
		section string
		slot    catalog.SlotKey
	}
	bySlot := make(map[key][]catalog.Placement)
	for _, p := range placements {
		if !p.IsBatch() {
			continue
		}
		bySlot[key{p.Section, p.Slot}] = append(bySlot[key{p.Section, p.Slot}], p)
	}
	var out []Violation
	for k, group := range bySlot {
		code := group[0].SubjectCode
		for _, p := range group {
			if p.SubjectCode != code {
				out = append(out, Violation{Rule: "batch_mismatch", Section: k.section, Slot: k.slot, Detail: "batches of one slot carry different subjects"})
				break
			}
		}
	}
	return sortedViolations(out)
}

func checkFacultyQualifiedAndAvailable(placements []catalog.Placement, subjectByCode map[string]catalog.Subject, facultyByID map[string]catalog.Faculty) []Violation {
	var out []Violation
	for _, p := range placements {
		f, ok := facultyByID[p.FacultyID]
		if !ok {
			out = append(out, Violation{Rule: "faculty_unknown", Section: p.Section, Slot: p.Slot, Detail: fmt.Sprintf("unknown faculty id %s", p.FacultyID)})
			continue
		}
		if !f.CanTeach(p.SubjectCode) {
			out = append(out, Violation{Rule: "faculty_not_qualified", Section: p.Section, Slot: p.Slot, Detail: fmt.Sprintf("%s cannot teach %s", f.ID, p.SubjectCode)})
		}
		if f.IsUnavailable(p.Slot) {
			out = append(out, Violation{Rule: "faculty_unavailable", Section: p.Section, Slot: p.Slot, Detail: fmt.Sprintf("%s declared unavailable", f.ID)})
		}
	}
	return sortedViolations(out)
}

func checkRoomTypeMatch(placements []catalog.Placement, subjectByCode map[string]catalog.Subject, roomByNumber map[string]catalog.Room) []Violation {
	var out []Violation
	for _, p := range placements {
		subj, ok := subjectByCode[p.SubjectCode]
		if !ok || subj.Type != catalog.Lab {
			continue
		}
		room, ok := roomByNumber[p.RoomNumber]
		if !ok {
			out = append(out, Violation{Rule: "room_unknown", Section: p.Section, Slot: p.Slot, Detail: fmt.Sprintf("unknown room %s", p.RoomNumber)})
			continue
		}
		if room.Type != catalog.ComputerLab && room.Type != catalog.ElectronicsLab {
			out = append(out, Violation{Rule: "room_type_mismatch", Section: p.Section, Slot: p.Slot, Detail: fmt.Sprintf("lab %s scheduled in non-lab room %s", p.SubjectCode, p.RoomNumber)})
		}
	}
	return sortedViolations(out)
}

func checkHoursPerWeek(placements []catalog.Placement, sections []catalog.Section, subjects []catalog.Subject) []Violation {
	counted := make(map[string]map[string]map[catalog.SlotKey]bool)
	for _, p := range placements {
		if counted[p.Section] == nil {
			counted[p.Section] = make(map[string]map[catalog.SlotKey]bool)
		}
		if counted[p.Section][p.SubjectCode] == nil {
			counted[p.Section][p.SubjectCode] = make(map[catalog.SlotKey]bool)
		}
		counted[p.Section][p.SubjectCode][p.Slot] = true
	}
	var out []Violation
	for _, section := range sections {
		for _, subj := range subjects {
			got := len(counted[section.Name][subj.Code])
			if got != subj.HoursPerWeek {
				out = append(out, Violation{Rule: "hours_unmet", Section: section.Name, Slot: catalog.SlotKey{}, Detail: fmt.Sprintf("%s has %d/%d hours for %s", section.Name, got, subj.HoursPerWeek, subj.Code)})
			}
		}
	}
	return sortedViolations(out)
}

func checkConsecutiveTheory(placements []catalog.Placement, subjectByCode map[string]catalog.Subject, opts Options) []Violation {
	type key struct {
		section string
		day     string
	}
	byDay := make(map[key][]catalog.Placement)
	for _, p := range placements {
		byDay[key{p.Section, p.Slot.Day}] = append(byDay[key{p.Section, p.Slot.Day}], p)
	}
	var out []Violation
	for k, group := range byDay {
		sort.Slice(group, func(i, j int) bool { return group[i].Slot.Period < group[j].Slot.Period })
		run := 0
		for i, p := range group {
			subj, ok := subjectByCode[p.SubjectCode]
			isSingle := ok && subj.Duration() == 1
			contiguous := i == 0 || group[i-1].Slot.Period == p.Slot.Period-1
			if isSingle && contiguous {
				run++
			} else {
				run = 1
			}
			if run > opts.MaxConsecutiveTheory {
				out = append(out, Violation{Rule: "consecutive_theory", Section: k.section, Slot: p.Slot, Detail: fmt.Sprintf("run of %d single-period sessions", run)})
			}
		}
	}
	return sortedViolations(out)
}

// checkDayContiguity is a hard constraint: any unfilled period between a
// section's earliest and latest occupied period on a day is a gap.
func checkDayContiguity(placements []catalog.Placement, sections []catalog.Section, opts Options) []Violation {
	var out []Violation
	for _, section := range sections {
		byDay := make(map[string][]int)
		for _, p := range placements {
			if p.Section != section.Name {
				continue
			}
			byDay[p.Slot.Day] = append(byDay[p.Slot.Day], p.Slot.Period)
		}
		for _, day := range opts.Days {
			periods := byDay[day]
			if len(periods) == 0 {
				continue
			}
			sort.Ints(periods)
			seen := make(map[int]bool, len(periods))
			for _, p := range periods {
				seen[p] = true
			}
			min, max := periods[0], periods[len(periods)-1]
			for p := min; p <= max; p++ {
				if !seen[p] {
					out = append(out, Violation{Rule: "day_gap", Section: section.Name, Slot: catalog.SlotKey{Day: day, Period: p}, Detail: "unfilled period inside the day's occupied window"})
				}
			}
		}
	}
	return sortedViolations(out)
}

// checkEarlyPeriodUsage flags sections whose first-period slot is used
// on more days than opts.LimitFirstPeriod allows, emitting one violation
// per excess day.
func checkEarlyPeriodUsage(placements []catalog.Placement, sections []catalog.Section, opts Options) []Violation {
	var out []Violation
	for _, section := range sections {
		days := make(map[string]bool)
		for _, p := range placements {
			if p.Section == section.Name && p.Slot.Period == 1 {
				days[p.Slot.Day] = true
			}
		}
		count := len(days)
		for excess := count - opts.LimitFirstPeriod; excess > 0; excess-- {
			out = append(out, Violation{
				Rule:    "early_period_excess",
				Section: section.Name,
				Slot:    catalog.SlotKey{},
				Detail:  fmt.Sprintf("first period used %d times, limit %d", count, opts.LimitFirstPeriod),
			})
		}
	}
	return sortedViolations(out)
}

func sortedViolations(v []Violation) []Violation {
	sort.Slice(v, func(i, j int) bool {
		a, b := v[i], v[j]
		if a.Section != b.Section {
			return a.Section < b.Section
		}
		if a.Slot.Day != b.Slot.Day {
			return a.Slot.Day < b.Slot.Day
		}
		if a.Slot.Period != b.Slot.Period {
			return a.Slot.Period < b.Slot.Period
		}
		return a.Rule < b.Rule
	})
	return v
}
