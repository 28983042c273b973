// Package feasibility implements the decision oracle for tentative
// Placements and the deterministic faculty/room enumerators the placer
// and backtracker both depend on. It is a thin read-mostly layer over
// internal/grid: the oracle never mutates the Grid itself, it only
// decides whether a candidate would be accepted and, if asked, why it
// would not.
package feasibility

import (
	"sort"

	"github.com/vishwaksen/campus-scheduler/internal/catalog"
	"github.com/vishwaksen/campus-scheduler/internal/grid"
)

// Reason is the closed set of failure reasons spec.md §4.2 enumerates.
type Reason string

const (
	SectionConflict      Reason = "section_conflict"
	TeacherConflict       Reason = "teacher_conflict"
	RoomConflict          Reason = "room_conflict"
	SameTheoryTwiceInDay  Reason = "same_theory_twice_in_day"
	LabBreakCross         Reason = "lab_break_cross"
	LabBadStart            Reason = "lab_bad_start"
	BatchMismatch          Reason = "batch_mismatch"
	FacultyNotQualified   Reason = "faculty_not_qualified"
	FacultyUnavailable    Reason = "faculty_unavailable"
)

// validLabStarts is the closed set of periods a two-period lab block may
// begin at without crossing the P2/P3 or P4/P5 break (spec.md §3.5).
var validLabStarts = map[int]bool{1: true, 3: true, 5: true}

// Oracle wraps the catalog and a Grid to answer feasibility questions.
type Oracle struct {
	Grid     *grid.Grid
	Faculty  map[string]catalog.Faculty
	Rooms    []catalog.Room
	Subjects map[string]catalog.Subject
}

// New builds an Oracle over the given catalog data and grid.
func New(g *grid.Grid, faculty []catalog.Faculty, rooms []catalog.Room, subjects []catalog.Subject) *Oracle {
	facByID := make(map[string]catalog.Faculty, len(faculty))
	for _, f := range faculty {
		facByID[f.ID] = f
	}
	subByCode := make(map[string]catalog.Subject, len(subjects))
	for _, s := range subjects {
		subByCode[s.Code] = s
	}
	return &Oracle{Grid: g, Faculty: facByID, Rooms: rooms, Subjects: subByCode}
}

// LabStartValid reports whether a 2-period lab block may begin at period.
func LabStartValid(period int) bool {
	return validLabStarts[period]
}

// CheckSingle evaluates a single-period (or first-period-of-a-lab)
// candidate placement and returns every reason it would fail; an empty
// slice means the placement is structurally feasible.
func (o *Oracle) CheckSingle(p catalog.Placement) []Reason {
	var reasons []Reason

	subj, ok := o.Subjects[p.SubjectCode]
	if ok && subj.Type == catalog.Lab && !LabStartValid(p.Slot.Period) {
		reasons = append(reasons, LabBadStart)
	}

	fac, ok := o.Faculty[p.FacultyID]
	if !ok || !fac.CanTeach(p.SubjectCode) {
		reasons = append(reasons, FacultyNotQualified)
	} else if fac.IsUnavailable(p.Slot) {
		reasons = append(reasons, FacultyUnavailable)
	}

	if o.Grid.FacultyBusy(p.FacultyID, p.Slot, p) {
		reasons = append(reasons, TeacherConflict)
	}
	if p.RoomNumber != "" && o.Grid.RoomBusy(p.RoomNumber, p.Slot) {
		reasons = append(reasons, RoomConflict)
	}

	existing := o.Grid.Occupied(p.Section, p.Slot)
	if len(existing) > 0 {
		if !p.IsBatch() {
			reasons = append(reasons, SectionConflict)
		} else {
			for _, e := range existing {
				if !e.IsBatch() {
					reasons = append(reasons, SectionConflict)
					break
				}
				if e.SubjectCode != p.SubjectCode || e.Batch == p.Batch {
					reasons = append(reasons, BatchMismatch)
					break
				}
			}
		}
	}

	if ok && subj.Type == catalog.Theory {
		for day, periods := range sectionTheoryDays(o.Grid, p.Section, p.SubjectCode) {
			if day == p.Slot.Day && !periods[p.Slot.Period] {
				reasons = append(reasons, SameTheoryTwiceInDay)
			}
		}
	}

	return reasons
}

func sectionTheoryDays(g *grid.Grid, section, code string) map[string]map[int]bool {
	out := make(map[string]map[int]bool)
	for _, p := range g.AllPlacements() {
		if p.Section != section || p.SubjectCode != code {
			continue
		}
		if out[p.Slot.Day] == nil {
			out[p.Slot.Day] = make(map[int]bool)
		}
		out[p.Slot.Day][p.Slot.Period] = true
	}
	return out
}

// QualifiedFaculty returns a stable-sorted list of faculty IDs qualified
// to teach code at slot: their subject set contains code, their
// unavailable-slot set excludes slot, and their current occupancy at
// slot is either empty or, when forBatchLab is true, made up only of
// batch placements belonging to (section, code).
func (o *Oracle) QualifiedFaculty(code string, slot catalog.SlotKey, forBatchLab bool, section string) []string {
	var ids []string
	for id, f := range o.Faculty {
		if !f.CanTeach(code) || f.IsUnavailable(slot) {
			continue
		}
		if !o.facultyFreeAt(id, slot, forBatchLab, section, code) {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (o *Oracle) facultyFreeAt(facultyID string, slot catalog.SlotKey, forBatchLab bool, section, code string) bool {
	for _, p := range o.Grid.AllPlacements() {
		if p.FacultyID != facultyID || p.Slot != slot {
			continue
		}
		if forBatchLab && p.Section == section && p.SubjectCode == code && p.IsBatch() {
			continue
		}
		return false
	}
	return true
}

// AvailableRooms returns a stable-sorted list of free room numbers of the
// requested type at slot. When fallback is true and roomType is an
// activity-like room request, any free classroom is also considered.
func (o *Oracle) AvailableRooms(roomType catalog.RoomType, slot catalog.SlotKey, fallback bool) []string {
	var numbers []string
	for _, r := range o.Rooms {
		if o.Grid.RoomBusy(r.Number, slot) {
			continue
		}
		if r.Type == roomType {
			numbers = append(numbers, r.Number)
			continue
		}
		if fallback && r.Type == catalog.Classroom {
			numbers = append(numbers, r.Number)
		}
	}
	sort.Strings(numbers)
	return numbers
}
