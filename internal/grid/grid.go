// Package grid implements the mutable schedule state: per-section,
// per-teacher and per-room occupancy indexes built over a single arena of
// Placement values, plus the per-subject hour counters. All three indexes
// share ownership of the same underlying Placements and are kept
// mutually consistent by add/remove, which are exact inverses of each
// other.
//
// Grounded on the teacher's arena-like sqlx index conventions
// (stable IDs keyed into maps) generalized to the spec's §9 "Arena-and-
// index for the Grid" design note: Placements are allocated in a single
// slice owned by the Grid, and every index stores the integer position
// into that slice rather than a pointer or a copy, so remove-by-identity
// never has to compare Placement values for equality.
package grid

import (
	"fmt"
	"sort"

	"github.com/vishwaksen/campus-scheduler/internal/catalog"
)

// RejectReason enumerates why add() refused a candidate Placement.
type RejectReason string

const (
	ReasonSectionConflict      RejectReason = "section_conflict"
	ReasonTeacherConflict      RejectReason = "teacher_conflict"
	ReasonRoomConflict         RejectReason = "room_conflict"
	ReasonSameTheoryTwiceInDay RejectReason = "same_theory_twice_in_day"
	ReasonBatchMismatch        RejectReason = "batch_mismatch"
)

// RejectError reports why a candidate Placement could not be inserted.
type RejectError struct {
	Reason RejectReason
}

func (e *RejectError) Error() string {
	return fmt.Sprintf("placement rejected: %s", e.Reason)
}

// entry is one arena slot. Removed entries are tombstoned (live=false)
// rather than compacted, so indices handed out earlier stay valid for the
// lifetime of the Grid.
type entry struct {
	placement catalog.Placement
	live      bool
}

// Grid is the composition of the three occupancy indexes described in
// spec.md §3, built over a single Placement arena.
type Grid struct {
	arena []entry

	// bySection[section][slot] -> arena indices occupying that cell.
	bySection map[string]map[catalog.SlotKey][]int
	// byFaculty[facultyID][slot] -> arena indices.
	byFaculty map[string]map[catalog.SlotKey][]int
	// byRoom[roomNumber][slot] -> arena indices (at most one, but stored
	// as a slice for symmetry with the other two indexes).
	byRoom map[string]map[catalog.SlotKey][]int

	// hours[section][subjectCode] = count of distinct slots occupied.
	hours map[string]map[string]int

	subjectByCode map[string]catalog.Subject
}

// New creates an empty Grid. subjects is the immutable catalog used to
// decide whether a subject is theory-like for invariant §3.4.
func New(subjects []catalog.Subject) *Grid {
	byCode := make(map[string]catalog.Subject, len(subjects))
	for _, s := range subjects {
		byCode[s.Code] = s
	}
	return &Grid{
		bySection:     make(map[string]map[catalog.SlotKey][]int),
		byFaculty:     make(map[string]map[catalog.SlotKey][]int),
		byRoom:        make(map[string]map[catalog.SlotKey][]int),
		hours:         make(map[string]map[string]int),
		subjectByCode: byCode,
	}
}

func ensureSlotMap(m map[string]map[catalog.SlotKey][]int, key string) map[catalog.SlotKey][]int {
	inner, ok := m[key]
	if !ok {
		inner = make(map[catalog.SlotKey][]int)
		m[key] = inner
	}
	return inner
}

// Occupied returns the live placements at (section, slot), in insertion
// order.
func (g *Grid) Occupied(section string, slot catalog.SlotKey) []catalog.Placement {
	idxs := g.bySection[section][slot]
	out := make([]catalog.Placement, 0, len(idxs))
	for _, i := range idxs {
		if g.arena[i].live {
			out = append(out, g.arena[i].placement)
		}
	}
	return out
}

// FacultyBusy reports whether the faculty already has a live placement at
// slot that is NOT compatible with p under the batch-parallel exception
// (§4.2): a teacher may appear twice at a slot only for placements of the
// same (section, subject) carrying distinct batch tags.
func (g *Grid) FacultyBusy(facultyID string, slot catalog.SlotKey, p catalog.Placement) bool {
	idxs := g.byFaculty[facultyID][slot]
	for _, i := range idxs {
		if !g.arena[i].live {
			continue
		}
		existing := g.arena[i].placement
		if existing.Section == p.Section && existing.SubjectCode == p.SubjectCode &&
			existing.IsBatch() && p.IsBatch() && existing.Batch != p.Batch {
			continue
		}
		return true
	}
	return false
}

// RoomBusy reports whether the room already has any live placement at slot.
func (g *Grid) RoomBusy(room string, slot catalog.SlotKey) bool {
	idxs := g.byRoom[room][slot]
	for _, i := range idxs {
		if g.arena[i].live {
			return true
		}
	}
	return false
}

// Hours returns the number of distinct slots the section has occupied for
// subjectCode so far.
func (g *Grid) Hours(section, subjectCode string) int {
	return g.hours[section][subjectCode]
}

// Add inserts a candidate Placement if doing so keeps invariants
// §3.1-§3.6 intact given the grid-so-far. On rejection, no side effects
// occur.
func (g *Grid) Add(p catalog.Placement) error {
	if err := g.checkSectionConflict(p); err != nil {
		return err
	}
	if g.FacultyBusy(p.FacultyID, p.Slot, p) {
		return &RejectError{Reason: ReasonTeacherConflict}
	}
	if p.RoomNumber != "" && g.RoomBusy(p.RoomNumber, p.Slot) {
		return &RejectError{Reason: ReasonRoomConflict}
	}
	if err := g.checkTheoryOncePerDay(p); err != nil {
		return err
	}

	idx := len(g.arena)
	g.arena = append(g.arena, entry{placement: p, live: true})

	ensureSlotMap(g.bySection, p.Section)[p.Slot] = append(g.bySection[p.Section][p.Slot], idx)
	if p.FacultyID != "" {
		ensureSlotMap(g.byFaculty, p.FacultyID)[p.Slot] = append(g.byFaculty[p.FacultyID][p.Slot], idx)
	}
	if p.RoomNumber != "" {
		ensureSlotMap(g.byRoom, p.RoomNumber)[p.Slot] = append(g.byRoom[p.RoomNumber][p.Slot], idx)
	}

	if g.hours[p.Section] == nil {
		g.hours[p.Section] = make(map[string]int)
	}
	// A batch-parallel slot counts once toward credit hours: only the
	// first batch placement at a (section, subject, slot) increments H.
	if !p.IsBatch() || g.isFirstBatchAtSlot(p) {
		g.hours[p.Section][p.SubjectCode]++
	}

	return nil
}

func (g *Grid) isFirstBatchAtSlot(p catalog.Placement) bool {
	for _, existing := range g.Occupied(p.Section, p.Slot) {
		if existing.SubjectCode == p.SubjectCode && existing.Batch != p.Batch {
			return false
		}
	}
	return true
}

func (g *Grid) checkSectionConflict(p catalog.Placement) error {
	existing := g.Occupied(p.Section, p.Slot)
	if len(existing) == 0 {
		return nil
	}
	if !p.IsBatch() {
		return &RejectError{Reason: ReasonSectionConflict}
	}
	for _, e := range existing {
		if !e.IsBatch() {
			return &RejectError{Reason: ReasonSectionConflict}
		}
		if e.SubjectCode != p.SubjectCode {
			return &RejectError{Reason: ReasonBatchMismatch}
		}
		if e.Batch == p.Batch {
			return &RejectError{Reason: ReasonBatchMismatch}
		}
	}
	return nil
}

func (g *Grid) checkTheoryOncePerDay(p catalog.Placement) error {
	subj, ok := g.subjectByCode[p.SubjectCode]
	if !ok || subj.Type != catalog.Theory {
		return nil
	}
	for slot, idxs := range g.bySection[p.Section] {
		if slot.Day != p.Slot.Day || slot == p.Slot {
			continue
		}
		for _, i := range idxs {
			if g.arena[i].live && g.arena[i].placement.SubjectCode == p.SubjectCode {
				return &RejectError{Reason: ReasonSameTheoryTwiceInDay}
			}
		}
	}
	return nil
}

// Remove deletes the given placement; it must be the exact inverse of a
// prior successful Add and is required to succeed.
func (g *Grid) Remove(p catalog.Placement) {
	idx := g.findLiveIndex(p)
	if idx < 0 {
		return
	}
	g.arena[idx].live = false

	removeIndex(g.bySection[p.Section], p.Slot, idx)
	if p.FacultyID != "" {
		removeIndex(g.byFaculty[p.FacultyID], p.Slot, idx)
	}
	if p.RoomNumber != "" {
		removeIndex(g.byRoom[p.RoomNumber], p.Slot, idx)
	}

	if !p.IsBatch() || g.isFirstBatchAtSlot(p) {
		if g.hours[p.Section][p.SubjectCode] > 0 {
			g.hours[p.Section][p.SubjectCode]--
		}
	}
}

func (g *Grid) findLiveIndex(p catalog.Placement) int {
	for _, i := range g.bySection[p.Section][p.Slot] {
		if !g.arena[i].live {
			continue
		}
		e := g.arena[i].placement
		if e.SubjectCode == p.SubjectCode && e.FacultyID == p.FacultyID &&
			e.RoomNumber == p.RoomNumber && e.Batch == p.Batch && e.IsLabContinuation == p.IsLabContinuation {
			return i
		}
	}
	return -1
}

func removeIndex(m map[catalog.SlotKey][]int, slot catalog.SlotKey, idx int) {
	list := m[slot]
	for i, v := range list {
		if v == idx {
			m[slot] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// AllPlacements returns every live placement, stably sorted by
// (section, day, period, batch) for deterministic iteration.
func (g *Grid) AllPlacements() []catalog.Placement {
	var out []catalog.Placement
	for _, e := range g.arena {
		if e.live {
			out = append(out, e.placement)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Section != b.Section {
			return a.Section < b.Section
		}
		if a.Slot.Day != b.Slot.Day {
			return a.Slot.Day < b.Slot.Day
		}
		if a.Slot.Period != b.Slot.Period {
			return a.Slot.Period < b.Slot.Period
		}
		return a.Batch < b.Batch
	})
	return out
}

// OccupiedPeriods returns the sorted, distinct periods the section
// occupies on the given day.
func (g *Grid) OccupiedPeriods(section, day string) []int {
	seen := make(map[int]bool)
	for slot := range g.bySection[section] {
		if slot.Day != day {
			continue
		}
		if len(g.Occupied(section, slot)) > 0 {
			seen[slot.Period] = true
		}
	}
	periods := make([]int, 0, len(seen))
	for p := range seen {
		periods = append(periods, p)
	}
	sort.Ints(periods)
	return periods
}
