package placer

import (
	"github.com/vishwaksen/campus-scheduler/internal/catalog"
	"github.com/vishwaksen/campus-scheduler/internal/feasibility"
	"github.com/vishwaksen/campus-scheduler/internal/grid"
)

// placeSingleBlock places one subject occupying [period, period+duration-1]
// for a whole section (no batch split): first qualified faculty and a
// room per period, per spec.md §4.5. On any sub-step failure every
// already-added placement of this block is rolled back and the call
// returns false.
func placeSingleBlock(g *grid.Grid, o *feasibility.Oracle, section string, day string, period int, subj catalog.Subject, roomType catalog.RoomType, fallback bool, homeRoom string) bool {
	var added []catalog.Placement
	duration := subj.Duration()

	for offset := 0; offset < duration; offset++ {
		slot := catalog.SlotKey{Day: day, Period: period + offset}

		faculty := firstQualified(o, subj.Code, slot, false, section)
		if faculty == "" {
			rollback(g, added)
			return false
		}

		room := pickRoom(o, subj, roomType, fallback, homeRoom, slot)
		if room == "" {
			rollback(g, added)
			return false
		}

		p := catalog.Placement{
			Section:           section,
			Slot:              slot,
			SubjectCode:       subj.Code,
			FacultyID:         faculty,
			RoomNumber:        room,
			IsLabContinuation: offset > 0,
		}
		if err := g.Add(p); err != nil {
			rollback(g, added)
			return false
		}
		added = append(added, p)
	}
	return true
}

// placeParallelLabBlock places a batch-parallel lab: for each period in
// the two-period span, one qualified-faculty list and a room list of
// length >= |batches| are fetched; batch i is assigned rooms[i] and
// faculty[i mod len(faculty)]. If any period cannot satisfy the full set
// of batches, the whole block is rolled back.
func placeParallelLabBlock(g *grid.Grid, o *feasibility.Oracle, section string, batches []string, day string, period int, subj catalog.Subject, roomType catalog.RoomType) bool {
	var added []catalog.Placement
	duration := subj.Duration()

	for offset := 0; offset < duration; offset++ {
		slot := catalog.SlotKey{Day: day, Period: period + offset}

		faculty := o.QualifiedFaculty(subj.Code, slot, true, section)
		rooms := o.AvailableRooms(roomType, slot, false)
		if len(faculty) == 0 || len(rooms) < len(batches) {
			rollback(g, added)
			return false
		}

		for i, batch := range batches {
			p := catalog.Placement{
				Section:           section,
				Slot:              slot,
				SubjectCode:       subj.Code,
				FacultyID:         faculty[i%len(faculty)],
				RoomNumber:        rooms[i],
				Batch:             batch,
				IsLabContinuation: offset > 0,
			}
			if err := g.Add(p); err != nil {
				rollback(g, added)
				return false
			}
			added = append(added, p)
		}
	}
	return true
}

func firstQualified(o *feasibility.Oracle, code string, slot catalog.SlotKey, forBatchLab bool, section string) string {
	qualified := o.QualifiedFaculty(code, slot, forBatchLab, section)
	if len(qualified) == 0 {
		return ""
	}
	return qualified[0]
}

// pickRoom implements the home-classroom policy of spec.md §4.4: for
// theory-like sessions the section's home classroom is preferred when
// free; otherwise (or for non-theory-like sessions) the first available
// room of the subject's preferred type is used, with activity-like
// fallback to any free classroom.
func pickRoom(o *feasibility.Oracle, subj catalog.Subject, roomType catalog.RoomType, fallback bool, homeRoom string, slot catalog.SlotKey) string {
	if subj.Type.IsTheoryLike() && homeRoom != "" && !o.Grid.RoomBusy(homeRoom, slot) {
		return homeRoom
	}
	rooms := o.AvailableRooms(roomType, slot, fallback)
	if len(rooms) == 0 {
		return ""
	}
	return rooms[0]
}

func rollback(g *grid.Grid, added []catalog.Placement) {
	for i := len(added) - 1; i >= 0; i-- {
		g.Remove(added[i])
	}
}
