package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishwaksen/campus-scheduler/internal/catalog"
)

func theorySubject(code string) catalog.Subject {
	return catalog.Subject{Code: code, Type: catalog.Theory}
}

func labSubject(code string) catalog.Subject {
	return catalog.Subject{Code: code, Type: catalog.Lab, BatchesRequired: true}
}

func TestAddRejectsSectionConflict(t *testing.T) {
	g := New([]catalog.Subject{theorySubject("CS31")})
	slot := catalog.SlotKey{Day: "Monday", Period: 1}

	require.NoError(t, g.Add(catalog.Placement{Section: "A", Slot: slot, SubjectCode: "CS31", FacultyID: "F1", RoomNumber: "501"}))

	err := g.Add(catalog.Placement{Section: "A", Slot: slot, SubjectCode: "CS32", FacultyID: "F2", RoomNumber: "502"})
	var rejectErr *RejectError
	require.ErrorAs(t, err, &rejectErr)
	assert.Equal(t, ReasonSectionConflict, rejectErr.Reason)
}

func TestAddRejectsTeacherConflictAcrossSections(t *testing.T) {
	g := New([]catalog.Subject{theorySubject("CS31")})
	slot := catalog.SlotKey{Day: "Monday", Period: 1}

	require.NoError(t, g.Add(catalog.Placement{Section: "A", Slot: slot, SubjectCode: "CS31", FacultyID: "F1", RoomNumber: "501"}))

	err := g.Add(catalog.Placement{Section: "B", Slot: slot, SubjectCode: "CS31", FacultyID: "F1", RoomNumber: "502"})
	var rejectErr *RejectError
	require.ErrorAs(t, err, &rejectErr)
	assert.Equal(t, ReasonTeacherConflict, rejectErr.Reason)
}

func TestAddRejectsRoomConflict(t *testing.T) {
	g := New([]catalog.Subject{theorySubject("CS31")})
	slot := catalog.SlotKey{Day: "Monday", Period: 1}

	require.NoError(t, g.Add(catalog.Placement{Section: "A", Slot: slot, SubjectCode: "CS31", FacultyID: "F1", RoomNumber: "501"}))

	err := g.Add(catalog.Placement{Section: "B", Slot: slot, SubjectCode: "CS31", FacultyID: "F2", RoomNumber: "501"})
	var rejectErr *RejectError
	require.ErrorAs(t, err, &rejectErr)
	assert.Equal(t, ReasonRoomConflict, rejectErr.Reason)
}

func TestAddRejectsSameTheorySubjectTwiceInDay(t *testing.T) {
	g := New([]catalog.Subject{theorySubject("CS31")})

	require.NoError(t, g.Add(catalog.Placement{
		Section: "A", Slot: catalog.SlotKey{Day: "Monday", Period: 1},
		SubjectCode: "CS31", FacultyID: "F1", RoomNumber: "501",
	}))

	err := g.Add(catalog.Placement{
		Section: "A", Slot: catalog.SlotKey{Day: "Monday", Period: 4},
		SubjectCode: "CS31", FacultyID: "F1", RoomNumber: "501",
	})
	var rejectErr *RejectError
	require.ErrorAs(t, err, &rejectErr)
	assert.Equal(t, ReasonSameTheoryTwiceInDay, rejectErr.Reason)
}

func TestAddAllowsBatchParallelLabsSameTeacherDifferentBatch(t *testing.T) {
	g := New([]catalog.Subject{labSubject("CSL36")})
	slot := catalog.SlotKey{Day: "Monday", Period: 1}

	require.NoError(t, g.Add(catalog.Placement{
		Section: "A", Slot: slot, SubjectCode: "CSL36", FacultyID: "F1", RoomNumber: "CL1", Batch: "A1",
	}))
	require.NoError(t, g.Add(catalog.Placement{
		Section: "A", Slot: slot, SubjectCode: "CSL36", FacultyID: "F2", RoomNumber: "CL2", Batch: "A2",
	}))

	assert.Equal(t, 1, g.Hours("A", "CSL36"))
}

func TestAddRejectsBatchPlacementAgainstNonBatchOccupantAsSectionConflict(t *testing.T) {
	g := New([]catalog.Subject{theorySubject("CS31"), labSubject("CSL36")})
	slot := catalog.SlotKey{Day: "Monday", Period: 1}

	require.NoError(t, g.Add(catalog.Placement{Section: "A", Slot: slot, SubjectCode: "CS31", FacultyID: "F1", RoomNumber: "501"}))

	err := g.Add(catalog.Placement{Section: "A", Slot: slot, SubjectCode: "CSL36", FacultyID: "F2", RoomNumber: "CL1", Batch: "A1"})
	var rejectErr *RejectError
	require.ErrorAs(t, err, &rejectErr)
	assert.Equal(t, ReasonSectionConflict, rejectErr.Reason)
}

func TestRemoveIsExactInverseOfAdd(t *testing.T) {
	g := New([]catalog.Subject{theorySubject("CS31")})
	p := catalog.Placement{Section: "A", Slot: catalog.SlotKey{Day: "Monday", Period: 1}, SubjectCode: "CS31", FacultyID: "F1", RoomNumber: "501"}

	require.NoError(t, g.Add(p))
	assert.Equal(t, 1, g.Hours("A", "CS31"))
	assert.True(t, g.RoomBusy("501", p.Slot))

	g.Remove(p)

	assert.Equal(t, 0, g.Hours("A", "CS31"))
	assert.False(t, g.RoomBusy("501", p.Slot))
	assert.Empty(t, g.Occupied("A", p.Slot))

	// Re-adding the identical placement after removal must succeed again,
	// proving Remove leaves no residual state behind.
	require.NoError(t, g.Add(p))
}

func TestAllPlacementsIsStablySorted(t *testing.T) {
	g := New([]catalog.Subject{theorySubject("CS31"), theorySubject("CS32")})

	require.NoError(t, g.Add(catalog.Placement{Section: "B", Slot: catalog.SlotKey{Day: "Monday", Period: 2}, SubjectCode: "CS32", FacultyID: "F2", RoomNumber: "502"}))
	require.NoError(t, g.Add(catalog.Placement{Section: "A", Slot: catalog.SlotKey{Day: "Tuesday", Period: 1}, SubjectCode: "CS31", FacultyID: "F1", RoomNumber: "501"}))
	require.NoError(t, g.Add(catalog.Placement{Section: "A", Slot: catalog.SlotKey{Day: "Monday", Period: 1}, SubjectCode: "CS31", FacultyID: "F1", RoomNumber: "501"}))

	out := g.AllPlacements()
	require.Len(t, out, 3)
	assert.Equal(t, "A", out[0].Section)
	assert.Equal(t, "Monday", out[0].Slot.Day)
	assert.Equal(t, "A", out[1].Section)
	assert.Equal(t, "Tuesday", out[1].Slot.Day)
	assert.Equal(t, "B", out[2].Section)
}

func TestOccupiedPeriodsIgnoresRemovedPlacements(t *testing.T) {
	g := New([]catalog.Subject{theorySubject("CS31")})
	p := catalog.Placement{Section: "A", Slot: catalog.SlotKey{Day: "Monday", Period: 3}, SubjectCode: "CS31", FacultyID: "F1", RoomNumber: "501"}

	require.NoError(t, g.Add(p))
	assert.Equal(t, []int{3}, g.OccupiedPeriods("A", "Monday"))

	g.Remove(p)
	assert.Empty(t, g.OccupiedPeriods("A", "Monday"))
}
