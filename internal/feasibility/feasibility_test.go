package feasibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishwaksen/campus-scheduler/internal/catalog"
	"github.com/vishwaksen/campus-scheduler/internal/grid"
)

func TestCheckSingleFlagsUnqualifiedFaculty(t *testing.T) {
	subjects := []catalog.Subject{{Code: "CS31", Type: catalog.Theory}}
	g := grid.New(subjects)
	o := New(g, []catalog.Faculty{{ID: "F1", Subjects: map[string]bool{}}}, nil, subjects)

	reasons := o.CheckSingle(catalog.Placement{Section: "A", Slot: catalog.SlotKey{Day: "Monday", Period: 1}, SubjectCode: "CS31", FacultyID: "F1"})

	assert.Contains(t, reasons, FacultyNotQualified)
}

func TestCheckSingleFlagsUnavailableFaculty(t *testing.T) {
	subjects := []catalog.Subject{{Code: "CS31", Type: catalog.Theory}}
	faculty := []catalog.Faculty{{
		ID:               "F1",
		Subjects:         map[string]bool{"CS31": true},
		UnavailableSlots: map[catalog.SlotKey]bool{{Day: "Monday", Period: 1}: true},
	}}
	g := grid.New(subjects)
	o := New(g, faculty, nil, subjects)

	reasons := o.CheckSingle(catalog.Placement{Section: "A", Slot: catalog.SlotKey{Day: "Monday", Period: 1}, SubjectCode: "CS31", FacultyID: "F1"})

	assert.Contains(t, reasons, FacultyUnavailable)
}

func TestCheckSingleFlagsBadLabStart(t *testing.T) {
	subjects := []catalog.Subject{{Code: "CSL36", Type: catalog.Lab}}
	faculty := []catalog.Faculty{{ID: "F1", Subjects: map[string]bool{"CSL36": true}}}
	g := grid.New(subjects)
	o := New(g, faculty, nil, subjects)

	reasons := o.CheckSingle(catalog.Placement{Section: "A", Slot: catalog.SlotKey{Day: "Monday", Period: 2}, SubjectCode: "CSL36", FacultyID: "F1"})

	assert.Contains(t, reasons, LabBadStart)
}

func TestCheckSingleIsEmptyForAFeasibleCandidate(t *testing.T) {
	subjects := []catalog.Subject{{Code: "CS31", Type: catalog.Theory}}
	faculty := []catalog.Faculty{{ID: "F1", Subjects: map[string]bool{"CS31": true}}}
	rooms := []catalog.Room{{Number: "501", Type: catalog.Classroom}}
	g := grid.New(subjects)
	o := New(g, faculty, rooms, subjects)

	reasons := o.CheckSingle(catalog.Placement{Section: "A", Slot: catalog.SlotKey{Day: "Monday", Period: 1}, SubjectCode: "CS31", FacultyID: "F1", RoomNumber: "501"})

	assert.Empty(t, reasons)
}

func TestQualifiedFacultyExcludesUnavailableAndBusy(t *testing.T) {
	subjects := []catalog.Subject{{Code: "CS31", Type: catalog.Theory}}
	slot := catalog.SlotKey{Day: "Monday", Period: 1}
	faculty := []catalog.Faculty{
		{ID: "F1", Subjects: map[string]bool{"CS31": true}},
		{ID: "F2", Subjects: map[string]bool{"CS31": true}, UnavailableSlots: map[catalog.SlotKey]bool{slot: true}},
		{ID: "F3", Subjects: map[string]bool{}},
	}
	g := grid.New(subjects)
	require.NoError(t, g.Add(catalog.Placement{Section: "B", Slot: slot, SubjectCode: "CS31", FacultyID: "F1", RoomNumber: "502"}))
	o := New(g, faculty, nil, subjects)

	ids := o.QualifiedFaculty("CS31", slot, false, "A")

	assert.Empty(t, ids, "F1 is busy elsewhere, F2 is unavailable, F3 isn't qualified")
}

func TestQualifiedFacultyAllowsBatchLabOverlapForSameSectionSubject(t *testing.T) {
	subjects := []catalog.Subject{{Code: "CSL36", Type: catalog.Lab}}
	slot := catalog.SlotKey{Day: "Monday", Period: 1}
	faculty := []catalog.Faculty{{ID: "F1", Subjects: map[string]bool{"CSL36": true}}}
	g := grid.New(subjects)
	require.NoError(t, g.Add(catalog.Placement{Section: "A", Slot: slot, SubjectCode: "CSL36", FacultyID: "F1", RoomNumber: "CL1", Batch: "A1"}))
	o := New(g, faculty, nil, subjects)

	ids := o.QualifiedFaculty("CSL36", slot, true, "A")

	assert.Equal(t, []string{"F1"}, ids)
}

func TestAvailableRoomsFallsBackToClassroomForActivitySubjects(t *testing.T) {
	rooms := []catalog.Room{
		{Number: "AR1", Type: catalog.ActivityRoom},
		{Number: "501", Type: catalog.Classroom},
	}
	g := grid.New(nil)
	slot := catalog.SlotKey{Day: "Monday", Period: 1}
	require.NoError(t, g.Add(catalog.Placement{Section: "A", Slot: slot, SubjectCode: "YOGA", FacultyID: "F1", RoomNumber: "AR1"}))
	o := New(g, nil, rooms, nil)

	numbers := o.AvailableRooms(catalog.ActivityRoom, slot, true)

	assert.Equal(t, []string{"501"}, numbers)
}
