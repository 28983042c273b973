package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishwaksen/campus-scheduler/internal/catalog"
	"github.com/vishwaksen/campus-scheduler/internal/grid"
)

func baseCatalog() ([]catalog.Section, []catalog.Subject, []catalog.Faculty, []catalog.Room) {
	sections := []catalog.Section{{Name: "A"}}
	subjects := []catalog.Subject{
		{Code: "CS31", Type: catalog.Theory, HoursPerWeek: 1},
	}
	faculty := []catalog.Faculty{
		{ID: "F1", Subjects: map[string]bool{"CS31": true}},
	}
	rooms := []catalog.Room{{Number: "501", Type: catalog.Classroom}}
	return sections, subjects, faculty, rooms
}

func TestValidateReportsCleanGridAsValid(t *testing.T) {
	sections, subjects, faculty, rooms := baseCatalog()
	g := grid.New(subjects)
	require.NoError(t, g.Add(catalog.Placement{Section: "A", Slot: catalog.SlotKey{Day: "Monday", Period: 1}, SubjectCode: "CS31", FacultyID: "F1", RoomNumber: "501"}))

	report := Validate(g, sections, subjects, faculty, rooms, DefaultOptions([]string{"Monday"}, 9))

	assert.True(t, report.IsValid)
	assert.Empty(t, report.HardViolations)
	assert.Equal(t, 1000, report.Score)
}

func TestValidateCatchesUnqualifiedFaculty(t *testing.T) {
	sections, subjects, _, rooms := baseCatalog()
	faculty := []catalog.Faculty{{ID: "F1", Subjects: map[string]bool{}}}
	g := grid.New(subjects)
	require.NoError(t, g.Add(catalog.Placement{Section: "A", Slot: catalog.SlotKey{Day: "Monday", Period: 1}, SubjectCode: "CS31", FacultyID: "F1", RoomNumber: "501"}))

	report := Validate(g, sections, subjects, faculty, rooms, DefaultOptions([]string{"Monday"}, 9))

	require.False(t, report.IsValid)
	var found bool
	for _, v := range report.HardViolations {
		if v.Rule == "faculty_not_qualified" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestValidateCatchesUnmetHoursPerWeek(t *testing.T) {
	sections, subjects, faculty, rooms := baseCatalog()
	g := grid.New(subjects) // no placements at all

	report := Validate(g, sections, subjects, faculty, rooms, DefaultOptions([]string{"Monday"}, 9))

	require.False(t, report.IsValid)
	var found bool
	for _, v := range report.HardViolations {
		if v.Rule == "hours_unmet" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestValidateCatchesLabBlockStartingAtInvalidPeriod(t *testing.T) {
	sections := []catalog.Section{{Name: "A"}}
	subjects := []catalog.Subject{{Code: "CSL36", Type: catalog.Lab, HoursPerWeek: 2}}
	faculty := []catalog.Faculty{{ID: "F1", Subjects: map[string]bool{"CSL36": true}}}
	rooms := []catalog.Room{{Number: "CL1", Type: catalog.ComputerLab}}

	g := grid.New(subjects)
	// Lab blocks must start at period 1, 3 or 5; period 2 is invalid.
	require.NoError(t, g.Add(catalog.Placement{Section: "A", Slot: catalog.SlotKey{Day: "Monday", Period: 2}, SubjectCode: "CSL36", FacultyID: "F1", RoomNumber: "CL1"}))
	require.NoError(t, g.Add(catalog.Placement{Section: "A", Slot: catalog.SlotKey{Day: "Monday", Period: 3}, SubjectCode: "CSL36", FacultyID: "F1", RoomNumber: "CL1"}))

	report := Validate(g, sections, subjects, faculty, rooms, DefaultOptions([]string{"Monday"}, 9))

	require.False(t, report.IsValid)
	var found bool
	for _, v := range report.HardViolations {
		if v.Rule == "lab_bad_start" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestValidateCatchesDayGapAsHardViolation(t *testing.T) {
	sections := []catalog.Section{{Name: "A"}}
	subjects := []catalog.Subject{
		{Code: "CS31", Type: catalog.Theory, HoursPerWeek: 1},
		{Code: "CS32", Type: catalog.Theory, HoursPerWeek: 1},
	}
	faculty := []catalog.Faculty{{ID: "F1", Subjects: map[string]bool{"CS31": true, "CS32": true}}}
	rooms := []catalog.Room{{Number: "501", Type: catalog.Classroom}}

	g := grid.New(subjects)
	// Period 2 is left empty between two occupied periods on the same day.
	require.NoError(t, g.Add(catalog.Placement{Section: "A", Slot: catalog.SlotKey{Day: "Monday", Period: 1}, SubjectCode: "CS31", FacultyID: "F1", RoomNumber: "501"}))
	require.NoError(t, g.Add(catalog.Placement{Section: "A", Slot: catalog.SlotKey{Day: "Monday", Period: 3}, SubjectCode: "CS32", FacultyID: "F1", RoomNumber: "501"}))

	report := Validate(g, sections, subjects, faculty, rooms, DefaultOptions([]string{"Monday"}, 9))

	require.False(t, report.IsValid, "a gap inside a section's occupied window is a hard violation")
	var found bool
	for _, v := range report.HardViolations {
		if v.Rule == "day_gap" {
			found = true
		}
	}
	assert.True(t, found)
	assert.Equal(t, 900, report.Score)
}

func TestValidateCatchesEarlyPeriodExcess(t *testing.T) {
	sections := []catalog.Section{{Name: "A"}}
	subjects := []catalog.Subject{{Code: "CS31", Type: catalog.Theory, HoursPerWeek: 4}}
	faculty := []catalog.Faculty{{ID: "F1", Subjects: map[string]bool{"CS31": true}}}
	rooms := []catalog.Room{{Number: "501", Type: catalog.Classroom}}
	days := []string{"Monday", "Tuesday", "Wednesday", "Thursday"}

	g := grid.New(subjects)
	for _, day := range days {
		require.NoError(t, g.Add(catalog.Placement{Section: "A", Slot: catalog.SlotKey{Day: day, Period: 1}, SubjectCode: "CS31", FacultyID: "F1", RoomNumber: "501"}))
	}

	opts := DefaultOptions(days, 9)
	report := Validate(g, sections, subjects, faculty, rooms, opts)

	assert.True(t, report.IsValid, "early-period overuse is a soft violation")
	var found bool
	for _, v := range report.SoftViolations {
		if v.Rule == "early_period_excess" {
			found = true
		}
	}
	assert.True(t, found)
	assert.Equal(t, 1000-opts.EarlyPeriodPenalty, report.Score)
}

func TestLabStartValidOnlyAcceptsOddPeriodsUpToFive(t *testing.T) {
	assert.True(t, LabStartValid(1))
	assert.True(t, LabStartValid(3))
	assert.True(t, LabStartValid(5))
	assert.False(t, LabStartValid(2))
	assert.False(t, LabStartValid(7))
}
