package placer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishwaksen/campus-scheduler/internal/catalog"
	"github.com/vishwaksen/campus-scheduler/internal/feasibility"
	"github.com/vishwaksen/campus-scheduler/internal/grid"
)

func TestPlaceFillsEverySectionToItsRequiredHours(t *testing.T) {
	subjects := []catalog.Subject{
		{Code: "CS31", ShortLabel: "DSA", Type: catalog.Theory, HoursPerWeek: 3, Priority: 1},
		{Code: "CS32", ShortLabel: "NET", Type: catalog.Theory, HoursPerWeek: 3, Priority: 1},
	}
	faculty := []catalog.Faculty{
		{ID: "F1", Subjects: map[string]bool{"CS31": true}, MaxHoursPerWeek: 20},
		{ID: "F2", Subjects: map[string]bool{"CS32": true}, MaxHoursPerWeek: 20},
	}
	rooms := []catalog.Room{{Number: "501", Type: catalog.Classroom}}
	sections := []catalog.Section{{Name: "A"}}

	g := grid.New(subjects)
	o := feasibility.New(g, faculty, rooms, subjects)
	cfg := Config{Days: []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}, PeriodsPerDay: 9}

	err := Place(g, o, sections, subjects, rooms, cfg)

	require.NoError(t, err)
	assert.Equal(t, 3, g.Hours("A", "CS31"))
	assert.Equal(t, 3, g.Hours("A", "CS32"))
}

func TestPlaceHonorsFixedSlots(t *testing.T) {
	subjects := []catalog.Subject{{Code: "YOGA3", ShortLabel: "YOGA", Type: catalog.Yoga, HoursPerWeek: 1}}
	faculty := []catalog.Faculty{{ID: "F1", Subjects: map[string]bool{"YOGA3": true}}}
	rooms := []catalog.Room{{Number: "501", Type: catalog.Classroom}}
	sections := []catalog.Section{{Name: "A"}}

	g := grid.New(subjects)
	o := feasibility.New(g, faculty, rooms, subjects)
	cfg := Config{
		Days:          []string{"Monday"},
		PeriodsPerDay: 9,
		FixedSlots:    map[string][]catalog.SlotKey{"YOGA": {{Day: "Monday", Period: 9}}},
	}

	err := Place(g, o, sections, subjects, rooms, cfg)

	require.NoError(t, err)
	placements := g.Occupied("A", catalog.SlotKey{Day: "Monday", Period: 9})
	require.Len(t, placements, 1)
	assert.Equal(t, "YOGA3", placements[0].SubjectCode)
}

func TestPlaceReturnsFixedSlotInfeasibleWhenNoFacultyAvailable(t *testing.T) {
	subjects := []catalog.Subject{{Code: "YOGA3", ShortLabel: "YOGA", Type: catalog.Yoga, HoursPerWeek: 1}}
	faculty := []catalog.Faculty{{
		ID:               "F1",
		Subjects:         map[string]bool{"YOGA3": true},
		UnavailableSlots: map[catalog.SlotKey]bool{{Day: "Monday", Period: 9}: true},
	}}
	rooms := []catalog.Room{{Number: "AR1", Type: catalog.ActivityRoom}}
	sections := []catalog.Section{{Name: "A"}}

	g := grid.New(subjects)
	o := feasibility.New(g, faculty, rooms, subjects)
	cfg := Config{
		Days:          []string{"Monday"},
		PeriodsPerDay: 9,
		FixedSlots:    map[string][]catalog.SlotKey{"YOGA": {{Day: "Monday", Period: 9}}},
	}

	err := Place(g, o, sections, subjects, rooms, cfg)

	var fixedErr *FixedSlotInfeasible
	require.ErrorAs(t, err, &fixedErr)
}
