package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vishwaksen/campus-scheduler/internal/catalog"
	"github.com/vishwaksen/campus-scheduler/internal/engine"
)

func TestToEngineRequestDefaultsAlgorithmToHybrid(t *testing.T) {
	req := ScheduleGenerateRequest{
		Semester: 3,
		Branch:   "CSDS",
		Sections: []string{"A"},
		Subjects: []SubjectInput{{Code: "CS31", Type: "theory"}},
		Faculty:  []FacultyInput{{ID: "F1", Subjects: []string{"CS31"}}},
		Rooms:    []RoomInput{{Number: "501", Type: "classroom"}},
		Days:     []string{"Monday"},
	}

	out := req.ToEngineRequest()

	assert.Equal(t, engine.Hybrid, out.Config.Algorithm)
}

func TestToEngineRequestBuildsFacultyAvailabilityAndSubjectSets(t *testing.T) {
	req := ScheduleGenerateRequest{
		Faculty: []FacultyInput{{
			ID:               "F1",
			Subjects:         []string{"CS31", "CS32"},
			UnavailableSlots: []SlotInput{{Day: "Monday", Period: 1}},
		}},
		Algorithm: "greedy",
	}

	out := req.ToEngineRequest()

	fac := out.Faculty[0]
	assert.True(t, fac.CanTeach("CS31"))
	assert.True(t, fac.CanTeach("CS32"))
	assert.False(t, fac.CanTeach("CS99"))
	assert.True(t, fac.IsUnavailable(catalog.SlotKey{Day: "Monday", Period: 1}))
	assert.False(t, fac.IsUnavailable(catalog.SlotKey{Day: "Tuesday", Period: 1}))
}

func TestToEngineRequestBuildsFixedSlotsKeyedByShortLabel(t *testing.T) {
	req := ScheduleGenerateRequest{
		FixedSlots: []FixedSlotInput{
			{SubjectShort: "YOGA", Slots: []SlotInput{{Day: "Monday", Period: 9}}},
		},
	}

	out := req.ToEngineRequest()

	assert.Equal(t, []catalog.SlotKey{{Day: "Monday", Period: 9}}, out.Config.FixedSlots["YOGA"])
}
