package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishwaksen/campus-scheduler/internal/catalog"
)

func smallFeasibleRequest(algo Algorithm) Request {
	subjects := []catalog.Subject{
		{Code: "CS31", Label: "Data Structures", ShortLabel: "DSA", Type: catalog.Theory, HoursPerWeek: 2, Priority: 1},
		{Code: "CS32", Label: "Networks", ShortLabel: "NET", Type: catalog.Theory, HoursPerWeek: 2, Priority: 1},
	}
	faculty := []catalog.Faculty{
		{ID: "F1", Label: "Prof A", Subjects: map[string]bool{"CS31": true}, MaxHoursPerDay: 6, MaxHoursPerWeek: 20},
		{ID: "F2", Label: "Prof B", Subjects: map[string]bool{"CS32": true}, MaxHoursPerDay: 6, MaxHoursPerWeek: 20},
	}
	rooms := []catalog.Room{{Number: "501", Type: catalog.Classroom}}

	return Request{
		Semester: 3,
		Branch:   "CSDS",
		Sections: []string{"A"},
		Subjects: subjects,
		Faculty:  faculty,
		Rooms:    rooms,
		Config: Config{
			Days:          []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"},
			PeriodsPerDay: 9,
			Algorithm:     algo,
			Timeout:       5 * time.Second,
			Seed:          1,
		},
	}
}

func TestScheduleProducesValidGridForGreedy(t *testing.T) {
	resp, err := Schedule(context.Background(), smallFeasibleRequest(Greedy), nil)

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.True(t, resp.Validation.IsValid)
	assert.Empty(t, resp.Validation.HardViolations)
}

// TestScheduleDefaultsMaxConsecutiveTheoryWhenUnset guards against a
// caller (e.g. the CLI) that never sets Config.MaxConsecutiveTheory: the
// zero value must not be taken literally, or every single-period theory
// session on a day reports as a consecutive-run violation.
func TestScheduleDefaultsMaxConsecutiveTheoryWhenUnset(t *testing.T) {
	req := smallFeasibleRequest(Greedy)
	req.Config.MaxConsecutiveTheory = 0
	req.Config.LimitFirstPeriod = 0

	resp, err := Schedule(context.Background(), req, nil)

	require.NoError(t, err)
	assert.Empty(t, resp.Validation.SoftViolations)
	assert.Equal(t, 1000, resp.Validation.Score)
}

func TestScheduleProducesValidGridForBacktracking(t *testing.T) {
	resp, err := Schedule(context.Background(), smallFeasibleRequest(Backtracking), nil)

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.True(t, resp.Validation.IsValid)
}

func TestScheduleProducesValidGridForEvolutionary(t *testing.T) {
	req := smallFeasibleRequest(Evolutionary)
	req.Config.MaxGenerations = 50

	resp, err := Schedule(context.Background(), req, nil)

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.True(t, resp.Validation.IsValid)
}

func TestScheduleProducesValidGridForHybrid(t *testing.T) {
	resp, err := Schedule(context.Background(), smallFeasibleRequest(Hybrid), nil)

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.True(t, resp.Validation.IsValid)
}

func TestScheduleIsDeterministicAcrossRunsWithSameSeed(t *testing.T) {
	first, err := Schedule(context.Background(), smallFeasibleRequest(Greedy), nil)
	require.NoError(t, err)
	second, err := Schedule(context.Background(), smallFeasibleRequest(Greedy), nil)
	require.NoError(t, err)

	assert.Equal(t, first.Grid.AllPlacements(), second.Grid.AllPlacements())
}

func TestScheduleRejectsEmptySections(t *testing.T) {
	req := smallFeasibleRequest(Greedy)
	req.Sections = nil

	_, err := Schedule(context.Background(), req, nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInput))
}

func TestScheduleRejectsZeroPeriodsPerDay(t *testing.T) {
	req := smallFeasibleRequest(Greedy)
	req.Config.PeriodsPerDay = 0

	_, err := Schedule(context.Background(), req, nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInput))
}

func TestScheduleRejectsUnknownAlgorithm(t *testing.T) {
	req := smallFeasibleRequest(Algorithm("quantum"))

	_, err := Schedule(context.Background(), req, nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInput))
}

func TestScheduleReturnsInfeasibleWhenNoFacultyCanTeach(t *testing.T) {
	req := smallFeasibleRequest(Greedy)
	req.Faculty = []catalog.Faculty{{ID: "F1", Label: "Prof A", Subjects: map[string]bool{}}}

	_, err := Schedule(context.Background(), req, nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInfeasible))
}
