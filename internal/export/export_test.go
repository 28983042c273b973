package export

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishwaksen/campus-scheduler/internal/catalog"
	"github.com/vishwaksen/campus-scheduler/internal/grid"
	"github.com/vishwaksen/campus-scheduler/internal/validator"
)

func sampleGridAndSections() (*grid.Grid, []catalog.Subject, []catalog.Section) {
	subjects := []catalog.Subject{{Code: "CS31", ShortLabel: "DSA", Type: catalog.Theory}}
	g := grid.New(subjects)
	_ = g.Add(catalog.Placement{
		Section: "A", Slot: catalog.SlotKey{Day: "Monday", Period: 1},
		SubjectCode: "CS31", FacultyID: "F1", RoomNumber: "501",
	})
	return g, subjects, []catalog.Section{{Name: "A"}}
}

func TestBuildPopulatesOccupiedAndEmptySlots(t *testing.T) {
	g, subjects, sections := sampleGridAndSections()
	report := validator.Report{IsValid: true, Score: 1000}

	doc := Build(g, subjects, sections, []string{"Monday"}, 2, Metadata{Branch: "CSDS", Semester: 3}, report)

	require.Len(t, doc.Timetables, 1)
	day := doc.Timetables[0].Days[0]
	require.Len(t, day.Slots, 2)
	require.Len(t, day.Slots[0].Classes, 1)
	assert.Equal(t, "DSA", day.Slots[0].Classes[0].SubjectShort)
	assert.Empty(t, day.Slots[1].Classes)
	assert.True(t, doc.Metadata.IsValid)
	assert.Equal(t, 1000, doc.Metadata.Score)
}

func TestJSONRoundTrips(t *testing.T) {
	g, subjects, sections := sampleGridAndSections()
	doc := Build(g, subjects, sections, []string{"Monday"}, 1, Metadata{Branch: "CSDS"}, validator.Report{IsValid: true})

	payload, err := JSON(doc)
	require.NoError(t, err)

	var decoded Document
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, doc.Metadata.Branch, decoded.Metadata.Branch)
	assert.Equal(t, doc.Timetables[0].Section, decoded.Timetables[0].Section)
}

func TestCSVEmitsOneRowPerCellIncludingEmpty(t *testing.T) {
	g, subjects, sections := sampleGridAndSections()
	doc := Build(g, subjects, sections, []string{"Monday"}, 2, Metadata{}, validator.Report{IsValid: true})

	payload, err := CSV(doc)
	require.NoError(t, err)
	text := string(payload)

	assert.Contains(t, text, "Section,Day,Period,Time,Subject,Faculty,Room,Batch,Type")
	assert.Contains(t, text, "CS31")
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	// header + one occupied period + one empty period
	assert.Len(t, lines, 3)
}

func TestHTMLRendersOneTablePerSection(t *testing.T) {
	g, subjects, sections := sampleGridAndSections()
	doc := Build(g, subjects, sections, []string{"Monday"}, 2, Metadata{Branch: "CSDS", Semester: 3}, validator.Report{IsValid: true})

	payload, err := HTML(doc)
	require.NoError(t, err)
	text := string(payload)

	assert.Contains(t, text, "<h2>Section A</h2>")
	assert.Contains(t, text, "DSA")
}
