// Package export renders a Grid into the three output formats spec.md §6
// names: JSON, CSV and HTML. Grounded on the teacher's
// pkg/export.CSVExporter and dto.GenerateScheduleResponse JSON shape,
// generalized from the teacher's single-teacher-assignment model to the
// richer grid.Grid this domain schedules.
package export

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/vishwaksen/campus-scheduler/internal/catalog"
	"github.com/vishwaksen/campus-scheduler/internal/grid"
	"github.com/vishwaksen/campus-scheduler/internal/validator"
)

// Metadata describes the run that produced a Document, grounded on the
// teacher's GenerateScheduleResponse envelope fields.
type Metadata struct {
	Semester    int       `json:"semester"`
	Branch      string    `json:"branch"`
	Sections    []string  `json:"sections"`
	GeneratedAt time.Time `json:"generated_at"`
	Algorithm   string    `json:"algorithm"`
	Score       int       `json:"score"`
	IsValid     bool      `json:"is_valid"`
}

// Class is one scheduled session, flattened for export.
type Class struct {
	SubjectCode    string `json:"subject_code"`
	SubjectShort   string `json:"subject_short"`
	SubjectType    string `json:"subject_type"`
	Batch          string `json:"batch,omitempty"`
	FacultyID      string `json:"faculty_id,omitempty"`
	Room           string `json:"room,omitempty"`
	IsContinuation bool   `json:"is_continuation"`
}

// Slot is one (day, period) cell, possibly empty.
type Slot struct {
	Period  int     `json:"period"`
	Classes []Class `json:"classes"`
}

// Day groups every slot for one working day.
type Day struct {
	Name  string `json:"name"`
	Slots []Slot `json:"slots"`
}

// Timetable is one section's full week.
type Timetable struct {
	Section string `json:"section"`
	Days    []Day  `json:"days"`
}

// Document is the full exportable result of one scheduling run.
type Document struct {
	Metadata   Metadata    `json:"metadata"`
	Timetables []Timetable `json:"timetables"`
}

// Build assembles a Document from a Grid and its validation Report.
func Build(g *grid.Grid, subjects []catalog.Subject, sections []catalog.Section, days []string, periodsPerDay int, meta Metadata, report validator.Report) Document {
	subjectByCode := make(map[string]catalog.Subject, len(subjects))
	for _, s := range subjects {
		subjectByCode[s.Code] = s
	}
	meta.Score = report.Score
	meta.IsValid = report.IsValid

	timetables := make([]Timetable, 0, len(sections))
	for _, section := range sections {
		timetables = append(timetables, buildTimetable(g, section, subjectByCode, days, periodsPerDay))
	}
	return Document{Metadata: meta, Timetables: timetables}
}

func buildTimetable(g *grid.Grid, section catalog.Section, subjectByCode map[string]catalog.Subject, days []string, periodsPerDay int) Timetable {
	t := Timetable{Section: section.Name}
	for _, day := range days {
		d := Day{Name: day}
		for period := 1; period <= periodsPerDay; period++ {
			placements := g.Occupied(section.Name, catalog.SlotKey{Day: day, Period: period})
			sort.Slice(placements, func(i, j int) bool { return placements[i].Batch < placements[j].Batch })
			slot := Slot{Period: period}
			for _, p := range placements {
				subj := subjectByCode[p.SubjectCode]
				slot.Classes = append(slot.Classes, Class{
					SubjectCode:    p.SubjectCode,
					SubjectShort:   subj.ShortLabel,
					SubjectType:    string(subj.Type),
					Batch:          p.Batch,
					FacultyID:      p.FacultyID,
					Room:           p.RoomNumber,
					IsContinuation: p.IsLabContinuation,
				})
			}
			d.Slots = append(d.Slots, slot)
		}
		t.Days = append(t.Days, d)
	}
	return t
}

// JSON marshals a Document with stable field ordering (via struct tags)
// and two-space indentation, matching the teacher's response formatting
// convention for human-reviewable payloads.
func JSON(doc Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}
