// Package dto holds the request/response shapes the HTTP surface binds
// and validates with go-playground/validator, grounded on the teacher's
// GenerateScheduleRequest/GenerateScheduleResponse struct-tag convention.
package dto

import (
	"time"

	"github.com/vishwaksen/campus-scheduler/internal/catalog"
	"github.com/vishwaksen/campus-scheduler/internal/engine"
)

// SubjectInput mirrors catalog.Subject with validator tags for the HTTP
// boundary; the engine package itself never imports a validation library
// (spec.md §7's requirement that the taxonomy not leak HTTP concerns
// into the engine core).
type SubjectInput struct {
	Code            string `json:"code" validate:"required"`
	Label           string `json:"label" validate:"required"`
	ShortLabel      string `json:"short_label" validate:"required"`
	Type            string `json:"type" validate:"required,oneof=theory lab audit mini_project tyl 9lpa yoga club"`
	HoursPerWeek    int    `json:"hours_per_week" validate:"min=0"`
	BatchesRequired bool   `json:"batches_required"`
	IsElective      bool   `json:"is_elective"`
	Priority        int    `json:"priority"`
}

// FacultyInput mirrors catalog.Faculty.
type FacultyInput struct {
	ID               string      `json:"id" validate:"required"`
	Label            string      `json:"label" validate:"required"`
	Subjects         []string    `json:"subjects" validate:"required,min=1,dive,required"`
	UnavailableSlots []SlotInput `json:"unavailable_slots"`
	MaxHoursPerDay   int         `json:"max_hours_per_day" validate:"min=0"`
	MaxHoursPerWeek  int         `json:"max_hours_per_week" validate:"min=0"`
}

// SlotInput mirrors catalog.SlotKey.
type SlotInput struct {
	Day    string `json:"day" validate:"required"`
	Period int    `json:"period" validate:"required,min=1"`
}

// RoomInput mirrors catalog.Room.
type RoomInput struct {
	Number string `json:"number" validate:"required"`
	Type   string `json:"type" validate:"required,oneof=classroom computer_lab electronics_lab seminar_hall activity_room"`
}

// FixedSlotInput mirrors a single entry of engine.Config.FixedSlots.
type FixedSlotInput struct {
	SubjectShort string      `json:"subject_short" validate:"required"`
	Slots        []SlotInput `json:"slots" validate:"required,min=1,dive"`
}

// ScheduleGenerateRequest is the body of POST /schedules/generate.
type ScheduleGenerateRequest struct {
	Semester             int                 `json:"semester" validate:"required,min=1,max=8"`
	Branch               string              `json:"branch" validate:"required"`
	Sections             []string            `json:"sections" validate:"required,min=1,dive,required"`
	SectionBatches       map[string][]string `json:"section_batches"`
	Subjects             []SubjectInput      `json:"subjects" validate:"required,min=1,dive"`
	Faculty              []FacultyInput      `json:"faculty" validate:"required,min=1,dive"`
	Rooms                []RoomInput         `json:"rooms" validate:"required,min=1,dive"`
	Days                 []string            `json:"days" validate:"required,min=1,dive,required"`
	PeriodsPerDay        int                 `json:"periods_per_day" validate:"required,min=1,max=16"`
	Algorithm            string              `json:"algorithm" validate:"omitempty,oneof=greedy backtracking evolutionary hybrid"`
	MaxConsecutiveTheory int                 `json:"max_consecutive_theory" validate:"min=0"`
	PreferMorningLabs    bool                `json:"prefer_morning_labs"`
	LimitFirstPeriod     int                 `json:"limit_first_period" validate:"min=0"`
	FixedSlots           []FixedSlotInput    `json:"fixed_slots"`
	TimeoutSeconds       int                 `json:"timeout_seconds" validate:"min=0"`
	Seed                 int64               `json:"seed"`
	MaxGenerations       int                 `json:"max_generations" validate:"min=0"`
}

// ToEngineRequest converts a validated ScheduleGenerateRequest into the
// engine's catalog-shaped Request.
func (r ScheduleGenerateRequest) ToEngineRequest() engine.Request {
	subjects := make([]catalog.Subject, len(r.Subjects))
	for i, s := range r.Subjects {
		subjects[i] = catalog.Subject{
			Code:            s.Code,
			Label:           s.Label,
			ShortLabel:      s.ShortLabel,
			Type:            catalog.SubjectType(s.Type),
			HoursPerWeek:    s.HoursPerWeek,
			BatchesRequired: s.BatchesRequired,
			IsElective:      s.IsElective,
			Priority:        s.Priority,
		}
	}

	faculty := make([]catalog.Faculty, len(r.Faculty))
	for i, f := range r.Faculty {
		subjSet := make(map[string]bool, len(f.Subjects))
		for _, code := range f.Subjects {
			subjSet[code] = true
		}
		unavailable := make(map[catalog.SlotKey]bool, len(f.UnavailableSlots))
		for _, s := range f.UnavailableSlots {
			unavailable[catalog.SlotKey{Day: s.Day, Period: s.Period}] = true
		}
		faculty[i] = catalog.Faculty{
			ID:               f.ID,
			Label:            f.Label,
			Subjects:         subjSet,
			UnavailableSlots: unavailable,
			MaxHoursPerDay:   f.MaxHoursPerDay,
			MaxHoursPerWeek:  f.MaxHoursPerWeek,
		}
	}

	rooms := make([]catalog.Room, len(r.Rooms))
	for i, room := range r.Rooms {
		rooms[i] = catalog.Room{Number: room.Number, Type: catalog.RoomType(room.Type)}
	}

	fixedSlots := make(map[string][]catalog.SlotKey, len(r.FixedSlots))
	for _, fs := range r.FixedSlots {
		slots := make([]catalog.SlotKey, len(fs.Slots))
		for i, s := range fs.Slots {
			slots[i] = catalog.SlotKey{Day: s.Day, Period: s.Period}
		}
		fixedSlots[fs.SubjectShort] = slots
	}

	algo := engine.Algorithm(r.Algorithm)
	if algo == "" {
		algo = engine.Hybrid
	}

	return engine.Request{
		Semester:       r.Semester,
		Branch:         r.Branch,
		Sections:       r.Sections,
		Subjects:       subjects,
		Faculty:        faculty,
		Rooms:          rooms,
		SectionBatches: r.SectionBatches,
		Config: engine.Config{
			Days:                 r.Days,
			PeriodsPerDay:        r.PeriodsPerDay,
			Algorithm:            algo,
			MaxConsecutiveTheory: r.MaxConsecutiveTheory,
			PreferMorningLabs:    r.PreferMorningLabs,
			LimitFirstPeriod:     r.LimitFirstPeriod,
			Timeout:              time.Duration(r.TimeoutSeconds) * time.Second,
			FixedSlots:           fixedSlots,
			Seed:                 r.Seed,
			MaxGenerations:       r.MaxGenerations,
		},
	}
}
