package main

import "github.com/vishwaksen/campus-scheduler/internal/dto"

// fixtureCatalog returns a small built-in catalog for --test smoke runs,
// grounded on original_source/config/semester_subjects.py's
// SEMESTER_3_SUBJECTS and original_source/config/faculty_rooms.py's
// third-semester faculty/room subset (F014-F016, a handful of
// classrooms/labs), trimmed to what one semester-3 section needs.
func fixtureCatalog(sections []string) catalogFile {
	subjects := []dto.SubjectInput{
		{Code: "21CS31", Label: "Data Structures & Applications", ShortLabel: "DSA", Type: "theory", HoursPerWeek: 4, Priority: 1},
		{Code: "21CS32", Label: "Digital Design & Computer Organization", ShortLabel: "DDCO", Type: "theory", HoursPerWeek: 4, Priority: 1},
		{Code: "21CS33", Label: "Computer Networks Fundamentals", ShortLabel: "CNF", Type: "theory", HoursPerWeek: 3, Priority: 1},
		{Code: "21CS34", Label: "Discrete Mathematical Structures", ShortLabel: "DMS", Type: "theory", HoursPerWeek: 3, Priority: 1},
		{Code: "21MAT31", Label: "Transform Calculus, Fourier Series & Numerical Techniques", ShortLabel: "MATHS", Type: "theory", HoursPerWeek: 3, Priority: 2},
		{Code: "21CS35", Label: "Social Connect & Responsibility", ShortLabel: "SCR", Type: "audit", HoursPerWeek: 1, Priority: 3},
		{Code: "21CSL36", Label: "Data Structures Laboratory", ShortLabel: "DSAL", Type: "lab", HoursPerWeek: 3, BatchesRequired: true, Priority: 1},
		{Code: "21CSL37", Label: "Digital Design Laboratory", ShortLabel: "DDL", Type: "lab", HoursPerWeek: 2, BatchesRequired: true, Priority: 2},
		{Code: "21CSL38", Label: "Computer Networks Laboratory", ShortLabel: "CNL", Type: "lab", HoursPerWeek: 2, BatchesRequired: true, Priority: 2},
		{Code: "TYL3", Label: "Technical/Aptitude/Logical/Soft Skills", ShortLabel: "TYL", Type: "tyl", HoursPerWeek: 2, Priority: 3},
		{Code: "YOGA3", Label: "Yoga", ShortLabel: "YOGA", Type: "yoga", HoursPerWeek: 1, Priority: 4},
		{Code: "CLUB3", Label: "Club Activity", ShortLabel: "CLUB", Type: "club", HoursPerWeek: 1, Priority: 4},
	}

	faculty := []dto.FacultyInput{
		{ID: "F014", Label: "Prof. Harish Chandra", Subjects: []string{"21CS31", "21CS32", "21CSL36"}, MaxHoursPerDay: 6, MaxHoursPerWeek: 24},
		{ID: "F015", Label: "Dr. Savitha Rao", Subjects: []string{"21CS33", "21CS34", "21CSL37"}, MaxHoursPerDay: 6, MaxHoursPerWeek: 24},
		{ID: "F016", Label: "Prof. Ganesh Hegde", Subjects: []string{"21MAT31", "21CS35", "21CSL38"}, MaxHoursPerDay: 6, MaxHoursPerWeek: 24},
		{ID: "F017", Label: "TYL Coordinator", Subjects: []string{"TYL3"}, MaxHoursPerDay: 8, MaxHoursPerWeek: 30},
		{ID: "F019", Label: "Yoga Instructor", Subjects: []string{"YOGA3"}, MaxHoursPerDay: 6, MaxHoursPerWeek: 20},
		{ID: "F020", Label: "Club Activity Coordinator", Subjects: []string{"CLUB3"}, MaxHoursPerDay: 6, MaxHoursPerWeek: 20},
	}

	rooms := []dto.RoomInput{
		{Number: "501", Type: "classroom"},
		{Number: "502", Type: "classroom"},
		{Number: "CL1", Type: "computer_lab"},
		{Number: "CL2", Type: "computer_lab"},
		{Number: "EL1", Type: "electronics_lab"},
		{Number: "AR1", Type: "activity_room"},
		{Number: "AR2", Type: "activity_room"},
	}

	sectionBatches := make(map[string][]string, len(sections))
	for _, s := range sections {
		sectionBatches[s] = []string{s + "1", s + "2"}
	}

	return catalogFile{
		Subjects:       subjects,
		Faculty:        faculty,
		Rooms:          rooms,
		Days:           []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
		PeriodsPerDay:  9,
		SectionBatches: sectionBatches,
	}
}
