package export

import (
	"strconv"

	pkgcsv "github.com/vishwaksen/campus-scheduler/pkg/export"
)

// csvHeaders matches spec.md §6's required column set exactly.
var csvHeaders = []string{"Section", "Day", "Period", "Time", "Subject", "Faculty", "Room", "Batch", "Type"}

// periodTimes maps a 1-indexed period to its display time range. Grounded
// on the standard nine-period college day; periods beyond this table
// render blank rather than guessing at a time.
var periodTimes = map[int]string{
	1: "09:00-09:50", 2: "09:50-10:40", 3: "10:55-11:45", 4: "11:45-12:35",
	5: "13:30-14:20", 6: "14:20-15:10", 7: "15:10-16:00", 8: "16:00-16:50", 9: "16:50-17:40",
}

// CSV renders a Document into CSV bytes, one row per (section, day,
// period, batch) cell; empty slots still emit a row with a blank
// Subject/Faculty/Room/Batch/Type so every period of the grid is visible
// in the export. Grounded on the teacher's pkg/export.CSVExporter
// (Dataset{Headers, Rows} + encoding/csv), generalized from the
// teacher's flat string-map rows to a typed builder over export.Document.
func CSV(doc Document) ([]byte, error) {
	dataset := pkgcsv.Dataset{Headers: csvHeaders}

	for _, t := range doc.Timetables {
		for _, day := range t.Days {
			for _, slot := range day.Slots {
				if len(slot.Classes) == 0 {
					dataset.Rows = append(dataset.Rows, csvRow(t.Section, day.Name, slot.Period, Class{}))
					continue
				}
				for _, c := range slot.Classes {
					dataset.Rows = append(dataset.Rows, csvRow(t.Section, day.Name, slot.Period, c))
				}
			}
		}
	}

	exporter := pkgcsv.NewCSVExporter()
	return exporter.Render(dataset)
}

func csvRow(section, day string, period int, c Class) map[string]string {
	return map[string]string{
		"Section": section,
		"Day":     day,
		"Period":  strconv.Itoa(period),
		"Time":    periodTimes[period],
		"Subject": c.SubjectCode,
		"Faculty": c.FacultyID,
		"Room":    c.Room,
		"Batch":   c.Batch,
		"Type":    c.SubjectType,
	}
}
