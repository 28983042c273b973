package export

import (
	"bytes"
	"html/template"
)

// htmlTemplate renders one row per day and one column per period for each
// section, with visual break borders after periods 3 and 6 (spec.md §6),
// built with html/template since the teacher's stack has no HTML
// templating dependency to reuse for this (see DESIGN.md). Every period
// gets its own cell; the two periods of a lab block are not merged into
// one colspan cell.
var htmlTemplate = template.Must(template.New("timetable").Funcs(template.FuncMap{
	"isBreak": func(period int) bool { return period == 3 || period == 6 },
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Timetable — {{.Metadata.Branch}} semester {{.Metadata.Semester}}</title>
<style>
table { border-collapse: collapse; margin-bottom: 2em; }
td, th { border: 1px solid #999; padding: 4px 8px; text-align: center; }
.break { border-right: 3px solid #333; }
.empty { color: #aaa; }
</style>
</head>
<body>
<h1>{{.Metadata.Branch}} — Semester {{.Metadata.Semester}}</h1>
<p>Generated {{.Metadata.GeneratedAt}} · algorithm {{.Metadata.Algorithm}} · score {{.Metadata.Score}} · valid {{.Metadata.IsValid}}</p>
{{range .Timetables}}
<h2>Section {{.Section}}</h2>
<table>
<tr><th>Day</th>{{range .HeaderSlots}}<th {{if isBreak .Period}}class="break"{{end}}>P{{.Period}}</th>{{end}}</tr>
{{range .Days}}
<tr>
<td>{{.Name}}</td>
{{range .Slots}}
{{if .Classes}}
<td {{if isBreak .Period}}class="break"{{end}}>{{range .Classes}}{{.SubjectShort}}{{if .Batch}} ({{.Batch}}){{end}}<br>{{.FacultyID}}<br>{{.Room}}<br>{{end}}</td>
{{else}}
<td class="empty {{if isBreak .Period}}break{{end}}">-</td>
{{end}}
{{end}}
</tr>
{{end}}
</table>
{{end}}
</body>
</html>
`))

// timetableView adds a precomputed HeaderSlots field so the template
// doesn't need a template-language "take the first day only" primitive
// Go's html/template lacks.
type timetableView struct {
	Timetable
	HeaderSlots []Slot
}

type documentView struct {
	Metadata   Metadata
	Timetables []timetableView
}

// HTML renders a Document as a standalone HTML document: one table per
// section, one column per period with break-column styling after periods
// 3 and 6 (spec.md §6).
func HTML(doc Document) ([]byte, error) {
	view := documentView{Metadata: doc.Metadata}
	for _, t := range doc.Timetables {
		var header []Slot
		if len(t.Days) > 0 {
			header = t.Days[0].Slots
		}
		view.Timetables = append(view.Timetables, timetableView{Timetable: t, HeaderSlots: header})
	}

	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, view); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
