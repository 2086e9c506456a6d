// Package web предоставляет функции для отображения каталога оценок в HTML
package web

import (
	"bytes"
	"html/template"
	"sort"
	"strings"

	"github.com/Vaflel/gradebook/domain"
)

// GradeRow описывает одну оценку в таблице студента
type GradeRow struct {
	AssignmentID string
	Description  string
	Deadline     int
	Value        float64
	Date         string
}

// StudentData содержит оценки одного студента
type StudentData struct {
	ID      string
	Name    string
	Group   int
	Email   string
	Grades  []GradeRow
	Average float64 // 0, если оценок нет
}

// TemplateData содержит все данные, необходимые для отображения каталога
type TemplateData struct {
	Students    []StudentData
	Assignments []domain.Assignment
}

// Константа reportTemplate содержит HTML-шаблон каталога: темы и по таблице на студента
const reportTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Catalog</title></head>
<body>
<h1>Teme</h1>
{{if .Assignments}}
<table class="assignments">
	<tr><th>Nr</th><th>Descriere</th><th>Start</th><th>Deadline</th></tr>
	{{range .Assignments}}
	<tr><td>{{.ID}}</td><td>{{.Description}}</td><td>{{.StartWeek}}</td><td>{{.DeadlineWeek}}</td></tr>
	{{end}}
</table>
{{else}}
<p>Nu exista teme.</p>
{{end}}
{{range .Students}}
<h2>{{.Name}} (Grupa: {{.Group}}, {{.Email}})</h2>
{{if .Grades}}
<table class="grades">
	<tr><th>Tema</th><th>Descriere</th><th>Deadline</th><th>Nota</th><th>Data</th></tr>
	{{range .Grades}}
	<tr><td>{{.AssignmentID}}</td><td>{{.Description}}</td><td>{{.Deadline}}</td><td>{{printf "%.2f" .Value}}</td><td>{{.Date}}</td></tr>
	{{end}}
</table>
<p><strong>Media:</strong> {{printf "%.2f" .Average}}</p>
{{else}}
<p>Fara note.</p>
{{end}}
{{end}}
</body>
</html>
`

var reportTmpl = template.Must(template.New("report").Parse(reportTemplate))

// RenderGradebook генерирует HTML-представление каталога
func RenderGradebook(students []domain.Student, assignments []domain.Assignment, grades []domain.Grade) (string, error) {
	data := prepareTemplateData(students, assignments, grades)

	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// prepareTemplateData группирует оценки по студентам и считает средний балл
func prepareTemplateData(students []domain.Student, assignments []domain.Assignment, grades []domain.Grade) TemplateData {
	byAssignment := make(map[string]domain.Assignment, len(assignments))
	for _, a := range assignments {
		byAssignment[a.ID] = a
	}

	byStudent := make(map[string][]domain.Grade)
	for _, g := range grades {
		byStudent[g.StudentID] = append(byStudent[g.StudentID], g)
	}

	data := TemplateData{
		Assignments: append([]domain.Assignment(nil), assignments...),
	}
	sort.Slice(data.Assignments, func(i, j int) bool {
		if data.Assignments[i].StartWeek != data.Assignments[j].StartWeek {
			return data.Assignments[i].StartWeek < data.Assignments[j].StartWeek
		}
		return data.Assignments[i].ID < data.Assignments[j].ID
	})

	for _, s := range students {
		studentGrades := byStudent[s.ID]
		sort.Slice(studentGrades, func(i, j int) bool {
			return studentGrades[i].Date.Before(studentGrades[j].Date)
		})

		row := StudentData{ID: s.ID, Name: s.Name, Group: s.Group, Email: s.Email}
		total := 0.0
		for _, g := range studentGrades {
			a := byAssignment[g.AssignmentID]
			row.Grades = append(row.Grades, GradeRow{
				AssignmentID: g.AssignmentID,
				Description:  a.Description,
				Deadline:     a.DeadlineWeek,
				Value:        g.Value,
				Date:         g.DateString(),
			})
			total += g.Value
		}
		if len(studentGrades) > 0 {
			row.Average = total / float64(len(studentGrades))
		}
		data.Students = append(data.Students, row)
	}

	sort.Slice(data.Students, func(i, j int) bool {
		if data.Students[i].Group != data.Students[j].Group {
			return data.Students[i].Group < data.Students[j].Group
		}
		return strings.ToLower(data.Students[i].Name) < strings.ToLower(data.Students[j].Name)
	})

	return data
}
