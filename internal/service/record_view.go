package service

import (
	"sort"
	"strconv"

	"github.com/noah-isme/gpa-tracker-api/internal/dto"
	"github.com/noah-isme/gpa-tracker-api/internal/models"
)

// FormatGPA renders a GPA truncated to two decimals.
func FormatGPA(v float64) string {
	return strconv.FormatFloat(TruncateGPA(v), 'f', 2, 64)
}

// BuildRecordView converts a stored record into its display form with
// semesters ordered by descending id.
func BuildRecordView(record *models.AcademicRecord) dto.RecordView {
	table := record.GradingType.Table()
	view := dto.RecordView{
		University:   record.University,
		GradingType:  string(record.GradingType),
		Grades:       record.GradingType.Grades(),
		DegreeType:   record.DegreeType,
		Major:        record.Major,
		CGPA:         record.CGPA,
		CGPADisplay:  FormatGPA(record.CGPA),
		TotalCredits: record.TotalCredits(),
		Semesters:    make([]dto.SemesterView, 0, len(record.Semesters)),
	}
	for _, sem := range record.Semesters {
		sv := dto.SemesterView{
			ID:           sem.ID,
			SGPA:         sem.SGPA,
			SGPADisplay:  FormatGPA(sem.SGPA),
			TotalCredits: sem.TotalCredits,
			SubjectCount: len(sem.Subjects),
			Date:         sem.Date,
			Subjects:     make([]dto.SubjectView, len(sem.Subjects)),
		}
		for i, sub := range sem.Subjects {
			sv.Subjects[i] = dto.SubjectView{Name: sub.Name, Credit: sub.Credit, Grade: sub.Grade, GradePoint: table.Points(sub.Grade)}
		}
		view.Semesters = append(view.Semesters, sv)
	}
	sort.SliceStable(view.Semesters, func(i, j int) bool {
		return view.Semesters[i].ID > view.Semesters[j].ID
	})
	return view
}
