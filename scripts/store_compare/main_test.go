package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/gpa-tracker-api/internal/models"
)

func TestCompareRecords(t *testing.T) {
	base := &models.AcademicRecord{
		University:  "Air University",
		GradingType: models.GradingSchemeType1,
		CGPA:        3.5,
		Semesters: []models.Semester{
			{ID: 1, SGPA: 3.5, TotalCredits: 3, Date: "2026-03-14", Subjects: []models.Subject{{Name: "Math", Credit: 3, Grade: "B+"}}},
		},
	}

	assert.Empty(t, compareRecords(nil, nil))
	assert.Empty(t, compareRecords(base, base.Clone()))
	assert.Equal(t, []difference{{Field: "record", Left: "present", Right: "absent"}}, compareRecords(base, nil))

	changed := base.Clone()
	changed.Major = "Physics"
	changed.Semesters[0].Date = "2026-03-15"
	diffs := compareRecords(base, changed)
	assert.Equal(t, []difference{
		{Field: "major", Left: "", Right: "Physics"},
		{Field: "semester[1].date", Left: "2026-03-14", Right: "2026-03-15"},
	}, diffs)
}
