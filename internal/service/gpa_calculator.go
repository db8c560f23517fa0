package service

import (
	"math"

	"github.com/noah-isme/gpa-tracker-api/internal/models"
)

// ComputeSemesterGPA returns the credit-weighted mean grade point of subjects.
// Grades missing from table count as 0 points. Zero total credits yields 0.
func ComputeSemesterGPA(subjects []models.Subject, table models.GradingTable) float64 {
	var points, credits float64
	for _, sub := range subjects {
		points += table.Points(sub.Grade) * sub.Credit
		credits += sub.Credit
	}
	if credits == 0 {
		return 0
	}
	return points / credits
}

// ComputeCumulativeGPA returns the credit-weighted mean of the semesters'
// cached SGPA values. Zero total credits yields 0.
func ComputeCumulativeGPA(semesters []models.Semester) float64 {
	var points, credits float64
	for _, sem := range semesters {
		points += sem.SGPA * sem.TotalCredits
		credits += sem.TotalCredits
	}
	if credits == 0 {
		return 0
	}
	return points / credits
}

// SumCredits totals subject credit hours.
func SumCredits(subjects []models.Subject) float64 {
	var total float64
	for _, sub := range subjects {
		total += sub.Credit
	}
	return total
}

// TruncateGPA cuts v to two decimals for display; stored values keep full precision.
func TruncateGPA(v float64) float64 {
	// nudge by a small epsilon so values like 3.67 stored as 3.66999... stay 3.67
	return math.Trunc(v*100+1e-9) / 100
}
