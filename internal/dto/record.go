package dto

// SubjectInput is one draft subject row submitted for a semester.
type SubjectInput struct {
	Name   string  `json:"name" validate:"notblank"`
	Credit float64 `json:"credit" validate:"gt=0"`
	Grade  string  `json:"grade"`
}

// SaveSemesterRequest carries the full replacement subject list of a semester.
type SaveSemesterRequest struct {
	Subjects []SubjectInput `json:"subjects"`
}

// SelectUniversityRequest picks a catalog university and resets the record.
type SelectUniversityRequest struct {
	Name string `json:"name" validate:"required"`
}

// UpdateProfileRequest replaces the descriptive profile fields.
type UpdateProfileRequest struct {
	DegreeType string `json:"degreeType" validate:"omitempty,oneof=Associate BS MS PhD"`
	Major      string `json:"major" validate:"max=120"`
}

// CreateExportRequest selects the rendered report format.
type CreateExportRequest struct {
	Format string `json:"format" validate:"required,oneof=pdf csv"`
}

// SemesterPreview is the live SGPA of an unsaved subject list.
type SemesterPreview struct {
	SGPA         float64 `json:"sgpa"`
	SGPADisplay  string  `json:"sgpaDisplay"`
	TotalCredits float64 `json:"totalCredits"`
}

// SubjectView mirrors a stored subject with its resolved grade point.
type SubjectView struct {
	Name       string  `json:"name"`
	Credit     float64 `json:"credit"`
	Grade      string  `json:"grade"`
	GradePoint float64 `json:"gradePoint"`
}

// SemesterView is a semester in display form.
type SemesterView struct {
	ID           int           `json:"id"`
	SGPA         float64       `json:"sgpa"`
	SGPADisplay  string        `json:"sgpaDisplay"`
	TotalCredits float64       `json:"totalCredits"`
	SubjectCount int           `json:"subjectCount"`
	Date         string        `json:"date"`
	Subjects     []SubjectView `json:"subjects"`
}

// RecordView is the academic record in display form; semesters are ordered
// newest first.
type RecordView struct {
	University   string         `json:"university"`
	GradingType  string         `json:"gradingType"`
	Grades       []string       `json:"grades"`
	DegreeType   string         `json:"degreeType,omitempty"`
	Major        string         `json:"major,omitempty"`
	CGPA         float64        `json:"cgpa"`
	CGPADisplay  string         `json:"cgpaDisplay"`
	TotalCredits float64        `json:"totalCredits"`
	Semesters    []SemesterView `json:"semesters"`
}
