package models

// Subject is one graded course inside a semester.
type Subject struct {
	Name   string  `json:"name"`
	Credit float64 `json:"credit"`
	Grade  string  `json:"grade"`
}

// Semester stores a saved subject list together with its cached aggregates.
type Semester struct {
	ID           int       `json:"id"`
	SGPA         float64   `json:"sgpa"`
	TotalCredits float64   `json:"totalCredits"`
	Subjects     []Subject `json:"subjects"`
	Date         string    `json:"date"`
}

// AcademicRecord is the single persisted document per installation.
type AcademicRecord struct {
	University  string        `json:"university"`
	GradingType GradingScheme `json:"gradingType"`
	DegreeType  string        `json:"degreeType,omitempty"`
	Major       string        `json:"major,omitempty"`
	CGPA        float64       `json:"cgpa"`
	Semesters   []Semester    `json:"semesters"`
}

// Degree types offered by the profile settings.
const (
	DegreeAssociate = "Associate"
	DegreeBachelor  = "BS"
	DegreeMaster    = "MS"
	DegreeDoctorate = "PhD"
)

// DegreeTypes lists accepted degree type values.
var DegreeTypes = []string{DegreeAssociate, DegreeBachelor, DegreeMaster, DegreeDoctorate}

// Clone returns a deep copy so mutations never alias the cached record.
func (r *AcademicRecord) Clone() *AcademicRecord {
	if r == nil {
		return nil
	}
	out := *r
	out.Semesters = make([]Semester, len(r.Semesters))
	for i, sem := range r.Semesters {
		out.Semesters[i] = sem.Clone()
	}
	return &out
}

// Clone returns a deep copy of the semester.
func (s Semester) Clone() Semester {
	out := s
	out.Subjects = make([]Subject, len(s.Subjects))
	copy(out.Subjects, s.Subjects)
	return out
}

// FindSemester returns the index of the semester with id, or -1.
func (r *AcademicRecord) FindSemester(id int) int {
	for i := range r.Semesters {
		if r.Semesters[i].ID == id {
			return i
		}
	}
	return -1
}

// NextSemesterID returns max(existing ids)+1, or 1 for an empty record.
func (r *AcademicRecord) NextSemesterID() int {
	next := 1
	for _, sem := range r.Semesters {
		if sem.ID >= next {
			next = sem.ID + 1
		}
	}
	return next
}

// TotalCredits sums the cached credits of every semester.
func (r *AcademicRecord) TotalCredits() float64 {
	var total float64
	for _, sem := range r.Semesters {
		total += sem.TotalCredits
	}
	return total
}
