package models

// University is a catalog entry fixing the grading scheme for its students.
type University struct {
	Name     string        `json:"name"`
	Grading  GradingScheme `json:"grading"`
	Province string        `json:"province"`
}

// UniversityFilter narrows catalog listings.
type UniversityFilter struct {
	Province string
	Query    string
}
