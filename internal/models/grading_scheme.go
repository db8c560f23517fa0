package models

// GradingScheme identifies the letter-grade table a university uses.
type GradingScheme string

const (
	// GradingSchemeType1 is the ten-step plus/minus scale (A+ through F).
	GradingSchemeType1 GradingScheme = "Type1"
	// GradingSchemeType2 is the eight-step half-point scale (A through F).
	GradingSchemeType2 GradingScheme = "Type2"
)

// GradingTable maps a letter grade to its grade point.
type GradingTable map[string]float64

var gradingTables = map[GradingScheme]GradingTable{
	GradingSchemeType1: {
		"A+": 4.0,
		"A":  4.0,
		"A-": 3.67,
		"B+": 3.33,
		"B":  3.0,
		"B-": 2.67,
		"C+": 2.33,
		"C":  2.0,
		"D":  1.0,
		"F":  0,
	},
	GradingSchemeType2: {
		"A":  4.0,
		"B+": 3.5,
		"B":  3.0,
		"C+": 2.5,
		"C":  2.0,
		"D+": 1.5,
		"D":  1.0,
		"F":  0,
	},
}

var gradeOrder = map[GradingScheme][]string{
	GradingSchemeType1: {"A+", "A", "A-", "B+", "B", "B-", "C+", "C", "D", "F"},
	GradingSchemeType2: {"A", "B+", "B", "C+", "C", "D+", "D", "F"},
}

// Valid reports whether the scheme is one of the built-in tables.
func (s GradingScheme) Valid() bool {
	_, ok := gradingTables[s]
	return ok
}

// Table returns a copy of the scheme's grade table. Unknown schemes yield an
// empty table, so every grade resolves to 0 points.
func (s GradingScheme) Table() GradingTable {
	src := gradingTables[s]
	out := make(GradingTable, len(src))
	for grade, points := range src {
		out[grade] = points
	}
	return out
}

// Grades lists the scheme's letter grades from highest to lowest.
func (s GradingScheme) Grades() []string {
	src := gradeOrder[s]
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// Points returns the grade point for grade, or 0 when the table lacks it.
func (t GradingTable) Points(grade string) float64 {
	return t[grade]
}

// Has reports whether grade is a key of the table.
func (t GradingTable) Has(grade string) bool {
	_, ok := t[grade]
	return ok
}
