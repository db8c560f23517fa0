package repository

import (
	"sort"
	"strings"

	"github.com/noah-isme/gpa-tracker-api/internal/models"
)

var universityCatalog = []models.University{
	{Name: "University of the Punjab", Grading: models.GradingSchemeType1, Province: "Punjab"},
	{Name: "Government College University Lahore", Grading: models.GradingSchemeType1, Province: "Punjab"},
	{Name: "University of Agriculture Faisalabad", Grading: models.GradingSchemeType1, Province: "Punjab"},
	{Name: "University of Engineering and Technology Lahore", Grading: models.GradingSchemeType1, Province: "Punjab"},
	{Name: "Bahauddin Zakariya University", Grading: models.GradingSchemeType1, Province: "Punjab"},
	{Name: "Islamia University of Bahawalpur", Grading: models.GradingSchemeType1, Province: "Punjab"},
	{Name: "University of Gujrat", Grading: models.GradingSchemeType1, Province: "Punjab"},
	{Name: "University of Sargodha", Grading: models.GradingSchemeType1, Province: "Punjab"},
	{Name: "Government College University Faisalabad", Grading: models.GradingSchemeType1, Province: "Punjab"},
	{Name: "Fatima Jinnah Women University", Grading: models.GradingSchemeType1, Province: "Punjab"},
	{Name: "Lahore College for Women University", Grading: models.GradingSchemeType1, Province: "Punjab"},
	{Name: "University of Okara", Grading: models.GradingSchemeType1, Province: "Punjab"},
	{Name: "University of Narowal", Grading: models.GradingSchemeType1, Province: "Punjab"},
	{Name: "Lahore University of Management Sciences (LUMS)", Grading: models.GradingSchemeType1, Province: "Punjab"},
	{Name: "University of Central Punjab (UCP)", Grading: models.GradingSchemeType1, Province: "Punjab"},
	{Name: "University of Management and Technology (UMT)", Grading: models.GradingSchemeType1, Province: "Punjab"},
	{Name: "University of Lahore (UoL)", Grading: models.GradingSchemeType1, Province: "Punjab"},
	{Name: "Superior University", Grading: models.GradingSchemeType1, Province: "Punjab"},
	{Name: "Riphah International University", Grading: models.GradingSchemeType1, Province: "Punjab"},

	{Name: "National University of Sciences and Technology (NUST)", Grading: models.GradingSchemeType1, Province: "ICT"},
	{Name: "Quaid-i-Azam University", Grading: models.GradingSchemeType1, Province: "ICT"},
	{Name: "International Islamic University Islamabad", Grading: models.GradingSchemeType1, Province: "ICT"},
	{Name: "COMSATS University Islamabad", Grading: models.GradingSchemeType1, Province: "ICT"},
	{Name: "Allama Iqbal Open University", Grading: models.GradingSchemeType1, Province: "ICT"},
	{Name: "Bahria University", Grading: models.GradingSchemeType1, Province: "ICT"},
	{Name: "Air University", Grading: models.GradingSchemeType1, Province: "ICT"},

	{Name: "University of Karachi", Grading: models.GradingSchemeType1, Province: "Sindh"},
	{Name: "NED University of Engineering and Technology", Grading: models.GradingSchemeType1, Province: "Sindh"},
	{Name: "Institute of Business Administration (IBA) Karachi", Grading: models.GradingSchemeType1, Province: "Sindh"},
	{Name: "Dow University of Health Sciences", Grading: models.GradingSchemeType1, Province: "Sindh"},
	{Name: "Shaheed Benazir Bhutto University", Grading: models.GradingSchemeType1, Province: "Sindh"},
	{Name: "Sukkur IBA University", Grading: models.GradingSchemeType1, Province: "Sindh"},

	{Name: "University of Peshawar", Grading: models.GradingSchemeType1, Province: "KPK"},
	{Name: "University of Engineering and Technology Peshawar", Grading: models.GradingSchemeType1, Province: "KPK"},
	{Name: "Abdul Wali Khan University Mardan", Grading: models.GradingSchemeType1, Province: "KPK"},
	{Name: "University of Swat", Grading: models.GradingSchemeType1, Province: "KPK"},
	{Name: "Hazara University", Grading: models.GradingSchemeType1, Province: "KPK"},

	{Name: "University of Balochistan", Grading: models.GradingSchemeType1, Province: "Balochistan"},
	{Name: "BUITEMS", Grading: models.GradingSchemeType1, Province: "Balochistan"},
	{Name: "Sardar Bahadur Khan Women University", Grading: models.GradingSchemeType1, Province: "Balochistan"},

	{Name: "University of Azad Jammu and Kashmir", Grading: models.GradingSchemeType1, Province: "AJK"},
	{Name: "Mirpur University of Science and Technology (MUST)", Grading: models.GradingSchemeType1, Province: "AJK"},

	{Name: "University of Baltistan", Grading: models.GradingSchemeType1, Province: "GB"},
	{Name: "Karakoram International University", Grading: models.GradingSchemeType1, Province: "GB"},
}

// UniversityRepository serves the static university catalog.
type UniversityRepository struct {
	entries []models.University
	byName  map[string]models.University
}

// NewUniversityRepository constructs the catalog. A nil slice loads the built-in list.
func NewUniversityRepository(entries []models.University) *UniversityRepository {
	if entries == nil {
		entries = universityCatalog
	}
	byName := make(map[string]models.University, len(entries))
	for _, u := range entries {
		byName[u.Name] = u
	}
	return &UniversityRepository{entries: entries, byName: byName}
}

// FindByName resolves an exact catalog name.
func (r *UniversityRepository) FindByName(name string) (models.University, bool) {
	u, ok := r.byName[name]
	return u, ok
}

// List returns catalog entries matching the filter, in catalog order.
func (r *UniversityRepository) List(filter models.UniversityFilter) []models.University {
	query := strings.ToLower(strings.TrimSpace(filter.Query))
	result := make([]models.University, 0, len(r.entries))
	for _, u := range r.entries {
		if filter.Province != "" && !strings.EqualFold(u.Province, filter.Province) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(u.Name), query) {
			continue
		}
		result = append(result, u)
	}
	return result
}

// Provinces lists the distinct provinces present in the catalog, sorted.
func (r *UniversityRepository) Provinces() []string {
	seen := make(map[string]struct{})
	for _, u := range r.entries {
		seen[u.Province] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
