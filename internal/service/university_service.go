package service

import (
	"github.com/noah-isme/gpa-tracker-api/internal/models"
)

// UniversityService exposes the read-only university catalog.
type UniversityService struct {
	catalog universityCatalog
}

// NewUniversityService constructs UniversityService.
func NewUniversityService(catalog universityCatalog) *UniversityService {
	return &UniversityService{catalog: catalog}
}

// List returns catalog entries matching the filter.
func (s *UniversityService) List(filter models.UniversityFilter) []models.University {
	return s.catalog.List(filter)
}

// Provinces returns the distinct catalog provinces.
func (s *UniversityService) Provinces() []string {
	return s.catalog.Provinces()
}
