package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gpa-tracker-api/internal/models"
	"github.com/noah-isme/gpa-tracker-api/pkg/response"
)

type universityService interface {
	List(filter models.UniversityFilter) []models.University
	Provinces() []string
}

// UniversityHandler serves the university catalog.
type UniversityHandler struct {
	universities universityService
}

// NewUniversityHandler constructs UniversityHandler.
func NewUniversityHandler(universities universityService) *UniversityHandler {
	return &UniversityHandler{universities: universities}
}

// List godoc
// @Summary List universities
// @Tags Universities
// @Produce json
// @Param province query string false "Province filter"
// @Param q query string false "Name search"
// @Success 200 {object} response.Envelope
// @Router /universities [get]
func (h *UniversityHandler) List(c *gin.Context) {
	items := h.universities.List(models.UniversityFilter{
		Province: c.Query("province"),
		Query:    c.Query("q"),
	})
	response.JSON(c, http.StatusOK, items, map[string]interface{}{"total": len(items)})
}

// Provinces godoc
// @Summary List catalog provinces
// @Tags Universities
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /universities/provinces [get]
func (h *UniversityHandler) Provinces(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.universities.Provinces())
}
