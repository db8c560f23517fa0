package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gpa-tracker-api/internal/dto"
	"github.com/noah-isme/gpa-tracker-api/internal/models"
	"github.com/noah-isme/gpa-tracker-api/internal/service"
	appErrors "github.com/noah-isme/gpa-tracker-api/pkg/errors"
	"github.com/noah-isme/gpa-tracker-api/pkg/response"
)

type recordService interface {
	View(ctx context.Context) (*dto.RecordView, error)
	SelectUniversity(ctx context.Context, name string) (*models.AcademicRecord, error)
	AddSemester(ctx context.Context, subjects []dto.SubjectInput) (*service.MutationResult, error)
	EditSemester(ctx context.Context, id int, subjects []dto.SubjectInput) (*service.MutationResult, error)
	DeleteSemester(ctx context.Context, id int) (*service.MutationResult, error)
	UpdateProfile(ctx context.Context, req dto.UpdateProfileRequest) (*models.AcademicRecord, error)
	PreviewSemester(ctx context.Context, subjects []dto.SubjectInput) (*dto.SemesterPreview, error)
	Reset(ctx context.Context) error
}

// RecordHandler exposes the academic record endpoints.
type RecordHandler struct {
	records recordService
}

// NewRecordHandler constructs RecordHandler.
func NewRecordHandler(records recordService) *RecordHandler {
	return &RecordHandler{records: records}
}

// Get godoc
// @Summary Current academic record
// @Description Returns the record with semesters ordered newest first and GPAs truncated to two decimals for display.
// @Tags Record
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /record [get]
func (h *RecordHandler) Get(c *gin.Context) {
	view, err := h.records.View(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}

// SelectUniversity godoc
// @Summary Select university
// @Description Starts a fresh record for a catalog university. Existing semesters are discarded.
// @Tags Record
// @Accept json
// @Produce json
// @Param payload body dto.SelectUniversityRequest true "University name"
// @Success 201 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /record/university [post]
func (h *RecordHandler) SelectUniversity(c *gin.Context) {
	var req dto.SelectUniversityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid university payload"))
		return
	}
	if req.Name == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "name required"))
		return
	}
	record, err := h.records.SelectUniversity(c.Request.Context(), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, service.BuildRecordView(record))
}

// UpdateProfile godoc
// @Summary Update degree type and major
// @Tags Record
// @Accept json
// @Produce json
// @Param payload body dto.UpdateProfileRequest true "Profile payload"
// @Success 200 {object} response.Envelope
// @Router /record/profile [put]
func (h *RecordHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid profile payload"))
		return
	}
	record, err := h.records.UpdateProfile(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, service.BuildRecordView(record))
}

// AddSemester godoc
// @Summary Add semester
// @Description Validates the subject list, computes its SGPA and appends it with the next semester id.
// @Tags Semesters
// @Accept json
// @Produce json
// @Param payload body dto.SaveSemesterRequest true "Subjects"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /record/semesters [post]
func (h *RecordHandler) AddSemester(c *gin.Context) {
	var req dto.SaveSemesterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid semester payload"))
		return
	}
	result, err := h.records.AddSemester(c.Request.Context(), req.Subjects)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, service.BuildRecordView(result.Record), mutationMeta(result))
}

// EditSemester godoc
// @Summary Replace semester subjects
// @Description Unknown ids leave the record unchanged and report meta.applied=false.
// @Tags Semesters
// @Accept json
// @Produce json
// @Param id path int true "Semester ID"
// @Param payload body dto.SaveSemesterRequest true "Subjects"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /record/semesters/{id} [put]
func (h *RecordHandler) EditSemester(c *gin.Context) {
	id, ok := semesterIDParam(c)
	if !ok {
		return
	}
	var req dto.SaveSemesterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid semester payload"))
		return
	}
	result, err := h.records.EditSemester(c.Request.Context(), id, req.Subjects)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, service.BuildRecordView(result.Record), mutationMeta(result))
}

// DeleteSemester godoc
// @Summary Delete semester
// @Description Removes the semester and recomputes CGPA. Unknown ids report meta.applied=false.
// @Tags Semesters
// @Produce json
// @Param id path int true "Semester ID"
// @Success 200 {object} response.Envelope
// @Router /record/semesters/{id} [delete]
func (h *RecordHandler) DeleteSemester(c *gin.Context) {
	id, ok := semesterIDParam(c)
	if !ok {
		return
	}
	result, err := h.records.DeleteSemester(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, service.BuildRecordView(result.Record), mutationMeta(result))
}

// PreviewSemester godoc
// @Summary Preview semester SGPA
// @Description Computes the SGPA of a draft subject list without saving it.
// @Tags Semesters
// @Accept json
// @Produce json
// @Param payload body dto.SaveSemesterRequest true "Draft subjects"
// @Success 200 {object} response.Envelope
// @Router /record/semesters/preview [post]
func (h *RecordHandler) PreviewSemester(c *gin.Context) {
	var req dto.SaveSemesterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid semester payload"))
		return
	}
	preview, err := h.records.PreviewSemester(c.Request.Context(), req.Subjects)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, preview)
}

// Reset godoc
// @Summary Reset record
// @Description Deletes the stored record so the next visit starts at university selection.
// @Tags Record
// @Success 204
// @Router /record [delete]
func (h *RecordHandler) Reset(c *gin.Context) {
	if err := h.records.Reset(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func semesterIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "semester id must be an integer"))
		return 0, false
	}
	return id, true
}

func mutationMeta(result *service.MutationResult) map[string]interface{} {
	meta := map[string]interface{}{"applied": result.Applied}
	if result.Semester != nil {
		meta["semesterId"] = result.Semester.ID
		meta["sgpa"] = service.FormatGPA(result.Semester.SGPA)
	}
	return meta
}
