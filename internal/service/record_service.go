package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/gpa-tracker-api/internal/dto"
	"github.com/noah-isme/gpa-tracker-api/internal/models"
	appErrors "github.com/noah-isme/gpa-tracker-api/pkg/errors"
)

// Operation labels used for logging and metrics.
const (
	OpSelectUniversity = "select_university"
	OpAddSemester      = "add_semester"
	OpEditSemester     = "edit_semester"
	OpDeleteSemester   = "delete_semester"
	OpUpdateProfile    = "update_profile"
	OpReset            = "reset"
)

const semesterDateLayout = "2006-01-02"

type recordStore interface {
	Load(ctx context.Context) (*models.AcademicRecord, error)
	Save(ctx context.Context, record *models.AcademicRecord) error
	Delete(ctx context.Context) error
}

type universityCatalog interface {
	FindByName(name string) (models.University, bool)
	List(filter models.UniversityFilter) []models.University
	Provinces() []string
}

// SubjectFieldError identifies the first invalid subject of a semester save.
// Index is -1 when the subject list as a whole is rejected.
type SubjectFieldError struct {
	Index  int
	Field  string
	Reason string
}

func (e *SubjectFieldError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("subject %d: %s %s", e.Index+1, e.Field, e.Reason)
}

// MutationResult reports the record after a semester mutation. Applied is
// false when the referenced semester did not exist and nothing was written.
type MutationResult struct {
	Record   *models.AcademicRecord
	Semester *models.Semester
	Applied  bool
}

// RecordServiceConfig tunes validation behaviour.
type RecordServiceConfig struct {
	// StrictGrades rejects grades missing from the active table instead of
	// counting them as 0 points.
	StrictGrades bool
}

// RecordService is the only writer of the academic record. Each mutation
// runs under a lock: clone the cached record, validate, recompute derived
// fields, save, then swap the cache. A failed save leaves the cache as it was.
type RecordService struct {
	store     recordStore
	catalog   universityCatalog
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
	cfg       RecordServiceConfig
	now       func() time.Time

	mu     sync.Mutex
	cached *models.AcademicRecord
	loaded bool
}

// NewRecordService constructs RecordService.
func NewRecordService(store recordStore, catalog universityCatalog, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger, cfg RecordServiceConfig) *RecordService {
	if validate == nil {
		validate = validator.New()
	}
	registerValidations(validate)
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordService{
		store:     store,
		catalog:   catalog,
		validator: validate,
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

func registerValidations(v *validator.Validate) {
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
}

// Load returns a copy of the current record, or nil before onboarding.
func (s *RecordService) Load(ctx context.Context) (*models.AcademicRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	return record.Clone(), nil
}

// SelectUniversity replaces any existing record with a fresh one for the
// named catalog university. All prior semesters are discarded.
func (s *RecordService) SelectUniversity(ctx context.Context, name string) (*models.AcademicRecord, error) {
	uni, ok := s.catalog.FindByName(strings.TrimSpace(name))
	if !ok {
		s.metrics.RecordMutation(OpSelectUniversity, OutcomeInvalid)
		return nil, appErrors.Clone(appErrors.ErrCatalogMiss, fmt.Sprintf("university %q not in catalog", name))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := &models.AcademicRecord{
		University:  uni.Name,
		GradingType: uni.Grading,
		CGPA:        0,
		Semesters:   []models.Semester{},
	}
	if err := s.commit(ctx, OpSelectUniversity, next); err != nil {
		return nil, err
	}
	s.logger.Info("university selected", zap.String("university", uni.Name), zap.String("grading", string(uni.Grading)))
	return next.Clone(), nil
}

// AddSemester validates subjects and appends a new semester with the next id.
func (s *RecordService) AddSemester(ctx context.Context, subjects []dto.SubjectInput) (*MutationResult, error) {
	return s.saveSemester(ctx, nil, subjects)
}

// EditSemester replaces the subject list of semester id. An unknown id is a
// no-op reported through MutationResult.Applied.
func (s *RecordService) EditSemester(ctx context.Context, id int, subjects []dto.SubjectInput) (*MutationResult, error) {
	return s.saveSemester(ctx, &id, subjects)
}

func (s *RecordService) saveSemester(ctx context.Context, id *int, inputs []dto.SubjectInput) (*MutationResult, error) {
	op := OpAddSemester
	if id != nil {
		op = OpEditSemester
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.requireRecord(ctx)
	if err != nil {
		return nil, err
	}
	table := record.GradingType.Table()
	subjects, err := s.validateSubjects(inputs, table)
	if err != nil {
		s.metrics.RecordMutation(op, OutcomeInvalid)
		return nil, err
	}

	next := record.Clone()
	semester := models.Semester{
		SGPA:         ComputeSemesterGPA(subjects, table),
		TotalCredits: SumCredits(subjects),
		Subjects:     subjects,
		Date:         s.now().UTC().Format(semesterDateLayout),
	}

	if id == nil {
		semester.ID = next.NextSemesterID()
		next.Semesters = append(next.Semesters, semester)
	} else {
		idx := next.FindSemester(*id)
		if idx < 0 {
			s.metrics.RecordMutation(op, OutcomeNoop)
			s.logger.Warn("edit of unknown semester ignored", zap.Int("semester_id", *id))
			return &MutationResult{Record: next, Applied: false}, nil
		}
		semester.ID = *id
		next.Semesters[idx] = semester
	}
	next.CGPA = ComputeCumulativeGPA(next.Semesters)

	if err := s.commit(ctx, op, next); err != nil {
		return nil, err
	}
	s.logger.Info("semester saved",
		zap.String("operation", op),
		zap.Int("semester_id", semester.ID),
		zap.Int("subjects", len(subjects)),
		zap.Float64("sgpa", semester.SGPA),
		zap.Float64("cgpa", next.CGPA),
	)
	saved := semester.Clone()
	return &MutationResult{Record: next.Clone(), Semester: &saved, Applied: true}, nil
}

// DeleteSemester removes semester id and recomputes CGPA. Remaining ids are
// untouched. An unknown id is a no-op.
func (s *RecordService) DeleteSemester(ctx context.Context, id int) (*MutationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.requireRecord(ctx)
	if err != nil {
		return nil, err
	}
	idx := record.FindSemester(id)
	if idx < 0 {
		s.metrics.RecordMutation(OpDeleteSemester, OutcomeNoop)
		s.logger.Warn("delete of unknown semester ignored", zap.Int("semester_id", id))
		return &MutationResult{Record: record.Clone(), Applied: false}, nil
	}

	next := record.Clone()
	next.Semesters = append(next.Semesters[:idx], next.Semesters[idx+1:]...)
	next.CGPA = ComputeCumulativeGPA(next.Semesters)

	if err := s.commit(ctx, OpDeleteSemester, next); err != nil {
		return nil, err
	}
	s.logger.Info("semester deleted", zap.Int("semester_id", id), zap.Float64("cgpa", next.CGPA))
	return &MutationResult{Record: next.Clone(), Applied: true}, nil
}

// UpdateProfile replaces degree type and major. Semesters and GPAs are untouched.
func (s *RecordService) UpdateProfile(ctx context.Context, req dto.UpdateProfileRequest) (*models.AcademicRecord, error) {
	req.DegreeType = strings.TrimSpace(req.DegreeType)
	req.Major = strings.TrimSpace(req.Major)
	if err := s.validator.Struct(req); err != nil {
		s.metrics.RecordMutation(OpUpdateProfile, OutcomeInvalid)
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.requireRecord(ctx)
	if err != nil {
		return nil, err
	}
	next := record.Clone()
	next.DegreeType = req.DegreeType
	next.Major = req.Major
	if err := s.commit(ctx, OpUpdateProfile, next); err != nil {
		return nil, err
	}
	return next.Clone(), nil
}

// Reset deletes the stored record, returning the app to its first-run state.
func (s *RecordService) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	err := s.store.Delete(ctx)
	s.metrics.ObserveStore("delete", time.Since(start))
	if err != nil {
		s.metrics.RecordMutation(OpReset, OutcomeStorageError)
		s.logger.Error("record reset failed", zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to reset record")
	}
	s.cached = nil
	s.loaded = true
	s.metrics.RecordMutation(OpReset, OutcomeApplied)
	s.metrics.SetRecordState(0, 0)
	s.logger.Info("record reset")
	return nil
}

// PreviewSemester computes the SGPA of a draft subject list against the
// record's grading table without validating or persisting it.
func (s *RecordService) PreviewSemester(ctx context.Context, inputs []dto.SubjectInput) (*dto.SemesterPreview, error) {
	s.mu.Lock()
	record, err := s.requireRecord(ctx)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	subjects := make([]models.Subject, len(inputs))
	for i, in := range inputs {
		subjects[i] = models.Subject{Name: in.Name, Credit: in.Credit, Grade: in.Grade}
	}
	sgpa := ComputeSemesterGPA(subjects, record.GradingType.Table())
	return &dto.SemesterPreview{
		SGPA:         sgpa,
		SGPADisplay:  FormatGPA(sgpa),
		TotalCredits: SumCredits(subjects),
	}, nil
}

// View returns the display form of the current record.
func (s *RecordService) View(ctx context.Context) (*dto.RecordView, error) {
	record, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, appErrors.Clone(appErrors.ErrNoRecord, "")
	}
	view := BuildRecordView(record)
	return &view, nil
}

func (s *RecordService) validateSubjects(inputs []dto.SubjectInput, table models.GradingTable) ([]models.Subject, error) {
	if len(inputs) == 0 {
		return nil, subjectValidationError(&SubjectFieldError{Index: -1, Field: "subjects", Reason: "must contain at least one subject"})
	}
	subjects := make([]models.Subject, len(inputs))
	for i, in := range inputs {
		if err := s.validator.Struct(in); err != nil {
			var verrs validator.ValidationErrors
			if !errors.As(err, &verrs) || len(verrs) == 0 {
				return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
			}
			fe := verrs[0]
			return nil, subjectValidationError(&SubjectFieldError{Index: i, Field: fe.Field(), Reason: reasonFor(fe.Tag())})
		}
		if math.IsInf(in.Credit, 0) {
			return nil, subjectValidationError(&SubjectFieldError{Index: i, Field: "credit", Reason: "must be a finite number"})
		}
		if !table.Has(in.Grade) {
			if s.cfg.StrictGrades {
				return nil, subjectValidationError(&SubjectFieldError{Index: i, Field: "grade", Reason: "is not in the grading table"})
			}
			s.logger.Warn("unknown grade counted as 0 points", zap.Int("subject_index", i), zap.String("grade", in.Grade))
		}
		subjects[i] = models.Subject{Name: strings.TrimSpace(in.Name), Credit: in.Credit, Grade: in.Grade}
	}
	return subjects, nil
}

func reasonFor(tag string) string {
	switch tag {
	case "notblank", "required":
		return "is required"
	case "gt":
		return "must be greater than 0"
	default:
		return "is invalid"
	}
}

func subjectValidationError(fe *SubjectFieldError) error {
	return appErrors.WithDetails(appErrors.ErrValidation, fe.Error(), fe, map[string]interface{}{
		"index": fe.Index,
		"field": fe.Field,
	})
}

// current returns the cached record, loading it on first use. Caller holds mu.
func (s *RecordService) current(ctx context.Context) (*models.AcademicRecord, error) {
	if s.loaded {
		return s.cached, nil
	}
	start := time.Now()
	record, err := s.store.Load(ctx)
	s.metrics.ObserveStore("load", time.Since(start))
	if err != nil {
		s.logger.Error("record load failed", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load record")
	}
	s.cached = record
	s.loaded = true
	if record != nil {
		s.metrics.SetRecordState(record.CGPA, len(record.Semesters))
	}
	return record, nil
}

func (s *RecordService) requireRecord(ctx context.Context) (*models.AcademicRecord, error) {
	record, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, appErrors.Clone(appErrors.ErrNoRecord, "")
	}
	return record, nil
}

// commit persists next and, only on success, makes it the cached record. Caller holds mu.
func (s *RecordService) commit(ctx context.Context, op string, next *models.AcademicRecord) error {
	start := time.Now()
	err := s.store.Save(ctx, next)
	s.metrics.ObserveStore("save", time.Since(start))
	if err != nil {
		s.metrics.RecordMutation(op, OutcomeStorageError)
		s.logger.Error("record save failed", zap.String("operation", op), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to save record")
	}
	s.cached = next
	s.loaded = true
	s.metrics.RecordMutation(op, OutcomeApplied)
	s.metrics.SetRecordState(next.CGPA, len(next.Semesters))
	return nil
}
