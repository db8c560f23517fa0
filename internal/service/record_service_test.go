package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/gpa-tracker-api/internal/dto"
	"github.com/noah-isme/gpa-tracker-api/internal/models"
	appErrors "github.com/noah-isme/gpa-tracker-api/pkg/errors"
)

type memoryRecordStore struct {
	record   *models.AcademicRecord
	saves    int
	saveErr  error
	loadErr  error
	deleted  bool
	loadHits int
}

func (m *memoryRecordStore) Load(ctx context.Context) (*models.AcademicRecord, error) {
	m.loadHits++
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.record.Clone(), nil
}

func (m *memoryRecordStore) Save(ctx context.Context, record *models.AcademicRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.record = record.Clone()
	return nil
}

func (m *memoryRecordStore) Delete(ctx context.Context) error {
	m.deleted = true
	m.record = nil
	return nil
}

type stubCatalog struct {
	entries []models.University
}

func (s stubCatalog) FindByName(name string) (models.University, bool) {
	for _, u := range s.entries {
		if u.Name == name {
			return u, true
		}
	}
	return models.University{}, false
}

func (s stubCatalog) List(filter models.UniversityFilter) []models.University {
	return s.entries
}

func (s stubCatalog) Provinces() []string {
	return []string{"Punjab"}
}

var testCatalog = stubCatalog{entries: []models.University{
	{Name: "Scheme A University", Grading: models.GradingSchemeType1, Province: "Punjab"},
	{Name: "Scheme B University", Grading: models.GradingSchemeType2, Province: "Sindh"},
}}

func newRecordServiceForTest(t *testing.T, store *memoryRecordStore, cfg RecordServiceConfig) *RecordService {
	t.Helper()
	svc := NewRecordService(store, testCatalog, nil, NewMetricsService(), zap.NewNop(), cfg)
	svc.now = func() time.Time { return time.Date(2026, 3, 14, 23, 30, 0, 0, time.UTC) }
	return svc
}

func recordWithSemesters(ids ...int) *models.AcademicRecord {
	record := &models.AcademicRecord{University: "Scheme A University", GradingType: models.GradingSchemeType1, Semesters: []models.Semester{}}
	for _, id := range ids {
		record.Semesters = append(record.Semesters, models.Semester{
			ID: id, SGPA: 3, TotalCredits: 3, Date: "2025-01-01",
			Subjects: []models.Subject{{Name: "Course", Credit: 3, Grade: "B"}},
		})
	}
	record.CGPA = ComputeCumulativeGPA(record.Semesters)
	return record
}

func subjects(rows ...dto.SubjectInput) []dto.SubjectInput { return rows }

func semesterIDs(record *models.AcademicRecord) []int {
	ids := make([]int, len(record.Semesters))
	for i, sem := range record.Semesters {
		ids[i] = sem.ID
	}
	return ids
}

func TestRecordServiceAddSemesterComputesAggregates(t *testing.T) {
	store := &memoryRecordStore{record: recordWithSemesters()}
	svc := newRecordServiceForTest(t, store, RecordServiceConfig{})

	res, err := svc.AddSemester(context.Background(), subjects(
		dto.SubjectInput{Name: "  Calculus ", Credit: 3, Grade: "A"},
		dto.SubjectInput{Name: "Lab", Credit: 1, Grade: "B"},
	))
	require.NoError(t, err)
	require.True(t, res.Applied)
	require.NotNil(t, res.Semester)
	assert.Equal(t, 1, res.Semester.ID)
	assert.InDelta(t, 3.75, res.Semester.SGPA, 1e-12)
	assert.Equal(t, 4.0, res.Semester.TotalCredits)
	assert.Equal(t, "2026-03-14", res.Semester.Date)
	assert.Equal(t, "Calculus", res.Semester.Subjects[0].Name)
	assert.InDelta(t, 3.75, res.Record.CGPA, 1e-12)

	assert.Equal(t, 1, store.saves)
	assert.Equal(t, res.Record, store.record)
}

func TestRecordServiceAddUsesMaxPlusOne(t *testing.T) {
	store := &memoryRecordStore{record: recordWithSemesters(1, 3)}
	svc := newRecordServiceForTest(t, store, RecordServiceConfig{})

	res, err := svc.AddSemester(context.Background(), subjects(dto.SubjectInput{Name: "X", Credit: 3, Grade: "A"}))
	require.NoError(t, err)
	assert.Equal(t, 4, res.Semester.ID)
	assert.Equal(t, []int{1, 3, 4}, semesterIDs(res.Record))
}

func TestRecordServiceAddAfterDeleteReusesMaxBasedID(t *testing.T) {
	store := &memoryRecordStore{record: recordWithSemesters(1, 2, 3)}
	svc := newRecordServiceForTest(t, store, RecordServiceConfig{})
	ctx := context.Background()

	del, err := svc.DeleteSemester(ctx, 3)
	require.NoError(t, err)
	require.True(t, del.Applied)
	assert.Equal(t, []int{1, 2}, semesterIDs(del.Record))

	add, err := svc.AddSemester(ctx, subjects(dto.SubjectInput{Name: "X", Credit: 3, Grade: "A"}))
	require.NoError(t, err)
	assert.Equal(t, 3, add.Semester.ID)
}

func TestRecordServiceDeleteKeepsRemainingIDsAndRecomputes(t *testing.T) {
	record := recordWithSemesters(1, 2, 5)
	record.Semesters[0].SGPA, record.Semesters[0].TotalCredits = 4, 15
	record.Semesters[1].SGPA, record.Semesters[1].TotalCredits = 3, 12
	record.Semesters[2].SGPA, record.Semesters[2].TotalCredits = 1, 10
	store := &memoryRecordStore{record: record}
	svc := newRecordServiceForTest(t, store, RecordServiceConfig{})

	res, err := svc.DeleteSemester(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 5}, semesterIDs(res.Record))
	assert.InDelta(t, (4.0*15+1.0*10)/25, res.Record.CGPA, 1e-12)

	res, err = svc.DeleteSemester(context.Background(), 1)
	require.NoError(t, err)
	res, err = svc.DeleteSemester(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, res.Record.Semesters)
	assert.Equal(t, 0.0, res.Record.CGPA)
}

func TestRecordServiceDeleteUnknownIsNoop(t *testing.T) {
	store := &memoryRecordStore{record: recordWithSemesters(1)}
	svc := newRecordServiceForTest(t, store, RecordServiceConfig{})

	res, err := svc.DeleteSemester(context.Background(), 42)
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Equal(t, []int{1}, semesterIDs(res.Record))
	assert.Zero(t, store.saves)
}

func TestRecordServiceEditReplacesSubjectsAndKeepsID(t *testing.T) {
	store := &memoryRecordStore{record: recordWithSemesters(1, 2)}
	svc := newRecordServiceForTest(t, store, RecordServiceConfig{})

	res, err := svc.EditSemester(context.Background(), 2, subjects(
		dto.SubjectInput{Name: "Algebra", Credit: 4, Grade: "A-"},
	))
	require.NoError(t, err)
	require.True(t, res.Applied)
	assert.Equal(t, 2, res.Semester.ID)
	assert.Len(t, res.Record.Semesters[1].Subjects, 1)
	assert.InDelta(t, 3.67, res.Record.Semesters[1].SGPA, 1e-12)
	assert.Equal(t, 4.0, res.Record.Semesters[1].TotalCredits)
	assert.InDelta(t, (3.0*3+3.67*4)/7, res.Record.CGPA, 1e-12)
	assert.Equal(t, []int{1, 2}, semesterIDs(res.Record), "edit keeps insertion order")
}

func TestRecordServiceEditUnknownIsNoop(t *testing.T) {
	store := &memoryRecordStore{record: recordWithSemesters(1)}
	svc := newRecordServiceForTest(t, store, RecordServiceConfig{})

	res, err := svc.EditSemester(context.Background(), 9, subjects(dto.SubjectInput{Name: "X", Credit: 1, Grade: "A"}))
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Nil(t, res.Semester)
	assert.Zero(t, store.saves)
}

func TestRecordServiceValidationAbortsAtomically(t *testing.T) {
	store := &memoryRecordStore{record: recordWithSemesters(1)}
	svc := newRecordServiceForTest(t, store, RecordServiceConfig{})

	_, err := svc.AddSemester(context.Background(), subjects(dto.SubjectInput{Name: "", Credit: 3, Grade: "A"}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	var fieldErr *SubjectFieldError
	require.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, 0, fieldErr.Index)
	assert.Equal(t, "name", fieldErr.Field)

	appErr := appErrors.FromError(err)
	assert.Equal(t, 0, appErr.Details["index"])
	assert.Equal(t, "name", appErr.Details["field"])

	assert.Zero(t, store.saves)
	loaded, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{1}, semesterIDs(loaded))
}

func TestRecordServiceValidationReportsFirstFailure(t *testing.T) {
	store := &memoryRecordStore{record: recordWithSemesters()}
	svc := newRecordServiceForTest(t, store, RecordServiceConfig{})

	cases := []struct {
		name  string
		input []dto.SubjectInput
		index int
		field string
	}{
		{name: "blank name", input: subjects(dto.SubjectInput{Name: "Ok", Credit: 1, Grade: "A"}, dto.SubjectInput{Name: "   ", Credit: 2, Grade: "A"}), index: 1, field: "name"},
		{name: "zero credit", input: subjects(dto.SubjectInput{Name: "Ok", Credit: 0, Grade: "A"}), index: 0, field: "credit"},
		{name: "negative credit", input: subjects(dto.SubjectInput{Name: "Ok", Credit: 2, Grade: "A"}, dto.SubjectInput{Name: "Bad", Credit: -1, Grade: "A"}, dto.SubjectInput{Name: "", Credit: 1}), index: 1, field: "credit"},
		{name: "name before credit", input: subjects(dto.SubjectInput{Name: "", Credit: 0, Grade: "A"}), index: 0, field: "name"},
		{name: "empty list", input: nil, index: -1, field: "subjects"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.AddSemester(context.Background(), tc.input)
			var fieldErr *SubjectFieldError
			require.True(t, errors.As(err, &fieldErr))
			assert.Equal(t, tc.index, fieldErr.Index)
			assert.Equal(t, tc.field, fieldErr.Field)
		})
	}
	assert.Zero(t, store.saves)
}

func TestRecordServiceUnknownGradeLenientAndStrict(t *testing.T) {
	input := subjects(dto.SubjectInput{Name: "Mystery", Credit: 2, Grade: "Z"})

	lenient := newRecordServiceForTest(t, &memoryRecordStore{record: recordWithSemesters()}, RecordServiceConfig{})
	res, err := lenient.AddSemester(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Semester.SGPA)
	assert.Equal(t, 2.0, res.Semester.TotalCredits)

	strictStore := &memoryRecordStore{record: recordWithSemesters()}
	strict := newRecordServiceForTest(t, strictStore, RecordServiceConfig{StrictGrades: true})
	_, err = strict.AddSemester(context.Background(), input)
	var fieldErr *SubjectFieldError
	require.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, "grade", fieldErr.Field)
	assert.Zero(t, strictStore.saves)
}

func TestRecordServiceUsesRecordGradingScheme(t *testing.T) {
	record := recordWithSemesters()
	record.GradingType = models.GradingSchemeType2
	svc := newRecordServiceForTest(t, &memoryRecordStore{record: record}, RecordServiceConfig{})

	res, err := svc.AddSemester(context.Background(), subjects(
		dto.SubjectInput{Name: "A", Credit: 2, Grade: "B+"},
		dto.SubjectInput{Name: "B", Credit: 2, Grade: "A-"},
	))
	require.NoError(t, err)
	assert.InDelta(t, 1.75, res.Semester.SGPA, 1e-12, "A- is not a Type2 grade")
}

func TestRecordServiceSelectUniversityDiscardsHistory(t *testing.T) {
	record := recordWithSemesters(1, 2)
	record.DegreeType = models.DegreeMaster
	store := &memoryRecordStore{record: record}
	svc := newRecordServiceForTest(t, store, RecordServiceConfig{})
	require.NotZero(t, record.CGPA)

	got, err := svc.SelectUniversity(context.Background(), "Scheme B University")
	require.NoError(t, err)
	assert.Equal(t, "Scheme B University", got.University)
	assert.Equal(t, models.GradingSchemeType2, got.GradingType)
	assert.Empty(t, got.Semesters)
	assert.NotNil(t, got.Semesters)
	assert.Equal(t, 0.0, got.CGPA)
	assert.Empty(t, got.DegreeType)
	assert.Equal(t, got, store.record)
}

func TestRecordServiceSelectUniversityCatalogMiss(t *testing.T) {
	store := &memoryRecordStore{record: recordWithSemesters(1)}
	svc := newRecordServiceForTest(t, store, RecordServiceConfig{})

	_, err := svc.SelectUniversity(context.Background(), "Nowhere College")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrCatalogMiss))
	assert.Zero(t, store.saves)
	assert.Len(t, store.record.Semesters, 1)
}

func TestRecordServiceRequiresOnboarding(t *testing.T) {
	store := &memoryRecordStore{}
	svc := newRecordServiceForTest(t, store, RecordServiceConfig{})
	ctx := context.Background()

	record, err := svc.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, record)

	_, err = svc.AddSemester(ctx, subjects(dto.SubjectInput{Name: "X", Credit: 1, Grade: "A"}))
	assert.True(t, errors.Is(err, appErrors.ErrNoRecord))
	_, err = svc.DeleteSemester(ctx, 1)
	assert.True(t, errors.Is(err, appErrors.ErrNoRecord))
	_, err = svc.UpdateProfile(ctx, dto.UpdateProfileRequest{DegreeType: "BS"})
	assert.True(t, errors.Is(err, appErrors.ErrNoRecord))
	_, err = svc.View(ctx)
	assert.True(t, errors.Is(err, appErrors.ErrNoRecord))
	assert.Equal(t, 1, store.loadHits, "absent record is cached after first load")
}

func TestRecordServiceStorageFailureLeavesStateUnchanged(t *testing.T) {
	store := &memoryRecordStore{record: recordWithSemesters(1)}
	svc := newRecordServiceForTest(t, store, RecordServiceConfig{})
	ctx := context.Background()

	before, err := svc.Load(ctx)
	require.NoError(t, err)

	store.saveErr = errors.New("disk full")
	_, err = svc.AddSemester(ctx, subjects(dto.SubjectInput{Name: "X", Credit: 3, Grade: "A"}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrStorage))

	_, err = svc.SelectUniversity(ctx, "Scheme B University")
	assert.True(t, errors.Is(err, appErrors.ErrStorage))

	after, err := svc.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestRecordServiceLoadFailure(t *testing.T) {
	svc := newRecordServiceForTest(t, &memoryRecordStore{loadErr: errors.New("io")}, RecordServiceConfig{})
	_, err := svc.Load(context.Background())
	assert.True(t, errors.Is(err, appErrors.ErrStorage))
}

func TestRecordServiceLoadReturnsCopy(t *testing.T) {
	svc := newRecordServiceForTest(t, &memoryRecordStore{record: recordWithSemesters(1)}, RecordServiceConfig{})
	first, err := svc.Load(context.Background())
	require.NoError(t, err)
	first.Semesters[0].Subjects[0].Name = "mutated"
	first.CGPA = 99

	second, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Course", second.Semesters[0].Subjects[0].Name)
	assert.Equal(t, 3.0, second.CGPA)
}

func TestRecordServiceUpdateProfile(t *testing.T) {
	store := &memoryRecordStore{record: recordWithSemesters(1, 2)}
	svc := newRecordServiceForTest(t, store, RecordServiceConfig{})
	before := store.record.Clone()

	got, err := svc.UpdateProfile(context.Background(), dto.UpdateProfileRequest{DegreeType: "PhD", Major: " Literature "})
	require.NoError(t, err)
	assert.Equal(t, "PhD", got.DegreeType)
	assert.Equal(t, "Literature", got.Major)
	assert.Equal(t, before.Semesters, got.Semesters)
	assert.Equal(t, before.CGPA, got.CGPA)

	_, err = svc.UpdateProfile(context.Background(), dto.UpdateProfileRequest{DegreeType: "Diploma"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	assert.Equal(t, 1, store.saves)
}

func TestRecordServiceReset(t *testing.T) {
	store := &memoryRecordStore{record: recordWithSemesters(1)}
	svc := newRecordServiceForTest(t, store, RecordServiceConfig{})

	require.NoError(t, svc.Reset(context.Background()))
	assert.True(t, store.deleted)
	record, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestRecordServicePreviewDoesNotPersist(t *testing.T) {
	store := &memoryRecordStore{record: recordWithSemesters()}
	svc := newRecordServiceForTest(t, store, RecordServiceConfig{})

	preview, err := svc.PreviewSemester(context.Background(), subjects(
		dto.SubjectInput{Name: "", Credit: 3, Grade: "A"},
		dto.SubjectInput{Name: "Lab", Credit: 1, Grade: "B"},
	))
	require.NoError(t, err)
	assert.InDelta(t, 3.75, preview.SGPA, 1e-12)
	assert.Equal(t, "3.75", preview.SGPADisplay)
	assert.Equal(t, 4.0, preview.TotalCredits)
	assert.Zero(t, store.saves)
}

func TestRecordServiceViewOrdersNewestFirst(t *testing.T) {
	store := &memoryRecordStore{record: recordWithSemesters(2, 7, 4)}
	svc := newRecordServiceForTest(t, store, RecordServiceConfig{})

	view, err := svc.View(context.Background())
	require.NoError(t, err)
	require.Len(t, view.Semesters, 3)
	assert.Equal(t, 7, view.Semesters[0].ID)
	assert.Equal(t, 4, view.Semesters[1].ID)
	assert.Equal(t, 2, view.Semesters[2].ID)
	assert.Equal(t, 9.0, view.TotalCredits)
	assert.Equal(t, "3.00", view.CGPADisplay)
	assert.Equal(t, 3.0, view.Semesters[0].Subjects[0].GradePoint)

	loaded, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{2, 7, 4}, semesterIDs(loaded), "stored order is untouched")
}
