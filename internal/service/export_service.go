package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/gpa-tracker-api/internal/models"
	appErrors "github.com/noah-isme/gpa-tracker-api/pkg/errors"
	"github.com/noah-isme/gpa-tracker-api/pkg/export"
	"github.com/noah-isme/gpa-tracker-api/pkg/storage"
)

type recordLoader interface {
	Load(ctx context.Context) (*models.AcademicRecord, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(doc export.Document) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	Retention time.Duration
}

// ExportDownload is an opened export ready to stream. Caller closes File.
type ExportDownload struct {
	File     *os.File
	Format   models.ReportFormat
	Filename string
}

var csvHeaders = []string{"Semester", "Date", "Subject", "Credit", "Grade", "Grade Point", "SGPA"}

// ExportService renders the academic record as a transcript file and hands
// out signed download links for it.
type ExportService struct {
	records recordLoader
	storage fileStorage
	csv     csvRenderer
	pdf     pdfRenderer
	signer  *storage.SignedURLSigner
	metrics *MetricsService
	logger  *zap.Logger
	cfg     ExportConfig
	now     func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(records recordLoader, files fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, metrics *MetricsService, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		records: records,
		storage: files,
		csv:     csv,
		pdf:     pdf,
		signer:  signer,
		metrics: metrics,
		logger:  logger,
		cfg:     cfg,
		now:     time.Now,
	}
}

// Generate renders the current record in format, stores it and signs a
// download token for it.
func (s *ExportService) Generate(ctx context.Context, format models.ReportFormat) (*models.ReportArtifact, error) {
	if !format.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	record, err := s.records.Load(ctx)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, appErrors.Clone(appErrors.ErrNoRecord, "")
	}

	var payload []byte
	switch format {
	case models.ReportFormatCSV:
		payload, err = s.csv.Render(buildTranscriptDataset(record))
	case models.ReportFormatPDF:
		payload, err = s.pdf.Render(s.buildTranscriptDocument(record))
	}
	if err != nil {
		s.logger.Error("export render failed", zap.String("format", string(format)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	id := uuid.NewString()
	relPath, err := s.storage.Save(fmt.Sprintf("%s.%s", id, format), payload)
	if err != nil {
		s.logger.Error("export save failed", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to store export")
	}
	token, expiresAt, err := s.signer.Sign(id, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign export")
	}

	s.metrics.RecordExport(string(format))
	s.logger.Info("export generated", zap.String("export_id", id), zap.String("format", string(format)), zap.Int("bytes", len(payload)))
	return &models.ReportArtifact{
		ID:           id,
		Format:       format,
		RelativePath: relPath,
		Token:        token,
		URL:          s.downloadURL(token),
		ExpiresAt:    expiresAt,
	}, nil
}

// Open verifies a download token and opens the export it points at.
func (s *ExportService) Open(token string) (*ExportDownload, error) {
	claims, err := s.signer.Verify(token)
	if err != nil {
		msg := "invalid download token"
		if errors.Is(err, storage.ErrTokenExpired) {
			msg = "download token expired"
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidToken.Code, appErrors.ErrInvalidToken.Status, msg)
	}
	file, err := s.storage.Open(claims.RelativePath)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "export no longer available")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to open export")
	}
	format := models.ReportFormat(strings.TrimPrefix(filepath.Ext(claims.RelativePath), "."))
	return &ExportDownload{
		File:     file,
		Format:   format,
		Filename: fmt.Sprintf("transcript-%s.%s", s.now().UTC().Format("20060102"), format),
	}, nil
}

// Cleanup removes exports older than ttl, or the configured retention when ttl <= 0.
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.Retention
	}
	removed, err := s.storage.CleanupOlderThan(ttl)
	if err != nil {
		return removed, err
	}
	if len(removed) > 0 {
		s.logger.Info("expired exports removed", zap.Int("count", len(removed)))
	}
	return removed, nil
}

func (s *ExportService) downloadURL(token string) string {
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}
	return fmt.Sprintf("%s/exports/download?token=%s", prefix, token)
}

func semestersAscending(record *models.AcademicRecord) []models.Semester {
	semesters := make([]models.Semester, len(record.Semesters))
	copy(semesters, record.Semesters)
	sort.SliceStable(semesters, func(i, j int) bool { return semesters[i].ID < semesters[j].ID })
	return semesters
}

func formatCredit(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// buildTranscriptDataset flattens the record into one row per subject and
// closes with a cumulative row.
func buildTranscriptDataset(record *models.AcademicRecord) export.Dataset {
	table := record.GradingType.Table()
	rows := make([]map[string]string, 0)
	for _, sem := range semestersAscending(record) {
		for _, sub := range sem.Subjects {
			rows = append(rows, map[string]string{
				"Semester":    strconv.Itoa(sem.ID),
				"Date":        sem.Date,
				"Subject":     sub.Name,
				"Credit":      formatCredit(sub.Credit),
				"Grade":       sub.Grade,
				"Grade Point": fmt.Sprintf("%.2f", table.Points(sub.Grade)),
				"SGPA":        FormatGPA(sem.SGPA),
			})
		}
	}
	rows = append(rows, map[string]string{
		"Semester": "Cumulative",
		"Credit":   formatCredit(record.TotalCredits()),
		"SGPA":     FormatGPA(record.CGPA),
	})
	return export.Dataset{Headers: csvHeaders, Rows: rows}
}

func (s *ExportService) buildTranscriptDocument(record *models.AcademicRecord) export.Document {
	meta := []export.Field{
		{Label: "University", Value: record.University},
		{Label: "Grading", Value: string(record.GradingType)},
	}
	if record.DegreeType != "" {
		meta = append(meta, export.Field{Label: "Degree", Value: record.DegreeType})
	}
	if record.Major != "" {
		meta = append(meta, export.Field{Label: "Major", Value: record.Major})
	}
	meta = append(meta,
		export.Field{Label: "Total Credits", Value: formatCredit(record.TotalCredits())},
		export.Field{Label: "CGPA", Value: FormatGPA(record.CGPA)},
	)

	table := record.GradingType.Table()
	semesters := semestersAscending(record)
	datasets := make([]export.Dataset, 0, len(semesters)+1)

	overview := export.Dataset{
		Title:   "Semesters",
		Headers: []string{"Semester", "Date", "Subjects", "Credits", "SGPA"},
	}
	for _, sem := range semesters {
		overview.Rows = append(overview.Rows, map[string]string{
			"Semester": strconv.Itoa(sem.ID),
			"Date":     sem.Date,
			"Subjects": strconv.Itoa(len(sem.Subjects)),
			"Credits":  formatCredit(sem.TotalCredits),
			"SGPA":     FormatGPA(sem.SGPA),
		})
	}
	datasets = append(datasets, overview)

	for _, sem := range semesters {
		detail := export.Dataset{
			Title:   fmt.Sprintf("Semester %d (SGPA %s)", sem.ID, FormatGPA(sem.SGPA)),
			Headers: []string{"Subject", "Credit", "Grade", "Grade Point"},
		}
		for _, sub := range sem.Subjects {
			detail.Rows = append(detail.Rows, map[string]string{
				"Subject":     sub.Name,
				"Credit":      formatCredit(sub.Credit),
				"Grade":       sub.Grade,
				"Grade Point": fmt.Sprintf("%.2f", table.Points(sub.Grade)),
			})
		}
		datasets = append(datasets, detail)
	}

	return export.Document{
		Title:    "Academic Transcript",
		Meta:     meta,
		Datasets: datasets,
		Footer:   "Generated " + s.now().UTC().Format(semesterDateLayout),
	}
}
