package models

import "time"

// ReportFormat enumerates supported export output formats.
type ReportFormat string

const (
	// ReportFormatCSV renders the record as comma separated values.
	ReportFormatCSV ReportFormat = "csv"
	// ReportFormatPDF renders the record as a printable transcript.
	ReportFormatPDF ReportFormat = "pdf"
)

// Valid reports whether the format is supported.
func (f ReportFormat) Valid() bool {
	return f == ReportFormatCSV || f == ReportFormatPDF
}

// ContentType returns the MIME type served for the format.
func (f ReportFormat) ContentType() string {
	if f == ReportFormatPDF {
		return "application/pdf"
	}
	return "text/csv"
}

// ReportArtifact describes a rendered export stored on disk.
type ReportArtifact struct {
	ID           string       `json:"id"`
	Format       ReportFormat `json:"format"`
	RelativePath string       `json:"-"`
	Token        string       `json:"token"`
	URL          string       `json:"url"`
	ExpiresAt    time.Time    `json:"expires_at"`
}
