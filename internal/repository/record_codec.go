package repository

import (
	"encoding/json"
	"fmt"

	"github.com/noah-isme/gpa-tracker-api/internal/models"
)

// DefaultRecordKey is the storage key used when none is configured.
const DefaultRecordKey = "future_data"

func encodeRecord(record *models.AcademicRecord) ([]byte, error) {
	if record == nil {
		return nil, fmt.Errorf("encode record: nil record")
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return payload, nil
}

func decodeRecord(payload []byte) (*models.AcademicRecord, error) {
	var record models.AcademicRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	if record.Semesters == nil {
		record.Semesters = []models.Semester{}
	}
	for i := range record.Semesters {
		if record.Semesters[i].Subjects == nil {
			record.Semesters[i].Subjects = []models.Subject{}
		}
	}
	return &record, nil
}

func keyOrDefault(key string) string {
	if key == "" {
		return DefaultRecordKey
	}
	return key
}
