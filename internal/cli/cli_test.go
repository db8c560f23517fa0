package cli

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gpa-tracker-api/internal/dto"
	"github.com/noah-isme/gpa-tracker-api/internal/repository"
	"github.com/noah-isme/gpa-tracker-api/internal/service"
	"github.com/noah-isme/gpa-tracker-api/pkg/storage"
)

func testOpener(t *testing.T) Opener {
	t.Helper()
	recordFiles, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	exportFiles, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	catalog := repository.NewUniversityRepository(nil)
	records := service.NewRecordService(repository.NewFileRecordRepository(recordFiles, ""), catalog, nil, nil, nil, service.RecordServiceConfig{})
	app := &App{
		Records:      records,
		Universities: service.NewUniversityService(catalog),
		Exports: service.NewExportService(records, exportFiles, storage.NewSignedURLSigner("cli-secret", time.Hour),
			service.ExportConfig{}, nil, nil, nil, nil),
		ExportFiles: exportFiles,
	}
	return func(context.Context, bool) (*App, func() error, error) {
		return app, func() error { return nil }, nil
	}
}

func execute(t *testing.T, open Opener, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand(open)
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestParseSubjects(t *testing.T) {
	subjects, err := parseSubjects([]string{"Calculus:3:A", "Lab: Circuits:1.5: B+ ", "Art:2:a"})
	require.NoError(t, err)
	assert.Equal(t, []dto.SubjectInput{
		{Name: "Calculus", Credit: 3, Grade: "A"},
		{Name: "Lab: Circuits", Credit: 1.5, Grade: "B+"},
		{Name: "Art", Credit: 2, Grade: "a"},
	}, subjects)

	_, err = parseSubjects([]string{"Calculus"})
	assert.ErrorContains(t, err, "subject 1")

	_, err = parseSubjects([]string{"Calculus:3:A", "Physics:three:B"})
	assert.ErrorContains(t, err, "subject 2: credit")
}

func TestCLIRecordWorkflow(t *testing.T) {
	open := testOpener(t)

	_, err := execute(t, open, "show")
	require.Error(t, err)

	out, err := execute(t, open, "universities", "--province", "Islamabad")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.NotContains(t, out, "University of the Punjab")

	out, err = execute(t, open, "select", "University", "of", "the", "Punjab")
	require.NoError(t, err)
	assert.Contains(t, out, "Selected University of the Punjab (Type1 grading)")

	out, err = execute(t, open, "add-semester", "-s", "Calculus:3:A", "-s", "Physics:4:B")
	require.NoError(t, err)
	assert.Equal(t, "Added semester 1: SGPA 3.42. CGPA 3.42\n", out)

	out, err = execute(t, open, "preview", "-s", "Ethics:2:A+")
	require.NoError(t, err)
	assert.Equal(t, "SGPA 4.00 over 2 credits\n", out)

	out, err = execute(t, open, "edit-semester", "9", "-s", "Ethics:2:A+")
	require.NoError(t, err)
	assert.Contains(t, out, "nothing changed")

	_, err = execute(t, open, "profile", "--degree", "BS", "--major", "Physics")
	require.NoError(t, err)

	out, err = execute(t, open, "show")
	require.NoError(t, err)
	assert.Contains(t, out, "BS Physics")
	assert.Contains(t, out, "CGPA 3.42 over 7 credits")

	out, err = execute(t, open, "export", "--format", "csv")
	require.NoError(t, err)
	path := strings.TrimSpace(out)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Calculus")

	out, err = execute(t, open, "delete-semester", "1")
	require.NoError(t, err)
	assert.Equal(t, "Deleted semester 1. CGPA 0.00\n", out)

	_, err = execute(t, open, "reset")
	assert.ErrorContains(t, err, "--yes")

	_, err = execute(t, open, "reset", "--yes")
	require.NoError(t, err)
	_, err = execute(t, open, "show")
	assert.Error(t, err)
}

func TestCLILowercaseGradeScoresLikeTheAPI(t *testing.T) {
	open := testOpener(t)
	_, err := execute(t, open, "select", "University of the Punjab")
	require.NoError(t, err)

	out, err := execute(t, open, "preview", "-s", "Art:2:a")
	require.NoError(t, err)
	assert.Equal(t, "SGPA 0.00 over 2 credits\n", out)

	out, err = execute(t, open, "add-semester", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "case-sensitive")
}

func TestCLIAddSemesterValidationError(t *testing.T) {
	open := testOpener(t)
	_, err := execute(t, open, "select", "University of the Punjab")
	require.NoError(t, err)

	_, err = execute(t, open, "add-semester", "-s", "Calculus:0:A")
	assert.ErrorContains(t, err, "subject 1: credit must be greater than 0")
}

func TestCLIHelpDoesNotOpenStore(t *testing.T) {
	opened := false
	open := func(context.Context, bool) (*App, func() error, error) {
		opened = true
		return &App{}, nil, nil
	}
	out, err := execute(t, open, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "add-semester")
	assert.False(t, opened)
}
