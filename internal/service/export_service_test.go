package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dis-school/registry-api/internal/models"
	appErrors "github.com/dis-school/registry-api/pkg/errors"
)

type fakeRosterLister struct {
	students []models.Student
	filter   models.StudentFilter
}

func (f *fakeRosterLister) List(_ context.Context, filter models.StudentFilter) ([]models.Student, error) {
	f.filter = filter
	return f.students, nil
}

func TestExportServiceCSV(t *testing.T) {
	lister := &fakeRosterLister{students: []models.Student{
		{AdmissionNumber: "DIS/2025/001", FirstName: "Ada", LastName: "Obi", Gender: "Female", ClassLevel: "Basic 1"},
		{AdmissionNumber: "DIS/2025/002", FirstName: "Chi", LastName: "Eze", Gender: "Male", ClassLevel: "Basic 1"},
	}}
	svc := NewExportService(lister)

	out, err := svc.Roster(context.Background(), "csv", "")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", out.ContentType)
	assert.True(t, strings.HasPrefix(out.Filename, "students_all_"))
	assert.False(t, lister.filter.Deleted, "exports cover the active roster only")

	body := string(out.Data)
	assert.Contains(t, body, "Admission No")
	assert.Contains(t, body, "DIS/2025/001")
	assert.Contains(t, body, "Obi")
}

func TestExportServiceDefaultsToCSV(t *testing.T) {
	svc := NewExportService(&fakeRosterLister{})

	out, err := svc.Roster(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", out.ContentType)
}

func TestExportServicePDF(t *testing.T) {
	lister := &fakeRosterLister{students: []models.Student{
		{AdmissionNumber: "DIS/2025/001", FirstName: "Ada", LastName: "Obi", Gender: "Female", ClassLevel: "JSS 1"},
	}}
	svc := NewExportService(lister)

	out, err := svc.Roster(context.Background(), "pdf", "JSS 1")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", out.ContentType)
	assert.True(t, strings.HasPrefix(out.Filename, "students_jss_1_"))
	assert.Equal(t, "JSS 1", lister.filter.ClassLevel)
	assert.True(t, strings.HasPrefix(string(out.Data), "%PDF"))
}

func TestExportServiceRejectsBadInput(t *testing.T) {
	svc := NewExportService(&fakeRosterLister{})

	_, err := svc.Roster(context.Background(), "xlsx", "")
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)

	_, err = svc.Roster(context.Background(), "csv", "Basic 9")
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}
