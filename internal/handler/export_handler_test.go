package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dis-school/registry-api/internal/service"
	appErrors "github.com/dis-school/registry-api/pkg/errors"
)

type fakeExportSrv struct {
	export     *service.RosterExport
	err        error
	lastFormat string
	lastClass  string
}

func (f *fakeExportSrv) Roster(_ context.Context, format, classLevel string) (*service.RosterExport, error) {
	f.lastFormat = format
	f.lastClass = classLevel
	return f.export, f.err
}

func TestExportHandlerRoster(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeExportSrv{export: &service.RosterExport{
		Filename:    "students_all_20250314.csv",
		ContentType: "text/csv",
		Data:        []byte("Admission No,First Name\n"),
	}}
	handler := NewExportHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/students/export?format=csv&classLevel=Basic+1", nil)

	handler.Roster(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "csv", srv.lastFormat)
	assert.Equal(t, "Basic 1", srv.lastClass)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "students_all_20250314.csv")
	assert.Contains(t, rec.Body.String(), "Admission No")
}

func TestExportHandlerDefaultsFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeExportSrv{export: &service.RosterExport{ContentType: "text/csv"}}
	handler := NewExportHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/students/export", nil)

	handler.Roster(c)

	assert.Equal(t, "csv", srv.lastFormat)
}

func TestExportHandlerBadFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeExportSrv{err: appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")}
	handler := NewExportHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/students/export?format=xlsx", nil)

	handler.Roster(c)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
