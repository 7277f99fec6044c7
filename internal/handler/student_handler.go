package handler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dis-school/registry-api/internal/dto"
	"github.com/dis-school/registry-api/internal/models"
	"github.com/dis-school/registry-api/internal/service"
	appErrors "github.com/dis-school/registry-api/pkg/errors"
	"github.com/dis-school/registry-api/pkg/response"
)

type studentLifecycle interface {
	Register(ctx context.Context, req dto.RegisterStudentRequest, upload *service.PassportUpload) (*models.Student, error)
	List(ctx context.Context, classLevel, search string) ([]models.Student, error)
	ListRecycled(ctx context.Context) ([]models.Student, error)
	Get(ctx context.Context, id string) (*models.Student, error)
	Update(ctx context.Context, id string, req dto.UpdateStudentRequest, upload *service.PassportUpload) (*models.Student, error)
	Recycle(ctx context.Context, id string) (*models.Student, error)
	Restore(ctx context.Context, id string) (*models.Student, error)
	PermanentlyDelete(ctx context.Context, id string) error
}

// StudentHandler exposes the registration and lifecycle endpoints.
type StudentHandler struct {
	students studentLifecycle
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students studentLifecycle) *StudentHandler {
	return &StudentHandler{students: students}
}

// Register godoc
// @Summary Register a new student
// @Tags Students
// @Accept multipart/form-data
// @Produce json
// @Param firstName formData string true "First name"
// @Param lastName formData string true "Last name"
// @Param gender formData string true "Gender"
// @Param classLevel formData string true "Class level"
// @Param passport formData file false "Passport photo"
// @Success 201 {object} response.Envelope
// @Router /students/register [post]
func (h *StudentHandler) Register(c *gin.Context) {
	var req dto.RegisterStudentRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid registration payload"))
		return
	}
	upload, err := passportFromForm(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	student, err := h.students.Register(c.Request.Context(), req, upload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// List godoc
// @Summary List active students
// @Tags Students
// @Produce json
// @Param classLevel query string false "Filter by class level"
// @Param search query string false "Search by name or admission number"
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	classLevel := strings.TrimSpace(c.Query("classLevel"))
	search := strings.TrimSpace(c.Query("search"))
	students, err := h.students.List(c.Request.Context(), classLevel, search)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, nil)
}

// RecycleBin godoc
// @Summary List recycled students
// @Tags Students
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /students/recyclebin [get]
func (h *StudentHandler) RecycleBin(c *gin.Context) {
	students, err := h.students.ListRecycled(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, nil)
}

// Get godoc
// @Summary Get a single student
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	student, err := h.students.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// Update godoc
// @Summary Update a student
// @Tags Students
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Student ID"
// @Param passport formData file false "Replacement passport photo"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [put]
func (h *StudentHandler) Update(c *gin.Context) {
	var req dto.UpdateStudentRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid update payload"))
		return
	}
	upload, err := passportFromForm(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	student, err := h.students.Update(c.Request.Context(), c.Param("id"), req, upload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// Recycle godoc
// @Summary Move a student to the recycle bin
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/recycle/{id} [put]
func (h *StudentHandler) Recycle(c *gin.Context) {
	student, err := h.students.Recycle(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// Restore godoc
// @Summary Restore a student from the recycle bin
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/restore/{id} [put]
func (h *StudentHandler) Restore(c *gin.Context) {
	student, err := h.students.Restore(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// PermanentDelete godoc
// @Summary Permanently delete a student
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/permanent/{id} [delete]
func (h *StudentHandler) PermanentDelete(c *gin.Context) {
	if err := h.students.PermanentlyDelete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "student permanently deleted"}, nil)
}

// passportFromForm extracts the optional passport file part. Absence is valid.
func passportFromForm(c *gin.Context) (*service.PassportUpload, error) {
	fileHeader, err := c.FormFile("passport")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid passport file")
	}
	src, err := fileHeader.Open()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open passport file")
	}
	defer src.Close()

	buf, err := io.ReadAll(src)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read passport file")
	}
	return &service.PassportUpload{
		Filename: fileHeader.Filename,
		Size:     fileHeader.Size,
		MimeType: fileHeader.Header.Get("Content-Type"),
		Content:  bytes.NewReader(buf),
	}, nil
}
