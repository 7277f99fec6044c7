package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/dis-school/registry-api/internal/dto"
	"github.com/dis-school/registry-api/internal/models"
	"github.com/dis-school/registry-api/internal/repository"
	appErrors "github.com/dis-school/registry-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	SetDeleted(ctx context.Context, id string, deleted bool) error
	Delete(ctx context.Context, id string) error
}

type admissionNumberSource interface {
	Next(ctx context.Context) (string, error)
}

type passportStorage interface {
	SaveStream(filename string, r io.Reader) (string, error)
	Delete(filename string) error
}

type lifecycleAuditor interface {
	Record(ctx context.Context, entry AuditEntry)
}

type summaryInvalidator interface {
	InvalidateSummary(ctx context.Context)
}

// PassportUpload carries the optional photo accompanying a write.
type PassportUpload struct {
	Filename string
	Size     int64
	MimeType string
	Content  io.ReadSeeker
}

// StudentServiceConfig holds passport validation parameters.
type StudentServiceConfig struct {
	MaxFileSize  int64
	AllowedMIMEs []string
}

// admission number collisions are retried a bounded number of times; the
// counter makes them practically impossible but a unique index backs it up.
const maxRegisterAttempts = 3

// StudentService owns the record lifecycle: registration, listing, partial
// edits, the recycle bin, and permanent removal.
type StudentService struct {
	repo       studentRepository
	admissions admissionNumberSource
	storage    passportStorage
	audit      lifecycleAuditor
	dashboard  summaryInvalidator
	metrics    *MetricsService
	validator  *validator.Validate
	logger     *zap.Logger
	cfg        StudentServiceConfig
	mimeSet    map[string]struct{}
}

// NewStudentService constructs the service with defaults.
func NewStudentService(repo studentRepository, admissions admissionNumberSource, storage passportStorage,
	audit lifecycleAuditor, dashboard summaryInvalidator, metrics *MetricsService,
	validate *validator.Validate, logger *zap.Logger, cfg StudentServiceConfig) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	// report failures under the form field names the caller actually sent
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = 5 * 1024 * 1024
	}
	if len(cfg.AllowedMIMEs) == 0 {
		cfg.AllowedMIMEs = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}
	}
	mimeSet := make(map[string]struct{}, len(cfg.AllowedMIMEs))
	for _, mt := range cfg.AllowedMIMEs {
		mimeSet[strings.ToLower(mt)] = struct{}{}
	}
	return &StudentService{
		repo:       repo,
		admissions: admissions,
		storage:    storage,
		audit:      audit,
		dashboard:  dashboard,
		metrics:    metrics,
		validator:  validate,
		logger:     logger,
		cfg:        cfg,
		mimeSet:    mimeSet,
	}
}

// Register validates the form, claims an admission number, and persists the
// record. The passport file is made durable before the record references it;
// a failed insert cleans the file back up.
func (s *StudentService) Register(ctx context.Context, req dto.RegisterStudentRequest, upload *PassportUpload) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, requiredFieldsMessage(err))
	}
	if !models.IsValidGender(req.Gender) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid gender")
	}
	if !models.IsValidClassLevel(req.ClassLevel) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid class level")
	}
	if req.Religion != "" && !models.IsValidReligion(req.Religion) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid religion")
	}
	if req.Term != "" && !models.IsValidTerm(req.Term) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid term")
	}

	var passport *string
	if upload != nil {
		stored, err := s.storePassport(upload)
		if err != nil {
			return nil, err
		}
		passport = &stored
	}

	student := &models.Student{
		FirstName:       req.FirstName,
		MiddleName:      req.MiddleName,
		LastName:        req.LastName,
		Gender:          req.Gender,
		DateOfBirth:     req.DateOfBirth,
		Nationality:     req.Nationality,
		StateOfOrigin:   req.StateOfOrigin,
		LGA:             req.LGA,
		HomeAddress:     req.Address,
		Religion:        req.Religion,
		Phone:           req.Phone,
		ClassLevel:      req.ClassLevel,
		Section:         req.Section,
		Session:         req.Session,
		Term:            req.Term,
		PreviousSchool:  req.PreviousSchool,
		DateOfAdmission: req.DateOfAdmission,
		Passport:        passport,
		Deleted:         false,
	}

	var lastErr error
	for attempt := 0; attempt < maxRegisterAttempts; attempt++ {
		number, err := s.admissions.Next(ctx)
		if err != nil {
			s.discardPassport(passport)
			return nil, err
		}
		student.AdmissionNumber = number
		student.ID = ""
		if err := s.repo.Create(ctx, student); err != nil {
			if repository.IsUniqueViolation(err) {
				lastErr = err
				continue
			}
			s.discardPassport(passport)
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
		}
		lastErr = nil
		break
	}
	if lastErr != nil {
		s.discardPassport(passport)
		return nil, appErrors.Wrap(lastErr, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "admission number collision")
	}

	s.metrics.RecordRegistration()
	s.emitAudit(ctx, models.AuditActionStudentRegister, student.ID, map[string]interface{}{
		"admissionNumber": student.AdmissionNumber,
		"classLevel":      student.ClassLevel,
	})
	s.invalidateSummary(ctx)
	return student, nil
}

// List returns active students, optionally filtered by class level or a name
// substring. An empty result is a valid, empty slice.
func (s *StudentService) List(ctx context.Context, classLevel, search string) ([]models.Student, error) {
	students, err := s.repo.List(ctx, models.StudentFilter{ClassLevel: classLevel, Search: search, Deleted: false})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, nil
}

// ListRecycled returns the recycle bin contents.
func (s *StudentService) ListRecycled(ctx context.Context) ([]models.Student, error) {
	students, err := s.repo.List(ctx, models.StudentFilter{Deleted: true})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list recycled students")
	}
	return students, nil
}

// Get returns a student by id, recycled or not.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// Update applies the supplied fields, leaving absent ones untouched. The
// admission number is immutable; a replacement passport removes the previous
// file only after the record write lands.
func (s *StudentService) Update(ctx context.Context, id string, req dto.UpdateStudentRequest, upload *PassportUpload) (*models.Student, error) {
	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.AdmissionNumber != nil && *req.AdmissionNumber != student.AdmissionNumber {
		return nil, appErrors.Clone(appErrors.ErrValidation, "admission number cannot be changed")
	}
	if req.Gender != nil && !models.IsValidGender(*req.Gender) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid gender")
	}
	if req.ClassLevel != nil && !models.IsValidClassLevel(*req.ClassLevel) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid class level")
	}
	if req.Religion != nil && *req.Religion != "" && !models.IsValidReligion(*req.Religion) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid religion")
	}
	if req.Term != nil && *req.Term != "" && !models.IsValidTerm(*req.Term) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid term")
	}

	applyString(&student.FirstName, req.FirstName)
	applyString(&student.MiddleName, req.MiddleName)
	applyString(&student.LastName, req.LastName)
	applyString(&student.Gender, req.Gender)
	applyString(&student.DateOfBirth, req.DateOfBirth)
	applyString(&student.Nationality, req.Nationality)
	applyString(&student.StateOfOrigin, req.StateOfOrigin)
	applyString(&student.LGA, req.LGA)
	applyString(&student.HomeAddress, req.Address)
	applyString(&student.Religion, req.Religion)
	applyString(&student.Phone, req.Phone)
	applyString(&student.ClassLevel, req.ClassLevel)
	applyString(&student.Section, req.Section)
	applyString(&student.Session, req.Session)
	applyString(&student.Term, req.Term)
	applyString(&student.PreviousSchool, req.PreviousSchool)
	applyString(&student.DateOfAdmission, req.DateOfAdmission)

	var previous, replacement *string
	if upload != nil {
		stored, err := s.storePassport(upload)
		if err != nil {
			return nil, err
		}
		previous = student.Passport
		replacement = &stored
		student.Passport = replacement
	}

	if err := s.repo.Update(ctx, student); err != nil {
		s.discardPassport(replacement)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}

	if previous != nil {
		if err := s.storage.Delete(*previous); err != nil {
			s.logger.Warn("failed to remove replaced passport", zap.String("file", *previous), zap.Error(err))
		}
	}

	s.emitAudit(ctx, models.AuditActionStudentUpdate, student.ID, map[string]interface{}{
		"admissionNumber": student.AdmissionNumber,
	})
	s.invalidateSummary(ctx)
	return student, nil
}

// Recycle moves the record into the recycle bin. Recycling an already
// recycled record is a no-op success.
func (s *StudentService) Recycle(ctx context.Context, id string) (*models.Student, error) {
	return s.setDeleted(ctx, id, true, models.AuditActionStudentRecycle)
}

// Restore brings a record back from the recycle bin. Idempotent like Recycle.
func (s *StudentService) Restore(ctx context.Context, id string) (*models.Student, error) {
	return s.setDeleted(ctx, id, false, models.AuditActionStudentRestore)
}

func (s *StudentService) setDeleted(ctx context.Context, id string, deleted bool, action string) (*models.Student, error) {
	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if student.Deleted == deleted {
		return student, nil
	}
	if err := s.repo.SetDeleted(ctx, id, deleted); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update deleted flag")
	}
	student.Deleted = deleted
	s.emitAudit(ctx, action, id, nil)
	s.invalidateSummary(ctx)
	return student, nil
}

// PermanentlyDelete removes the record and its stored passport. The file
// delete is best effort; a missing file is fine.
func (s *StudentService) PermanentlyDelete(ctx context.Context, id string) error {
	student, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	if student.Passport != nil {
		if err := s.storage.Delete(*student.Passport); err != nil {
			s.logger.Warn("failed to remove passport file", zap.String("file", *student.Passport), zap.Error(err))
		}
	}
	s.emitAudit(ctx, models.AuditActionStudentPurge, id, map[string]interface{}{
		"admissionNumber": student.AdmissionNumber,
	})
	s.invalidateSummary(ctx)
	return nil
}

func (s *StudentService) storePassport(upload *PassportUpload) (string, error) {
	if upload.Content == nil || upload.Size <= 0 {
		return "", appErrors.Clone(appErrors.ErrValidation, "passport file is empty")
	}
	if upload.Size > s.cfg.MaxFileSize {
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("passport exceeds %d bytes limit", s.cfg.MaxFileSize))
	}
	mimeType, err := s.detectMime(upload)
	if err != nil {
		return "", err
	}
	if _, allowed := s.mimeSet[strings.ToLower(mimeType)]; !allowed {
		return "", appErrors.Clone(appErrors.ErrValidation, "passport must be an image")
	}
	filename := generatePassportName(upload.Filename, mimeType)
	if _, err := upload.Content.Seek(0, io.SeekStart); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reset upload stream")
	}
	stored, err := s.storage.SaveStream(filename, upload.Content)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store passport")
	}
	return stored, nil
}

func (s *StudentService) detectMime(upload *PassportUpload) (string, error) {
	if upload.MimeType != "" {
		return upload.MimeType, nil
	}
	header := make([]byte, 512)
	n, err := upload.Content.Read(header)
	if err != nil && err != io.EOF {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to inspect passport")
	}
	if _, err := upload.Content.Seek(0, io.SeekStart); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reset upload stream")
	}
	if n == 0 {
		return "", appErrors.Clone(appErrors.ErrValidation, "passport file is empty")
	}
	return http.DetectContentType(header[:n]), nil
}

func (s *StudentService) discardPassport(stored *string) {
	if stored == nil {
		return
	}
	if err := s.storage.Delete(*stored); err != nil {
		s.logger.Warn("failed to clean up passport file", zap.String("file", *stored), zap.Error(err))
	}
}

func (s *StudentService) emitAudit(ctx context.Context, action, resourceID string, details map[string]interface{}) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ctx, AuditEntry{Action: action, ResourceID: resourceID, Details: details})
}

func (s *StudentService) invalidateSummary(ctx context.Context) {
	if s.dashboard == nil {
		return
	}
	s.dashboard.InvalidateSummary(ctx)
}

// requiredFieldsMessage names every field that failed validation so the
// caller can see which inputs to fix.
func requiredFieldsMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "missing required fields"
	}
	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field())
	}
	return "missing required fields: " + strings.Join(fields, ", ")
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func generatePassportName(original, mimeType string) string {
	ext := strings.ToLower(filepath.Ext(original))
	if ext == "" {
		ext = imageExtension(mimeType)
	}
	if ext == "" {
		ext = ".img"
	}
	return fmt.Sprintf("passport_%d_%s%s", time.Now().Unix(), randomSuffix(), ext)
}

func imageExtension(mime string) string {
	switch strings.ToLower(mime) {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ""
	}
}

func randomSuffix() string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}
