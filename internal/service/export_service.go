package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dis-school/registry-api/internal/models"
	appErrors "github.com/dis-school/registry-api/pkg/errors"
	"github.com/dis-school/registry-api/pkg/export"
)

type rosterLister interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error)
}

// RosterExport bundles the rendered document with response metadata.
type RosterExport struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders active-roster downloads in CSV or PDF form.
type ExportService struct {
	repo rosterLister
	csv  *export.CSVExporter
	pdf  *export.PDFExporter
}

// NewExportService constructs the export service.
func NewExportService(repo rosterLister) *ExportService {
	return &ExportService{repo: repo, csv: export.NewCSVExporter(), pdf: export.NewPDFExporter()}
}

var rosterHeaders = []string{"Admission No", "First Name", "Last Name", "Gender", "Class", "Section", "Session", "Term", "Phone"}

// Roster builds the export for the requested format, optionally narrowed to a
// single class level.
func (s *ExportService) Roster(ctx context.Context, format, classLevel string) (*RosterExport, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "pdf" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
	if classLevel != "" && !models.IsValidClassLevel(classLevel) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid class level")
	}

	students, err := s.repo.List(ctx, models.StudentFilter{ClassLevel: classLevel, Deleted: false})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}

	dataset := export.Dataset{Headers: rosterHeaders, Rows: make([]map[string]string, 0, len(students))}
	for _, st := range students {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Admission No": st.AdmissionNumber,
			"First Name":   st.FirstName,
			"Last Name":    st.LastName,
			"Gender":       st.Gender,
			"Class":        st.ClassLevel,
			"Section":      st.Section,
			"Session":      st.Session,
			"Term":         st.Term,
			"Phone":        st.Phone,
		})
	}

	title := "Student Roster"
	if classLevel != "" {
		title = fmt.Sprintf("%s Roster", classLevel)
	}
	stamp := time.Now().Format("20060102")
	slug := strings.ReplaceAll(strings.ToLower(classLevel), " ", "_")
	if slug == "" {
		slug = "all"
	}

	switch format {
	case "pdf":
		data, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &RosterExport{
			Filename:    fmt.Sprintf("students_%s_%s.pdf", slug, stamp),
			ContentType: "application/pdf",
			Data:        data,
		}, nil
	default:
		data, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &RosterExport{
			Filename:    fmt.Sprintf("students_%s_%s.csv", slug, stamp),
			ContentType: "text/csv",
			Data:        data,
		}, nil
	}
}
