package service

import (
	"strings"
	"time"

	"github.com/tutorlane/tutor-dash-api/internal/models"
	appErrors "github.com/tutorlane/tutor-dash-api/pkg/errors"
	"github.com/tutorlane/tutor-dash-api/pkg/export"
)

const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

var exportHeaders = []string{"Date", "Subject", "Type", "Status", "Tutor", "Students"}

// ExportService renders a filtered lesson list as a downloadable document.
type ExportService struct {
	csv *export.CSVExporter
	pdf *export.PDFExporter
}

// NewExportService constructs the service.
func NewExportService() *ExportService {
	return &ExportService{
		csv: export.NewCSVExporter(),
		pdf: export.NewPDFExporter(),
	}
}

// Render produces the export document and its MIME type. Lessons keep their
// collection order.
func (s *ExportService) Render(lessons []models.Lesson, format string) ([]byte, string, error) {
	dataset := export.Dataset{
		Headers: exportHeaders,
		Rows:    make([]map[string]string, 0, len(lessons)),
	}
	for _, lesson := range lessons {
		tutor := ""
		if lesson.Tutor != nil {
			tutor = *lesson.Tutor
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Date":     lesson.Date.Format(time.RFC3339),
			"Subject":  lesson.Subject,
			"Type":     string(lesson.Type),
			"Status":   string(lesson.Status),
			"Tutor":    tutor,
			"Students": strings.Join(lesson.Students, "; "),
		})
	}

	switch strings.ToLower(format) {
	case ExportFormatCSV:
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render csv export")
		}
		return payload, "text/csv", nil
	case ExportFormatPDF:
		payload, err := s.pdf.Render(dataset, "Lesson Schedule")
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render pdf export")
		}
		return payload, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}
