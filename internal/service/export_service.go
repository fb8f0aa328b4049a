package service

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/juanraniqueo21/proyecto-buses/internal/models"
	appErrors "github.com/juanraniqueo21/proyecto-buses/pkg/errors"
	"github.com/juanraniqueo21/proyecto-buses/pkg/export"
)

const exportPageSize = 100

// ExportFormat identifies a supported roster export encoding.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

// ExportResult carries rendered report bytes plus HTTP delivery metadata.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ExportService renders the active fleet roster as CSV or PDF.
type ExportService struct {
	repo   busRepository
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	logger *zap.Logger
}

// NewExportService creates a new export service.
func NewExportService(repo busRepository, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		repo:   repo,
		csv:    export.NewCSVExporter(),
		pdf:    export.NewPDFExporter(),
		logger: logger,
	}
}

var rosterHeaders = []string{"id", "patente", "marca", "modelo", "anio", "capacidad_sentados", "kilometraje_actual"}

// RenderRoster pages through the active fleet and renders it in the
// requested format.
func (s *ExportService) RenderRoster(ctx context.Context, format string) (*ExportResult, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format != ExportFormatCSV && format != ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "export format must be csv or pdf")
	}

	dataset := export.Dataset{Headers: rosterHeaders}
	for skip := 0; ; skip += exportPageSize {
		page, err := s.repo.List(ctx, skip, exportPageSize)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load fleet roster")
		}
		for _, bus := range page {
			dataset.Rows = append(dataset.Rows, rosterRow(bus))
		}
		if len(page) < exportPageSize {
			break
		}
	}

	switch format {
	case ExportFormatPDF:
		content, err := s.pdf.Render(dataset, "Flota de Buses")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{Content: content, ContentType: "application/pdf", Filename: "flota.pdf"}, nil
	default:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{Content: content, ContentType: "text/csv", Filename: "flota.csv"}, nil
	}
}

func rosterRow(bus models.Bus) map[string]string {
	mileage := ""
	if bus.Mileage != nil {
		mileage = strconv.FormatInt(*bus.Mileage, 10)
	}
	return map[string]string{
		"id":                 strconv.FormatInt(bus.ID, 10),
		"patente":            bus.Plate,
		"marca":              bus.Make,
		"modelo":             bus.Model,
		"anio":               strconv.Itoa(bus.Year),
		"capacidad_sentados": strconv.Itoa(bus.SeatCapacity),
		"kilometraje_actual": mileage,
	}
}
