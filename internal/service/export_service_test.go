package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juanraniqueo21/proyecto-buses/internal/models"
	appErrors "github.com/juanraniqueo21/proyecto-buses/pkg/errors"
)

func seedExportFleet(t *testing.T) *mockBusRepo {
	t.Helper()
	repo := newMockBusRepo()
	km := int64(85000)
	for _, b := range []models.Bus{
		{Plate: "BCDF21", Make: "Mercedes Benz", Model: "O500", Year: 2019, SeatCapacity: 42, Mileage: &km, Active: true},
		{Plate: "FGHJ44", Make: "Volvo", Model: "B8R", Year: 2021, SeatCapacity: 45, Active: true},
	} {
		bus := b
		require.NoError(t, repo.Insert(context.Background(), &bus))
	}
	return repo
}

func TestExportServiceRenderRosterCSV(t *testing.T) {
	svc := NewExportService(seedExportFleet(t), nil)

	result, err := svc.RenderRoster(context.Background(), "CSV")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.Equal(t, "flota.csv", result.Filename)

	body := string(result.Content)
	assert.True(t, strings.HasPrefix(body, "\uFEFF"), "csv should carry a UTF-8 BOM for Excel")
	lines := strings.Split(strings.TrimSpace(body), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "patente")
	assert.Contains(t, body, "BCDF21")
	assert.Contains(t, body, "85000")
	assert.Contains(t, body, "FGHJ44")
}

func TestExportServiceRenderRosterPDF(t *testing.T) {
	svc := NewExportService(seedExportFleet(t), nil)

	result, err := svc.RenderRoster(context.Background(), "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.Equal(t, "flota.pdf", result.Filename)
	assert.True(t, strings.HasPrefix(string(result.Content), "%PDF"))
}

func TestExportServiceRenderRosterUnknownFormat(t *testing.T) {
	svc := NewExportService(newMockBusRepo(), nil)

	_, err := svc.RenderRoster(context.Background(), "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
