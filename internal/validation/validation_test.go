package validation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/juanraniqueo21/proyecto-buses/pkg/errors"
)

func TestNormalizePlate(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{"new format", "BCDF21", "BCDF21", false},
		{"lowercase with hyphen", "abcd-12", "ABCD12", false},
		{"spaces inside", "abcd 12", "ABCD12", false},
		{"surrounding whitespace", "  bc-df-21  ", "BCDF21", false},
		{"old format eight chars", "AB-1234-K", "AB1234K", false},
		{"multibyte letter counts once", "ÑBCD-1234", "ÑBCD1234", false},
		{"too short", "AB-12", "", true},
		{"too long", "ABCDE-12345", "", true},
		{"empty", "", "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizePlate(tc.raw)
			if tc.wantErr {
				require.ErrorIs(t, err, appErrors.ErrInvalidPlate)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizePlateIdempotent(t *testing.T) {
	for _, raw := range []string{"BCDF21", "ab-cd 12", " fghj 44 "} {
		once, err := NormalizePlate(raw)
		require.NoError(t, err)
		twice, err := NormalizePlate(once)
		require.NoError(t, err)
		assert.Equal(t, once, twice)
	}
}

func TestValidateYear(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	assert.NoError(t, ValidateYear(1980, now))
	assert.NoError(t, ValidateYear(2019, now))
	assert.NoError(t, ValidateYear(2027, now))

	assert.ErrorIs(t, ValidateYear(1979, now), appErrors.ErrInvalidYear)
	assert.ErrorIs(t, ValidateYear(2028, now), appErrors.ErrInvalidYear)
}

func TestValidateCapacity(t *testing.T) {
	assert.ErrorIs(t, ValidateCapacity(0), appErrors.ErrInvalidCapacity)
	assert.ErrorIs(t, ValidateCapacity(46), appErrors.ErrInvalidCapacity)
	assert.ErrorIs(t, ValidateCapacity(-3), appErrors.ErrInvalidCapacity)
	assert.NoError(t, ValidateCapacity(1))
	assert.NoError(t, ValidateCapacity(45))
}

func TestValidateMileage(t *testing.T) {
	assert.NoError(t, ValidateMileage(0))
	assert.NoError(t, ValidateMileage(85000))
	require.Error(t, ValidateMileage(-1))
}

type stubLookup struct {
	states map[int64]bool
	fuels  map[int64]bool
}

func (s *stubLookup) StateExists(ctx context.Context, id int64) (bool, error) {
	return s.states[id], nil
}

func (s *stubLookup) FuelTypeExists(ctx context.Context, id int64) (bool, error) {
	return s.fuels[id], nil
}

func TestValidateReferences(t *testing.T) {
	lookup := &stubLookup{
		states: map[int64]bool{1: true},
		fuels:  map[int64]bool{1: true},
	}

	assert.NoError(t, ValidateReferences(context.Background(), 1, 1, lookup))
	assert.ErrorIs(t, ValidateReferences(context.Background(), 99, 1, lookup), appErrors.ErrUnknownState)
	assert.ErrorIs(t, ValidateReferences(context.Background(), 1, 99, lookup), appErrors.ErrUnknownFuelType)
}
