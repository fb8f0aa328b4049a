// Package validation holds the business-rule checks shared by the create
// and update paths. All checks are pure except the reference lookups,
// which are read-only queries through an injected capability.
package validation

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	appErrors "github.com/juanraniqueo21/proyecto-buses/pkg/errors"
)

const (
	MinPlateLength = 6
	MaxPlateLength = 8
	MinYear        = 1980
	MinCapacity    = 1
	MaxCapacity    = 45

	// MinMaintenanceInterval bounds the km interval accepted by the
	// maintenance-due report.
	MinMaintenanceInterval = 1000
)

// ReferenceLookup answers existence questions against the reference tables.
type ReferenceLookup interface {
	StateExists(ctx context.Context, id int64) (bool, error)
	FuelTypeExists(ctx context.Context, id int64) (bool, error)
}

// NormalizePlate upper-cases the plate and strips hyphens and spaces. The
// normalized form is canonical for storage, uniqueness and lookup.
func NormalizePlate(raw string) (string, error) {
	plate := strings.ToUpper(strings.TrimSpace(raw))
	plate = strings.ReplaceAll(plate, "-", "")
	plate = strings.ReplaceAll(plate, " ", "")
	if n := utf8.RuneCountInString(plate); n < MinPlateLength || n > MaxPlateLength {
		return "", appErrors.ErrInvalidPlate
	}
	return plate, nil
}

// ValidateYear bounds the manufacture year to [1980, current year + 1].
// Next-year models are sold before the calendar rolls over.
func ValidateYear(year int, now time.Time) error {
	if year < MinYear || year > now.Year()+1 {
		return appErrors.ErrInvalidYear
	}
	return nil
}

// ValidateCapacity enforces the regulatory seat ceiling.
func ValidateCapacity(seats int) error {
	if seats < MinCapacity || seats > MaxCapacity {
		return appErrors.ErrInvalidCapacity
	}
	return nil
}

// ValidateMileage rejects negative odometer readings.
func ValidateMileage(km int64) error {
	if km < 0 {
		return appErrors.Clone(appErrors.ErrValidation, "mileage must not be negative")
	}
	return nil
}

// ValidateReferences checks that both foreign keys point at live reference
// rows, producing a domain error rather than a storage constraint failure.
func ValidateReferences(ctx context.Context, stateID, fuelTypeID int64, lookup ReferenceLookup) error {
	ok, err := lookup.StateExists(ctx, stateID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check bus state")
	}
	if !ok {
		return appErrors.ErrUnknownState
	}

	ok, err = lookup.FuelTypeExists(ctx, fuelTypeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check fuel type")
	}
	if !ok {
		return appErrors.ErrUnknownFuelType
	}
	return nil
}
