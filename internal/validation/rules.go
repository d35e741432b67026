// Package validation contains input validation for domain records.
package validation

import (
	"errors"
	"time"
)

var (
	// ErrBirthDateInFuture is returned for members born after today.
	ErrBirthDateInFuture = errors.New("birth date cannot be in the future")
	// ErrAgeBoundsInverted is returned when a category's minimum age is
	// above its maximum age.
	ErrAgeBoundsInverted = errors.New("age minimum must not exceed age maximum")
	// ErrSeasonDatesInverted is returned when a season starts on or after
	// its end date.
	ErrSeasonDatesInverted = errors.New("season start date must be before end date")
)

// ValidateBirthDate rejects birth dates after the given reference day.
func ValidateBirthDate(birthDate, now time.Time) error {
	if birthDate.After(now) {
		return ErrBirthDateInFuture
	}
	return nil
}

// ValidateAgeBounds rejects inverted age brackets. Either bound may be
// absent.
func ValidateAgeBounds(ageMin, ageMax *int) error {
	if ageMin != nil && ageMax != nil && *ageMin > *ageMax {
		return ErrAgeBoundsInverted
	}
	return nil
}

// ValidateSeasonDates rejects seasons whose start date is not strictly
// before their end date.
func ValidateSeasonDates(start, end time.Time) error {
	if !start.Before(end) {
		return ErrSeasonDatesInverted
	}
	return nil
}
