package validation

import (
	"testing"
	"time"
)

func TestValidateBirthDate(t *testing.T) {
	now := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		birthDate time.Time
		wantErr   bool
	}{
		{
			name:      "past date",
			birthDate: time.Date(2014, 5, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "today",
			birthDate: now,
		},
		{
			name:      "future date",
			birthDate: now.AddDate(0, 0, 1),
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBirthDate(tt.birthDate, now)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateBirthDate(%v) error = %v, wantErr %v", tt.birthDate, err, tt.wantErr)
			}
		})
	}
}

func TestValidateAgeBounds(t *testing.T) {
	six, ten := 6, 10

	tests := []struct {
		name    string
		min     *int
		max     *int
		wantErr bool
	}{
		{name: "both absent"},
		{name: "only min", min: &six},
		{name: "only max", max: &ten},
		{name: "ordered", min: &six, max: &ten},
		{name: "equal", min: &ten, max: &ten},
		{name: "inverted", min: &ten, max: &six, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAgeBounds(tt.min, tt.max)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateAgeBounds error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateSeasonDates(t *testing.T) {
	start := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	if err := ValidateSeasonDates(start, end); err != nil {
		t.Fatalf("ordered dates rejected: %v", err)
	}
	if err := ValidateSeasonDates(end, start); err == nil {
		t.Fatalf("inverted dates accepted")
	}
	if err := ValidateSeasonDates(start, start); err == nil {
		t.Fatalf("equal dates accepted")
	}
}
