// Package model contains the domain entities of the club management service.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents an account that can log into the service: either a
// guardian (parent) managing their children or a staff member.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash []byte
	IsStaff      bool
	CreatedAt    time.Time
}

// Season represents a sporting season (e.g. 2024-2025). At most one season
// is active at a time.
type Season struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	IsActive  bool      `json:"is_active"`
}

// Category represents an age/level bracket with its seasonal base price
// (e.g. U10, Seniors). Registrations reference categories but never own
// them.
type Category struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Code      string          `json:"code"`
	BasePrice decimal.Decimal `json:"base_price"`
	AgeMin    *int            `json:"age_min,omitempty"`
	AgeMax    *int            `json:"age_max,omitempty"`
}

// Member represents a club member, usually a child attached to a guardian
// account. GuardianID is nil for members managed directly by staff.
type Member struct {
	ID         int64     `json:"id"`
	GuardianID *int64    `json:"guardian_id,omitempty"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Email      string    `json:"email,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	BirthDate  time.Time `json:"birth_date"`
	Gender     string    `json:"gender"`
	CreatedAt  time.Time `json:"created_at"`
}

// RegistrationStatus describes the lifecycle state of a registration.
type RegistrationStatus string

const (
	RegistrationStatusPending   RegistrationStatus = "PENDING"
	RegistrationStatusValidated RegistrationStatus = "VALIDATED"
	RegistrationStatusRejected  RegistrationStatus = "REJECTED"
)

// Registration represents the enrolment of a member into a season and a
// category, together with the billing fields the pricing engine reads.
// At most one registration exists per (member, season) pair.
type Registration struct {
	ID         int64
	MemberID   int64
	SeasonID   int64
	CategoryID int64
	Status     RegistrationStatus

	Paid             bool
	InstallmentsPaid int

	DiscountPercentage decimal.Decimal
	DiscountAmount     decimal.Decimal

	CityHallAid       bool
	CityHallAidAmount decimal.Decimal

	HasSupplementaryDiscipline bool

	CreatedAt time.Time

	// Snapshot fields populated by the repository in a single query so the
	// pricing engine never reads a partially-updated record.
	GuardianID *int64
	Category   *Category
	Member     *Member
	Season     *Season
}

// InvoiceStatus describes the lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "PENDING"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

// Invoice is an immutable billing record. Amount is snapshotted from the
// pricing engine at issuance and never recomputed afterwards.
type Invoice struct {
	ID             int64           `json:"id"`
	RegistrationID int64           `json:"registration_id"`
	MemberID       int64           `json:"member_id"`
	Reference      string          `json:"reference"`
	Amount         decimal.Decimal `json:"amount"`
	DateIssued     time.Time       `json:"date_issued"`
	Status         InvoiceStatus   `json:"status"`
	Description    string          `json:"description,omitempty"`
}

// EmailStatus describes the delivery state of an outbox message.
type EmailStatus string

const (
	EmailStatusQueued EmailStatus = "QUEUED"
	EmailStatusSent   EmailStatus = "SENT"
	EmailStatusFailed EmailStatus = "FAILED"
)

// EmailMessage is a queued outbound email. Messages are written by the
// service layer and drained asynchronously by the mail worker.
type EmailMessage struct {
	ID        int64
	Recipient string
	Subject   string
	Body      string
	Status    EmailStatus
	Error     string
	CreatedAt time.Time
}
