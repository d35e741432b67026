// Package service implements the business logic of the club management
// service.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/mbertho/judoclub/internal/checkout"
	"github.com/mbertho/judoclub/internal/export"
	"github.com/mbertho/judoclub/internal/model"
	"github.com/mbertho/judoclub/internal/pricing"
	"github.com/mbertho/judoclub/internal/repository"
	"github.com/mbertho/judoclub/internal/validation"
)

var (
	// ErrInvalidCredentials is returned when a login attempt fails.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrForbidden is returned when a guardian touches a record that is not
	// part of their family.
	ErrForbidden = errors.New("access denied")
	// ErrNothingToPay is returned when a checkout session is requested for a
	// settled registration.
	ErrNothingToPay = errors.New("nothing left to pay")
	// ErrNegativeBasePrice is returned for categories created with a
	// negative base price.
	ErrNegativeBasePrice = errors.New("base price must not be negative")
	// ErrNegativeAmount is returned for billing updates carrying negative
	// discount or aid amounts.
	ErrNegativeAmount = errors.New("amount must not be negative")
	// ErrInvalidBilling wraps out-of-range billing fields so handlers can
	// map them to a validation failure.
	ErrInvalidBilling = errors.New("invalid billing fields")
	// ErrInvoiceNotPending is returned when a checkout session is requested
	// for an invoice that is already paid or cancelled.
	ErrInvoiceNotPending = errors.New("invoice is not pending")
)

// Repository describes the data-access contract used by the service.
type Repository interface {
	Close() error

	CreateUser(ctx context.Context, username, email string, passwordHash []byte, isStaff bool) (int64, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)

	CreateSeason(ctx context.Context, s *model.Season) (int64, error)
	ListSeasons(ctx context.Context) ([]model.Season, error)
	GetActiveSeason(ctx context.Context) (*model.Season, error)
	ActivateSeason(ctx context.Context, id int64) error

	CreateCategory(ctx context.Context, c *model.Category) (int64, error)
	ListCategories(ctx context.Context) ([]model.Category, error)

	CreateMember(ctx context.Context, m *model.Member) (int64, error)
	GetMember(ctx context.Context, id int64) (*model.Member, error)
	ListMembersByGuardian(ctx context.Context, guardianID int64) ([]model.Member, error)
	ListMembers(ctx context.Context) ([]model.Member, error)

	CreateRegistration(ctx context.Context, memberID, seasonID, categoryID int64) (int64, error)
	GetRegistration(ctx context.Context, id int64) (*model.Registration, error)
	ListRegistrationsBySeason(ctx context.Context, seasonID int64) ([]*model.Registration, error)
	ListRegistrationsByGuardian(ctx context.Context, guardianID, seasonID int64) ([]*model.Registration, error)
	CountValidatedSiblings(ctx context.Context, guardianID, seasonID, excludeRegistrationID int64) (int, error)
	UpdateRegistrationBilling(ctx context.Context, id int64, u repository.BillingUpdate) error
	SetRegistrationStatus(ctx context.Context, id int64, status model.RegistrationStatus) error
	DeleteRegistration(ctx context.Context, id int64) error

	CreateInvoice(ctx context.Context, inv *model.Invoice) (int64, error)
	GetInvoice(ctx context.Context, id int64) (*model.Invoice, error)
	ListInvoices(ctx context.Context) ([]model.Invoice, error)
	ListInvoicesByGuardian(ctx context.Context, guardianID int64) ([]model.Invoice, error)
	CompleteInvoicePayment(ctx context.Context, invoiceID int64) error

	EnqueueEmail(ctx context.Context, recipient, subject, body string) error

	CountRegistrationsByCategory(ctx context.Context, seasonID int64) ([]repository.CategoryCount, error)
	CountMembersByGender(ctx context.Context, seasonID int64) ([]repository.GenderCount, error)
}

// PaymentGateway describes the hosted payment provider contract used by
// the service.
type PaymentGateway interface {
	CreateSession(ctx context.Context, sr checkout.SessionRequest) (*checkout.Session, error)
	ParseWebhook(payload []byte, signature string) (*checkout.Event, error)
}

// Service contains the business logic of the club management service.
type Service struct {
	repo            Repository
	engine          *pricing.Engine
	gateway         PaymentGateway
	frontendBaseURL string
}

// NewService creates a service over the given repository and payment
// gateway. The pricing engine reads sibling counts through the repository.
func NewService(repo Repository, gateway PaymentGateway, frontendBaseURL string) *Service {
	return &Service{
		repo:            repo,
		engine:          pricing.NewEngine(repo),
		gateway:         gateway,
		frontendBaseURL: strings.TrimRight(frontendBaseURL, "/"),
	}
}

// Close releases the service's resources.
func (s *Service) Close() error {
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}

// RegisterUser creates a guardian account.
func (s *Service) RegisterUser(ctx context.Context, username, email, password string) (int64, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	return s.repo.CreateUser(ctx, username, email, hash, false)
}

// AuthenticateUser checks the credentials and returns the account.
func (s *Service) AuthenticateUser(ctx context.Context, username, password string) (*model.User, error) {
	u, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

// CreateSeason stores a new, inactive season.
func (s *Service) CreateSeason(ctx context.Context, season *model.Season) (int64, error) {
	if err := validation.ValidateSeasonDates(season.StartDate, season.EndDate); err != nil {
		return 0, err
	}
	season.IsActive = false
	return s.repo.CreateSeason(ctx, season)
}

// ListSeasons returns all seasons.
func (s *Service) ListSeasons(ctx context.Context) ([]model.Season, error) {
	return s.repo.ListSeasons(ctx)
}

// ActiveSeason returns the currently active season.
func (s *Service) ActiveSeason(ctx context.Context) (*model.Season, error) {
	return s.repo.GetActiveSeason(ctx)
}

// ActivateSeason makes the season active and deactivates all others.
func (s *Service) ActivateSeason(ctx context.Context, id int64) error {
	return s.repo.ActivateSeason(ctx, id)
}

// CreateCategory stores a new category.
func (s *Service) CreateCategory(ctx context.Context, c *model.Category) (int64, error) {
	if c.BasePrice.IsNegative() {
		return 0, ErrNegativeBasePrice
	}
	if err := validation.ValidateAgeBounds(c.AgeMin, c.AgeMax); err != nil {
		return 0, err
	}
	return s.repo.CreateCategory(ctx, c)
}

// ListCategories returns all categories.
func (s *Service) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.repo.ListCategories(ctx)
}

// CreateMember stores a new member. Guardians always own the members they
// create; staff may create unattached members.
func (s *Service) CreateMember(ctx context.Context, userID int64, isStaff bool, m *model.Member) (int64, error) {
	if err := validation.ValidateBirthDate(m.BirthDate, time.Now()); err != nil {
		return 0, err
	}
	if !isStaff {
		m.GuardianID = &userID
	}
	return s.repo.CreateMember(ctx, m)
}

// GetMember returns a member, enforcing family ownership for guardians.
func (s *Service) GetMember(ctx context.Context, userID int64, isStaff bool, memberID int64) (*model.Member, error) {
	m, err := s.repo.GetMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if !isStaff && (m.GuardianID == nil || *m.GuardianID != userID) {
		return nil, ErrForbidden
	}
	return m, nil
}

// ListMembers returns all members for staff, or the guardian's own members.
func (s *Service) ListMembers(ctx context.Context, userID int64, isStaff bool) ([]model.Member, error) {
	if isStaff {
		return s.repo.ListMembers(ctx)
	}
	return s.repo.ListMembersByGuardian(ctx, userID)
}

// CreateRegistration enrols a member into the active season under the
// given category. At most one registration exists per member and season.
func (s *Service) CreateRegistration(ctx context.Context, userID int64, isStaff bool, memberID, categoryID int64) (int64, error) {
	if _, err := s.GetMember(ctx, userID, isStaff, memberID); err != nil {
		return 0, err
	}

	season, err := s.repo.GetActiveSeason(ctx)
	if err != nil {
		return 0, err
	}

	return s.repo.CreateRegistration(ctx, memberID, season.ID, categoryID)
}

// PriceView couples a registration's price breakdown with its payment
// progress. Both are recomputed on every read.
type PriceView struct {
	Breakdown *pricing.Breakdown `json:"breakdown"`
	Progress  *pricing.Progress  `json:"progress"`
}

// RegistrationView is a registration enriched with its computed pricing,
// as served to API consumers.
type RegistrationView struct {
	ID                         int64                    `json:"id"`
	Status                     model.RegistrationStatus `json:"status"`
	Paid                       bool                     `json:"paid"`
	InstallmentsPaid           int                      `json:"installments_paid"`
	HasSupplementaryDiscipline bool                     `json:"has_supplementary_discipline"`
	CityHallAid                bool                     `json:"city_hall_aid"`
	Member                     *model.Member            `json:"member,omitempty"`
	Category                   *model.Category          `json:"category,omitempty"`
	Season                     *model.Season            `json:"season,omitempty"`
	Breakdown                  *pricing.Breakdown       `json:"breakdown"`
	Progress                   *pricing.Progress        `json:"progress"`
}

func (s *Service) priceRegistration(ctx context.Context, reg *model.Registration) (*PriceView, error) {
	b, err := s.engine.ComputeBreakdown(ctx, reg)
	if err != nil {
		return nil, err
	}

	installments, err := pricing.NewInstallmentCount(reg.InstallmentsPaid)
	if err != nil {
		return nil, fmt.Errorf("registration %d: %w", reg.ID, err)
	}

	p := pricing.PaymentProgress(b.FinalPrice, reg.Paid, installments)
	return &PriceView{Breakdown: b, Progress: &p}, nil
}

func (s *Service) registrationView(ctx context.Context, reg *model.Registration) (*RegistrationView, error) {
	price, err := s.priceRegistration(ctx, reg)
	if err != nil {
		return nil, err
	}

	return &RegistrationView{
		ID:                         reg.ID,
		Status:                     reg.Status,
		Paid:                       reg.Paid,
		InstallmentsPaid:           reg.InstallmentsPaid,
		HasSupplementaryDiscipline: reg.HasSupplementaryDiscipline,
		CityHallAid:                reg.CityHallAid,
		Member:                     reg.Member,
		Category:                   reg.Category,
		Season:                     reg.Season,
		Breakdown:                  price.Breakdown,
		Progress:                   price.Progress,
	}, nil
}

func (s *Service) getOwnedRegistration(ctx context.Context, userID int64, isStaff bool, id int64) (*model.Registration, error) {
	reg, err := s.repo.GetRegistration(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isStaff && (reg.GuardianID == nil || *reg.GuardianID != userID) {
		return nil, ErrForbidden
	}
	return reg, nil
}

// RegistrationPrice returns the current price breakdown and payment
// progress of a registration.
func (s *Service) RegistrationPrice(ctx context.Context, userID int64, isStaff bool, id int64) (*PriceView, error) {
	reg, err := s.getOwnedRegistration(ctx, userID, isStaff, id)
	if err != nil {
		return nil, err
	}
	return s.priceRegistration(ctx, reg)
}

// ListSeasonRegistrations returns all registrations of a season with their
// computed pricing. Each row is priced exactly once.
func (s *Service) ListSeasonRegistrations(ctx context.Context, seasonID int64) ([]*RegistrationView, error) {
	regs, err := s.repo.ListRegistrationsBySeason(ctx, seasonID)
	if err != nil {
		return nil, err
	}

	views := make([]*RegistrationView, 0, len(regs))
	for _, reg := range regs {
		v, err := s.registrationView(ctx, reg)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}

	return views, nil
}

// BillingInput carries the staff-editable billing fields of a
// registration.
type BillingInput struct {
	DiscountPercentage         decimal.Decimal `json:"discount_percentage"`
	DiscountAmount             decimal.Decimal `json:"discount_amount"`
	CityHallAid                bool            `json:"city_hall_aid"`
	CityHallAidAmount          decimal.Decimal `json:"city_hall_aid_amount"`
	HasSupplementaryDiscipline bool            `json:"has_supplementary_discipline"`
	InstallmentsPaid           int             `json:"installments_paid"`
	Paid                       bool            `json:"paid"`
}

// UpdateRegistrationBilling overwrites the billing fields of a
// registration after validating them.
func (s *Service) UpdateRegistrationBilling(ctx context.Context, id int64, in BillingInput) error {
	if _, err := pricing.NewPercentage(in.DiscountPercentage); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBilling, err)
	}
	if _, err := pricing.NewInstallmentCount(in.InstallmentsPaid); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBilling, err)
	}
	if in.DiscountAmount.IsNegative() || in.CityHallAidAmount.IsNegative() {
		return fmt.Errorf("%w: %v", ErrInvalidBilling, ErrNegativeAmount)
	}

	return s.repo.UpdateRegistrationBilling(ctx, id, repository.BillingUpdate{
		DiscountPercentage:         in.DiscountPercentage,
		DiscountAmount:             in.DiscountAmount,
		CityHallAid:                in.CityHallAid,
		CityHallAidAmount:          in.CityHallAidAmount,
		HasSupplementaryDiscipline: in.HasSupplementaryDiscipline,
		InstallmentsPaid:           in.InstallmentsPaid,
		Paid:                       in.Paid,
	})
}

// ValidateRegistration marks a registration VALIDATED and queues a
// confirmation email to the family.
func (s *Service) ValidateRegistration(ctx context.Context, id int64) error {
	reg, err := s.repo.GetRegistration(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.SetRegistrationStatus(ctx, id, model.RegistrationStatusValidated); err != nil {
		return err
	}

	recipient, err := s.contactEmail(ctx, reg)
	if err != nil || recipient == "" {
		return nil
	}

	subject := "Registration confirmed"
	body := "The registration has been validated by the club."
	if reg.Member != nil && reg.Season != nil {
		body = fmt.Sprintf("The registration of %s %s for season %s has been validated by the club.",
			reg.Member.FirstName, reg.Member.LastName, reg.Season.Name)
	}
	if err := s.repo.EnqueueEmail(ctx, recipient, subject, body); err != nil {
		return fmt.Errorf("queue confirmation email: %w", err)
	}

	return nil
}

// RejectRegistration marks a registration REJECTED.
func (s *Service) RejectRegistration(ctx context.Context, id int64) error {
	return s.repo.SetRegistrationStatus(ctx, id, model.RegistrationStatusRejected)
}

// DeleteRegistration removes a registration unless an invoice references
// it.
func (s *Service) DeleteRegistration(ctx context.Context, id int64) error {
	return s.repo.DeleteRegistration(ctx, id)
}

// contactEmail resolves the best email address for a registration's
// family: the member's own address, falling back to the guardian account.
func (s *Service) contactEmail(ctx context.Context, reg *model.Registration) (string, error) {
	if reg.Member != nil && reg.Member.Email != "" {
		return reg.Member.Email, nil
	}
	if reg.GuardianID == nil {
		return "", nil
	}
	u, err := s.repo.GetUserByID(ctx, *reg.GuardianID)
	if err != nil {
		return "", err
	}
	return u.Email, nil
}

// IssueInvoice creates an invoice for a registration. The amount is the
// engine's final price at issuance and is never recomputed afterwards.
func (s *Service) IssueInvoice(ctx context.Context, registrationID int64, description string) (*model.Invoice, error) {
	reg, err := s.repo.GetRegistration(ctx, registrationID)
	if err != nil {
		return nil, err
	}

	b, err := s.engine.ComputeBreakdown(ctx, reg)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	inv := &model.Invoice{
		RegistrationID: reg.ID,
		MemberID:       reg.MemberID,
		Reference:      newInvoiceReference(now),
		Amount:         b.FinalPrice,
		DateIssued:     now,
		Status:         model.InvoiceStatusPending,
		Description:    description,
	}

	id, err := s.repo.CreateInvoice(ctx, inv)
	if err != nil {
		return nil, err
	}
	inv.ID = id

	return inv, nil
}

func newInvoiceReference(now time.Time) string {
	return fmt.Sprintf("INV-%d-%s", now.Year(), strings.ToUpper(uuid.NewString()[:8]))
}

// GetInvoice returns an invoice, enforcing family ownership for
// guardians.
func (s *Service) GetInvoice(ctx context.Context, userID int64, isStaff bool, id int64) (*model.Invoice, error) {
	inv, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isStaff {
		if _, err := s.getOwnedRegistration(ctx, userID, isStaff, inv.RegistrationID); err != nil {
			return nil, err
		}
	}
	return inv, nil
}

// ListInvoices returns all invoices for staff, or the guardian's family
// invoices.
func (s *Service) ListInvoices(ctx context.Context, userID int64, isStaff bool) ([]model.Invoice, error) {
	if isStaff {
		return s.repo.ListInvoices(ctx)
	}
	return s.repo.ListInvoicesByGuardian(ctx, userID)
}

// InvoicePDF renders an invoice as a PDF document.
func (s *Service) InvoicePDF(ctx context.Context, userID int64, isStaff bool, id int64) ([]byte, error) {
	inv, err := s.GetInvoice(ctx, userID, isStaff, id)
	if err != nil {
		return nil, err
	}

	reg, err := s.repo.GetRegistration(ctx, inv.RegistrationID)
	if err != nil {
		return nil, err
	}

	return export.InvoicePDF(inv, reg.Member, reg.Season)
}

// FamilyDashboard aggregates everything a guardian sees on their home
// page.
type FamilyDashboard struct {
	Season        *model.Season       `json:"season,omitempty"`
	Members       []model.Member      `json:"members"`
	Registrations []*RegistrationView `json:"registrations"`
	Invoices      []model.Invoice     `json:"invoices"`
}

// GetFamilyDashboard returns the guardian's members, their registrations
// for the active season with computed pricing, and the family's invoices.
func (s *Service) GetFamilyDashboard(ctx context.Context, userID int64) (*FamilyDashboard, error) {
	dashboard := &FamilyDashboard{
		Members:       []model.Member{},
		Registrations: []*RegistrationView{},
		Invoices:      []model.Invoice{},
	}

	members, err := s.repo.ListMembersByGuardian(ctx, userID)
	if err != nil {
		return nil, err
	}
	dashboard.Members = members

	invoices, err := s.repo.ListInvoicesByGuardian(ctx, userID)
	if err != nil {
		return nil, err
	}
	dashboard.Invoices = invoices

	season, err := s.repo.GetActiveSeason(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNoActiveSeason) {
			return dashboard, nil
		}
		return nil, err
	}
	dashboard.Season = season

	regs, err := s.repo.ListRegistrationsByGuardian(ctx, userID, season.ID)
	if err != nil {
		return nil, err
	}
	for _, reg := range regs {
		v, err := s.registrationView(ctx, reg)
		if err != nil {
			return nil, err
		}
		dashboard.Registrations = append(dashboard.Registrations, v)
	}

	return dashboard, nil
}

// ExportRegistrations renders the season's registrations as an xlsx
// workbook with full price breakdown columns.
func (s *Service) ExportRegistrations(ctx context.Context, seasonID int64) ([]byte, error) {
	regs, err := s.repo.ListRegistrationsBySeason(ctx, seasonID)
	if err != nil {
		return nil, err
	}

	rows := make([]export.RegistrationRow, 0, len(regs))
	for _, reg := range regs {
		price, err := s.priceRegistration(ctx, reg)
		if err != nil {
			return nil, err
		}
		rows = append(rows, export.RegistrationRow{
			Registration: reg,
			Breakdown:    price.Breakdown,
			Progress:     price.Progress,
		})
	}

	return export.RegistrationsWorkbook(rows)
}

// CreateCheckoutSession opens a hosted payment session charging what
// remains to pay on the invoice's registration.
func (s *Service) CreateCheckoutSession(ctx context.Context, userID int64, isStaff bool, invoiceID int64) (*checkout.Session, error) {
	inv, err := s.GetInvoice(ctx, userID, isStaff, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Status != model.InvoiceStatusPending {
		return nil, ErrInvoiceNotPending
	}

	reg, err := s.repo.GetRegistration(ctx, inv.RegistrationID)
	if err != nil {
		return nil, err
	}

	price, err := s.priceRegistration(ctx, reg)
	if err != nil {
		return nil, err
	}

	cents := price.Progress.RemainingToPay.Round(2).Shift(2).IntPart()
	if cents <= 0 {
		return nil, ErrNothingToPay
	}

	return s.gateway.CreateSession(ctx, checkout.SessionRequest{
		Reference:   inv.Reference,
		AmountCents: cents,
		Currency:    "eur",
		Description: inv.Description,
		SuccessURL:  s.frontendBaseURL + "/payment/success",
		CancelURL:   s.frontendBaseURL + "/payment/cancel",
	})
}

// HandlePaymentWebhook verifies and applies a payment provider
// notification. Settled sessions mark the invoice and its registration
// paid in one transaction and queue a receipt email.
func (s *Service) HandlePaymentWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.gateway.ParseWebhook(payload, signature)
	if err != nil {
		return err
	}

	if event.Type != checkout.EventCheckoutCompleted {
		return nil
	}

	if err := s.repo.CompleteInvoicePayment(ctx, event.InvoiceID); err != nil {
		return err
	}

	inv, err := s.repo.GetInvoice(ctx, event.InvoiceID)
	if err != nil {
		return nil
	}
	reg, err := s.repo.GetRegistration(ctx, inv.RegistrationID)
	if err != nil {
		return nil
	}
	recipient, err := s.contactEmail(ctx, reg)
	if err != nil || recipient == "" {
		return nil
	}

	body := fmt.Sprintf("Payment of %s EUR received for invoice %s. Thank you.",
		inv.Amount.StringFixed(2), inv.Reference)
	_ = s.repo.EnqueueEmail(ctx, recipient, "Payment received", body)

	return nil
}

// Stats aggregates the club statistics of the active season.
type Stats struct {
	Season            *model.Season              `json:"season"`
	RegistrationCount int                        `json:"registration_count"`
	ByCategory        []repository.CategoryCount `json:"by_category"`
	ByGender          []repository.GenderCount   `json:"by_gender"`
	Revenue           decimal.Decimal            `json:"revenue"`
}

// GetStats returns the active season's registration counts, gender
// distribution and total revenue from paid registrations.
func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	season, err := s.repo.GetActiveSeason(ctx)
	if err != nil {
		return nil, err
	}

	byCategory, err := s.repo.CountRegistrationsByCategory(ctx, season.ID)
	if err != nil {
		return nil, err
	}

	byGender, err := s.repo.CountMembersByGender(ctx, season.ID)
	if err != nil {
		return nil, err
	}

	regs, err := s.repo.ListRegistrationsBySeason(ctx, season.ID)
	if err != nil {
		return nil, err
	}

	revenue := decimal.Zero
	for _, reg := range regs {
		if !reg.Paid {
			continue
		}
		b, err := s.engine.ComputeBreakdown(ctx, reg)
		if err != nil {
			return nil, err
		}
		revenue = revenue.Add(b.FinalPrice)
	}

	return &Stats{
		Season:            season,
		RegistrationCount: len(regs),
		ByCategory:        byCategory,
		ByGender:          byGender,
		Revenue:           revenue,
	}, nil
}
