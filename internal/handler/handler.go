// Package handler contains the HTTP handlers of the club management API.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mbertho/judoclub/internal/checkout"
	"github.com/mbertho/judoclub/internal/middleware"
	"github.com/mbertho/judoclub/internal/model"
	"github.com/mbertho/judoclub/internal/repository"
	"github.com/mbertho/judoclub/internal/service"
	"github.com/mbertho/judoclub/internal/validation"
)

// Service defines the business-logic contract used by the HTTP handlers.
type Service interface {
	RegisterUser(ctx context.Context, username, email, password string) (int64, error)
	AuthenticateUser(ctx context.Context, username, password string) (*model.User, error)

	CreateSeason(ctx context.Context, s *model.Season) (int64, error)
	ListSeasons(ctx context.Context) ([]model.Season, error)
	ActiveSeason(ctx context.Context) (*model.Season, error)
	ActivateSeason(ctx context.Context, id int64) error

	CreateCategory(ctx context.Context, c *model.Category) (int64, error)
	ListCategories(ctx context.Context) ([]model.Category, error)

	CreateMember(ctx context.Context, userID int64, isStaff bool, m *model.Member) (int64, error)
	GetMember(ctx context.Context, userID int64, isStaff bool, memberID int64) (*model.Member, error)
	ListMembers(ctx context.Context, userID int64, isStaff bool) ([]model.Member, error)

	CreateRegistration(ctx context.Context, userID int64, isStaff bool, memberID, categoryID int64) (int64, error)
	RegistrationPrice(ctx context.Context, userID int64, isStaff bool, id int64) (*service.PriceView, error)
	ListSeasonRegistrations(ctx context.Context, seasonID int64) ([]*service.RegistrationView, error)
	UpdateRegistrationBilling(ctx context.Context, id int64, in service.BillingInput) error
	ValidateRegistration(ctx context.Context, id int64) error
	RejectRegistration(ctx context.Context, id int64) error
	DeleteRegistration(ctx context.Context, id int64) error
	ExportRegistrations(ctx context.Context, seasonID int64) ([]byte, error)

	IssueInvoice(ctx context.Context, registrationID int64, description string) (*model.Invoice, error)
	GetInvoice(ctx context.Context, userID int64, isStaff bool, id int64) (*model.Invoice, error)
	ListInvoices(ctx context.Context, userID int64, isStaff bool) ([]model.Invoice, error)
	InvoicePDF(ctx context.Context, userID int64, isStaff bool, id int64) ([]byte, error)

	GetFamilyDashboard(ctx context.Context, userID int64) (*service.FamilyDashboard, error)
	CreateCheckoutSession(ctx context.Context, userID int64, isStaff bool, invoiceID int64) (*checkout.Session, error)
	HandlePaymentWebhook(ctx context.Context, payload []byte, signature string) error
	GetStats(ctx context.Context) (*service.Stats, error)
}

// Handler implements the HTTP handlers of the club management API.
type Handler struct {
	service        Service
	logger         *zap.Logger
	authMiddleware *middleware.AuthMiddleware
}

// NewHandler creates a new HTTP handler.
func NewHandler(s Service, logger *zap.Logger, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{
		service:        s,
		logger:         logger,
		authMiddleware: auth,
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response", zap.Error(err))
	}
}

// serviceError maps known business errors to HTTP status codes and logs
// everything unexpected as a 500.
func (h *Handler) serviceError(w http.ResponseWriter, err error, msg string) {
	var status int
	switch {
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, repository.ErrNoActiveSeason):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, repository.ErrDuplicateRegistration),
		errors.Is(err, repository.ErrUserExists),
		errors.Is(err, repository.ErrInvoiceReferenced):
		status = http.StatusConflict
	case errors.Is(err, service.ErrInvalidBilling),
		errors.Is(err, service.ErrNegativeBasePrice),
		errors.Is(err, service.ErrNothingToPay),
		errors.Is(err, service.ErrInvoiceNotPending),
		errors.Is(err, validation.ErrBirthDateInFuture),
		errors.Is(err, validation.ErrAgeBoundsInverted),
		errors.Is(err, validation.ErrSeasonDatesInverted):
		status = http.StatusUnprocessableEntity
	default:
		h.logger.Error(msg, zap.Error(err))
		status = http.StatusInternalServerError
	}
	http.Error(w, http.StatusText(status), status)
}

func idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func callerIdentity(r *http.Request) (int64, bool, bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	return userID, middleware.IsStaffFromContext(r.Context()), ok
}

type credentialsRequest struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Register handles guardian account creation.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if req.Username == "" || req.Password == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	userID, err := h.service.RegisterUser(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.serviceError(w, err, "register user error")
		return
	}

	token, err := h.authMiddleware.IssueToken(userID, false)
	if err != nil {
		h.logger.Error("issue token error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

// Login authenticates a user and returns a bearer token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if req.Username == "" || req.Password == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	u, err := h.service.AuthenticateUser(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		h.logger.Error("login user error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	token, err := h.authMiddleware.IssueToken(u.ID, u.IsStaff)
	if err != nil {
		h.logger.Error("issue token error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

// Health reports service liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

type seasonRequest struct {
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// CreateSeason creates a new, inactive season.
func (h *Handler) CreateSeason(w http.ResponseWriter, r *http.Request) {
	var req seasonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	season := &model.Season{Name: req.Name, StartDate: req.StartDate, EndDate: req.EndDate}
	id, err := h.service.CreateSeason(r.Context(), season)
	if err != nil {
		h.serviceError(w, err, "create season error")
		return
	}
	season.ID = id

	h.writeJSON(w, http.StatusCreated, season)
}

// ListSeasons returns all seasons.
func (h *Handler) ListSeasons(w http.ResponseWriter, r *http.Request) {
	seasons, err := h.service.ListSeasons(r.Context())
	if err != nil {
		h.serviceError(w, err, "list seasons error")
		return
	}
	h.writeJSON(w, http.StatusOK, seasons)
}

// ActiveSeason returns the currently active season.
func (h *Handler) ActiveSeason(w http.ResponseWriter, r *http.Request) {
	season, err := h.service.ActiveSeason(r.Context())
	if err != nil {
		h.serviceError(w, err, "active season error")
		return
	}
	h.writeJSON(w, http.StatusOK, season)
}

// ActivateSeason makes a season active and deactivates all others.
func (h *Handler) ActivateSeason(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if err := h.service.ActivateSeason(r.Context(), id); err != nil {
		h.serviceError(w, err, "activate season error")
		return
	}
	w.WriteHeader(http.StatusOK)
}

type categoryRequest struct {
	Name      string          `json:"name"`
	Code      string          `json:"code"`
	BasePrice decimal.Decimal `json:"base_price"`
	AgeMin    *int            `json:"age_min,omitempty"`
	AgeMax    *int            `json:"age_max,omitempty"`
}

// CreateCategory creates a new category.
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	category := &model.Category{
		Name:      req.Name,
		Code:      req.Code,
		BasePrice: req.BasePrice,
		AgeMin:    req.AgeMin,
		AgeMax:    req.AgeMax,
	}
	id, err := h.service.CreateCategory(r.Context(), category)
	if err != nil {
		h.serviceError(w, err, "create category error")
		return
	}
	category.ID = id

	h.writeJSON(w, http.StatusCreated, category)
}

// ListCategories returns all categories.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		h.serviceError(w, err, "list categories error")
		return
	}
	h.writeJSON(w, http.StatusOK, categories)
}

type memberRequest struct {
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	BirthDate time.Time `json:"birth_date"`
	Gender    string    `json:"gender"`
}

// CreateMember creates a member attached to the calling guardian.
func (h *Handler) CreateMember(w http.ResponseWriter, r *http.Request) {
	userID, isStaff, ok := callerIdentity(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if req.FirstName == "" || req.LastName == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	member := &model.Member{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		BirthDate: req.BirthDate,
		Gender:    req.Gender,
	}
	id, err := h.service.CreateMember(r.Context(), userID, isStaff, member)
	if err != nil {
		h.serviceError(w, err, "create member error")
		return
	}
	member.ID = id

	h.writeJSON(w, http.StatusCreated, member)
}

// GetMember returns one member of the caller's family.
func (h *Handler) GetMember(w http.ResponseWriter, r *http.Request) {
	userID, isStaff, ok := callerIdentity(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	id, err := idParam(r)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	member, err := h.service.GetMember(r.Context(), userID, isStaff, id)
	if err != nil {
		h.serviceError(w, err, "get member error")
		return
	}
	h.writeJSON(w, http.StatusOK, member)
}

// ListMembers returns the caller's members: the whole club for staff, the
// family for guardians.
func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	userID, isStaff, ok := callerIdentity(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	members, err := h.service.ListMembers(r.Context(), userID, isStaff)
	if err != nil {
		h.serviceError(w, err, "list members error")
		return
	}
	if members == nil {
		members = []model.Member{}
	}
	h.writeJSON(w, http.StatusOK, members)
}

type registrationRequest struct {
	MemberID   int64 `json:"member_id"`
	CategoryID int64 `json:"category_id"`
}

// CreateRegistration enrols a member into the active season.
func (h *Handler) CreateRegistration(w http.ResponseWriter, r *http.Request) {
	userID, isStaff, ok := callerIdentity(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var req registrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if req.MemberID == 0 || req.CategoryID == 0 {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	id, err := h.service.CreateRegistration(r.Context(), userID, isStaff, req.MemberID, req.CategoryID)
	if err != nil {
		h.serviceError(w, err, "create registration error")
		return
	}

	h.writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// RegistrationPrice returns the current price breakdown and payment
// progress of a registration.
func (h *Handler) RegistrationPrice(w http.ResponseWriter, r *http.Request) {
	userID, isStaff, ok := callerIdentity(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	id, err := idParam(r)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	price, err := h.service.RegistrationPrice(r.Context(), userID, isStaff, id)
	if err != nil {
		h.serviceError(w, err, "registration price error")
		return
	}
	h.writeJSON(w, http.StatusOK, price)
}

// ListRegistrations returns a season's registrations with computed
// pricing. Staff only.
func (h *Handler) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	seasonID, err := strconv.ParseInt(r.URL.Query().Get("season_id"), 10, 64)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	views, err := h.service.ListSeasonRegistrations(r.Context(), seasonID)
	if err != nil {
		h.serviceError(w, err, "list registrations error")
		return
	}
	if views == nil {
		views = []*service.RegistrationView{}
	}
	h.writeJSON(w, http.StatusOK, views)
}

// UpdateRegistration overwrites the billing fields of a registration.
// Staff only.
func (h *Handler) UpdateRegistration(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	var req service.BillingInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if err := h.service.UpdateRegistrationBilling(r.Context(), id, req); err != nil {
		h.serviceError(w, err, "update registration error")
		return
	}
	w.WriteHeader(http.StatusOK)
}

// ValidateRegistration marks a registration VALIDATED. Staff only.
func (h *Handler) ValidateRegistration(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if err := h.service.ValidateRegistration(r.Context(), id); err != nil {
		h.serviceError(w, err, "validate registration error")
		return
	}
	w.WriteHeader(http.StatusOK)
}

// RejectRegistration marks a registration REJECTED. Staff only.
func (h *Handler) RejectRegistration(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if err := h.service.RejectRegistration(r.Context(), id); err != nil {
		h.serviceError(w, err, "reject registration error")
		return
	}
	w.WriteHeader(http.StatusOK)
}

// DeleteRegistration removes a registration. Staff only.
func (h *Handler) DeleteRegistration(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteRegistration(r.Context(), id); err != nil {
		h.serviceError(w, err, "delete registration error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExportRegistrations streams the season's registrations as an xlsx
// workbook. Staff only.
func (h *Handler) ExportRegistrations(w http.ResponseWriter, r *http.Request) {
	seasonID, err := strconv.ParseInt(r.URL.Query().Get("season_id"), 10, 64)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	data, err := h.service.ExportRegistrations(r.Context(), seasonID)
	if err != nil {
		h.serviceError(w, err, "export registrations error")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="registrations.xlsx"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Error("write export", zap.Error(err))
	}
}

type invoiceRequest struct {
	RegistrationID int64  `json:"registration_id"`
	Description    string `json:"description,omitempty"`
}

// CreateInvoice issues an invoice for a registration with the engine's
// current final price. Staff only.
func (h *Handler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req invoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if req.RegistrationID == 0 {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	inv, err := h.service.IssueInvoice(r.Context(), req.RegistrationID, req.Description)
	if err != nil {
		h.serviceError(w, err, "issue invoice error")
		return
	}

	h.writeJSON(w, http.StatusCreated, inv)
}

// GetInvoice returns one invoice.
func (h *Handler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	userID, isStaff, ok := callerIdentity(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	id, err := idParam(r)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	inv, err := h.service.GetInvoice(r.Context(), userID, isStaff, id)
	if err != nil {
		h.serviceError(w, err, "get invoice error")
		return
	}
	h.writeJSON(w, http.StatusOK, inv)
}

// ListInvoices returns all invoices for staff, or the caller's family
// invoices.
func (h *Handler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	userID, isStaff, ok := callerIdentity(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	invoices, err := h.service.ListInvoices(r.Context(), userID, isStaff)
	if err != nil {
		h.serviceError(w, err, "list invoices error")
		return
	}
	if invoices == nil {
		invoices = []model.Invoice{}
	}
	h.writeJSON(w, http.StatusOK, invoices)
}

// InvoicePDF streams an invoice as a PDF document.
func (h *Handler) InvoicePDF(w http.ResponseWriter, r *http.Request) {
	userID, isStaff, ok := callerIdentity(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	id, err := idParam(r)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	data, err := h.service.InvoicePDF(r.Context(), userID, isStaff, id)
	if err != nil {
		h.serviceError(w, err, "invoice pdf error")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="invoice.pdf"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Error("write pdf", zap.Error(err))
	}
}

// FamilyDashboard returns the caller's family overview.
func (h *Handler) FamilyDashboard(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := callerIdentity(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	dashboard, err := h.service.GetFamilyDashboard(r.Context(), userID)
	if err != nil {
		h.serviceError(w, err, "family dashboard error")
		return
	}
	h.writeJSON(w, http.StatusOK, dashboard)
}

type checkoutRequest struct {
	InvoiceID int64 `json:"invoice_id"`
}

// CreateCheckoutSession opens a hosted payment session for an invoice.
func (h *Handler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	userID, isStaff, ok := callerIdentity(r)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if req.InvoiceID == 0 {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	session, err := h.service.CreateCheckoutSession(r.Context(), userID, isStaff, req.InvoiceID)
	if err != nil {
		h.serviceError(w, err, "create checkout session error")
		return
	}
	h.writeJSON(w, http.StatusOK, session)
}

// PaymentWebhook applies a signed payment provider notification.
func (h *Handler) PaymentWebhook(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	signature := r.Header.Get("Webhook-Signature")
	if err := h.service.HandlePaymentWebhook(r.Context(), payload, signature); err != nil {
		if errors.Is(err, checkout.ErrInvalidSignature) {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		h.serviceError(w, err, "payment webhook error")
		return
	}
	w.WriteHeader(http.StatusOK)
}

// Stats returns the active season's club statistics. Staff only.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetStats(r.Context())
	if err != nil {
		h.serviceError(w, err, "stats error")
		return
	}
	h.writeJSON(w, http.StatusOK, stats)
}
