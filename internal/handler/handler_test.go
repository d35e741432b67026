package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mbertho/judoclub/internal/checkout"
	"github.com/mbertho/judoclub/internal/middleware"
	"github.com/mbertho/judoclub/internal/model"
	"github.com/mbertho/judoclub/internal/pricing"
	"github.com/mbertho/judoclub/internal/repository"
	"github.com/mbertho/judoclub/internal/service"
)

type stubService struct {
	registerUserID int64
	registerErr    error

	authUser *model.User
	authErr  error

	activeSeason    *model.Season
	activeSeasonErr error

	createRegistrationID  int64
	createRegistrationErr error

	priceView *service.PriceView
	priceErr  error

	registrations    []*service.RegistrationView
	registrationsErr error

	updateBillingErr error
	validateErr      error
	deleteErr        error

	exportData []byte
	exportErr  error

	invoice    *model.Invoice
	invoiceErr error

	session    *checkout.Session
	sessionErr error

	webhookErr error

	stats    *service.Stats
	statsErr error
}

func (s *stubService) RegisterUser(ctx context.Context, username, email, password string) (int64, error) {
	return s.registerUserID, s.registerErr
}

func (s *stubService) AuthenticateUser(ctx context.Context, username, password string) (*model.User, error) {
	return s.authUser, s.authErr
}

func (s *stubService) CreateSeason(ctx context.Context, season *model.Season) (int64, error) {
	return 1, nil
}

func (s *stubService) ListSeasons(ctx context.Context) ([]model.Season, error) { return nil, nil }

func (s *stubService) ActiveSeason(ctx context.Context) (*model.Season, error) {
	return s.activeSeason, s.activeSeasonErr
}

func (s *stubService) ActivateSeason(ctx context.Context, id int64) error { return nil }

func (s *stubService) CreateCategory(ctx context.Context, c *model.Category) (int64, error) {
	return 1, nil
}

func (s *stubService) ListCategories(ctx context.Context) ([]model.Category, error) {
	return nil, nil
}

func (s *stubService) CreateMember(ctx context.Context, userID int64, isStaff bool, m *model.Member) (int64, error) {
	return 1, nil
}

func (s *stubService) GetMember(ctx context.Context, userID int64, isStaff bool, memberID int64) (*model.Member, error) {
	return nil, repository.ErrNotFound
}

func (s *stubService) ListMembers(ctx context.Context, userID int64, isStaff bool) ([]model.Member, error) {
	return nil, nil
}

func (s *stubService) CreateRegistration(ctx context.Context, userID int64, isStaff bool, memberID, categoryID int64) (int64, error) {
	return s.createRegistrationID, s.createRegistrationErr
}

func (s *stubService) RegistrationPrice(ctx context.Context, userID int64, isStaff bool, id int64) (*service.PriceView, error) {
	return s.priceView, s.priceErr
}

func (s *stubService) ListSeasonRegistrations(ctx context.Context, seasonID int64) ([]*service.RegistrationView, error) {
	return s.registrations, s.registrationsErr
}

func (s *stubService) UpdateRegistrationBilling(ctx context.Context, id int64, in service.BillingInput) error {
	return s.updateBillingErr
}

func (s *stubService) ValidateRegistration(ctx context.Context, id int64) error {
	return s.validateErr
}

func (s *stubService) RejectRegistration(ctx context.Context, id int64) error { return nil }

func (s *stubService) DeleteRegistration(ctx context.Context, id int64) error { return s.deleteErr }

func (s *stubService) ExportRegistrations(ctx context.Context, seasonID int64) ([]byte, error) {
	return s.exportData, s.exportErr
}

func (s *stubService) IssueInvoice(ctx context.Context, registrationID int64, description string) (*model.Invoice, error) {
	return s.invoice, s.invoiceErr
}

func (s *stubService) GetInvoice(ctx context.Context, userID int64, isStaff bool, id int64) (*model.Invoice, error) {
	return s.invoice, s.invoiceErr
}

func (s *stubService) ListInvoices(ctx context.Context, userID int64, isStaff bool) ([]model.Invoice, error) {
	return nil, nil
}

func (s *stubService) InvoicePDF(ctx context.Context, userID int64, isStaff bool, id int64) ([]byte, error) {
	return nil, repository.ErrNotFound
}

func (s *stubService) GetFamilyDashboard(ctx context.Context, userID int64) (*service.FamilyDashboard, error) {
	return &service.FamilyDashboard{}, nil
}

func (s *stubService) CreateCheckoutSession(ctx context.Context, userID int64, isStaff bool, invoiceID int64) (*checkout.Session, error) {
	return s.session, s.sessionErr
}

func (s *stubService) HandlePaymentWebhook(ctx context.Context, payload []byte, signature string) error {
	return s.webhookErr
}

func (s *stubService) GetStats(ctx context.Context) (*service.Stats, error) {
	return s.stats, s.statsErr
}

func newTestHandler(t *testing.T, svc Service) *Handler {
	t.Helper()

	logger, err := zap.NewDevelopment()
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	auth := middleware.NewAuthMiddleware("test-secret")

	return NewHandler(svc, logger, auth)
}

func TestRegister_Success(t *testing.T) {
	svc := &stubService{registerUserID: 42}
	h := newTestHandler(t, svc)

	body, _ := json.Marshal(credentialsRequest{
		Username: "parent",
		Email:    "parent@example.com",
		Password: "s3cret",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	res := rec.Result()
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusOK)
	}

	var resp tokenResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token == "" {
		t.Fatalf("empty token in response")
	}
}

func TestRegister_Conflict(t *testing.T) {
	svc := &stubService{registerErr: repository.ErrUserExists}
	h := newTestHandler(t, svc)

	body, _ := json.Marshal(credentialsRequest{Username: "parent", Password: "s3cret"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	if rec.Result().StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want %d", rec.Result().StatusCode, http.StatusConflict)
	}
}

func TestRegister_BadPayload(t *testing.T) {
	h := newTestHandler(t, &stubService{})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader([]byte("not json")))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	if rec.Result().StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Result().StatusCode, http.StatusBadRequest)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc := &stubService{authErr: service.ErrInvalidCredentials}
	h := newTestHandler(t, svc)

	body, _ := json.Marshal(credentialsRequest{Username: "parent", Password: "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	if rec.Result().StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Result().StatusCode, http.StatusUnauthorized)
	}
}

func TestUpdateRegistration_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "not found", err: repository.ErrNotFound, wantStatus: http.StatusNotFound},
		{name: "invalid billing", err: service.ErrInvalidBilling, wantStatus: http.StatusUnprocessableEntity},
		{name: "unexpected", err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{updateBillingErr: tt.err}
			h := newTestHandler(t, svc)
			router := h.SetupRouter()

			token, err := h.authMiddleware.IssueToken(1, true)
			if err != nil {
				t.Fatalf("issue token: %v", err)
			}

			body, _ := json.Marshal(service.BillingInput{InstallmentsPaid: 1})
			req := httptest.NewRequest(http.MethodPatch, "/api/registrations/10", bytes.NewReader(body))
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			if rec.Result().StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Result().StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestStaffRoutes_RejectGuardians(t *testing.T) {
	h := newTestHandler(t, &stubService{})
	router := h.SetupRouter()

	token, err := h.authMiddleware.IssueToken(1, false)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Result().StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Result().StatusCode, http.StatusForbidden)
	}
}

func TestAuthenticatedRoutes_RejectAnonymous(t *testing.T) {
	h := newTestHandler(t, &stubService{})
	router := h.SetupRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/family", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Result().StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Result().StatusCode, http.StatusUnauthorized)
	}
}

func TestRegistrationPrice_ThroughRouter(t *testing.T) {
	svc := &stubService{
		priceView: &service.PriceView{
			Breakdown: &pricing.Breakdown{
				BasePrice:  decimal.NewFromInt(200),
				FinalPrice: decimal.NewFromInt(180),
				Rank:       2,
			},
			Progress: &pricing.Progress{
				TotalToPay:     decimal.NewFromInt(180),
				AmountPaid:     decimal.Zero,
				RemainingToPay: decimal.NewFromInt(180),
			},
		},
	}
	h := newTestHandler(t, svc)
	router := h.SetupRouter()

	token, err := h.authMiddleware.IssueToken(7, false)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/registrations/10/price", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	res := rec.Result()
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusOK)
	}

	var view service.PriceView
	if err := json.NewDecoder(res.Body).Decode(&view); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !view.Breakdown.FinalPrice.Equal(decimal.NewFromInt(180)) {
		t.Fatalf("final price = %s, want 180", view.Breakdown.FinalPrice)
	}
	if view.Breakdown.Rank != 2 {
		t.Fatalf("rank = %d, want 2", view.Breakdown.Rank)
	}
}

func TestCreateRegistration_Duplicate(t *testing.T) {
	svc := &stubService{createRegistrationErr: repository.ErrDuplicateRegistration}
	h := newTestHandler(t, svc)
	router := h.SetupRouter()

	token, err := h.authMiddleware.IssueToken(7, false)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	body, _ := json.Marshal(registrationRequest{MemberID: 1, CategoryID: 2})
	req := httptest.NewRequest(http.MethodPost, "/api/registrations", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Result().StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want %d", rec.Result().StatusCode, http.StatusConflict)
	}
}

func TestPaymentWebhook(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "accepted", err: nil, wantStatus: http.StatusOK},
		{name: "bad signature", err: checkout.ErrInvalidSignature, wantStatus: http.StatusUnauthorized},
		{name: "unknown invoice", err: repository.ErrNotFound, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{webhookErr: tt.err}
			h := newTestHandler(t, svc)
			router := h.SetupRouter()

			req := httptest.NewRequest(http.MethodPost, "/api/payments/webhook", bytes.NewReader([]byte(`{}`)))
			req.Header.Set("Webhook-Signature", "deadbeef")
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			if rec.Result().StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Result().StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestExportRegistrations_ContentType(t *testing.T) {
	svc := &stubService{exportData: []byte("xlsx-bytes")}
	h := newTestHandler(t, svc)
	router := h.SetupRouter()

	token, err := h.authMiddleware.IssueToken(1, true)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/registrations/export?season_id=1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	res := rec.Result()
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusOK)
	}
	if ct := res.Header.Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Fatalf("content type = %q", ct)
	}
}

func TestActiveSeason_NotFound(t *testing.T) {
	svc := &stubService{activeSeasonErr: repository.ErrNoActiveSeason}
	h := newTestHandler(t, svc)
	router := h.SetupRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/seasons/active", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Result().StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Result().StatusCode, http.StatusNotFound)
	}
}
