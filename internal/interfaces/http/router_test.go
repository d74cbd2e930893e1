package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	appanalytics "github.com/jhoicas/shipping-dashboard/internal/application/analytics"
	"github.com/jhoicas/shipping-dashboard/internal/application/apptest"
	"github.com/jhoicas/shipping-dashboard/internal/application/auth"
	"github.com/jhoicas/shipping-dashboard/internal/application/dto"
	"github.com/jhoicas/shipping-dashboard/internal/application/invoice"
	"github.com/jhoicas/shipping-dashboard/internal/application/pnl"
	"github.com/jhoicas/shipping-dashboard/internal/application/prices"
	"github.com/jhoicas/shipping-dashboard/internal/application/records"
	"github.com/jhoicas/shipping-dashboard/internal/domain/entity"
	apphttp "github.com/jhoicas/shipping-dashboard/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/shipping-dashboard/pkg/jwt"
)

const (
	adminID       = "00000000-0000-0000-0000-0000000000aa"
	adminPassword = "contraseña-segura"
)

type fakePDF struct{}

func (fakePDF) GenerateInvoicePDF(_ context.Context, _ *dto.InvoiceDTO) ([]byte, error) {
	return []byte("%PDF-1.3 fake"), nil
}

type testServer struct {
	app   *fiber.App
	store *apptest.RecordStore
}

func newServer(t *testing.T, seed ...*entity.ShippingRecord) *testServer {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	require.NoError(t, err)
	users := &apptest.Users{Rows: []*entity.User{{
		ID: adminID, Email: "admin@shipping.test", PasswordHash: string(hash),
		Name: "Admin", Role: entity.RoleAdmin, Status: "active",
	}}}

	store := apptest.NewRecordStore(seed...)
	authUC := auth.NewAuthUseCase(users, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 60, Issuer: testIssuer})
	priceUC := prices.NewUseCase(
		&apptest.SalesPrices{Rows: []*entity.SalesPrice{
			{ID: "s1", Item: entity.ItemBananas, Pack: "13.5 KG A", Year: 2025, SalesPrice: decimal.RequireFromString("10")},
		}},
		&apptest.PurchasePrices{},
	)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:      authUC,
		RecordsUC:   records.NewUseCase(store, store, authUC),
		PricesUC:    priceUC,
		DashboardUC: appanalytics.NewDashboardUseCase(store, priceUC),
		PnLUC:       pnl.NewUseCase(store, priceUC),
		InvoiceUC:   invoice.NewUseCase(store, priceUC, fakePDF{}, "USD"),
		JWTSecret:   testJWTSecret,
	})
	return &testServer{app: app, store: store}
}

func bearer(t *testing.T, userID, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, userID, "x@shipping.test", role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func (s *testServer) do(t *testing.T, method, path, auth string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func seeded(id, supplier string, cartons int, lcont float64) *entity.ShippingRecord {
	return &entity.ShippingRecord{
		ID: id, Year: 2025, Week: 10, ETD: time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		Item: entity.ItemBananas, Supplier: supplier, Container: "MSKU1234567", Pack: "13.5 KG A",
		Cartons: cartons, LCont: lcont, Type: entity.TypeContract, InvoiceNo: "SB-0001",
	}
}

func containerBody(force bool) dto.ContainerEntryRequest {
	return dto.ContainerEntryRequest{
		ETD: "2025-03-03", Item: entity.ItemBananas, Container: "MSKU1234567", Force: force,
		Lines: []dto.PackLine{{Supplier: "DOLE", Pack: "13.5 KG A", Cartons: 200}},
	}
}

func TestLogin(t *testing.T) {
	s := newServer(t)

	resp := s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "ADMIN@shipping.test", Password: adminPassword})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.LoginResponse](t, resp)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, entity.RoleAdmin, out.User.Role)

	resp = s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "admin@shipping.test", Password: "otra"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCreateContainer_DuplicadoDevuelve409(t *testing.T) {
	s := newServer(t, seeded("a", "REYBANPAC", 600, 1))
	admin := bearer(t, adminID, entity.RoleAdmin)

	resp := s.do(t, http.MethodPost, "/api/records/containers", admin, containerBody(false))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	errBody := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "DUPLICATE_CONTAINER", errBody.Code)

	resp = s.do(t, http.MethodPost, "/api/records/containers", admin, containerBody(true))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[[]dto.RecordResponse](t, resp)
	require.Len(t, created, 1)
	assert.InDelta(t, 0.25, created[0].LCont, 1e-9)
	assert.Len(t, s.store.All(), 2)
}

func TestCreateContainer_ViewerNoPuedeEscribir(t *testing.T) {
	s := newServer(t)
	resp := s.do(t, http.MethodPost, "/api/records/containers", bearer(t, "v", entity.RoleViewer), containerBody(false))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestDelete_RequiereContraseña(t *testing.T) {
	s := newServer(t, seeded("a", "REYBANPAC", 600, 0.5), seeded("b", "DOLE", 600, 0.5))
	admin := bearer(t, adminID, entity.RoleAdmin)

	resp := s.do(t, http.MethodDelete, "/api/records/a", admin, dto.ReauthRequest{Password: "incorrecta"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Len(t, s.store.All(), 2)

	resp = s.do(t, http.MethodDelete, "/api/records/a", admin, dto.ReauthRequest{Password: adminPassword})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	all := s.store.All()
	require.Len(t, all, 1)
	assert.InDelta(t, 1.0, all[0].LCont, 1e-9)
}

func TestRecords_ListYExport(t *testing.T) {
	s := newServer(t, seeded("a", "REYBANPAC", 600, 0.5), seeded("b", "DOLE", 600, 0.5))
	viewer := bearer(t, "v", entity.RoleViewer)

	resp := s.do(t, http.MethodGet, "/api/records?supplier=DOLE&limit=10", viewer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.RecordListResponse](t, resp)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "DOLE", list.Items[0].Supplier)
	assert.Equal(t, 1, list.Page.Total)

	resp = s.do(t, http.MethodGet, "/api/records/export.csv", viewer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	header := strings.SplitN(string(raw), "\n", 2)[0]
	assert.Equal(t, strings.Join(dto.RecordColumns, ","), header)
}

func TestRecords_NoEncontrado(t *testing.T) {
	s := newServer(t)
	resp := s.do(t, http.MethodGet, "/api/records/nope", bearer(t, "v", entity.RoleViewer), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLookups(t *testing.T) {
	s := newServer(t, seeded("a", "REYBANPAC", 600, 0.5), seeded("b", "DOLE", 600, 0.5))
	resp := s.do(t, http.MethodGet, "/api/lookups/suppliers?item=bananas", bearer(t, "v", entity.RoleViewer), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"DOLE", "REYBANPAC"}, decode[[]string](t, resp))
}

func TestPnL_RequiereItem(t *testing.T) {
	s := newServer(t)
	viewer := bearer(t, "v", entity.RoleViewer)

	resp := s.do(t, http.MethodGet, "/api/pnl", viewer, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/pnl?item=BANANAS&year=2025", viewer, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestInvoicePDF(t *testing.T) {
	s := newServer(t, seeded("a", "REYBANPAC", 600, 1))
	viewer := bearer(t, "v", entity.RoleViewer)

	resp := s.do(t, http.MethodGet, "/api/invoices/SB-0001/pdf", viewer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "invoice_SB-0001.pdf")

	resp = s.do(t, http.MethodGet, "/api/invoices/NOPE-1", viewer, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPrices_SoloAdminEscribe(t *testing.T) {
	s := newServer(t)
	body := dto.SalesPriceRequest{Item: entity.ItemBananas, Pack: "18 KG A", Year: 2025, SalesPrice: decimal.RequireFromString("12")}

	resp := s.do(t, http.MethodPost, "/api/prices/sales", bearer(t, "v", entity.RoleViewer), body)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/prices/sales", bearer(t, adminID, entity.RoleAdmin), body)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/prices/sales?item=bananas&year=2025", bearer(t, "v", entity.RoleViewer), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]dto.SalesPriceResponse](t, resp), 2)
}
