package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/tiffin-api/internal/application/analytics"
	"github.com/jhoicas/tiffin-api/internal/application/auth"
	appbilling "github.com/jhoicas/tiffin-api/internal/application/billing"
	"github.com/jhoicas/tiffin-api/internal/application/dto"
	"github.com/jhoicas/tiffin-api/internal/application/usecase"
	"github.com/jhoicas/tiffin-api/internal/infrastructure/excel"
	"github.com/jhoicas/tiffin-api/internal/infrastructure/memory"
	"github.com/jhoicas/tiffin-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/tiffin-api/internal/interfaces/http"
	"github.com/jhoicas/tiffin-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Servidor de prueba sobre el almacenamiento en memoria
// ──────────────────────────────────────────────────────────────────────────────

func fixedNow() time.Time { return time.Date(2026, time.March, 10, 9, 30, 0, 0, time.UTC) }

type testServer struct {
	t     *testing.T
	app   *fiber.App
	token string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	s := memory.NewStore()
	authUC := auth.NewAuthUseCase(s.Users(), auth.JWTConfig{
		Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer,
	}, fixedNow)
	_, err := authUC.CreateAdmin(context.Background(), dto.CreateAdminRequest{Username: "owner", Password: "s3cret-pass"})
	require.NoError(t, err)

	extraUC := usecase.NewExtraUseCase(s.Extras(), s.Customers(), s.MenuItems(), fixedNow)
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:     authUC,
		CustomerUC: usecase.NewCustomerUseCase(s.Customers(), s.Invoices(), s, fixedNow, logger.Nop()),
		MenuUC:     usecase.NewMenuUseCase(s.MenuItems(), fixedNow),
		ExtraUC:    extraUC,
		AdvanceUC:  usecase.NewAdvanceUseCase(s.Advances(), s.Customers(), fixedNow),
		SearchUC:   usecase.NewSearchUseCase(s.Customers(), s.MenuItems(), extraUC),
		InvoiceUC: appbilling.NewInvoiceUseCase(
			s.Customers(), s.MenuItems(), s.Extras(), s.Advances(), s.Invoices(),
			pdf.NewMarotoPDFGenerator(), appbilling.BusinessInfo{Name: "Test Tiffins"}, fixedNow,
		),
		LifecycleUC: appbilling.NewLifecycleUseCase(s.Invoices(), s.Customers(), excel.NewLedgerExporter(), fixedNow),
		Scanner: appbilling.NewDuesScanner(
			s.Customers(), s.MenuItems(), s.Extras(), s.Advances(), s.Invoices(),
			memory.NewScanLocker(), fixedNow, logger.Nop(),
		),
		DashboardUC: appanalytics.NewDashboardUseCase(s.Customers(), s.MenuItems(), s.Extras(), s.Invoices(), fixedNow),
		JWTSecret:   testJWTSecret,
	})

	ts := &testServer{t: t, app: app}
	var login dto.LoginResponse
	resp := ts.do(http.MethodPost, "/api/auth/login", map[string]string{"username": "owner", "password": "s3cret-pass"}, &login)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ts.token = login.Token
	return ts
}

// do envía la petición autenticada; si out no es nil decodifica el cuerpo JSON.
func (ts *testServer) do(method, path string, body interface{}, out interface{}) *http.Response {
	ts.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(ts.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if ts.token != "" {
		req.Header.Set("Authorization", "Bearer "+ts.token)
	}
	resp, err := ts.app.Test(req, -1)
	require.NoError(ts.t, err)
	if out != nil {
		defer resp.Body.Close()
		require.NoError(ts.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func (ts *testServer) createCustomer(name string) dto.CustomerResponse {
	ts.t.Helper()
	var c dto.CustomerResponse
	resp := ts.do(http.MethodPost, "/api/customers", map[string]interface{}{
		"name":              name,
		"mobile":            "9876543210",
		"subscription_type": "monthly",
		"daily_amount":      "3000",
		"meal_times":        []string{"lunch", "dinner"},
		"start_date":        "2026-01-01",
	}, &c)
	require.Equal(ts.t, http.StatusCreated, resp.StatusCode)
	return c
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_CredencialesInvalidas_Retorna401(t *testing.T) {
	ts := newTestServer(t)
	ts.token = ""
	var body dto.ErrorResponse
	resp := ts.do(http.MethodPost, "/api/auth/login", map[string]string{"username": "owner", "password": "incorrecta"}, &body)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", body.Code)
}

func TestRutasProtegidas_SinToken_Retorna401(t *testing.T) {
	ts := newTestServer(t)
	ts.token = ""
	resp := ts.do(http.MethodGet, "/api/customers", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCreateAdmin_Duplicado_Retorna409(t *testing.T) {
	ts := newTestServer(t)
	var body dto.ErrorResponse
	resp := ts.do(http.MethodPost, "/api/auth/admins", map[string]string{"username": "owner", "password": "otra-clave-larga"}, &body)

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", body.Code)
}

func TestMe_DevuelvePerfil(t *testing.T) {
	ts := newTestServer(t)
	var me dto.UserResponse
	resp := ts.do(http.MethodGet, "/api/auth/me", nil, &me)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "owner", me.Username)
	assert.Equal(t, "active", me.Status)
}

func TestUpdateProfile_CambiaCredenciales(t *testing.T) {
	ts := newTestServer(t)
	var body dto.ErrorResponse
	resp := ts.do(http.MethodPut, "/api/auth/profile", map[string]string{
		"current_password": "incorrecta", "new_password": "nueva-clave-1",
	}, &body)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", body.Code)

	resp = ts.do(http.MethodPut, "/api/auth/profile", map[string]string{"new_password": "nueva-clave-1"}, &body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body.Code)

	var me dto.UserResponse
	resp = ts.do(http.MethodPut, "/api/auth/profile", map[string]string{
		"current_password": "s3cret-pass", "username": "rifaz", "new_password": "nueva-clave-1",
	}, &me)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "rifaz", me.Username)

	ts.token = ""
	var login dto.LoginResponse
	resp = ts.do(http.MethodPost, "/api/auth/login", map[string]string{"username": "rifaz", "password": "nueva-clave-1"}, &login)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = ts.do(http.MethodPost, "/api/auth/login", map[string]string{"username": "owner", "password": "s3cret-pass"}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Clientes
// ──────────────────────────────────────────────────────────────────────────────

func TestCustomers_ValidacionDevuelveDetalle(t *testing.T) {
	ts := newTestServer(t)
	var body dto.ErrorResponse
	resp := ts.do(http.MethodPost, "/api/customers", map[string]interface{}{
		"name":              "Sin comidas",
		"mobile":            "9876543210",
		"subscription_type": "weekly",
		"start_date":        "01/01/2026",
	}, &body)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body.Code)
	fields := map[string]bool{}
	for _, d := range body.Details {
		fields[d.Field] = true
	}
	assert.True(t, fields["subscription_type"])
	assert.True(t, fields["meal_times"])
	assert.True(t, fields["start_date"])
}

func TestCustomers_NoEncontrado_Retorna404(t *testing.T) {
	ts := newTestServer(t)
	resp := ts.do(http.MethodGet, "/api/customers/no-existe", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCustomers_BorradoProtegidoYCascada(t *testing.T) {
	ts := newTestServer(t)
	c := ts.createCustomer("Asha")
	resp := ts.do(http.MethodPost, "/api/advances", map[string]interface{}{
		"customer_id": c.ID, "amount": "500", "date": "2026-02-01",
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = ts.do(http.MethodDelete, "/api/customers/"+c.ID, nil, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var out dto.CascadeDeleteResponse
	resp = ts.do(http.MethodDelete, "/api/customers/"+c.ID+"/cascade", nil, &out)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, out.DeletedAdvances)

	resp = ts.do(http.MethodGet, "/api/customers/"+c.ID, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSearch_ClientesPlatosYExtras(t *testing.T) {
	ts := newTestServer(t)
	asha := ts.createCustomer("Asha Rao")
	ts.createCustomer("Ravi")
	var item dto.MenuItemResponse
	resp := ts.do(http.MethodPost, "/api/menu", map[string]interface{}{
		"name": "Rasam Rice", "category": "lunch", "price": "60", "description": "receta de Asha",
	}, &item)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = ts.do(http.MethodPost, "/api/extras", map[string]interface{}{
		"customer_id": asha.ID, "date": "2026-03-02", "meal_type": "lunch", "menu_item_id": item.ID,
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out dto.SearchResponse
	resp = ts.do(http.MethodGet, "/api/search?q=asha", nil, &out)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, out.Customers, 1)
	assert.Equal(t, "Asha Rao", out.Customers[0].Name)
	require.Len(t, out.MenuItems, 1)
	require.Len(t, out.Extras, 1)
	assert.Equal(t, "Rasam Rice", out.Extras[0].MenuItemName)

	var list []dto.CustomerResponse
	resp = ts.do(http.MethodGet, "/api/customers?q=RAV", nil, &list)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, list, 1)
	assert.Equal(t, "Ravi", list[0].Name)

	var menu []dto.MenuItemResponse
	resp = ts.do(http.MethodGet, "/api/menu?q=rasam", nil, &menu)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, menu, 1)

	var body dto.ErrorResponse
	resp = ts.do(http.MethodGet, "/api/search?q=a", nil, &body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body.Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Facturación
// ──────────────────────────────────────────────────────────────────────────────

func TestBilling_FacturaMensualYCicloDeVida(t *testing.T) {
	ts := newTestServer(t)
	c := ts.createCustomer("Asha")

	resp := ts.do(http.MethodPost, "/api/extras", map[string]interface{}{
		"customer_id": c.ID, "date": "2026-02-03", "meal_type": "lunch", "price": "40",
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = ts.do(http.MethodPost, "/api/advances", map[string]interface{}{
		"customer_id": c.ID, "amount": "500", "date": "2026-02-01",
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// ── 1. Factura calculada ─────────────────────────────────────────────────
	var inv map[string]interface{}
	resp = ts.do(http.MethodGet, "/api/billing/monthly?customer_id="+c.ID+"&year=2026&month=2", nil, &inv)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	summary := inv["summary"].(map[string]interface{})
	assert.Equal(t, "2540", summary["grand_total"])
	assert.Len(t, inv["days"], 28)

	// ── 2. PDF ───────────────────────────────────────────────────────────────
	resp = ts.do(http.MethodGet, "/api/billing/monthly/pdf?customer_id="+c.ID+"&year=2026&month=2", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "invoice_asha_2026-02.pdf")

	// ── 3. Guardar pendiente: una sola vez por período ───────────────────────
	var saved dto.InvoiceResponse
	resp = ts.do(http.MethodPost, "/api/invoices", map[string]interface{}{"customer_id": c.ID, "year": 2026, "month": 2}, &saved)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "pending", saved.Status)
	assert.Equal(t, "2540", saved.Amount.String())

	resp = ts.do(http.MethodPost, "/api/invoices", map[string]interface{}{"customer_id": c.ID, "year": 2026, "month": 2}, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// ── 4. Cobro ─────────────────────────────────────────────────────────────
	resp = ts.do(http.MethodPut, "/api/invoices/"+saved.ID+"/pay", map[string]string{"notes": ""}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var paid dto.InvoiceResponse
	resp = ts.do(http.MethodPut, "/api/invoices/"+saved.ID+"/pay", map[string]string{"notes": "UPI ref 991"}, &paid)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "paid", paid.Status)
	require.NotNil(t, paid.PaidAt)

	var body dto.ErrorResponse
	resp = ts.do(http.MethodPut, "/api/invoices/"+saved.ID+"/pay", map[string]string{"notes": "otra vez"}, &body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INVALID_STATE", body.Code)

	var history []dto.InvoiceResponse
	resp = ts.do(http.MethodGet, "/api/invoices/paid", nil, &history)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, history, 1)
	assert.Equal(t, "Asha", history[0].CustomerName)
}

func TestBilling_FacturaDiaria(t *testing.T) {
	ts := newTestServer(t)
	c := ts.createCustomer("Ravi")

	var inv dto.ItemizedInvoiceResponse
	resp := ts.do(http.MethodGet, "/api/billing/daily?customer_id="+c.ID+"&date=2026-02-14", nil, &inv)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "daily", inv.PeriodType)
	assert.Equal(t, "2026-02-14", inv.Date)
	assert.Len(t, inv.Days, 1)

	resp = ts.do(http.MethodGet, "/api/billing/daily?customer_id="+c.ID+"&date=14-02-2026", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestInvoices_EscaneoYExportacion(t *testing.T) {
	ts := newTestServer(t)
	ts.createCustomer("Asha")
	ts.createCustomer("Ravi")

	var result dto.ScanResultResponse
	resp := ts.do(http.MethodPost, "/api/invoices/scan", nil, &result)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "2026-02", result.Period)
	assert.Equal(t, 2, result.CreatedCount)
	assert.NotEmpty(t, result.Created[0].CustomerName)

	// Segundo escaneo del mismo período: nada nuevo
	resp = ts.do(http.MethodPost, "/api/invoices/scan", map[string]string{"period": "2026-02"}, &result)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, result.CreatedCount)
	assert.Len(t, result.Skipped, 2)

	// El mes en curso no se puede escanear
	var errBody dto.ErrorResponse
	resp = ts.do(http.MethodPost, "/api/invoices/scan", map[string]string{"period": "2026-03"}, &errBody)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errBody.Code)

	var groups []dto.PendingCustomerGroup
	resp = ts.do(http.MethodGet, "/api/invoices/pending-by-customer", nil, &groups)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, groups, 2)

	resp = ts.do(http.MethodGet, "/api/invoices/export?status=pending", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "spreadsheetml")

	resp = ts.do(http.MethodGet, "/api/invoices?status=unknown", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDashboard_Stats(t *testing.T) {
	ts := newTestServer(t)
	c := ts.createCustomer("Asha")
	resp := ts.do(http.MethodPost, "/api/extras", map[string]interface{}{
		"customer_id": c.ID, "date": "2026-03-10", "meal_type": "dinner", "price": "60",
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var stats dto.DashboardStats
	resp = ts.do(http.MethodGet, "/api/dashboard/stats", nil, &stats)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, stats.TotalCustomers)
	assert.Equal(t, 1, stats.ActiveCustomers)
	assert.Equal(t, 1, stats.TodayExtras)
	assert.Equal(t, "60", stats.TodayExtrasAmount.String())
}
