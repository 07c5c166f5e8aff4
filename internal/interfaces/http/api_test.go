package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/devis-factures-api/internal/application/auth"
	"github.com/jhoicas/devis-factures-api/internal/application/billing"
	"github.com/jhoicas/devis-factures-api/internal/application/dto"
	"github.com/jhoicas/devis-factures-api/internal/infrastructure/export"
	"github.com/jhoicas/devis-factures-api/internal/infrastructure/memory"
	"github.com/jhoicas/devis-factures-api/internal/infrastructure/pdf"
	"github.com/jhoicas/devis-factures-api/internal/infrastructure/storage"
	apphttp "github.com/jhoicas/devis-factures-api/internal/interfaces/http"
)

// testAPI aplicación completa sobre el store en memoria y almacenamiento en disco temporal.
type testAPI struct {
	app    *fiber.App
	authUC *auth.AuthUseCase
	admin  string
	reader string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	st := memory.NewStore()
	repos := st.Repositories()
	opts := billing.DefaultOptions()
	log := zerolog.Nop()

	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	invoiceUC := billing.NewInvoiceUseCase(repos, st, opts, log)
	authUC := auth.NewAuthUseCase(st.Users(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer})

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(log)})
	apphttp.Router(app, apphttp.RouterDeps{
		ClientUC:   billing.NewClientUseCase(repos.Clients),
		QuoteUC:    billing.NewQuoteUseCase(repos, st, opts, log),
		InvoiceUC:  invoiceUC,
		PaymentUC:  billing.NewPaymentUseCase(repos, st, opts, log),
		DepositUC:  billing.NewDepositUseCase(repos, st, opts, log),
		SettingsUC: billing.NewSettingsUseCase(repos.Settings, files, opts, log),
		PrintUC:    billing.NewPrintUseCase(repos, files, pdf.NewMarotoPDFGenerator(), opts, log),
		ExportUC:   billing.NewExportUseCase(invoiceUC, export.NewExcelExporter()),
		AuthUC:     authUC,
		JWTSecret:  testJWTSecret,
		Log:        log,
	})
	return &testAPI{
		app:    app,
		authUC: authUC,
		admin:  tokenForRole(t, "admin"),
		reader: tokenForRole(t, "lecteur"),
	}
}

// call envía body como JSON (si no es nil) y devuelve status y cuerpo.
func (a *testAPI) call(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

func (a *testAPI) createClient(t *testing.T, name string) string {
	t.Helper()
	status, raw := a.call(t, http.MethodPost, "/api/clients", a.admin, map[string]any{
		"name": name, "email": "contact@" + name + ".fr",
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	return decode[dto.ClientResponse](t, raw).ID
}

func (a *testAPI) createQuote(t *testing.T, clientID string) dto.QuoteResponse {
	t.Helper()
	status, raw := a.call(t, http.MethodPost, "/api/devis", a.admin, map[string]any{
		"clientId":   clientID,
		"date":       "2024-03-01",
		"validUntil": "2030-03-31",
		"lines": []map[string]any{
			{"description": "Conception", "quantity": 2, "unitPrice": 50},
			{"description": "Livraison", "quantity": 1, "unitPrice": 30},
		},
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	return decode[dto.QuoteResponse](t, raw)
}

func TestAPI_EscenarioAcme(t *testing.T) {
	api := newTestAPI(t)
	clientID := api.createClient(t, "acme")
	quote := api.createQuote(t, clientID)
	assert.Equal(t, "130", quote.TotalTTC.String(), "el total se recalcula en el servidor")

	status, raw := api.call(t, http.MethodPost, "/api/factures/acompte", api.admin, map[string]any{
		"devisId": quote.ID, "montant": 65,
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	deposit := decode[dto.InvoiceResponse](t, raw)
	assert.True(t, deposit.IsDeposit)
	assert.Equal(t, "65", deposit.TotalTTC.String())

	status, raw = api.call(t, http.MethodDelete, "/api/devis/"+quote.ID, api.admin, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	errBody := decode[dto.ErrorResponse](t, raw)
	assert.Equal(t, "CONFLICT", errBody.Code)
	assert.EqualValues(t, 1, errBody.Details["count"])

	status, raw = api.call(t, http.MethodGet, "/api/devis/"+quote.ID+"/acomptes", api.reader, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	deposits := decode[dto.DepositListResponse](t, raw)
	assert.Equal(t, 1, deposits.Count)
	assert.Equal(t, "65", deposits.Remaining.String())
}

func TestAPI_AcompteSuperiorAlDevis_Rechazado(t *testing.T) {
	api := newTestAPI(t)
	quote := api.createQuote(t, api.createClient(t, "acme"))

	status, raw := api.call(t, http.MethodPost, "/api/factures/acompte", api.admin, map[string]any{
		"devisId": quote.ID, "montant": 200,
	})
	assert.Equal(t, http.StatusBadRequest, status, string(raw))
}

func TestAPI_PagoRecalculaFactura(t *testing.T) {
	api := newTestAPI(t)
	clientID := api.createClient(t, "acme")
	status, raw := api.call(t, http.MethodPost, "/api/factures", api.admin, map[string]any{
		"clientId": clientID, "date": "2024-03-01", "dueDate": "2024-03-31",
		"lines": []map[string]any{{"description": "Prestation", "quantity": 1, "unitPrice": 100}},
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	inv := decode[dto.InvoiceResponse](t, raw)

	status, raw = api.call(t, http.MethodPost, "/api/paiements", api.admin, map[string]any{
		"invoiceId": inv.ID, "date": "2024-03-10", "amount": 120, "method": "bank_transfer",
	})
	require.Equal(t, http.StatusCreated, status, string(raw))

	status, raw = api.call(t, http.MethodGet, "/api/factures/"+inv.ID, api.reader, nil)
	require.Equal(t, http.StatusOK, status)
	got := decode[dto.InvoiceResponse](t, raw)
	assert.Equal(t, "paid", got.Status)
	assert.True(t, got.Remaining.IsZero(), "sobrepago deja resteAPayer en 0")
	assert.Len(t, got.Payments, 1)

	status, raw = api.call(t, http.MethodDelete, "/api/factures/"+inv.ID, api.admin, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	errBody := decode[dto.ErrorResponse](t, raw)
	assert.EqualValues(t, 1, errBody.Details["paymentCount"])

	status, _ = api.call(t, http.MethodPut, "/api/factures/"+inv.ID+"/payer", api.admin, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestAPI_LecteurNoPuedeEscribir(t *testing.T) {
	api := newTestAPI(t)
	status, _ := api.call(t, http.MethodPost, "/api/clients", api.reader, map[string]any{
		"name": "acme", "email": "a@acme.fr",
	})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = api.call(t, http.MethodGet, "/api/clients", api.reader, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = api.call(t, http.MethodGet, "/api/clients", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAPI_ErroresDeValidacion(t *testing.T) {
	api := newTestAPI(t)

	status, raw := api.call(t, http.MethodPost, "/api/clients", api.admin, map[string]any{"name": "acme", "email": "pas-un-email"})
	assert.Equal(t, http.StatusBadRequest, status)
	errBody := decode[dto.ErrorResponse](t, raw)
	assert.Equal(t, "VALIDATION", errBody.Code)
	assert.Equal(t, "email", errBody.Details["Email"])

	status, raw = api.call(t, http.MethodPost, "/api/devis", api.admin, map[string]any{
		"clientId": "00000000-0000-0000-0000-0000000000aa", "date": "2024-03-01", "validUntil": "2024-03-31",
		"lines": []map[string]any{{"description": "X", "quantity": 1, "unitPrice": 10}},
	})
	assert.Equal(t, http.StatusNotFound, status, string(raw))

	status, _ = api.call(t, http.MethodGet, "/api/factures/pas-un-uuid", api.admin, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = api.call(t, http.MethodGet, "/api/paiements/00000000-0000-0000-0000-0000000000bb", api.admin, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAPI_ClienteConDevisNoSeBorra(t *testing.T) {
	api := newTestAPI(t)
	clientID := api.createClient(t, "acme")
	api.createQuote(t, clientID)

	status, raw := api.call(t, http.MethodDelete, "/api/clients/"+clientID, api.admin, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	errBody := decode[dto.ErrorResponse](t, raw)
	assert.EqualValues(t, 1, errBody.Details["devis"])
}

func TestAPI_ConvertirDevis(t *testing.T) {
	api := newTestAPI(t)
	quote := api.createQuote(t, api.createClient(t, "acme"))

	status, raw := api.call(t, http.MethodPost, "/api/devis/"+quote.ID+"/convertir", api.admin, nil)
	require.Equal(t, http.StatusCreated, status, string(raw))
	inv := decode[dto.InvoiceResponse](t, raw)
	assert.Equal(t, quote.ID, inv.DevisID)
	assert.Equal(t, "130", inv.TotalTTC.String())

	status, raw = api.call(t, http.MethodPut, "/api/devis/"+quote.ID, api.admin, map[string]any{
		"clientId": quote.ClientID, "date": "2024-03-01", "validUntil": "2030-03-31",
		"lines": []map[string]any{{"description": "Autre", "quantity": 1, "unitPrice": 1}},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_STATE", decode[dto.ErrorResponse](t, raw).Code)
}

func TestAPI_PrintYExport(t *testing.T) {
	api := newTestAPI(t)
	quote := api.createQuote(t, api.createClient(t, "acme"))

	status, raw := api.call(t, http.MethodGet, "/api/print?type=devis&id="+quote.ID, api.reader, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	doc := decode[dto.PrintDocument](t, raw)
	assert.Equal(t, quote.Number, doc.Reference)
	assert.Equal(t, "DEVIS", doc.Title)

	status, raw = api.call(t, http.MethodGet, "/api/print?type=devis&format=pdf&id="+quote.ID, api.reader, nil)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))

	status, _ = api.call(t, http.MethodGet, "/api/print?type=bon&id="+quote.ID, api.reader, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	req := httptest.NewRequest(http.MethodGet, "/api/factures/export", nil)
	req.Header.Set("Authorization", api.admin)
	resp, err := api.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "spreadsheetml")
}

func TestAPI_ParametresConLogo(t *testing.T) {
	api := newTestAPI(t)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("companyName", "Atelier Durand"))
	require.NoError(t, w.WriteField("prefixeDevis", "DV"))
	fw, err := w.CreateFormFile("logo", "logo.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/parametres", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", api.admin)
	resp, err := api.app.Test(req, -1)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	settings := decode[dto.SettingsResponse](t, raw)
	assert.True(t, settings.HasLogo)
	assert.Equal(t, "DV", settings.QuotePrefix)

	req = httptest.NewRequest(http.MethodGet, "/api/parametres/logo", nil)
	resp, err = api.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
}

func TestAPI_Login(t *testing.T) {
	api := newTestAPI(t)
	_, err := api.authUC.CreateUser(context.Background(), dto.CreateUserRequest{
		Email: "Admin@Atelier.fr", Password: "motdepasse", Role: "admin",
	})
	require.NoError(t, err)

	status, raw := api.call(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": "admin@atelier.fr", "password": "motdepasse",
	})
	require.Equal(t, http.StatusOK, status, string(raw))
	login := decode[dto.LoginResponse](t, raw)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, "admin", login.User.Role)

	status, _ = api.call(t, http.MethodGet, "/api/auth/me", "Bearer "+login.Token, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = api.call(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": "admin@atelier.fr", "password": "mauvais-mdp",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
}
