package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/tienda-admin/internal/application/analytics"
	"github.com/jhoicas/tienda-admin/internal/application/auth"
	"github.com/jhoicas/tienda-admin/internal/application/report"
	"github.com/jhoicas/tienda-admin/internal/application/usecase"
	"github.com/jhoicas/tienda-admin/internal/infrastructure/memory"
	"github.com/jhoicas/tienda-admin/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/tienda-admin/internal/interfaces/http"
)

func newTestServer() *fiber.App {
	store := memory.NewStore()
	sessions := memory.NewSessionStore()
	authUC := auth.NewAuthUseCase(store, store.Users(), sessions, auth.SessionConfig{
		Secret: "secreto-router-test", Issuer: "tienda-admin-test", TTL: time.Hour,
	})
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:      authUC,
		UserUC:      usecase.NewUserUseCase(store, store.Users()),
		ProductUC:   usecase.NewProductUseCase(store, store.Products()),
		SupplierUC:  usecase.NewSupplierUseCase(store, store.Suppliers()),
		DashboardUC: appanalytics.NewDashboardUseCase(store.Products(), store.Suppliers(), store.Users()),
		ReportUC:    report.NewCatalogReportUseCase(store.Products(), store.Suppliers(), pdf.NewMarotoPDFGenerator("tienda-admin")),
		Cookie:      apphttp.CookieConfig{Name: testCookie},
		AppName:     "tienda-admin",
		Env:         "test",
	})
	return app
}

// call ejecuta la petición con la cookie de sesión (si hay) y decodifica el JSON en out (si no es nil).
func call(t *testing.T, app *fiber.App, method, path, cookie string, body any, out any) int {
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
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: testCookie, Value: cookie})
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func registerAndLogin(t *testing.T, app *fiber.App, username string) (userID, cookie string) {
	t.Helper()
	var reg struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	status := call(t, app, http.MethodPost, "/register", "", map[string]string{
		"username": username, "email": username + "@tienda.co", "password": "password123",
	}, &reg)
	require.Equal(t, http.StatusCreated, status)

	raw, _ := json.Marshal(map[string]string{"username": username, "password": "password123"})
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for _, c := range resp.Cookies() {
		if c.Name == testCookie {
			assert.True(t, c.HttpOnly, "la cookie de sesión es HttpOnly")
			return reg.User.ID, c.Value
		}
	}
	t.Fatal("login no devolvió cookie de sesión")
	return "", ""
}

func TestRouter_FlujoDeSesionYRoles(t *testing.T) {
	app := newTestServer()
	adminID, admin := registerAndLogin(t, app, "alice")
	userID, user := registerAndLogin(t, app, "bob")

	var me map[string]any
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/me", admin, nil, &me))
	assert.Equal(t, "admin", me["role"])
	assert.Equal(t, adminID, me["user_id"])

	assert.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/admin", admin, nil, nil))
	assert.Equal(t, http.StatusForbidden, call(t, app, http.MethodGet, "/admin", user, nil, nil))
	assert.Equal(t, http.StatusForbidden, call(t, app, http.MethodGet, "/users", user, nil, nil))
	assert.Equal(t, http.StatusUnauthorized, call(t, app, http.MethodGet, "/admin", "", nil, nil))

	// el propio usuario se ve; a otro no
	assert.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/users/"+userID, user, nil, nil))
	assert.Equal(t, http.StatusForbidden, call(t, app, http.MethodGet, "/users/"+adminID, user, nil, nil))

	// admin promueve a bob; el cambio aplica sin re-login
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPut, "/users/"+userID, admin, map[string]string{"role": "subadmin"}, nil))
	assert.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/admin", user, nil, nil))
	assert.Equal(t, http.StatusForbidden, call(t, app, http.MethodGet, "/admin/system_info", user, nil, nil))

	// auto-eliminación prohibida
	var errBody map[string]string
	assert.Equal(t, http.StatusForbidden, call(t, app, http.MethodDelete, "/users/"+adminID, admin, nil, &errBody))
	assert.Equal(t, "SELF_DELETION", errBody["code"])

	// logout invalida la sesión y es idempotente
	assert.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/logout", user, nil, nil))
	assert.Equal(t, http.StatusUnauthorized, call(t, app, http.MethodGet, "/me", user, nil, nil))
	assert.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/logout", user, nil, nil))
}

func TestRouter_RegistroDuplicadoYLoginFallido(t *testing.T) {
	app := newTestServer()
	registerAndLogin(t, app, "alice")

	var errBody map[string]string
	status := call(t, app, http.MethodPost, "/register", "", map[string]string{
		"username": "alice", "email": "otra@tienda.co", "password": "password123",
	}, &errBody)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "DUPLICATE", errBody["code"])

	status = call(t, app, http.MethodPost, "/login", "", map[string]string{"username": "alice", "password": "mala"}, &errBody)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_CREDENTIALS", errBody["code"])
}

func TestRouter_CatalogoAcme(t *testing.T) {
	app := newTestServer()
	_, admin := registerAndLogin(t, app, "alice")

	var supplier map[string]any
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/admin/suppliers", admin,
		map[string]any{"name": "Acme", "email": "ventas@acme.co"}, &supplier))
	supplierID := supplier["id"].(string)

	var product map[string]any
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/admin/products", admin,
		map[string]any{"name": "Widget", "price": "9.99", "stock": 5, "supplier_id": supplierID}, &product))
	productID := product["id"].(string)
	assert.Equal(t, "Acme", product["supplier"])

	var errBody map[string]string
	assert.Equal(t, http.StatusConflict, call(t, app, http.MethodDelete, "/admin/suppliers/"+supplierID, admin, nil, &errBody))
	assert.Equal(t, "HAS_DEPENDENTS", errBody["code"])

	assert.Equal(t, http.StatusNotFound, call(t, app, http.MethodPut, "/admin/products/"+productID, admin,
		map[string]any{"supplier_id": "no-existe"}, nil))

	// null quita el proveedor
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPut, "/admin/products/"+productID, admin,
		map[string]any{"supplier_id": nil}, &product))
	assert.Nil(t, product["supplier_id"])

	assert.Equal(t, http.StatusOK, call(t, app, http.MethodDelete, "/admin/suppliers/"+supplierID, admin, nil, nil))

	req := httptest.NewRequest(http.MethodGet, "/admin/products/report", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: admin})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
}
