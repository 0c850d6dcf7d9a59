package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	httpiface "github.com/jhoicas/Farmacia-api/internal/interfaces/http"
	"github.com/jhoicas/Farmacia-api/pkg/jwt"
)

const testSecret = "secreto-de-pruebas-no-usar-en-produccion"

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

// buildTestApp arma una app mínima con una ruta protegida por auth y otra
// además restringida a ADMIN.
func buildTestApp() *fiber.App {
	app := fiber.New()
	protected := app.Group("/", httpiface.AuthMiddleware(testSecret))
	protected.Get("/perfil", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id": httpiface.GetUserID(c),
			"role":    httpiface.GetRole(c),
		})
	})
	protected.Get("/admin", httpiface.RequireRole(entity.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func tokenForRole(t *testing.T, userID, role string) string {
	t.Helper()
	token, err := jwt.Generate(testSecret, userID, role, "farmacia-api-test", 15)
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, app *fiber.App, path, authHeader string) (*nethttp.Response, dto.ErrorResponse) {
	t.Helper()
	req := httptest.NewRequest(nethttp.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var body dto.ErrorResponse
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = json.Unmarshal(raw, &body)
	resp.Body = io.NopCloser(bytes.NewReader(raw))
	return resp, body
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinHeader(t *testing.T) {
	app := buildTestApp()

	resp, body := doRequest(t, app, "/perfil", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", body.Code)
}

func TestAuthMiddleware_FormatoInvalido(t *testing.T) {
	app := buildTestApp()

	// Caso 1: sin esquema Bearer.
	resp, body := doRequest(t, app, "/perfil", "abc123")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", body.Code)

	// Caso 2: esquema equivocado.
	resp, body = doRequest(t, app, "/perfil", "Basic abc123")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", body.Code)

	// Caso 3: Bearer sin token.
	resp, body = doRequest(t, app, "/perfil", "Bearer ")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", body.Code)
}

func TestAuthMiddleware_TokenInvalido(t *testing.T) {
	app := buildTestApp()

	resp, body := doRequest(t, app, "/perfil", "Bearer no.es.un.jwt")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", body.Code)
}

func TestAuthMiddleware_TokenExpirado(t *testing.T) {
	app := buildTestApp()
	expired, err := jwt.Generate(testSecret, "u1", entity.RoleUser, "farmacia-api-test", -1)
	require.NoError(t, err)

	resp, body := doRequest(t, app, "/perfil", "Bearer "+expired)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", body.Code)
}

func TestAuthMiddleware_FirmaDeOtroSecreto(t *testing.T) {
	app := buildTestApp()
	foreign, err := jwt.Generate("otro-secreto", "u1", entity.RoleUser, "farmacia-api-test", 15)
	require.NoError(t, err)

	resp, body := doRequest(t, app, "/perfil", "Bearer "+foreign)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", body.Code)
}

func TestAuthMiddleware_TokenValidoExponeUserIDYRole(t *testing.T) {
	app := buildTestApp()

	resp, _ := doRequest(t, app, "/perfil", "Bearer "+tokenForRole(t, "u1", entity.RolePharmacy))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "u1", out["user_id"])
	assert.Equal(t, entity.RolePharmacy, out["role"])
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_AdminAccedeRutaAdmin(t *testing.T) {
	app := buildTestApp()

	resp, _ := doRequest(t, app, "/admin", "Bearer "+tokenForRole(t, "admin1", entity.RoleAdmin))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireRole_RolNoPermitido(t *testing.T) {
	app := buildTestApp()

	for _, role := range []string{entity.RoleUser, entity.RoleSupplier, entity.RolePharmacy} {
		resp, body := doRequest(t, app, "/admin", "Bearer "+tokenForRole(t, "u1", role))
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode, "rol %s", role)
		assert.Equal(t, "FORBIDDEN", body.Code)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// jwt.Generate / jwt.Parse
// ──────────────────────────────────────────────────────────────────────────────

func TestJWT_GenerateYParse(t *testing.T) {
	token, err := jwt.Generate(testSecret, "u42", entity.RoleSupplier, "farmacia-api-test", 15)
	require.NoError(t, err)

	userID, role, err := jwt.Parse(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "u42", userID)
	assert.Equal(t, entity.RoleSupplier, role)
}

func TestJWT_SecretVacio(t *testing.T) {
	_, err := jwt.Generate("", "u1", entity.RoleUser, "farmacia-api-test", 15)
	require.Error(t, err)

	_, _, err = jwt.Parse("", "cualquier-cosa")
	require.Error(t, err)
}
