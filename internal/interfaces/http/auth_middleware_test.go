package http_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/shipping-dashboard/internal/application/dto"
	"github.com/jhoicas/shipping-dashboard/internal/domain/entity"
	pkgjwt "github.com/jhoicas/shipping-dashboard/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "shipping-dashboard-test"
	testExpMin    = 60
	viewerID      = "00000000-0000-0000-0000-0000000000bb"
)

func tokenWith(t *testing.T, secret, email, role string, expMin int) string {
	t.Helper()
	tok, err := pkgjwt.Generate(secret, viewerID, email, role, testIssuer, expMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func updateBody() dto.UpdateRecordRequest {
	return dto.UpdateRecordRequest{
		Year: 2025, Week: 10, ETD: "2025-03-03", Item: entity.ItemBananas, Supplier: "REYBANPAC",
		Container: "MSKU1234567", Pack: "13.5 KG A", Cartons: 300, Type: entity.TypeContract,
	}
}

func TestAuth_TokenAusenteOMalFormado(t *testing.T) {
	srv := newServer(t)
	cases := map[string]string{
		"":                    "MISSING_TOKEN",
		"Token abc":           "INVALID_TOKEN",
		"Bearer no.es.un.jwt": "INVALID_TOKEN",
	}
	for header, code := range cases {
		resp := srv.do(t, http.MethodGet, "/api/records", header, nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode, header)
		assert.Equal(t, code, decode[dto.ErrorResponse](t, resp).Code, header)
	}
}

func TestAuth_FirmaAjenaYExpirado(t *testing.T) {
	srv := newServer(t)

	resp := srv.do(t, http.MethodGet, "/api/records", tokenWith(t, "otro-secreto", "v@shipping.test", entity.RoleViewer, testExpMin), nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = srv.do(t, http.MethodGet, "/api/records", tokenWith(t, testJWTSecret, "v@shipping.test", entity.RoleViewer, -1), nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuth_MeDevuelveClaims(t *testing.T) {
	srv := newServer(t)
	resp := srv.do(t, http.MethodGet, "/api/auth/me", tokenWith(t, testJWTSecret, "viewer@shipping.test", entity.RoleViewer, testExpMin), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	me := decode[map[string]string](t, resp)
	assert.Equal(t, viewerID, me["user_id"])
	assert.Equal(t, "viewer@shipping.test", me["email"])
	assert.Equal(t, entity.RoleViewer, me["role"])
}

func TestRequireRole_ViewerLeePeroNoEdita(t *testing.T) {
	srv := newServer(t, seeded("a", "REYBANPAC", 600, 1))
	viewer := tokenWith(t, testJWTSecret, "viewer@shipping.test", entity.RoleViewer, testExpMin)

	resp := srv.do(t, http.MethodGet, "/api/records/a", viewer, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = srv.do(t, http.MethodPut, "/api/records/a", viewer, updateBody())
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", decode[dto.ErrorResponse](t, resp).Code)
	assert.Equal(t, 600, srv.store.All()[0].Cartons)
}

func TestRequireRole_TokenSinRol(t *testing.T) {
	srv := newServer(t, seeded("a", "REYBANPAC", 600, 1))
	resp := srv.do(t, http.MethodPut, "/api/records/a", tokenWith(t, testJWTSecret, "x@shipping.test", "", testExpMin), updateBody())
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_ROLE", decode[dto.ErrorResponse](t, resp).Code)
}

func TestRequireRole_AdminEdita(t *testing.T) {
	srv := newServer(t, seeded("a", "REYBANPAC", 600, 1))
	resp := srv.do(t, http.MethodPut, "/api/records/a", bearer(t, adminID, entity.RoleAdmin), updateBody())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 300, srv.store.All()[0].Cartons)
}
