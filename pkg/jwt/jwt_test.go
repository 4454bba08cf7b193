package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/tienda-pos/pkg/jwt"
)

const (
	testSecret = "test-secret-key-for-unit-tests"
	testTenant = "kiosco_centro"
	testIssuer = "tienda-pos-test"
)

func TestJWT_GenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testTenant, "comercio", testIssuer, 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	tenantID, role, err := pkgjwt.Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, testTenant, tenantID)
	assert.Equal(t, "comercio", role)
}

func TestJWT_TokenExpirado_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testTenant, "admin", testIssuer, -1)
	require.NoError(t, err)

	_, _, err = pkgjwt.Parse(testSecret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestJWT_SecretIncorrecto_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testTenant, "admin", testIssuer, 60)
	require.NoError(t, err)

	_, _, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err, "secret incorrecto debe invalidar el token")
}

func TestJWT_SinTenant_NoGenera(t *testing.T) {
	_, err := pkgjwt.Generate(testSecret, "", "admin", testIssuer, 60)
	assert.Error(t, err)
}
