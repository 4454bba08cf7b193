package auth

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-pos/internal/application/dto"
	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/infrastructure/sqlite"
	"github.com/jhoicas/tienda-pos/pkg/jwt"
	"github.com/jhoicas/tienda-pos/pkg/logger"
)

const secret = "secreto_de_prueba"

func newAuth(t *testing.T) *AuthUseCase {
	t.Helper()
	dir, err := sqlite.OpenDirectory(context.Background(), filepath.Join(t.TempDir(), "usuarios.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = dir.Close() })
	return NewAuthUseCase(dir.Tenants(), JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "test"}, logger.NewNop())
}

func TestCreateTenant_YLogin(t *testing.T) {
	uc := newAuth(t)
	ctx := context.Background()

	created, err := uc.CreateTenant(ctx, dto.CreateTenantRequest{ID: "kiosco", Password: "secreta1", BusinessName: "Kiosco Centro"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleComercio, created.Role)
	assert.True(t, created.Active)

	out, err := uc.Login(ctx, dto.LoginRequest{Username: "kiosco", Password: "secreta1"})
	require.NoError(t, err)
	assert.Equal(t, "Kiosco Centro", out.Tenant.BusinessName)

	tenantID, role, err := jwt.Parse(secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, "kiosco", tenantID)
	assert.Equal(t, entity.RoleComercio, role)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc := newAuth(t)
	ctx := context.Background()
	_, err := uc.CreateTenant(ctx, dto.CreateTenantRequest{ID: "kiosco", Password: "secreta1"})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Username: "kiosco", Password: "otra"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Username: "nadie", Password: "secreta1"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "no se revela si el usuario existe")
}

func TestLogin_ComercioSuspendido(t *testing.T) {
	uc := newAuth(t)
	ctx := context.Background()
	_, err := uc.CreateTenant(ctx, dto.CreateTenantRequest{ID: "kiosco", Password: "secreta1"})
	require.NoError(t, err)
	require.NoError(t, uc.SetActive(ctx, "kiosco", false))

	_, err = uc.Login(ctx, dto.LoginRequest{Username: "kiosco", Password: "secreta1"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.ErrorIs(t, uc.SetActive(ctx, "nadie", true), domain.ErrTenantNotFound)
}

func TestCreateTenant_Validacion(t *testing.T) {
	uc := newAuth(t)
	ctx := context.Background()
	_, err := uc.CreateTenant(ctx, dto.CreateTenantRequest{ID: "../etc", Password: "secreta1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.CreateTenant(ctx, dto.CreateTenantRequest{ID: "ok", Password: "123"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.CreateTenant(ctx, dto.CreateTenantRequest{ID: "ok", Password: "secreta1"})
	require.NoError(t, err)
	_, err = uc.CreateTenant(ctx, dto.CreateTenantRequest{ID: "ok", Password: "secreta1"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestEnsureAdmin_Idempotente(t *testing.T) {
	uc := newAuth(t)
	ctx := context.Background()
	require.NoError(t, uc.EnsureAdmin(ctx, "admin", "admin123"))
	require.NoError(t, uc.EnsureAdmin(ctx, "admin", "otra_clave"))

	out, err := uc.Login(ctx, dto.LoginRequest{Username: "admin", Password: "admin123"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, out.Tenant.Role)

	list, err := uc.ListTenants(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
