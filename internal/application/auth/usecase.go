package auth

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/tienda-pos/internal/application/dto"
	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
	"github.com/jhoicas/tienda-pos/pkg/jwt"
	"github.com/jhoicas/tienda-pos/pkg/logger"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación y alta de comercios.
// La base de cada comercio no se crea aquí: se aprovisiona en su primer acceso.
type AuthUseCase struct {
	tenantRepo repository.TenantRepository
	jwtCfg     JWTConfig
	log        *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(tenantRepo repository.TenantRepository, jwtCfg JWTConfig, log *logger.Logger) *AuthUseCase {
	return &AuthUseCase{tenantRepo: tenantRepo, jwtCfg: jwtCfg, log: log}
}

// CreateTenant registra un comercio: hashea password con bcrypt y persiste.
// ErrDuplicate si el identificador ya existe.
func (uc *AuthUseCase) CreateTenant(ctx context.Context, in dto.CreateTenantRequest) (*dto.TenantResponse, error) {
	id := strings.TrimSpace(in.ID)
	if !entity.ValidTenantID(id) {
		return nil, domain.Invalid("identificador de comercio %q (letras, números, _ o -)", in.ID)
	}
	if len(in.Password) < 6 {
		return nil, domain.Invalid("password debe tener al menos 6 caracteres")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = entity.RoleComercio
	}
	if role != entity.RoleComercio && role != entity.RoleAdmin {
		return nil, domain.Invalid("rol %q", in.Role)
	}
	name := strings.TrimSpace(in.BusinessName)
	if name == "" {
		name = id
	}
	t := &entity.Tenant{
		ID:           id,
		PasswordHash: string(hash),
		BusinessName: name,
		Email:        strings.TrimSpace(in.Email),
		Role:         role,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}
	if err := uc.tenantRepo.Create(ctx, t); err != nil {
		return nil, err
	}
	uc.log.Info().Str("tenant", id).Str("role", role).Msg("comercio registrado")
	return toTenantResponse(t), nil
}

// Login verifica usuario/password, genera JWT y retorna token + comercio.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	t, err := uc.tenantRepo.GetByID(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(t.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !t.Active {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, t.ID, t.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:  token,
		Tenant: *toTenantResponse(t),
	}, nil
}

// GetTenant obtiene un comercio. ErrTenantNotFound si no existe.
func (uc *AuthUseCase) GetTenant(ctx context.Context, id string) (*dto.TenantResponse, error) {
	t, err := uc.tenantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrTenantNotFound
	}
	return toTenantResponse(t), nil
}

// ListTenants lista los comercios registrados.
func (uc *AuthUseCase) ListTenants(ctx context.Context) ([]dto.TenantResponse, error) {
	list, err := uc.tenantRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TenantResponse, 0, len(list))
	for _, t := range list {
		out = append(out, *toTenantResponse(t))
	}
	return out, nil
}

// SetActive habilita o suspende el acceso de un comercio.
func (uc *AuthUseCase) SetActive(ctx context.Context, id string, active bool) error {
	return uc.tenantRepo.SetActive(ctx, id, active)
}

// EnsureAdmin siembra el comercio administrador si todavía no existe.
func (uc *AuthUseCase) EnsureAdmin(ctx context.Context, user, password string) error {
	existing, err := uc.tenantRepo.GetByID(ctx, user)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	_, err = uc.CreateTenant(ctx, dto.CreateTenantRequest{
		ID:           user,
		Password:     password,
		BusinessName: "Administrador",
		Role:         entity.RoleAdmin,
	})
	return err
}

func toTenantResponse(t *entity.Tenant) *dto.TenantResponse {
	return &dto.TenantResponse{
		ID:           t.ID,
		BusinessName: t.BusinessName,
		Email:        t.Email,
		Role:         t.Role,
		Active:       t.Active,
		CreatedAt:    t.CreatedAt,
	}
}
