package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-pos/internal/application/dto"
	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
	"github.com/jhoicas/tienda-pos/internal/infrastructure/backup"
	"github.com/jhoicas/tienda-pos/internal/infrastructure/tenant"
	"github.com/jhoicas/tienda-pos/pkg/logger"
)

const comercio = "kiosco"

type harness struct {
	uc       *UseCase
	registry *tenant.Registry
	backups  *backup.Engine
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	root := t.TempDir()
	reg := tenant.NewRegistry(filepath.Join(root, "datos"), logger.NewNop(), nil)
	t.Cleanup(func() { _ = reg.Close() })
	eng := backup.NewEngine(backup.Config{
		BackupDir: filepath.Join(root, "backups"),
		DataDir:   filepath.Join(root, "datos"),
		Limit:     100,
	}, reg, logger.NewNop(), nil)
	return &harness{uc: NewUseCase(reg, reg, eng, logger.NewNop()), registry: reg, backups: eng}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr[T any](v T) *T { return &v }

func (h *harness) create(t *testing.T, code string, price string, stock int64) {
	t.Helper()
	_, err := h.uc.Create(context.Background(), comercio, dto.CreateProductRequest{
		Code: code, Description: "Artículo " + code, Category: "Ropa", Price: dec(price), Stock: stock,
	})
	require.NoError(t, err)
}

func (h *harness) backupCount(t *testing.T) int {
	t.Helper()
	list, err := h.backups.List(comercio)
	require.NoError(t, err)
	return len(list)
}

// ──────────────────────────────────────────────────────────────────────────────
// Alta, consulta y edición
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_YGet(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	out, err := h.uc.Create(ctx, comercio, dto.CreateProductRequest{
		Code: "  ABC ", Description: "Remera", Price: dec("1500.50"), Cost: dec("800"), Stock: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, "ABC", out.Code, "el código se recorta")

	got, err := h.uc.Get(ctx, comercio, "ABC")
	require.NoError(t, err)
	assert.Equal(t, "Remera", got.Description)
	assert.True(t, dec("1500.5").Equal(got.Price))
	assert.Equal(t, int64(10), got.Stock)
	assert.Equal(t, 1, h.backupCount(t), "el alta dispara un backup")
}

func TestCreate_Duplicado(t *testing.T) {
	h := newHarness(t)
	h.create(t, "ABC", "10", 1)
	_, err := h.uc.Create(context.Background(), comercio, dto.CreateProductRequest{Code: "ABC"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Equal(t, 1, h.backupCount(t), "un fallo no genera backup")
}

func TestCreate_Validacion(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, err := h.uc.Create(ctx, comercio, dto.CreateProductRequest{Code: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = h.uc.Create(ctx, comercio, dto.CreateProductRequest{Code: "X", Price: dec("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGet_Inexistente(t *testing.T) {
	h := newHarness(t)
	_, err := h.uc.Get(context.Background(), comercio, "NOPE")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestUpdate_StockFinalAbsoluto(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.create(t, "ABC", "100", 7)

	out, err := h.uc.Update(ctx, comercio, "ABC", dto.UpdateProductRequest{
		Price: ptr(dec("120")), StockFinal: ptr(int64(3)),
	})
	require.NoError(t, err)
	assert.True(t, dec("120").Equal(out.Price))
	assert.Equal(t, int64(3), out.Stock)
	assert.Equal(t, "Artículo ABC", out.Description, "los campos nil no cambian")

	_, err = h.uc.Update(ctx, comercio, "NOPE", dto.UpdateProductRequest{Price: ptr(dec("1"))})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestSetStock(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.create(t, "ABC", "100", 7)

	require.NoError(t, h.uc.SetStock(ctx, comercio, "ABC", 42))
	got, err := h.uc.Get(ctx, comercio, "ABC")
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.Stock)

	assert.ErrorIs(t, h.uc.SetStock(ctx, comercio, "NOPE", 1), domain.ErrProductNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Baja
// ──────────────────────────────────────────────────────────────────────────────

func TestDelete(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.create(t, "ABC", "100", 1)

	require.NoError(t, h.uc.Delete(ctx, comercio, "ABC"))
	_, err := h.uc.Get(ctx, comercio, "ABC")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	assert.ErrorIs(t, h.uc.Delete(ctx, comercio, "ABC"), domain.ErrProductNotFound)
}

func TestDelete_ConVentasSeRechaza(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.create(t, "ABC", "100", 5)
	err := h.registry.Run(ctx, comercio, "test", func(repos repository.Repositories) error {
		return repos.Sales.Create(ctx, &entity.Sale{Date: "2024-01-15", ProductCode: "ABC", Quantity: 1, UnitPrice: dec("100")})
	})
	require.NoError(t, err)

	err = h.uc.Delete(ctx, comercio, "ABC")
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := h.uc.Get(ctx, comercio, "ABC")
	require.NoError(t, err)
	assert.Equal(t, "ABC", got.Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Búsqueda y descripciones
// ──────────────────────────────────────────────────────────────────────────────

func TestSearch_Orden(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.create(t, "AB", "1", 0)
	h.create(t, "ABC", "1", 0)
	_, err := h.uc.Create(ctx, comercio, dto.CreateProductRequest{Code: "Z1", Description: "Gorra AB roja"})
	require.NoError(t, err)

	list, err := h.uc.Search(ctx, comercio, "AB", 0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "AB", list[0].Code, "código exacto primero")
	assert.Equal(t, "ABC", list[1].Code, "luego prefijo")
	assert.Equal(t, "Z1", list[2].Code, "luego descripción")

	empty, err := h.uc.Search(ctx, comercio, "  ", 10)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDescriptions(t *testing.T) {
	h := newHarness(t)
	h.create(t, "A1", "1", 0)
	h.create(t, "B2", "1", 0)
	m, err := h.uc.Descriptions(context.Background(), comercio, []string{"A1", " B2 ", "", "NOPE"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A1": "Artículo A1", "B2": "Artículo B2"}, m)
}

func TestDescriptions_TopeDeCodigos(t *testing.T) {
	h := newHarness(t)
	h.create(t, "A1", "1", 0)

	codes := make([]string, 0, MaxDescriptionCodes+2)
	for i := 0; i <= MaxDescriptionCodes; i++ {
		codes = append(codes, fmt.Sprintf("C%d", i))
	}
	_, err := h.uc.Descriptions(context.Background(), comercio, codes)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Los repetidos no cuentan para el tope.
	codes = codes[:MaxDescriptionCodes-1]
	codes = append(codes, "A1", "A1", "A1")
	m, err := h.uc.Descriptions(context.Background(), comercio, codes)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A1": "Artículo A1"}, m)
}

// ──────────────────────────────────────────────────────────────────────────────
// Importación masiva
// ──────────────────────────────────────────────────────────────────────────────

func TestUpsertMany_Full(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.create(t, "A1", "10", 1)

	rows := []dto.ProductImportRow{
		{Line: 2, Code: "A1", Description: ptr("Remera nueva"), Price: ptr(dec("15"))},
		{Line: 3, Code: "B2", Description: ptr("Gorra"), Price: ptr(dec("20")), Stock: ptr(int64(4))},
		{Line: 4, Code: "", Price: ptr(dec("1"))},
		{Line: 5, Code: "C3", Cost: ptr(dec("-2"))},
	}
	res, err := h.uc.UpsertMany(ctx, comercio, rows, dto.ImportModeFull)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, 0, res.Skipped)
	require.Len(t, res.Errors, 2)
	assert.Equal(t, 4, res.Errors[0].Line)
	assert.Equal(t, "C3", res.Errors[1].Code)

	a1, err := h.uc.Get(ctx, comercio, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Remera nueva", a1.Description)
	assert.True(t, dec("15").Equal(a1.Price))
	assert.Equal(t, int64(1), a1.Stock, "columna ausente no se pisa")

	b2, err := h.uc.Get(ctx, comercio, "B2")
	require.NoError(t, err)
	assert.Equal(t, int64(4), b2.Stock)

	_, err = h.uc.Get(ctx, comercio, "C3")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestUpsertMany_Attributes(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.create(t, "A1", "10", 1)

	rows := []dto.ProductImportRow{
		{Line: 2, Code: "A1", Description: ptr("ignorada"), Price: ptr(dec("11")), Stock: ptr(int64(9))},
		{Line: 3, Code: "NUEVO", Price: ptr(dec("5"))},
	}
	res, err := h.uc.UpsertMany(ctx, comercio, rows, dto.ImportModeAttributes)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Inserted)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, 1, res.Skipped)
	assert.Empty(t, res.Errors)

	a1, err := h.uc.Get(ctx, comercio, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Artículo A1", a1.Description, "el modo attributes no toca descripción")
	assert.True(t, dec("11").Equal(a1.Price))
	assert.Equal(t, int64(9), a1.Stock)

	_, err = h.uc.Get(ctx, comercio, "NUEVO")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestUpsertMany_ModoInvalido(t *testing.T) {
	h := newHarness(t)
	_, err := h.uc.UpsertMany(context.Background(), comercio, nil, "merge")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
