package sales

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-pos/internal/application/dto"
	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
)

func TestExchange_DiferenciaComoVentaCantidadCero(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.seed(t, comercio, "ABC", 8)
	h.seed(t, comercio, "XYZ", 5)

	ex, err := h.uc.RegisterExchange(ctx, comercio, dto.RegisterExchangeRequest{
		Date:             "2024-01-15",
		ReturnedCode:     "ABC",
		DeliveredCode:    "XYZ",
		ReturnedPrice:    dec("100"),
		DeliveredPrice:   dec("150"),
		ChargeDifference: true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), h.stock(t, comercio, "ABC"))
	assert.Equal(t, int64(4), h.stock(t, comercio, "XYZ"))
	assert.True(t, dec("50").Equal(ex.Difference))
	require.NotNil(t, ex.DifferenceSaleID)

	list, err := h.uc.ListByDate(ctx, comercio, "2024-01-15")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, *ex.DifferenceSaleID, list[0].ID)
	assert.Equal(t, int64(0), list[0].Quantity)
	assert.Empty(t, list[0].ProductCode)
	assert.True(t, dec("50").Equal(list[0].Total))

	all, err := h.uc.ListExchanges(ctx, comercio, "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "ABC", all[0].ReturnedCode)
}

func TestExchange_SinCobroNoRegistraVenta(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.seed(t, comercio, "ABC", 8)
	h.seed(t, comercio, "XYZ", 5)

	ex, err := h.uc.RegisterExchange(ctx, comercio, dto.RegisterExchangeRequest{
		Date: "2024-01-15", ReturnedCode: "ABC", DeliveredCode: "XYZ", ReturnedPrice: dec("150"), DeliveredPrice: dec("100"), ChargeDifference: true,
	})
	require.NoError(t, err)
	assert.Nil(t, ex.DifferenceSaleID, "diferencia negativa no se cobra")
	assert.Zero(t, h.salesCount(t, comercio))
}

func TestDeleteExchange_RevierteTodo(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.seed(t, comercio, "ABC", 8)
	h.seed(t, comercio, "XYZ", 5)

	ex, err := h.uc.RegisterExchange(ctx, comercio, dto.RegisterExchangeRequest{
		Date: "2024-01-15", ReturnedCode: "ABC", DeliveredCode: "XYZ", ReturnedPrice: dec("100"), DeliveredPrice: dec("150"), ChargeDifference: true,
	})
	require.NoError(t, err)

	require.NoError(t, h.uc.DeleteExchange(ctx, comercio, ex.ID))
	assert.Equal(t, int64(8), h.stock(t, comercio, "ABC"))
	assert.Equal(t, int64(5), h.stock(t, comercio, "XYZ"))
	assert.Zero(t, h.salesCount(t, comercio), "la venta de diferencia se elimina")

	all, err := h.uc.ListExchanges(ctx, comercio, "", "")
	require.NoError(t, err)
	assert.Empty(t, all)

	assert.ErrorIs(t, h.uc.DeleteExchange(ctx, comercio, ex.ID), domain.ErrExchangeNotFound)
}

func TestDeleteExchange_VentaDiferenciaYaAnulada(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.seed(t, comercio, "ABC", 8)
	h.seed(t, comercio, "XYZ", 5)

	ex, err := h.uc.RegisterExchange(ctx, comercio, dto.RegisterExchangeRequest{
		Date: "2024-01-15", ReturnedCode: "ABC", DeliveredCode: "XYZ", DeliveredPrice: dec("30"), ChargeDifference: true,
	})
	require.NoError(t, err)
	_, err = h.uc.VoidSale(ctx, comercio, *ex.DifferenceSaleID)
	require.NoError(t, err)

	require.NoError(t, h.uc.DeleteExchange(ctx, comercio, ex.ID))
	assert.Equal(t, int64(8), h.stock(t, comercio, "ABC"))
}

func TestExchange_ProductoInexistenteRevierte(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.seed(t, comercio, "ABC", 8)

	_, err := h.uc.RegisterExchange(ctx, comercio, dto.RegisterExchangeRequest{
		Date: "2024-01-15", ReturnedCode: "ABC", DeliveredCode: "NOPE", DeliveredPrice: dec("10"), ChargeDifference: true,
	})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Equal(t, int64(8), h.stock(t, comercio, "ABC"), "el +1 del devuelto se revierte")
	assert.Zero(t, h.salesCount(t, comercio))

	_, err = h.uc.RegisterExchange(ctx, comercio, dto.RegisterExchangeRequest{Date: "2024-01-15", ReturnedCode: "ABC"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Saldo a favor en cuenta corriente
// ──────────────────────────────────────────────────────────────────────────────

func (h *harness) account(t *testing.T, customer string) *entity.Account {
	t.Helper()
	repos, err := h.registry.Repositories(context.Background(), comercio)
	require.NoError(t, err)
	acc, err := repos.Accounts.Get(context.Background(), customer)
	require.NoError(t, err)
	return acc
}

func TestExchange_DiferenciaNegativaComoSaldoAFavor(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.seed(t, comercio, "ABC", 8)
	h.seed(t, comercio, "XYZ", 5)

	ex, err := h.uc.RegisterExchange(ctx, comercio, dto.RegisterExchangeRequest{
		Date: "2024-01-15", ReturnedCode: "ABC", DeliveredCode: "XYZ",
		ReturnedPrice: dec("150"), DeliveredPrice: dec("100.50"), CreditCustomer: " Ana ",
	})
	require.NoError(t, err)
	assert.Nil(t, ex.DifferenceSaleID)
	require.NotNil(t, ex.CreditMovementID)
	assert.Zero(t, h.salesCount(t, comercio))

	acc := h.account(t, "Ana")
	require.NotNil(t, acc, "la cuenta se crea en la misma transacción")
	assert.True(t, dec("49.50").Equal(acc.Credit))
	assert.True(t, dec("-49.50").Equal(acc.Balance()), "saldo negativo: el comercio le debe")

	repos, err := h.registry.Repositories(ctx, comercio)
	require.NoError(t, err)
	movs, err := repos.Movements.ListByCustomer(ctx, "Ana")
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, *ex.CreditMovementID, movs[0].ID)
	assert.Equal(t, entity.MovementCredit, movs[0].Kind)
	assert.Equal(t, "Saldo a favor por cambio", movs[0].Comment)
	assert.Equal(t, "2024-01-15", movs[0].Date)

	all, err := h.uc.ListExchanges(ctx, comercio, "", "")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, ex.CreditMovementID, all[0].CreditMovementID)

	require.NoError(t, h.uc.DeleteExchange(ctx, comercio, ex.ID))
	acc = h.account(t, "Ana")
	require.NotNil(t, acc)
	assert.True(t, acc.Credit.IsZero(), "el saldo a favor se descuenta al deshacer el cambio")
	movs, err = repos.Movements.ListByCustomer(ctx, "Ana")
	require.NoError(t, err)
	assert.Empty(t, movs)
}

func TestExchange_SaldoAFavorSoloConDiferenciaNegativa(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.seed(t, comercio, "ABC", 8)
	h.seed(t, comercio, "XYZ", 5)

	ex, err := h.uc.RegisterExchange(ctx, comercio, dto.RegisterExchangeRequest{
		Date: "2024-01-15", ReturnedCode: "ABC", DeliveredCode: "XYZ",
		ReturnedPrice: dec("100"), DeliveredPrice: dec("100"), CreditCustomer: "Ana",
	})
	require.NoError(t, err)
	assert.Nil(t, ex.CreditMovementID)
	assert.Nil(t, h.account(t, "Ana"), "sin diferencia no se crea la cuenta")
}

func TestExchange_FalloNoDejaSaldoAFavor(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.seed(t, comercio, "ABC", 8)

	_, err := h.uc.RegisterExchange(ctx, comercio, dto.RegisterExchangeRequest{
		Date: "2024-01-15", ReturnedCode: "ABC", DeliveredCode: "NOPE",
		ReturnedPrice: dec("100"), DeliveredPrice: dec("40"), CreditCustomer: "Ana",
	})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Nil(t, h.account(t, "Ana"))
	assert.Equal(t, int64(8), h.stock(t, comercio, "ABC"))
}

func TestExchange_SinFechaSeRechaza(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.seed(t, comercio, "ABC", 8)
	h.seed(t, comercio, "XYZ", 5)

	_, err := h.uc.RegisterExchange(ctx, comercio, dto.RegisterExchangeRequest{
		ReturnedCode: "ABC", DeliveredCode: "XYZ", DeliveredPrice: dec("10"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, int64(8), h.stock(t, comercio, "ABC"))
	assert.Equal(t, int64(5), h.stock(t, comercio, "XYZ"))
}
