package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionFailure(t *testing.T) {
	assert.NoError(t, TransactionFailure(nil))

	assert.Same(t, ErrSaleNotFound, TransactionFailure(ErrSaleNotFound), "los errores de dominio pasan tal cual")

	err := TransactionFailure(errors.New("database is locked"))
	assert.ErrorIs(t, err, ErrTransaction)
	assert.Contains(t, err.Error(), "database is locked")
}

func TestVariantesDeNotFound(t *testing.T) {
	for _, err := range []error{ErrProductNotFound, ErrSaleNotFound, ErrAccountNotFound, ErrBackupNotFound, ErrExchangeNotFound, ErrTenantNotFound} {
		assert.ErrorIs(t, err, ErrNotFound)
		assert.True(t, IsDomainError(err))
	}
	assert.False(t, IsDomainError(errors.New("otro")))
	assert.ErrorIs(t, Invalid("monto %s", "-1"), ErrInvalidInput)
}

func TestRequireDate(t *testing.T) {
	d, err := RequireDate(" 2023-12-31 ")
	require.NoError(t, err)
	assert.Equal(t, "2023-12-31", d)

	_, err = RequireDate("")
	assert.ErrorIs(t, err, ErrInvalidInput, "la fecha no se completa con el día de hoy")

	_, err = RequireDate("31/12/2023")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
