package sqlite

import (
	"context"
	"fmt"

	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
)

// Repositories devuelve los repositorios atados a la conexión (fuera de transacción).
func (s *Store) Repositories() repository.Repositories {
	return newRepositories(s.db)
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Los errores de almacenamiento se devuelven como domain.ErrTransaction; los de dominio pasan tal cual.
func (s *Store) Run(ctx context.Context, fn func(repos repository.Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.TransactionFailure(fmt.Errorf("begin transaction: %w", err))
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(newRepositories(tx)); err != nil {
		return domain.TransactionFailure(err)
	}
	if err := tx.Commit(); err != nil {
		return domain.TransactionFailure(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

func newRepositories(q Querier) repository.Repositories {
	return repository.Repositories{
		Products:  NewProductRepository(q),
		Sales:     NewSaleRepository(q),
		Accounts:  NewAccountRepository(q),
		Movements: NewAccountMovementRepository(q),
		Cash:      NewCashRepository(q),
		Exchanges: NewExchangeRepository(q),
	}
}
