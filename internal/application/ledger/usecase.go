package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/tienda-pos/internal/application/dto"
	"github.com/jhoicas/tienda-pos/internal/application/ports"
	"github.com/jhoicas/tienda-pos/internal/domain"
	"github.com/jhoicas/tienda-pos/internal/domain/entity"
	"github.com/jhoicas/tienda-pos/internal/domain/repository"
	"github.com/jhoicas/tienda-pos/pkg/logger"
)

// UseCase cuentas corrientes (fiado). Los acumulados de deuda y saldo a favor se
// actualizan en la misma transacción que el movimiento que los origina.
type UseCase struct {
	tx      ports.TxRunner
	stores  ports.StoreResolver
	backups ports.Snapshotter
	log     *logger.Logger
}

// NewUseCase construye el caso de uso de cuentas corrientes.
func NewUseCase(tx ports.TxRunner, stores ports.StoreResolver, backups ports.Snapshotter, log *logger.Logger) *UseCase {
	return &UseCase{tx: tx, stores: stores, backups: backups, log: log}
}

// CreateOrGetAccount es idempotente: crea la cuenta si no existe y la devuelve.
func (uc *UseCase) CreateOrGetAccount(ctx context.Context, tenantID, customer string) (*dto.AccountResponse, error) {
	customer = strings.TrimSpace(customer)
	if customer == "" {
		return nil, domain.Invalid("cliente requerido")
	}
	var (
		acc     *entity.Account
		created bool
	)
	err := uc.tx.Run(ctx, tenantID, "create_account", func(repos repository.Repositories) error {
		var err error
		if created, err = repos.Accounts.CreateIfNotExists(ctx, customer); err != nil {
			return err
		}
		acc, err = repos.Accounts.Get(ctx, customer)
		return err
	})
	if err != nil {
		return nil, err
	}
	if created {
		uc.backups.Snapshot(ctx, tenantID, "Cuenta corriente creada", customer)
	}
	out := toAccountResponse(acc)
	out.Created = created
	return out, nil
}

// AddMovement registra un movimiento y suma el monto a la deuda o al saldo a favor.
// Sin cuenta devuelve ErrAccountNotFound y no queda ningún movimiento.
func (uc *UseCase) AddMovement(ctx context.Context, tenantID, customer string, in dto.AddMovementRequest) (*dto.MovementResponse, error) {
	kind, ok := entity.ParseMovementKind(in.Kind)
	if !ok {
		return nil, domain.Invalid("tipo de movimiento %q (debt | credit)", in.Kind)
	}
	if !in.Amount.IsPositive() {
		return nil, domain.Invalid("el monto debe ser mayor a 0")
	}
	date, err := domain.RequireDate(in.Date)
	if err != nil {
		return nil, err
	}
	m := &entity.AccountMovement{
		Customer: strings.TrimSpace(customer),
		Kind:     kind,
		Amount:   in.Amount,
		Date:     date,
		Comment:  strings.TrimSpace(in.Comment),
	}
	err = uc.tx.Run(ctx, tenantID, "add_account_movement", func(repos repository.Repositories) error {
		if err := repos.Movements.Create(ctx, m); err != nil {
			return err
		}
		return repos.Accounts.AddToBalance(ctx, m.Customer, m.Kind, m.Amount)
	})
	if err != nil {
		return nil, err
	}
	uc.backups.Snapshot(ctx, tenantID, "Movimiento cuenta corriente",
		fmt.Sprintf("%s: %s %s", m.Customer, m.Kind, m.Amount.StringFixed(2)))
	return toMovementResponse(m), nil
}

// DeleteAccount elimina la cuenta y todos sus movimientos en una transacción.
func (uc *UseCase) DeleteAccount(ctx context.Context, tenantID, customer string) (*dto.DeleteAccountResponse, error) {
	var deleted int64
	err := uc.tx.Run(ctx, tenantID, "delete_account", func(repos repository.Repositories) error {
		acc, err := repos.Accounts.Get(ctx, customer)
		if err != nil {
			return err
		}
		if acc == nil {
			return domain.ErrAccountNotFound
		}
		if deleted, err = repos.Movements.DeleteByCustomer(ctx, customer); err != nil {
			return err
		}
		return repos.Accounts.Delete(ctx, customer)
	})
	if err != nil {
		return nil, err
	}
	uc.backups.Snapshot(ctx, tenantID, "Cuenta corriente eliminada", fmt.Sprintf("%s (%d movimientos)", customer, deleted))
	return &dto.DeleteAccountResponse{Customer: customer, DeletedMovements: deleted}, nil
}

// ListAccounts lista las cuentas con su saldo.
func (uc *UseCase) ListAccounts(ctx context.Context, tenantID string) ([]dto.AccountResponse, error) {
	repos, err := uc.stores.Repositories(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	list, err := repos.Accounts.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AccountResponse, 0, len(list))
	for _, a := range list {
		out = append(out, *toAccountResponse(a))
	}
	return out, nil
}

// GetAccount obtiene una cuenta. ErrAccountNotFound si no existe.
func (uc *UseCase) GetAccount(ctx context.Context, tenantID, customer string) (*dto.AccountResponse, error) {
	repos, err := uc.stores.Repositories(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	a, err := repos.Accounts.Get(ctx, customer)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrAccountNotFound
	}
	return toAccountResponse(a), nil
}

// ListMovements movimientos de un cliente. ErrAccountNotFound si la cuenta no existe.
func (uc *UseCase) ListMovements(ctx context.Context, tenantID, customer string) ([]dto.MovementResponse, error) {
	repos, err := uc.stores.Repositories(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	a, err := repos.Accounts.Get(ctx, customer)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrAccountNotFound
	}
	list, err := repos.Movements.ListByCustomer(ctx, customer)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, *toMovementResponse(m))
	}
	return out, nil
}

// UpdateMovementComment edita el comentario; monto y tipo son inmutables.
func (uc *UseCase) UpdateMovementComment(ctx context.Context, tenantID string, id int64, comment string) error {
	err := uc.tx.Run(ctx, tenantID, "update_movement_comment", func(repos repository.Repositories) error {
		return repos.Movements.UpdateComment(ctx, id, strings.TrimSpace(comment))
	})
	if err != nil {
		return err
	}
	uc.backups.Snapshot(ctx, tenantID, "Comentario de movimiento editado", fmt.Sprintf("ID: %d", id))
	return nil
}

func toAccountResponse(a *entity.Account) *dto.AccountResponse {
	return &dto.AccountResponse{
		Customer: a.Customer,
		Debt:     a.Debt,
		Credit:   a.Credit,
		Balance:  a.Balance(),
	}
}

func toMovementResponse(m *entity.AccountMovement) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:       m.ID,
		Customer: m.Customer,
		Kind:     m.Kind,
		Amount:   m.Amount,
		Date:     m.Date,
		Comment:  m.Comment,
	}
}
